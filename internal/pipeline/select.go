package pipeline

import (
	"context"
	"fmt"

	"github.com/sneurgaonkar/sales-ai-agents/internal/hubspot"
)

// SelectFunc produces the deals a run evaluates. The batch run selects by
// pipeline stage; the debug run selects one deal by name.
type SelectFunc func(ctx context.Context, crm CRM) ([]hubspot.Deal, error)

// SelectByStages selects every deal sitting in one of the given stages.
func SelectByStages(stages []string) SelectFunc {
	return func(ctx context.Context, crm CRM) ([]hubspot.Deal, error) {
		return crm.SearchDealsByStage(ctx, stages, hubspot.DealProperties)
	}
}

// SelectByName selects a single deal by name for debug runs. An exact
// dealname match wins; otherwise the first partial match the CRM returned
// stands in. No match at all aborts the run.
func SelectByName(name string) SelectFunc {
	return func(ctx context.Context, crm CRM) ([]hubspot.Deal, error) {
		deals, err := crm.SearchDealsByName(ctx, name, hubspot.DealProperties)
		if err != nil {
			return nil, err
		}
		for _, d := range deals {
			if d.Properties["dealname"] == name {
				return []hubspot.Deal{d}, nil
			}
		}
		if len(deals) > 0 {
			return deals[:1], nil
		}
		return nil, fmt.Errorf("no deal found matching %q", name)
	}
}

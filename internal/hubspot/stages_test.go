package hubspot

import "testing"

func TestStageLabel(t *testing.T) {
	if got := StageLabel("appointmentscheduled"); got != "Demo" {
		t.Errorf("expected Demo, got %s", got)
	}
	if got := StageLabel("qualifiedtobuy"); got != "Potential Fit" {
		t.Errorf("expected Potential Fit, got %s", got)
	}
	if got := StageLabel("decisionmakerboughtin"); got != "Decision Maker Bought-In" {
		t.Errorf("expected Decision Maker Bought-In, got %s", got)
	}
	if got := StageLabel("somecustomstage"); got != "somecustomstage" {
		t.Errorf("unknown stage should pass through, got %s", got)
	}
}

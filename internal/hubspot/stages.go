package hubspot

// Labels for the pipeline stages the agent watches. Unknown codes fall
// through as-is so new stages still render.
var stageLabels = map[string]string{
	"appointmentscheduled":  "Demo",
	"qualifiedtobuy":        "Potential Fit",
	"presentationscheduled": "Presentation",
	"decisionmakerboughtin": "Decision Maker Bought-In",
}

func StageLabel(code string) string {
	if label, ok := stageLabels[code]; ok {
		return label
	}
	return code
}

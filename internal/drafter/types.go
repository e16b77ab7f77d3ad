package drafter

// ResearchSummary is the model's structured analysis of a deal, returned
// alongside the email so the team can sanity-check the reasoning.
type ResearchSummary struct {
	TheirSituation         string `json:"their_situation"`
	ProblemsBlockers       string `json:"problems_blockers"`
	CallInsights           string `json:"call_insights"`
	InternalInsights       string `json:"internal_insights"`
	WebInsights            string `json:"web_insights"`
	ApplicableCapabilities string `json:"applicable_capabilities"`
	SimilarInsights        string `json:"similar_insights"`
}

// Draft is one generated follow-up email, ready for human review.
type Draft struct {
	ResearchSummary ResearchSummary `json:"research_summary"`
	Subject         string          `json:"subject"`
	Body            string          `json:"body"`
	TalkingPoints   []string        `json:"talking_points"`
	Flags           []string        `json:"flags"`
}

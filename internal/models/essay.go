package models

// EssayFeedback is the report produced by the essay analyzer.
// Strengths, Improvements and SpecificSuggestions keep rule evaluation order.
type EssayFeedback struct {
	OverallScore        int      `json:"overallScore"`
	Strengths           []string `json:"strengths"`
	Improvements        []string `json:"improvements"`
	SpecificSuggestions []string `json:"specificSuggestions"`
	StructureAnalysis   string   `json:"structureAnalysis"`
	ContentAnalysis     string   `json:"contentAnalysis"`
	WordCount           int      `json:"wordCount"`
	SentenceCount       int      `json:"sentenceCount"`
	AvgSentenceLength   float64  `json:"avgSentenceLength"`
}

package models

// GrammarAnalysis is the result of translating a Vietnamese sentence and
// explaining the grammar of the English translation.
type GrammarAnalysis struct {
	Translation string `json:"translation"`
	Explanation string `json:"explanation"`
}

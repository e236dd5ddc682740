package models

// Correction is one suggested fix in speaking feedback
type Correction struct {
	Original    string `json:"original"`
	Corrected   string `json:"corrected"`
	Explanation string `json:"explanation"`
}

// Feedback is the evaluation of one spoken/written response. All fields
// are always present; empty slices mean "nothing to correct", never nil.
type Feedback struct {
	Corrections []Correction `json:"corrections"`
	Tips        []string     `json:"tips"`
	Overall     string       `json:"overall"`
}

// Normalize replaces nil slices so encoded feedback always carries
// corrections and tips arrays.
func (f *Feedback) Normalize() {
	if f.Corrections == nil {
		f.Corrections = []Correction{}
	}
	if f.Tips == nil {
		f.Tips = []string{}
	}
}

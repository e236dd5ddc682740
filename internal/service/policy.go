package service

// ParseFailurePolicy decides what happens when a structured AI response
// cannot be parsed or the provider call fails.
type ParseFailurePolicy int

const (
	// Fail propagates the error to the caller.
	Fail ParseFailurePolicy = iota

	// Fallback serves a canned default payload instead. The TOEIC
	// generator uses this so a provider outage never blanks the quiz.
	Fallback
)

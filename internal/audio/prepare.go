package audio

import (
	"regexp"
	"strings"
)

var (
	underscoreBlanks = regexp.MustCompile(`_{2,}`)
	bracketedBlanks  = regexp.MustCompile(`[(\[{]\s*_{2,}\s*[)\]}]`)
	dashBlanks       = regexp.MustCompile(`\x{2014}|\x{2013}|-{3,}`)
	extraWhitespace  = regexp.MustCompile(`\s{2,}`)
	spaceBeforePunct = regexp.MustCompile(`\s+([,.!?;:])`)
)

// PrepareTextForSpeech rewrites fill-in-the-blank markers as the audible
// cue "blank" so question text reads naturally when spoken.
func PrepareTextForSpeech(text string) string {
	out := underscoreBlanks.ReplaceAllString(text, " blank ")
	out = bracketedBlanks.ReplaceAllString(out, " blank ")
	out = dashBlanks.ReplaceAllString(out, " blank ")
	out = extraWhitespace.ReplaceAllString(out, " ")
	out = spaceBeforePunct.ReplaceAllString(out, "$1")
	return strings.TrimSpace(out)
}

package relay

import "unicode/utf8"

// Decoder converts a stream of byte chunks into text fragments. A chunk
// boundary may fall inside a multi-byte UTF-8 sequence; the incomplete
// tail is held back and prepended to the next chunk, so emitted fragments
// never contain a torn character.
type Decoder struct {
	pending []byte
}

// Decode returns the longest valid prefix of the pending bytes plus p,
// retaining any trailing incomplete sequence for the next call.
func (d *Decoder) Decode(p []byte) string {
	buf := append(d.pending, p...)

	// Find where the last complete rune ends.
	complete := len(buf)
	for i := len(buf) - 1; i >= 0 && len(buf)-i <= utf8.UTFMax; i-- {
		b := buf[i]
		if b < utf8.RuneSelf {
			break // ASCII tail, everything is complete
		}
		if !utf8.RuneStart(b) {
			continue
		}
		// b starts a multi-byte sequence; hold it back unless the
		// sequence is fully present.
		if r, _ := utf8.DecodeRune(buf[i:]); r == utf8.RuneError && !validErrorEncoding(buf[i:]) {
			complete = i
		}
		break
	}

	out := string(buf[:complete])
	d.pending = append(d.pending[:0], buf[complete:]...)
	return out
}

// Flush returns whatever is still pending, decoded permissively. Called
// once at end of stream; a genuinely truncated character comes out as
// the replacement rune rather than being dropped.
func (d *Decoder) Flush() string {
	if len(d.pending) == 0 {
		return ""
	}
	out := string(d.pending)
	d.pending = d.pending[:0]
	return out
}

// validErrorEncoding reports whether b begins with a literal encoding of
// U+FFFD, which DecodeRune cannot distinguish from an invalid sequence.
func validErrorEncoding(b []byte) bool {
	const repl = "�"
	return len(b) >= len(repl) && string(b[:len(repl)]) == repl
}

package relay

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talktalk/internal/ai"
)

func TestDecoderSplitMultibyte(t *testing.T) {
	// "chào" with the byte sequence of "à" split across chunks.
	raw := []byte("chào")
	var d Decoder

	first := d.Decode(raw[:3]) // splits the two-byte à
	second := d.Decode(raw[3:])

	assert.Equal(t, "ch", first, "torn character must be held back")
	assert.Equal(t, "ào", second)
	assert.Empty(t, d.Flush())
}

func TestDecoderAllBoundaries(t *testing.T) {
	// Four-byte emoji split at every possible boundary.
	raw := []byte("ok\U0001F600go")

	for split := 1; split < len(raw); split++ {
		var d Decoder
		got := d.Decode(raw[:split]) + d.Decode(raw[split:]) + d.Flush()
		assert.Equal(t, "ok\U0001F600go", got, "split at %d", split)
	}
}

func TestDecoderInvalidBytes(t *testing.T) {
	var d Decoder
	// A lone continuation byte cannot start a sequence; it passes
	// straight through (as the replacement rune) instead of blocking
	// the stream.
	assert.NotEmpty(t, d.Decode([]byte{0x80}))
	assert.Empty(t, d.Flush())
}

func source(chunks ...ai.StreamChunk) <-chan ai.StreamChunk {
	ch := make(chan ai.StreamChunk, len(chunks))
	for _, c := range chunks {
		ch <- c
	}
	close(ch)
	return ch
}

func TestForwardOrder(t *testing.T) {
	var sb strings.Builder
	got, err := Forward(&sb, source(
		ai.StreamChunk{Delta: "Hel"},
		ai.StreamChunk{Delta: "lo, "},
		ai.StreamChunk{Delta: "world!"},
		ai.StreamChunk{Done: true},
	))
	require.NoError(t, err)
	assert.Equal(t, "Hello, world!", got)
	assert.Equal(t, "Hello, world!", sb.String())
}

func TestForwardUpstreamErrorKeepsPartialOutput(t *testing.T) {
	upstreamErr := errors.New("connection reset")

	var sb strings.Builder
	got, err := Forward(&sb, source(
		ai.StreamChunk{Delta: "partial "},
		ai.StreamChunk{Delta: "answer"},
		ai.StreamChunk{Done: true, Err: upstreamErr},
	))

	assert.ErrorIs(t, err, upstreamErr)
	assert.Equal(t, "partial answer", sb.String(), "delivered fragments are not retracted")
	assert.Equal(t, "partial answer", got)
}

type failingWriter struct {
	writes int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	w.writes++
	if w.writes > 1 {
		return 0, errors.New("broken pipe")
	}
	return len(p), nil
}

func TestForwardConsumerFailureDrainsUpstream(t *testing.T) {
	ch := make(chan ai.StreamChunk, 3)
	ch <- ai.StreamChunk{Delta: "one"}
	ch <- ai.StreamChunk{Delta: "two"}
	ch <- ai.StreamChunk{Delta: "three"}
	close(ch)

	w := &failingWriter{}
	_, err := Forward(w, ch)
	require.Error(t, err)

	// The channel must be fully drained so the producer goroutine is
	// never left blocked.
	_, open := <-ch
	assert.False(t, open)
}

func TestReadAll(t *testing.T) {
	var fragments []string
	got, err := ReadAll(context.Background(), strings.NewReader("Hello, thế giới!"), func(s string) {
		fragments = append(fragments, s)
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello, thế giới!", got)
	assert.Equal(t, got, strings.Join(fragments, ""))
}

func TestReadAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReadAll(ctx, strings.NewReader("never read"), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

// oneByteReader returns a single byte per Read call, forcing the decoder
// to reassemble every multi-byte sequence.
type oneByteReader struct {
	data []byte
	pos  int
}

func (r *oneByteReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	p[0] = r.data[r.pos]
	r.pos++
	return 1, nil
}

func TestReadAllByteAtATime(t *testing.T) {
	text := "tiếng Việt \U0001F1FB\U0001F1F3"
	got, err := ReadAll(context.Background(), &oneByteReader{data: []byte(text)}, nil)
	require.NoError(t, err)
	assert.Equal(t, text, got)
}

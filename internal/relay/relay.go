// Package relay moves text chunks from an upstream completion stream to a
// downstream consumer in arrival order. No reordering, no coalescing:
// each fragment is forwarded as soon as it is decoded, and the output is
// ended exactly once on every exit path.
package relay

import (
	"context"
	"io"
	"log"
	"net/http"
	"strings"

	"talktalk/internal/ai"
)

// Forward writes each delta from chunks to w in arrival order, flushing
// after every write when w supports it. An upstream error is logged and
// the stream is ended normally: fragments already delivered remain valid
// and are not retracted. Returns the full concatenated text.
func Forward(w io.Writer, chunks <-chan ai.StreamChunk) (string, error) {
	flusher, _ := w.(http.Flusher)

	var sb strings.Builder
	var streamErr error

	for chunk := range chunks {
		if chunk.Err != nil {
			streamErr = chunk.Err
			log.Printf("stream relay: upstream error: %v", chunk.Err)
			break
		}
		if chunk.Done {
			break
		}
		if chunk.Delta == "" {
			continue
		}

		sb.WriteString(chunk.Delta)
		if _, err := io.WriteString(w, chunk.Delta); err != nil {
			// Consumer went away; drain upstream and stop.
			log.Printf("stream relay: write failed: %v", err)
			for range chunks {
			}
			return sb.String(), err
		}
		if flusher != nil {
			flusher.Flush()
		}
	}

	return sb.String(), streamErr
}

// ReadAll consumes a streamed text body, decoding raw byte chunks
// incrementally and invoking onChunk with each decoded fragment. Chunk
// boundaries may split multi-byte characters; fragments passed to
// onChunk never do. Returns the concatenation of all fragments.
func ReadAll(ctx context.Context, r io.Reader, onChunk func(string)) (string, error) {
	var decoder Decoder
	var sb strings.Builder
	buf := make([]byte, 4096)

	for {
		if err := ctx.Err(); err != nil {
			return sb.String(), err
		}

		n, err := r.Read(buf)
		if n > 0 {
			if text := decoder.Decode(buf[:n]); text != "" {
				sb.WriteString(text)
				if onChunk != nil {
					onChunk(text)
				}
			}
		}
		if err == io.EOF {
			if tail := decoder.Flush(); tail != "" {
				sb.WriteString(tail)
				if onChunk != nil {
					onChunk(tail)
				}
			}
			return sb.String(), nil
		}
		if err != nil {
			return sb.String(), err
		}
	}
}

package ai

import (
	"context"
	"encoding/json"
	"io"
)

// StreamChunk is one event from a streamed completion.
type StreamChunk struct {
	// Delta is the text fragment added by this chunk. Empty on the
	// terminal chunk.
	Delta string

	// Done is true on the terminal chunk.
	Done bool

	// Err is set when the stream ended abnormally. Deltas already
	// delivered remain valid.
	Err error
}

// streamChunkBody is the wire format of an SSE streaming event.
type streamChunkBody struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
}

// CompleteStream sends a streaming completion request. Chunks arrive on the
// returned channel in provider order; the channel is closed after a terminal
// chunk (Done or Err) has been delivered. Cancelling ctx ends the stream.
func (c *Client) CompleteStream(ctx context.Context, req Request) (<-chan StreamChunk, error) {
	body, err := c.do(ctx, req, true)
	if err != nil {
		return nil, err
	}

	out := make(chan StreamChunk)
	go c.streamResponse(ctx, body, out)
	return out, nil
}

// streamResponse reads the SSE stream and forwards content deltas.
func (c *Client) streamResponse(ctx context.Context, body io.ReadCloser, out chan<- StreamChunk) {
	defer close(out)
	defer body.Close()

	scanner := newSSEScanner(body)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			out <- StreamChunk{Done: true, Err: ctx.Err()}
			return
		default:
		}

		data := scanner.Data()
		if data == "[DONE]" {
			out <- StreamChunk{Done: true}
			return
		}

		var chunk streamChunkBody
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			continue // skip malformed chunks
		}
		if len(chunk.Choices) == 0 {
			continue
		}

		choice := chunk.Choices[0]
		if choice.Delta.Content != "" {
			out <- StreamChunk{Delta: choice.Delta.Content}
		}

		if choice.FinishReason != nil {
			out <- StreamChunk{Done: true}
			return
		}
	}

	// Upstream closed without [DONE]; report any transport error.
	out <- StreamChunk{Done: true, Err: scanner.Err()}
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/loomchat/loom/pkg/logger"
)

// ChatRequest is the begin-stream request body. Context carries the full
// prior transcript the caller wants visible to the model, oldest first.
type ChatRequest struct {
	Message  string           `json:"message"`
	Model    string           `json:"model,omitempty"`
	Context  []ContextMessage `json:"context"`
	ThreadID string           `json:"threadId,omitempty"`
}

// ContextMessage is one prior exchange entry, stripped to what the model
// needs.
type ContextMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chunk is one unit of assistant text. Err is set instead of Content when
// reading the stream failed; no further chunks follow an error.
type Chunk struct {
	Content string
	Err     error
}

// ChatStream is a live streaming exchange. ThreadID is the identifier of a
// thread the server created for this exchange, taken from response metadata
// before the body is drained; empty when the request named an existing
// thread. Chunks closes on clean end-of-stream.
type ChatStream struct {
	ThreadID string
	Chunks   <-chan Chunk
}

const threadIDHeader = "X-Thread-Id"

// StreamChat begins a streaming exchange. A returned error is always a
// *TransportError and means no chunk was ever produced; failures after a
// successful start surface as a *StreamReadError chunk.
func (c *Client) StreamChat(ctx context.Context, req ChatRequest) (*ChatStream, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &TransportError{Message: "failed to marshal request", Cause: err}
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, "/chat/stream", bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Message: "failed to build request", Cause: err}
	}

	logger.Debug("Starting chat stream (model=%s thread=%s context=%d)", req.Model, req.ThreadID, len(req.Context))

	resp, err := c.streamClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()

		var env envelope
		if json.Unmarshal(raw, &env) == nil && env.Error != "" {
			return nil, &TransportError{Status: resp.StatusCode, Message: env.Error}
		}
		return nil, &TransportError{Status: resp.StatusCode, Message: string(bytes.TrimSpace(raw))}
	}

	threadID := resp.Header.Get(threadIDHeader)
	if threadID != "" {
		logger.Debug("Server assigned thread id %s", threadID)
	}

	chunks := make(chan Chunk, 16)
	go readStream(ctx, resp.Body, chunks)

	return &ChatStream{
		ThreadID: threadID,
		Chunks:   chunks,
	}, nil
}

// readStream drains the response body sequentially, forwarding text chunks.
// Chunks are cut on rune boundaries so a multi-byte character split across
// two reads never reaches the transcript half-decoded.
func readStream(ctx context.Context, body io.ReadCloser, chunks chan<- Chunk) {
	defer close(chunks)
	defer body.Close()

	buf := make([]byte, 4096)
	var carry []byte

	for {
		n, err := body.Read(buf)
		if n > 0 {
			data := append(carry, buf[:n]...)
			cut := utf8Boundary(data)
			carry = append([]byte(nil), data[cut:]...)

			if cut > 0 {
				select {
				case chunks <- Chunk{Content: string(data[:cut])}:
				case <-ctx.Done():
					chunks <- Chunk{Err: &StreamReadError{Cause: ctx.Err()}}
					return
				}
			}
		}

		if err == io.EOF {
			if len(carry) > 0 {
				chunks <- Chunk{Content: string(carry)}
			}
			return
		}
		if err != nil {
			if ctx.Err() != nil {
				err = ctx.Err()
			}
			chunks <- Chunk{Err: &StreamReadError{Cause: err}}
			return
		}
	}
}

// utf8Boundary returns the length of the longest prefix of data that ends on
// a complete rune. At most the trailing bytes of one truncated sequence are
// held back; byte runs that cannot be a truncated rune pass through whole.
func utf8Boundary(data []byte) int {
	n := len(data)
	start := n - 1
	for start >= 0 && !utf8.RuneStart(data[start]) {
		if n-start >= utf8.UTFMax {
			return n
		}
		start--
	}
	if start < 0 {
		return n
	}
	if utf8.FullRune(data[start:]) {
		return n
	}
	return start
}

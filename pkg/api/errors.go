package api

import "fmt"

// TransportError reports a failure of the initiating HTTP call: the network
// round trip itself, a non-success status, or a rejected request. It is
// always returned before any chunk has been produced.
type TransportError struct {
	Status  int // HTTP status, 0 when the call never completed
	Message string
	Cause   error
}

func (e *TransportError) Error() string {
	switch {
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("chat stream request failed with status %d: %s", e.Status, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("chat stream request failed with status %d", e.Status)
	case e.Cause != nil:
		return fmt.Sprintf("chat stream request failed: %v", e.Cause)
	default:
		return "chat stream request failed"
	}
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// StreamReadError reports a failure while draining chunks after the stream
// started successfully, including cancellation. Distinguished from a clean
// end-of-stream, which closes the chunk channel without an error.
type StreamReadError struct {
	Cause error
}

func (e *StreamReadError) Error() string {
	return fmt.Sprintf("stream read failed: %v", e.Cause)
}

func (e *StreamReadError) Unwrap() error {
	return e.Cause
}

// RequestError reports a failed non-streaming API call (threads, models).
type RequestError struct {
	Status  int
	Path    string
	Message string
	Cause   error
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s failed: %s", e.Path, e.Message)
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s failed with status %d", e.Path, e.Status)
	}
	return fmt.Sprintf("%s failed: %v", e.Path, e.Cause)
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

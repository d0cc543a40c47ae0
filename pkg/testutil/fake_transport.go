package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/loomchat/loom/pkg/api"
)

// FakeTransport implements the session's Transport interface with a scripted
// stream. Tests control the thread id the "server" assigns, the chunks it
// emits, and where (if anywhere) it fails.
type FakeTransport struct {
	ThreadID   string        // Assigned thread id, empty for none
	Chunks     []string      // Chunks emitted in order
	StartErr   error         // Returned by StreamChat before any chunk
	FailAfter  int           // Emit a StreamReadError after this many chunks (0 = never)
	ReadErr    error         // The error injected when FailAfter trips
	ChunkDelay time.Duration // Delay between chunks

	// Started is closed (once) when StreamChat is called; Release, when
	// non-nil, blocks StreamChat from returning until the test closes it.
	Started   chan struct{}
	Release   chan struct{}
	startOnce sync.Once

	mu       sync.Mutex
	requests []api.ChatRequest
}

// NewFakeTransport scripts a stream that assigns threadID and replies with
// the given chunks.
func NewFakeTransport(threadID string, chunks ...string) *FakeTransport {
	return &FakeTransport{
		ThreadID: threadID,
		Chunks:   chunks,
		Started:  make(chan struct{}),
	}
}

// StreamChat implements the Transport interface.
func (f *FakeTransport) StreamChat(ctx context.Context, req api.ChatRequest) (*api.ChatStream, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.Started != nil {
		f.startOnce.Do(func() { close(f.Started) })
	}
	if f.Release != nil {
		select {
		case <-f.Release:
		case <-ctx.Done():
			return nil, &api.TransportError{Cause: ctx.Err()}
		}
	}
	if f.StartErr != nil {
		return nil, f.StartErr
	}

	out := make(chan api.Chunk, len(f.Chunks)+1)
	go func() {
		defer close(out)
		for i, content := range f.Chunks {
			if f.FailAfter > 0 && i >= f.FailAfter {
				readErr := f.ReadErr
				if readErr == nil {
					readErr = &api.StreamReadError{Cause: context.Canceled}
				}
				out <- api.Chunk{Err: readErr}
				return
			}
			if f.ChunkDelay > 0 {
				time.Sleep(f.ChunkDelay)
			}
			select {
			case <-ctx.Done():
				out <- api.Chunk{Err: &api.StreamReadError{Cause: ctx.Err()}}
				return
			default:
			}
			out <- api.Chunk{Content: content}
		}
	}()

	return &api.ChatStream{
		ThreadID: f.ThreadID,
		Chunks:   out,
	}, nil
}

// Requests returns every begin-stream request seen so far.
func (f *FakeTransport) Requests() []api.ChatRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]api.ChatRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

// LastRequest returns the most recent request, or a zero value if none.
func (f *FakeTransport) LastRequest() api.ChatRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.requests) == 0 {
		return api.ChatRequest{}
	}
	return f.requests[len(f.requests)-1]
}

// FakeThreadDirectory implements the session's ThreadDirectory interface
// from a canned message map.
type FakeThreadDirectory struct {
	MessagesByThread map[string][]api.ThreadMessage
	Err              error

	mu    sync.Mutex
	calls []string
}

func NewFakeThreadDirectory() *FakeThreadDirectory {
	return &FakeThreadDirectory{
		MessagesByThread: make(map[string][]api.ThreadMessage),
	}
}

// ThreadMessages implements the ThreadDirectory interface.
func (f *FakeThreadDirectory) ThreadMessages(ctx context.Context, threadID string) ([]api.ThreadMessage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, threadID)
	f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	return f.MessagesByThread[threadID], nil
}

// Calls returns the thread ids hydration was requested for, in order.
func (f *FakeThreadDirectory) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

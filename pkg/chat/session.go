package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/loomchat/loom/pkg/api"
	"github.com/loomchat/loom/pkg/logger"
)

// Transport begins one streaming exchange with the backend.
type Transport interface {
	StreamChat(ctx context.Context, req api.ChatRequest) (*api.ChatStream, error)
}

// ThreadDirectory is the slice of the thread service the session needs: the
// persisted history of a thread, fetched once when it first becomes current.
type ThreadDirectory interface {
	ThreadMessages(ctx context.Context, threadID string) ([]api.ThreadMessage, error)
}

// StreamCallback is called with each chunk of streamed content as it lands
// in the transcript.
type StreamCallback func(content string)

// HydrationError reports a failure to load a thread's persisted history when
// switching to it. Nothing is rolled back; no optimistic write happened.
type HydrationError struct {
	ThreadID string
	Cause    error
}

func (e *HydrationError) Error() string {
	return fmt.Sprintf("failed to load messages for thread %s: %v", e.ThreadID, e.Cause)
}

func (e *HydrationError) Unwrap() error {
	return e.Cause
}

// Session drives one conversation end to end: optimistic inserts, the
// streaming request, thread adoption when the server creates a conversation
// mid-flight, chunk-by-chunk transcript updates, and rollback on failure.
//
// Messages sent before the server has assigned a thread id accumulate in a
// temporary buffer; the moment an id arrives the buffer moves into the
// store's thread bucket and stays there.
//
// All failures land in a single error slot readable via Err; Send also
// returns the error for callers that want it inline. The slot clears itself
// at the start of the next send.
type Session struct {
	store     *Store
	transport Transport
	directory ThreadDirectory

	mu             sync.Mutex
	temp           []Message
	lastErr        error
	cancel         context.CancelFunc
	streamCallback StreamCallback
}

// NewSession creates a session over the given store and collaborators.
// directory may be nil when thread hydration is not needed.
func NewSession(store *Store, transport Transport, directory ThreadDirectory) *Session {
	return &Session{
		store:     store,
		transport: transport,
		directory: directory,
	}
}

// SetStreamCallback registers a callback invoked for every streamed chunk.
func (s *Session) SetStreamCallback(cb StreamCallback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streamCallback = cb
}

// Send submits one user message and drains the assistant's streamed reply
// into the transcript. It returns the thread id the exchange landed in,
// which may have been newly assigned by the server. An empty text is a
// no-op. On failure the assistant placeholder is removed, the user message
// stays, and the error is recorded in the slot as well as returned.
func (s *Session) Send(ctx context.Context, text, model string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	s.setErr(nil)

	// The thread handle is captured once here; every write below targets it
	// (or the buffer) even if the current thread changes mid-stream.
	threadID := s.store.CurrentThreadID()
	userMsg := NewUserMessage(text)

	// Optimistic insert: the user's message is visible before any network
	// I/O starts.
	var withUser []Message
	if threadID != "" {
		withUser = append(s.store.Messages(threadID), userMsg)
		s.store.ReplaceMessages(threadID, withUser)
	} else {
		withUser = s.appendTemp(userMsg)
	}

	// The placeholder the stream will fill in.
	placeholder := NewAssistantMessage("", model)
	withAssistant := append(append([]Message(nil), withUser...), placeholder)
	if threadID != "" {
		s.store.ReplaceMessages(threadID, withAssistant)
	} else {
		s.setTemp(withAssistant)
	}
	s.store.SetStreaming(true)

	req := api.ChatRequest{
		Message:  userMsg.Content,
		Model:    model,
		Context:  contextMessages(withUser),
		ThreadID: threadID,
	}

	streamCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
	defer func() {
		cancel()
		s.mu.Lock()
		s.cancel = nil
		s.mu.Unlock()
	}()

	stream, err := s.transport.StreamChat(streamCtx, req)
	if err != nil {
		logger.Error("Chat stream failed to start: %v", err)
		s.fail(threadID, err)
		return "", err
	}

	// Thread adoption: exactly once per send, first id wins. The buffered
	// messages move into the new bucket and the buffer empties.
	if threadID == "" && stream.ThreadID != "" {
		threadID = stream.ThreadID
		s.store.SetCurrentThread(threadID)
		s.store.ReplaceMessages(threadID, withAssistant)
		s.setTemp(nil)
		logger.Info("Adopted new thread %s", threadID)
	}

	var accumulated strings.Builder
	for chunk := range stream.Chunks {
		if chunk.Err != nil {
			logger.Error("Chat stream broke mid-reply: %v", chunk.Err)
			s.fail(threadID, chunk.Err)
			return "", chunk.Err
		}

		accumulated.WriteString(chunk.Content)
		updated := withPlaceholderContent(withAssistant, placeholder.ID, accumulated.String())
		if threadID != "" {
			s.store.ReplaceMessages(threadID, updated)
		} else {
			s.setTemp(updated)
		}

		if cb := s.callback(); cb != nil {
			cb(chunk.Content)
		}
	}

	s.store.SetStreaming(false)
	logger.Debug("Chat stream complete (thread=%s chars=%d)", threadID, accumulated.Len())
	return threadID, nil
}

// Stop aborts the in-flight stream, if any. The send unwinds through the
// rollback path: the partial assistant reply is discarded and the error slot
// is set.
func (s *Session) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// SwitchThread makes threadID the active conversation and hydrates its
// bucket from the thread directory the first time. An empty id switches to a
// fresh, thread-less conversation.
func (s *Session) SwitchThread(ctx context.Context, threadID string) error {
	s.store.SetCurrentThread(threadID)
	if threadID == "" || s.directory == nil {
		return nil
	}
	if len(s.store.Messages(threadID)) > 0 {
		// Already hydrated; in-memory copy wins
		return nil
	}

	records, err := s.directory.ThreadMessages(ctx, threadID)
	if err != nil {
		herr := &HydrationError{ThreadID: threadID, Cause: err}
		logger.Error("%v", herr)
		s.setErr(herr)
		return herr
	}

	msgs := FromThreadRecords(records)
	s.store.ReplaceMessages(threadID, msgs)
	logger.Debug("Hydrated thread %s with %d messages", threadID, len(msgs))
	return nil
}

// Clear returns the session to the pristine new-conversation state: the
// current thread's bucket is emptied, the temporary buffer and error slot
// are cleared, and no thread is current. Other threads are untouched.
func (s *Session) Clear() {
	if threadID := s.store.CurrentThreadID(); threadID != "" {
		s.store.ReplaceMessages(threadID, nil)
	}
	s.setTemp(nil)
	s.setErr(nil)
	s.store.SetCurrentThread("")
}

// Err returns the current error slot, nil when the last operation succeeded.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// ClearErr empties the error slot.
func (s *Session) ClearErr() {
	s.setErr(nil)
}

// IsStreaming reports whether a send is mid-stream. Callers should disable
// the send affordance while true; the session does not serialize concurrent
// sends against one thread.
func (s *Session) IsStreaming() bool {
	return s.store.IsStreaming()
}

// CurrentThreadID returns the active thread id, empty when none.
func (s *Session) CurrentThreadID() string {
	return s.store.CurrentThreadID()
}

// SelectedModel returns the model id new sends default to.
func (s *Session) SelectedModel() string {
	return s.store.SelectedModel()
}

// SetSelectedModel records the model id new sends default to.
func (s *Session) SetSelectedModel(model string) {
	s.store.SetSelectedModel(model)
}

// fail runs the rollback path: flags cleared, error recorded, and exactly
// the trailing assistant placeholder removed from whichever bucket holds it.
// The user's message is never dropped.
func (s *Session) fail(threadID string, err error) {
	s.store.SetStreaming(false)
	s.setErr(err)

	if threadID != "" {
		msgs := s.store.Messages(threadID)
		if n := len(msgs); n > 0 && msgs[n-1].IsAssistant() {
			s.store.ReplaceMessages(threadID, msgs[:n-1])
		}
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.temp); n > 0 && s.temp[n-1].IsAssistant() {
		s.temp = s.temp[:n-1]
	}
}

func (s *Session) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
}

func (s *Session) callback() StreamCallback {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streamCallback
}

func (s *Session) appendTemp(msg Message) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.temp = append(s.temp, msg)
	out := make([]Message, len(s.temp))
	copy(out, s.temp)
	return out
}

func (s *Session) setTemp(msgs []Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.temp = append([]Message(nil), msgs...)
}

func (s *Session) tempMessages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Message, len(s.temp))
	copy(out, s.temp)
	return out
}

// contextMessages strips transcript entries down to what the model sees.
func contextMessages(msgs []Message) []api.ContextMessage {
	out := make([]api.ContextMessage, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, api.ContextMessage{Role: msg.Role, Content: msg.Content})
	}
	return out
}

// withPlaceholderContent returns a new message list in which the message
// with the given id carries content; everything else is unchanged.
func withPlaceholderContent(msgs []Message, id, content string) []Message {
	out := make([]Message, len(msgs))
	for i, msg := range msgs {
		if msg.ID == id {
			msg.Content = content
		}
		out[i] = msg
	}
	return out
}

package chat

import "sort"

// ActiveMessages derives the transcript to display for the active
// conversation: the temporary buffer while no thread is current, otherwise
// the current thread's bucket. The result is a fresh slice, stable-sorted by
// timestamp. Insertion order should already be chronological; the sort
// guarantees it regardless of write order.
func (s *Session) ActiveMessages() []Message {
	var msgs []Message
	if threadID := s.store.CurrentThreadID(); threadID != "" {
		msgs = s.store.Messages(threadID)
	} else {
		msgs = s.tempMessages()
	}

	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})
	return msgs
}

package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActiveMessages(t *testing.T) {
	t.Run("should return the temp buffer when no thread is current", func(t *testing.T) {
		store := NewStore()
		session := NewSession(store, nil, nil)
		session.setTemp([]Message{NewUserMessage("buffered")})

		msgs := session.ActiveMessages()
		require.Len(t, msgs, 1)
		assert.Equal(t, "buffered", msgs[0].Content)
	})

	t.Run("should return the current thread's bucket", func(t *testing.T) {
		store := NewStore()
		store.SetCurrentThread("T1")
		store.ReplaceMessages("T1", []Message{NewUserMessage("in thread")})

		session := NewSession(store, nil, nil)
		session.setTemp([]Message{NewUserMessage("leftover")})

		msgs := session.ActiveMessages()
		require.Len(t, msgs, 1)
		assert.Equal(t, "in thread", msgs[0].Content)
	})

	t.Run("should sort chronologically regardless of write order", func(t *testing.T) {
		base := time.Now()
		store := NewStore()
		store.SetCurrentThread("T1")
		store.ReplaceMessages("T1", []Message{
			NewUserMessage("third").WithTimestamp(base.Add(2 * time.Second)),
			NewUserMessage("first").WithTimestamp(base),
			NewUserMessage("second").WithTimestamp(base.Add(time.Second)),
		})

		session := NewSession(store, nil, nil)

		msgs := session.ActiveMessages()
		require.Len(t, msgs, 3)
		assert.Equal(t, "first", msgs[0].Content)
		assert.Equal(t, "second", msgs[1].Content)
		assert.Equal(t, "third", msgs[2].Content)
	})

	t.Run("should keep insertion order for equal timestamps", func(t *testing.T) {
		ts := time.Now()
		store := NewStore()
		store.SetCurrentThread("T1")
		store.ReplaceMessages("T1", []Message{
			NewUserMessage("question").WithTimestamp(ts),
			NewAssistantMessage("answer", "m").WithTimestamp(ts),
		})

		session := NewSession(store, nil, nil)

		msgs := session.ActiveMessages()
		require.Len(t, msgs, 2)
		assert.Equal(t, RoleUser, msgs[0].Role)
		assert.Equal(t, RoleAssistant, msgs[1].Role)
	})

	t.Run("should not alias the store's bucket", func(t *testing.T) {
		store := NewStore()
		store.SetCurrentThread("T1")
		store.ReplaceMessages("T1", []Message{NewUserMessage("original")})

		session := NewSession(store, nil, nil)

		msgs := session.ActiveMessages()
		msgs[0].Content = "mutated"

		assert.Equal(t, "original", store.Messages("T1")[0].Content)
	})
}

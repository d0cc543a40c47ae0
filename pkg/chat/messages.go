package chat

import (
	"strings"
	"time"

	"github.com/loomchat/loom/pkg/api"
	"github.com/loomchat/loom/pkg/objectid"
)

// Message is one transcript entry. ID is unique within a thread; Content of
// an assistant message is rewritten while its stream is live and settles the
// moment the stream ends.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Model     string    `json:"model,omitempty"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

func NewUserMessage(content string) Message {
	return Message{
		ID:        objectid.New(),
		Role:      RoleUser,
		Content:   strings.TrimSpace(content),
		Timestamp: time.Now(),
	}
}

func NewAssistantMessage(content, model string) Message {
	return Message{
		ID:        objectid.New(),
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: time.Now(),
		Model:     model,
	}
}

func NewSystemMessage(content string) Message {
	return Message{
		ID:        objectid.New(),
		Role:      RoleSystem,
		Content:   content,
		Timestamp: time.Now(),
	}
}

func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

func (m Message) IsAssistant() bool {
	return m.Role == RoleAssistant
}

func (m Message) IsSystem() bool {
	return m.Role == RoleSystem
}

func (m Message) IsEmpty() bool {
	return strings.TrimSpace(m.Content) == ""
}

func (m Message) WithContent(content string) Message {
	m.Content = content
	return m
}

func (m Message) WithTimestamp(t time.Time) Message {
	m.Timestamp = t
	return m
}

// FromThreadRecords converts persisted thread messages into transcript
// entries. Records without an id get a fresh one.
func FromThreadRecords(records []api.ThreadMessage) []Message {
	msgs := make([]Message, 0, len(records))
	for _, rec := range records {
		id := rec.ID
		if id == "" {
			id = objectid.New()
		}
		msgs = append(msgs, Message{
			ID:        id,
			Role:      rec.Role,
			Content:   rec.Content,
			Timestamp: rec.CreatedAt,
			Model:     rec.Model,
		})
	}
	return msgs
}

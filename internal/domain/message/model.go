package message

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrEmptyUserID  = errors.New("conversation user id is required")
	ErrEmptyContent = errors.New("message content cannot be empty")
)

// Message is one entry of a conversation between the admin desk and a
// member or trainer, as returned by the backend messaging endpoints.
type Message struct {
	ID        string
	UserID    string // the non-admin party of the conversation
	SenderID  string
	Content   string
	Mine      bool // sent by the viewing account
	ReadAt    time.Time
	CreatedAt time.Time
}

// Validate checks an outgoing message before it is posted.
// PRE: Message struct is populated
// POST: Returns nil if valid, error otherwise
func (m *Message) Validate() error {
	if m.UserID == "" {
		return ErrEmptyUserID
	}
	if m.Content == "" {
		return ErrEmptyContent
	}
	return nil
}

// IsRead returns true if the message has been read.
// INVARIANT: ReadAt field is not mutated
func (m *Message) IsRead() bool {
	return !m.ReadAt.IsZero()
}

// Conversation is a message thread summary for the inbox list.
type Conversation struct {
	UserID      string
	UserName    string
	LastMessage string
	LastAt      time.Time
	Unread      int
}

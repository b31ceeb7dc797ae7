package message

import (
	"context"

	"gymportal/internal/adapters/backend"
	domain "gymportal/internal/domain/message"
)

// Client is the messaging surface of the backend.
type Client interface {
	// Conversations lists thread summaries for the inbox (GET /messages).
	Conversations(ctx context.Context, token string) ([]domain.Conversation, error)
	// Thread fetches one conversation (GET /messages/{userId}).
	Thread(ctx context.Context, token, userID string) ([]domain.Message, error)
	// Send posts a message into a conversation (POST /messages/{userId}).
	Send(ctx context.Context, token, userID, content string) (domain.Message, error)
}

// RESTClient implements Client against the gym backend.
type RESTClient struct {
	api *backend.Client
}

// NewRESTClient creates a new messaging client.
func NewRESTClient(api *backend.Client) *RESTClient {
	return &RESTClient{api: api}
}

type wireConversation struct {
	UserID      any    `json:"user_id"`
	UserName    string `json:"user_name"`
	Name        string `json:"name"`
	LastMessage string `json:"last_message"`
	LastAt      string `json:"last_at"`
	Unread      any    `json:"unread"`
}

type wireMessage struct {
	ID        any    `json:"id"`
	UserID    any    `json:"user_id"`
	SenderID  any    `json:"sender_id"`
	Content   string `json:"content"`
	Body      string `json:"body"`
	Mine      bool   `json:"mine"`
	ReadAt    string `json:"read_at"`
	CreatedAt string `json:"created_at"`
}

func (w wireMessage) normalize() domain.Message {
	m := domain.Message{
		ID:        backend.StringID(w.ID),
		UserID:    backend.StringID(w.UserID),
		SenderID:  backend.StringID(w.SenderID),
		Content:   w.Content,
		Mine:      w.Mine,
		ReadAt:    backend.ParseTime(w.ReadAt),
		CreatedAt: backend.ParseTime(w.CreatedAt),
	}
	if m.Content == "" {
		m.Content = w.Body
	}
	return m
}

func (c *RESTClient) Conversations(ctx context.Context, token string) ([]domain.Conversation, error) {
	var wires []wireConversation
	if err := c.api.Get(ctx, token, "/messages", &wires); err != nil {
		return nil, err
	}
	convs := make([]domain.Conversation, 0, len(wires))
	for _, w := range wires {
		conv := domain.Conversation{
			UserID:      backend.StringID(w.UserID),
			UserName:    w.UserName,
			LastMessage: w.LastMessage,
			LastAt:      backend.ParseTime(w.LastAt),
			Unread:      backend.ParseInt(w.Unread),
		}
		if conv.UserName == "" {
			conv.UserName = w.Name
		}
		convs = append(convs, conv)
	}
	return convs, nil
}

func (c *RESTClient) Thread(ctx context.Context, token, userID string) ([]domain.Message, error) {
	var wires []wireMessage
	if err := c.api.Get(ctx, token, "/messages/"+userID, &wires); err != nil {
		return nil, err
	}
	msgs := make([]domain.Message, 0, len(wires))
	for _, w := range wires {
		msgs = append(msgs, w.normalize())
	}
	return msgs, nil
}

func (c *RESTClient) Send(ctx context.Context, token, userID, content string) (domain.Message, error) {
	var w wireMessage
	body := map[string]string{"content": content}
	if err := c.api.PostJSON(ctx, token, "/messages/"+userID, body, &w); err != nil {
		return domain.Message{}, err
	}
	return w.normalize(), nil
}

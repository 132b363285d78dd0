package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"yatube/internal/models"

	"github.com/nats-io/nats.go"
)

const (
	SubjectPostCreated   = "post.created"
	SubjectFollowCreated = "follow.created"
)

type Publisher interface {
	PublishPostCreated(ctx context.Context, post *models.Post) error
	PublishFollowCreated(ctx context.Context, follow *models.Follow) error
	Close()
}

type PostCreatedEvent struct {
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	GroupID   *string   `json:"group_id,omitempty"`
	Text      string    `json:"text"`
	HasImage  bool      `json:"has_image"`
	CreatedAt time.Time `json:"created_at"`
}

type FollowCreatedEvent struct {
	UserID    string    `json:"user_id"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

func NewPostCreatedMsg(post *models.Post) (*nats.Msg, error) {
	data, err := json.Marshal(PostCreatedEvent{
		PostID:    post.PostID,
		AuthorID:  post.AuthorID,
		GroupID:   post.GroupID,
		Text:      post.String(),
		HasImage:  post.Image != nil,
		CreatedAt: post.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации события: %w", err)
	}

	return &nats.Msg{Subject: SubjectPostCreated, Data: data, Header: nats.Header{}}, nil
}

func NewFollowCreatedMsg(follow *models.Follow) (*nats.Msg, error) {
	data, err := json.Marshal(FollowCreatedEvent{
		UserID:    follow.UserID,
		AuthorID:  follow.AuthorID,
		CreatedAt: follow.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации события: %w", err)
	}

	return &nats.Msg{Subject: SubjectFollowCreated, Data: data, Header: nats.Header{}}, nil
}

type msgPublisher interface {
	PublishMsg(m *nats.Msg) error
}

type NatsPublisher struct {
	conn msgPublisher
	nc   *nats.Conn
}

func NewNatsPublisher(nc *nats.Conn) *NatsPublisher {
	return &NatsPublisher{conn: nc, nc: nc}
}

func (p *NatsPublisher) PublishPostCreated(ctx context.Context, post *models.Post) error {
	msg, err := NewPostCreatedMsg(post)
	if err != nil {
		return err
	}
	msg.Header.Set("Post-Id", post.PostID)

	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("ошибка публикации %s: %w", msg.Subject, err)
	}
	return nil
}

func (p *NatsPublisher) PublishFollowCreated(ctx context.Context, follow *models.Follow) error {
	msg, err := NewFollowCreatedMsg(follow)
	if err != nil {
		return err
	}

	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("ошибка публикации %s: %w", msg.Subject, err)
	}
	return nil
}

func (p *NatsPublisher) Close() {
	if p.nc != nil {
		if err := p.nc.Drain(); err != nil {
			log.Printf("Ошибка при закрытии соединения с NATS: %v", err)
		}
	}
}

// NopPublisher drops every event. Used when NATS_URL is not configured.
type NopPublisher struct{}

func (NopPublisher) PublishPostCreated(context.Context, *models.Post) error     { return nil }
func (NopPublisher) PublishFollowCreated(context.Context, *models.Follow) error { return nil }
func (NopPublisher) Close()                                                     {}

// Connect returns a NopPublisher for an empty url.
func Connect(url string) (Publisher, error) {
	if url == "" {
		log.Println("NATS_URL не задан, события не публикуются")
		return NopPublisher{}, nil
	}

	nc, err := nats.Connect(url, nats.Name("yatube"))
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к NATS: %w", err)
	}

	log.Printf("Подключено к NATS: %s", url)
	return NewNatsPublisher(nc), nil
}

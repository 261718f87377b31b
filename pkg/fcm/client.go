// Package fcm sends push notifications with the Firebase Admin SDK.
package fcm

import (
	"context"
	"errors"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

const defaultTimeout = 5 * time.Second

// ErrUnregistered 앱 삭제 등으로 더 이상 유효하지 않은 토큰
var ErrUnregistered = errors.New("fcm token unregistered")

// Config FCM 설정
type Config struct {
	ProjectID       string
	CredentialsFile string
	Timeout         time.Duration
}

// Message is a single notification addressed to one registration token
type Message struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

// sender is the part of messaging.Client the client uses
type sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// Client FCM 클라이언트
type Client struct {
	messaging sender
	timeout   time.Duration
}

// NewClient builds a client from a service account JSON file
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ProjectID == "" {
		return nil, errors.New("fcm project id is required")
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID},
		option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	mc, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase messaging: %w", err)
	}
	return newClient(mc, cfg.Timeout), nil
}

func newClient(s sender, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{messaging: s, timeout: timeout}
}

// Send delivers one message and returns the FCM message name
func (c *Client) Send(ctx context.Context, msg *Message) (string, error) {
	if msg.Token == "" {
		return "", errors.New("fcm token is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	name, err := c.messaging.Send(ctx, &messaging.Message{
		Token:        msg.Token,
		Notification: &messaging.Notification{Title: msg.Title, Body: msg.Body},
		Data:         msg.Data,
	})
	if err != nil {
		if messaging.IsUnregistered(err) {
			return "", fmt.Errorf("%w: %v", ErrUnregistered, err)
		}
		return "", fmt.Errorf("fcm send: %w", err)
	}
	return name, nil
}

// IsUnregistered reports whether the token is no longer valid
func IsUnregistered(err error) bool {
	return errors.Is(err, ErrUnregistered)
}

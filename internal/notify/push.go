package notify

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FirebasePushSender delivers push notifications through Firebase Cloud
// Messaging.
type FirebasePushSender struct {
	client *messaging.Client
}

func NewFirebasePushSender(ctx context.Context, credentialsFile string) (*FirebasePushSender, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create messaging client: %w", err)
	}
	return &FirebasePushSender{client: client}, nil
}

func (s *FirebasePushSender) SendPush(ctx context.Context, token, title, body string) error {
	_, err := s.client.Send(ctx, &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send push notification: %w", err)
	}
	return nil
}

package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"arendol-backend/internal/logger"
	"arendol-backend/internal/metrics"
	"arendol-backend/internal/repository"
)

// Service fans an event out to every channel the recipient enabled. Channels
// run in parallel; a failed channel is logged and carried in Result.Err but
// never fails the caller.
type Service struct {
	users    repository.UserRepository
	email    EmailSender
	telegram TelegramSender
	push     PushSender
	baseURL  string
}

// NewService wires the dispatcher. Any sender may be nil when the channel is
// not configured.
func NewService(users repository.UserRepository, email EmailSender, telegram TelegramSender, push PushSender, baseURL string) *Service {
	return &Service{
		users:    users,
		email:    email,
		telegram: telegram,
		push:     push,
		baseURL:  baseURL,
	}
}

func (s *Service) Send(ctx context.Context, userID string, event Event) Result {
	var result Result

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		logger.Error("notification recipient lookup failed", "user_id", userID, "error", err)
		result.Err = fmt.Errorf("recipient %s: %w", userID, err)
		return result
	}

	text := MessengerText(s.baseURL, event)

	var wg sync.WaitGroup
	var emailErr, telegramErr, pushErr error
	if s.email != nil && user.NotifyEmail && user.Email != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.email.SendEmail(ctx, user.Email, EmailSubject(event), text, EmailHTML(s.baseURL, event))
			if err != nil {
				logger.Warn("email delivery failed", "user_id", userID, "event", event.Type, "error", err)
				emailErr = fmt.Errorf("email: %w", err)
				return
			}
			result.Email = true
		}()
	}
	if s.telegram != nil && user.NotifyTelegram && user.TelegramChatID != 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.telegram.SendTelegram(ctx, user.TelegramChatID, text); err != nil {
				logger.Warn("telegram delivery failed", "user_id", userID, "event", event.Type, "error", err)
				telegramErr = fmt.Errorf("telegram: %w", err)
				return
			}
			result.Telegram = true
		}()
	}
	if s.push != nil && user.NotifyPush && user.PushToken != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.push.SendPush(ctx, user.PushToken, EmailSubject(event), text); err != nil {
				logger.Warn("push delivery failed", "user_id", userID, "event", event.Type, "error", err)
				pushErr = fmt.Errorf("push: %w", err)
				return
			}
			result.Push = true
		}()
	}
	wg.Wait()

	result.Err = errors.Join(emailErr, telegramErr, pushErr)
	if result.Delivered() {
		metrics.NotificationsSent.WithLabelValues(event.Type).Inc()
	}
	logger.Info("notification dispatched",
		"user_id", userID,
		"event", event.Type,
		"email", result.Email,
		"telegram", result.Telegram,
		"push", result.Push)

	return result
}

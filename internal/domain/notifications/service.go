package notifications

import (
	"context"
	"log/slog"
)

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

type Service struct {
	store    StoreAPI
	Mailer   Mailer
	settings Settings
}

func New(store StoreAPI, mailer Mailer, settings Settings) *Service {
	if settings.From == "" {
		settings.From = "no-reply@example.com"
	}
	return &Service{store: store, Mailer: mailer, settings: settings}
}

// Create stores an in-app notification and mirrors it by email when enabled.
// Email failures are logged and never fail the call.
func (s *Service) Create(ctx context.Context, userID, ntype, title, body string) error {
	if err := s.store.CreateNotification(ctx, userID, ntype, title, body); err != nil {
		return err
	}
	if !s.emailEnabled() {
		return nil
	}

	email, err := s.store.UserEmail(ctx, userID)
	if err != nil {
		slog.Warn("notification email lookup failed", "err", err)
		return nil
	}
	if email == "" {
		return nil
	}
	s.Email(ctx, email, title, body)
	return nil
}

// Broadcast notifies each user and keeps going past individual failures.
func (s *Service) Broadcast(ctx context.Context, userIDs []string, ntype, title, body string) int {
	sent := 0
	for _, id := range userIDs {
		if err := s.Create(ctx, id, ntype, title, body); err != nil {
			slog.Warn("notification create failed", "userId", id, "err", err)
			continue
		}
		sent++
	}
	return sent
}

// Email sends a message to an address that may not belong to a user account.
func (s *Service) Email(ctx context.Context, to, subject, body string) bool {
	if !s.emailEnabled() || to == "" {
		return false
	}
	if err := s.Mailer.Send(ctx, s.settings.From, to, subject, body); err != nil {
		slog.Warn("notification email send failed", "err", err)
		return false
	}
	return true
}

func (s *Service) List(ctx context.Context, userID string, filter Filter, limit, offset int) ([]Notification, error) {
	return s.store.ListNotifications(ctx, userID, filter, limit, offset)
}

func (s *Service) Count(ctx context.Context, userID string, filter Filter) (int, error) {
	return s.store.CountNotifications(ctx, userID, filter)
}

func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.store.MarkRead(ctx, userID, notificationID)
}

// MarkAllRead clears the user's inbox and reports how many notices changed.
func (s *Service) MarkAllRead(ctx context.Context, userID string) (int, error) {
	return s.store.MarkAllRead(ctx, userID)
}

func (s *Service) emailEnabled() bool {
	return s.Mailer != nil && s.settings.EmailEnabled
}

package notify

import (
	"context"
	"log/slog"
)

const (
	TypeBatchSubmitted        = "batch_submitted"
	TypeBatchApproved         = "batch_approved"
	TypeBatchChangesRequested = "batch_changes_requested"
	TypeBatchCompleted        = "batch_completed"
	TypeBatchFailed           = "batch_failed"
	TypeIssueFlagged          = "issue_flagged"
)

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

type StoreAPI interface {
	CreateNotification(ctx context.Context, userID, ntype, title, body string) error
	ListNotifications(ctx context.Context, userID string, limit, offset int) ([]Notification, error)
	CountNotifications(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	UserEmail(ctx context.Context, userID string) (string, error)
	AdminUserIDs(ctx context.Context) ([]string, error)
}

type Service struct {
	store StoreAPI
	// Mailer is nil when email delivery is disabled; in-app notifications
	// are still written.
	Mailer Mailer
	From   string
}

func New(store StoreAPI, mailer Mailer, from string) *Service {
	return &Service{store: store, Mailer: mailer, From: from}
}

func (s *Service) Notify(ctx context.Context, userID, ntype, title, body string) error {
	if err := s.store.CreateNotification(ctx, userID, ntype, title, body); err != nil {
		return err
	}
	if s.Mailer == nil {
		return nil
	}
	email, err := s.store.UserEmail(ctx, userID)
	if err != nil || email == "" {
		slog.Warn("notification email lookup failed", "userId", userID, "err", err)
		return nil
	}
	if err := s.Mailer.Send(ctx, s.From, email, title, body); err != nil {
		slog.Warn("notification email send failed", "userId", userID, "err", err)
	}
	return nil
}

// NotifyAdmins fans a notification out to every admin, e.g. when a batch is
// submitted for approval.
func (s *Service) NotifyAdmins(ctx context.Context, ntype, title, body string) error {
	ids, err := s.store.AdminUserIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.Notify(ctx, id, ntype, title, body); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Notification, int, error) {
	total, err := s.store.CountNotifications(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.store.ListNotifications(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.store.MarkRead(ctx, userID, notificationID)
}

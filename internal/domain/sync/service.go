package sync

import (
	"context"

	"github.com/google/uuid"
)

type StoreAPI interface {
	UpsertChecklistItem(ctx context.Context, item ChecklistItem) error
	ListChecklist(ctx context.Context, workerID string) ([]ChecklistItem, error)
	CreateIssue(ctx context.Context, issue Issue) error
	ListIssues(ctx context.Context, workerID string, includeResolved bool) ([]Issue, error)
	ResolveIssue(ctx context.Context, issueID string) error
}

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) SetChecklistItem(ctx context.Context, workerID, key, label string, done bool) error {
	return s.store.UpsertChecklistItem(ctx, ChecklistItem{
		ID:       uuid.NewString(),
		WorkerID: workerID,
		Key:      key,
		Label:    label,
		Done:     done,
	})
}

func (s *Service) Checklist(ctx context.Context, workerID string) ([]ChecklistItem, error) {
	return s.store.ListChecklist(ctx, workerID)
}

func (s *Service) FlagIssue(ctx context.Context, workerID, issueType, severity, description string) (string, error) {
	if !ValidIssueType(issueType) {
		return "", ErrUnknownIssueType
	}
	if !ValidSeverity(severity) {
		return "", ErrUnknownSeverity
	}
	issue := Issue{
		ID:          uuid.NewString(),
		WorkerID:    workerID,
		Type:        issueType,
		Severity:    severity,
		Description: description,
	}
	if err := s.store.CreateIssue(ctx, issue); err != nil {
		return "", err
	}
	return issue.ID, nil
}

func (s *Service) Issues(ctx context.Context, workerID string, includeResolved bool) ([]Issue, error) {
	issues, err := s.store.ListIssues(ctx, workerID, includeResolved)
	if err != nil {
		return nil, err
	}
	SortIssues(issues)
	return issues, nil
}

func (s *Service) Resolve(ctx context.Context, issueID string) error {
	return s.store.ResolveIssue(ctx, issueID)
}

// Ready reports payroll readiness for one worker from their checklist and
// open issues.
func (s *Service) Ready(ctx context.Context, workerID string) (bool, error) {
	checklist, err := s.store.ListChecklist(ctx, workerID)
	if err != nil {
		return false, err
	}
	issues, err := s.store.ListIssues(ctx, workerID, false)
	if err != nil {
		return false, err
	}
	return ReadyForPayroll(checklist, issues), nil
}

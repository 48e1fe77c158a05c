package sync

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) UpsertChecklistItem(ctx context.Context, item ChecklistItem) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO payroll_checklist (id, worker_id, item_key, label, done)
    VALUES ($1,$2,$3,$4,$5)
    ON CONFLICT (worker_id, item_key)
    DO UPDATE SET label = EXCLUDED.label, done = EXCLUDED.done, updated_at = now()
  `, item.ID, item.WorkerID, item.Key, item.Label, item.Done)
	return err
}

func (s *Store) ListChecklist(ctx context.Context, workerID string) ([]ChecklistItem, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, worker_id, item_key, label, done, updated_at
    FROM payroll_checklist
    WHERE worker_id = $1
    ORDER BY item_key
  `, workerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ChecklistItem
	for rows.Next() {
		var item ChecklistItem
		if err := rows.Scan(&item.ID, &item.WorkerID, &item.Key, &item.Label, &item.Done, &item.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (s *Store) CreateIssue(ctx context.Context, issue Issue) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO payroll_issues (id, worker_id, issue_type, severity, description, resolved)
    VALUES ($1,$2,$3,$4,$5,false)
  `, issue.ID, issue.WorkerID, issue.Type, issue.Severity, issue.Description)
	return err
}

func (s *Store) ListIssues(ctx context.Context, workerID string, includeResolved bool) ([]Issue, error) {
	query := `
    SELECT id, worker_id, issue_type, severity, COALESCE(description, ''), resolved, created_at, resolved_at
    FROM payroll_issues
    WHERE ($1 = '' OR worker_id = $1)
  `
	if !includeResolved {
		query += " AND resolved = false"
	}
	rows, err := s.DB.Query(ctx, query, workerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Issue
	for rows.Next() {
		var issue Issue
		if err := rows.Scan(&issue.ID, &issue.WorkerID, &issue.Type, &issue.Severity, &issue.Description,
			&issue.Resolved, &issue.CreatedAt, &issue.ResolvedAt); err != nil {
			return nil, err
		}
		out = append(out, issue)
	}
	return out, rows.Err()
}

// ResolveIssue is the only mutation issues support after creation.
func (s *Store) ResolveIssue(ctx context.Context, issueID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE payroll_issues SET resolved = true, resolved_at = now()
    WHERE id = $1 AND resolved = false
  `, issueID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists int
		err := s.DB.QueryRow(ctx, "SELECT 1 FROM payroll_issues WHERE id = $1", issueID).Scan(&exists)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrIssueNotFound
		}
		if err != nil {
			return err
		}
		// Already resolved; resolving twice is a no-op.
	}
	return nil
}

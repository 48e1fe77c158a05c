package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"geniehr/internal/platform/config"
)

const (
	JobBatchExecute = "batch_execute"
	JobFXRefresh    = "fx_refresh"
)

type RateSource interface {
	Load() error
}

type Service struct {
	DB    *pgxpool.Pool
	Cfg   config.Config
	Rates RateSource
	queue chan job
}

type job struct {
	Type string
	Ref  string
	Run  func(context.Context) (any, error)
}

func New(db *pgxpool.Pool, cfg config.Config, rates RateSource) *Service {
	return &Service{
		DB:    db,
		Cfg:   cfg,
		Rates: rates,
		queue: make(chan job, 128),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Cfg.FXRefreshInterval > 0 && s.Rates != nil {
		go s.scheduleFXRefresh(ctx, s.Cfg.FXRefreshInterval)
	}
}

// Enqueue hands a job to the background worker. Ref identifies the subject
// record, e.g. a batch id.
func (s *Service) Enqueue(jobType, ref string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, Ref: ref, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType, "ref", ref)
	}
}

func (s *Service) RunNow(ctx context.Context, jobType, ref string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Ref: ref, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "ref", j.Ref, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, ref, status)
    VALUES ($1,$2,$3)
    RETURNING id
  `, j.Type, j.Ref, "running").Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "err", err)
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

func (s *Service) scheduleFXRefresh(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(JobFXRefresh, "", func(ctx context.Context) (any, error) {
				if err := s.Rates.Load(); err != nil {
					return nil, err
				}
				return map[string]any{"refreshedAt": time.Now().UTC()}, nil
			})
		}
	}
}

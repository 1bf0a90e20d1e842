package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"loan-cost/repository"
)

// RetentionJob deletes calculations older than the retention window.
type RetentionJob struct {
	repo      repository.LoanRepository
	retention time.Duration
	timeout   time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

func NewRetentionJob(repo repository.LoanRepository, retention time.Duration, log zerolog.Logger) *RetentionJob {
	return &RetentionJob{
		repo:      repo,
		retention: retention,
		timeout:   30 * time.Second,
		log:       log.With().Str("component", "retention_job").Logger(),
		now:       time.Now,
	}
}

func (j *RetentionJob) Name() string {
	return "history_retention"
}

func (j *RetentionJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	cutoff := j.now().Add(-j.retention)
	deleted, err := j.repo.DeleteBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}

	j.log.Info().
		Int64("deleted", deleted).
		Time("cutoff", cutoff).
		Msg("Pruned calculation history")
	return nil
}

package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/freightdesk/freightdesk/internal/jobs"
	"github.com/freightdesk/freightdesk/internal/numbering"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskGSTINRefresh re-fetches party details for stale GSTINs.
	TaskGSTINRefresh = "gstin:refresh"
	// TaskNumberingResync realigns numbering counters with issued documents.
	TaskNumberingResync = "numbering:resync"
)

// NewGSTINRefreshTask constructs the periodic GSTIN refresh task.
func NewGSTINRefreshTask() *asynq.Task {
	return asynq.NewTask(TaskGSTINRefresh, nil)
}

// NewNumberingResyncTask constructs the nightly numbering resync task.
func NewNumberingResyncTask() *asynq.Task {
	return asynq.NewTask(TaskNumberingResync, nil)
}

// GSTINRefresher refreshes customer records whose GSTIN details went stale.
type GSTINRefresher interface {
	RefreshDue(ctx context.Context) (int, error)
}

// NumberingResyncer realigns every document counter with the highest issued number.
type NumberingResyncer interface {
	ResyncAll(ctx context.Context) (map[numbering.DocType]int64, error)
}

// HandleGSTINRefresh builds the handler for TaskGSTINRefresh.
func HandleGSTINRefresh(refresher GSTINRefresher, metrics *jobmetrics.Metrics, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		tracker := metrics.Track("gstin_refresh")
		refreshed, err := refresher.RefreshDue(ctx)
		if err != nil {
			logger.Error("gstin refresh failed", slog.Any("error", err))
			return tracker.End(err)
		}
		logger.Info("gstin refresh completed", slog.Int("refreshed", refreshed))
		return tracker.End(nil)
	}
}

// HandleNumberingResync builds the handler for TaskNumberingResync.
func HandleNumberingResync(resyncer NumberingResyncer, metrics *jobmetrics.Metrics, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		tracker := metrics.Track("numbering_resync")
		counters, err := resyncer.ResyncAll(ctx)
		if err != nil {
			logger.Error("numbering resync failed", slog.Any("error", err))
			return tracker.End(err)
		}
		for docType, current := range counters {
			logger.Info("numbering resynced",
				slog.String("doc_type", string(docType)),
				slog.Int64("current", current))
		}
		return tracker.End(nil)
	}
}

package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/citlabs/labsched-backend/internal/config"
	"github.com/citlabs/labsched-backend/internal/model"
	"github.com/citlabs/labsched-backend/internal/repository"
)

const (
	AssignmentBatchSize    = 100
	AssignmentBatchTimeout = 2 * time.Second
	AssignmentPollTimeout  = 1 * time.Second
)

// AssignmentPersistWorker drains the persist queue and batch-upserts
// finalized internal-examiner records into PostgreSQL. Saving a snapshot
// enqueues; the HTTP path never waits on these writes.
type AssignmentPersistWorker struct {
	assignmentRepo *repository.AssignmentRepository
	rdb            *redis.Client
	log            zerolog.Logger
}

func NewAssignmentPersistWorker(assignmentRepo *repository.AssignmentRepository, rdb *redis.Client, log zerolog.Logger) *AssignmentPersistWorker {
	return &AssignmentPersistWorker{
		assignmentRepo: assignmentRepo,
		rdb:            rdb,
		log:            log.With().Str("component", "assignment_persist_worker").Logger(),
	}
}

// Start runs the worker loop until ctx is cancelled, then flushes the
// remaining batch.
func (w *AssignmentPersistWorker) Start(ctx context.Context) {
	w.log.Info().Msg("AssignmentPersistWorker started")

	batch := make([]model.AssignmentRecord, 0, AssignmentBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= AssignmentBatchSize || time.Since(lastFlush) >= AssignmentBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, AssignmentPollTimeout, config.WorkerKey.PersistAssignmentsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var rec model.AssignmentRecord
			if err := json.Unmarshal([]byte(item[1]), &rec); err != nil {
				w.log.Error().Err(err).Msg("Malformed assignment record payload, dropping")
				continue
			}
			batch = append(batch, rec)
		}
	}
}

func (w *AssignmentPersistWorker) flushSafe(ctx context.Context, batch []model.AssignmentRecord) {
	if len(batch) == 0 {
		return
	}
	if err := w.assignmentRepo.UpsertBatch(ctx, batch); err != nil {
		w.log.Error().Err(err).Int("records", len(batch)).Msg("Persist batch failed")
		return
	}
	w.log.Debug().Int("records", len(batch)).Msg("Persisted assignment records")
}

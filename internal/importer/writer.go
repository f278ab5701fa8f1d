package importer

import (
	"context"

	"checkin-importer/internal/models"
	"checkin-importer/internal/providers"
	"checkin-importer/internal/storage"
)

type Outcome string

const (
	OutcomeInserted  Outcome = "inserted"
	OutcomeDuplicate Outcome = "duplicate"
)

// Writer is the duplicate guard in front of the store. Keys are tracked for
// the whole run, so a row repeated inside the sheet is a duplicate even in
// dry-run mode, where nothing reaches the store.
type Writer struct {
	store     storage.CheckInStoreInterface
	logger    providers.Logger
	dryRun    bool
	batchSize int

	seen      map[models.CheckInKey]struct{}
	pending   []*models.CheckIn
	conflicts int
}

func NewWriter(store storage.CheckInStoreInterface, logger providers.Logger, dryRun bool, batchSize int) *Writer {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Writer{
		store:     store,
		logger:    logger,
		dryRun:    dryRun,
		batchSize: batchSize,
		seen:      make(map[models.CheckInKey]struct{}),
	}
}

// Write checks rec against the run and the store, then inserts it (or
// queues it for the next batch). Errors are store failures and end the run.
func (w *Writer) Write(ctx context.Context, rec *models.CheckIn) (Outcome, error) {
	key := rec.Key()
	if _, dup := w.seen[key]; dup {
		return OutcomeDuplicate, nil
	}

	exists, err := w.store.Exists(ctx, rec.PersonID, rec.SubmittedAt)
	if err != nil {
		return "", err
	}
	if exists {
		w.seen[key] = struct{}{}
		return OutcomeDuplicate, nil
	}
	w.seen[key] = struct{}{}

	if w.dryRun {
		return OutcomeInserted, nil
	}

	if w.batchSize == 1 {
		inserted, err := w.store.InsertIfAbsent(ctx, rec)
		if err != nil {
			return "", err
		}
		if !inserted {
			w.logger.Warnf(providers.TypeStore, "Check-in %s for %s appeared concurrently, skipped", rec.ID, rec.PersonID)
			return OutcomeDuplicate, nil
		}
		return OutcomeInserted, nil
	}

	w.pending = append(w.pending, rec)
	if len(w.pending) >= w.batchSize {
		if err := w.Flush(ctx); err != nil {
			return "", err
		}
	}
	return OutcomeInserted, nil
}

// Flush writes queued records. Records the store rejects as already
// present are added to Conflicts.
func (w *Writer) Flush(ctx context.Context) error {
	if len(w.pending) == 0 {
		return nil
	}
	batch := w.pending
	w.pending = nil

	n, err := w.store.InsertMany(ctx, batch)
	if err != nil {
		return err
	}
	if lost := len(batch) - n; lost > 0 {
		w.conflicts += lost
		w.logger.Warnf(providers.TypeStore, "%d queued check-ins were already stored at flush", lost)
	}
	w.logger.Debugf(providers.TypeStore, "Flushed %d check-ins (%d new)", len(batch), n)
	return nil
}

// Conflicts counts batched records that Write reported as inserted but the
// store turned away.
func (w *Writer) Conflicts() int {
	return w.conflicts
}

func (w *Writer) Pending() int {
	return len(w.pending)
}

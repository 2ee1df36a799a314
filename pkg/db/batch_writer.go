package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
)

// WriteFunc performs database writes inside a batch transaction.
type WriteFunc func(ctx context.Context, tx *sql.Tx) error

// ErrBatchWriterClosed is returned by Submit and Close once the writer is closed.
var ErrBatchWriterClosed = errors.New("batch writer closed")

// BatchWriter groups writes into transactions that one background goroutine
// commits in submission order. A batch is handed over when it is full, on
// every tick of the flush interval and on Close.
type BatchWriter struct {
	db   *sql.DB
	size int

	// OnError, when set, is called for every failed or dropped batch.
	OnError func(error)

	mu      sync.Mutex
	pending []WriteFunc
	closed  bool

	queue    chan []WriteFunc
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	statsMu  sync.Mutex
	firstErr error
	writes   int
	batches  int
}

// NewBatchWriter starts a writer on db that commits every size writes and,
// when flushInterval > 0, whatever is pending on each tick.
func NewBatchWriter(db *sql.DB, size int, flushInterval time.Duration) *BatchWriter {
	if size <= 0 {
		size = 64
	}
	bw := &BatchWriter{
		db:      db,
		size:    size,
		pending: make([]WriteFunc, 0, size),
		queue:   make(chan []WriteFunc, 2),
		stop:    make(chan struct{}),
	}

	bw.wg.Add(1)
	go bw.commitLoop()

	if flushInterval > 0 {
		bw.wg.Add(1)
		go bw.tick(flushInterval)
	}
	return bw
}

// Submit adds a write to the pending batch.
func (bw *BatchWriter) Submit(w WriteFunc) error {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	if bw.closed {
		return ErrBatchWriterClosed
	}
	bw.pending = append(bw.pending, w)
	if len(bw.pending) >= bw.size {
		bw.enqueueLocked()
	}
	return nil
}

// Flush hands the pending writes to the committer without waiting for them.
func (bw *BatchWriter) Flush() {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	bw.enqueueLocked()
}

// Committed returns how many writes and batches have been committed.
func (bw *BatchWriter) Committed() (writes, batches int) {
	bw.statsMu.Lock()
	defer bw.statsMu.Unlock()
	return bw.writes, bw.batches
}

// enqueueLocked requires bw.mu. It blocks while the queue is full, which
// slows submitters down to the commit rate; once the writer is halted a
// batch that does not fit is dropped and reported.
func (bw *BatchWriter) enqueueLocked() {
	if len(bw.pending) == 0 {
		return
	}
	batch := bw.pending
	bw.pending = make([]WriteFunc, 0, bw.size)

	select {
	case bw.queue <- batch:
	case <-bw.stop:
		bw.fail(fmt.Errorf("batch writer: dropped %d writes after stop", len(batch)))
	}
}

func (bw *BatchWriter) fail(err error) {
	bw.statsMu.Lock()
	if bw.firstErr == nil {
		bw.firstErr = err
	}
	bw.statsMu.Unlock()
	if bw.OnError != nil {
		bw.OnError(err)
	}
}

// halt ends the ticker and makes enqueueing non-blocking.
func (bw *BatchWriter) halt() {
	bw.stopOnce.Do(func() { close(bw.stop) })
}

func (bw *BatchWriter) commitLoop() {
	defer bw.wg.Done()
	for batch := range bw.queue {
		if err := bw.commit(batch); err != nil {
			bw.fail(err)
			continue
		}
		bw.statsMu.Lock()
		bw.writes += len(batch)
		bw.batches++
		bw.statsMu.Unlock()
	}
}

// commit runs batch in one transaction; any failing write rolls back the
// whole batch. It does not use a cancelable context so that batches still
// queued at Close are committed.
func (bw *BatchWriter) commit(batch []WriteFunc) error {
	ctx := context.Background()
	tx, err := bw.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, w := range batch {
		if err := w(ctx, tx); err != nil {
			return fmt.Errorf("write %d of %d: %w", i+1, len(batch), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch of %d: %w", len(batch), err)
	}
	return nil
}

func (bw *BatchWriter) tick(interval time.Duration) {
	defer bw.wg.Done()
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-bw.stop:
			return
		case <-t.C:
			bw.Flush()
		}
	}
}

// Close stops accepting writes, commits what is pending and returns the first
// error any batch produced.
func (bw *BatchWriter) Close() error {
	bw.mu.Lock()
	if bw.closed {
		bw.mu.Unlock()
		return ErrBatchWriterClosed
	}
	bw.closed = true
	bw.enqueueLocked()
	bw.mu.Unlock()

	bw.halt()
	close(bw.queue)
	bw.wg.Wait()

	bw.statsMu.Lock()
	defer bw.statsMu.Unlock()
	return bw.firstErr
}

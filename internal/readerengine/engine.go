package readerengine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"gitlab.com/readerload.net/internal/core/ports/primary"
	"gitlab.com/readerload.net/internal/core/services/reader"
	"gitlab.com/readerload.net/internal/domain"
	"gitlab.com/readerload.net/internal/tcp/connectionmanager"
)

var ErrAlreadyStarted = errors.New("reader engine already started")

// ReaderEngine runs one reader loop per descriptor and tears their
// connections down when the context ends
type ReaderEngine struct {
	readerSvc reader.IReaderService
	connMgr   *connectionmanager.ConnectionManager
	logger    primary.Logger
	runID     uuid.UUID
	started   atomic.Bool
	wg        sync.WaitGroup
}

func NewReaderEngine(
	readerSvc reader.IReaderService,
	connMgr *connectionmanager.ConnectionManager,
	logger primary.Logger,
) *ReaderEngine {
	return &ReaderEngine{
		readerSvc: readerSvc,
		connMgr:   connMgr,
		logger:    logger,
		runID:     uuid.New(),
	}
}

// RunID identifies this engine run in logs and recorded data
func (e *ReaderEngine) RunID() uuid.UUID {
	return e.runID
}

// StartReaders launches the readers and returns immediately
func (e *ReaderEngine) StartReaders(ctx context.Context, descs []domain.ReaderDescriptor) error {
	if e.started.Swap(true) {
		return ErrAlreadyStarted
	}

	for _, desc := range descs {
		e.connMgr.RegisterReader(desc)
	}

	e.wg.Add(len(descs))
	for _, desc := range descs {
		go func(desc domain.ReaderDescriptor) {
			defer e.wg.Done()
			e.readerSvc.Run(ctx, desc)
		}(desc)
	}

	go func() {
		<-ctx.Done()
		e.logger.Info("Terminating reader clients", "runID", e.runID)
		e.connMgr.CloseAll()
	}()

	e.logger.Info("Reader clients started", "runID", e.runID, "readers", len(descs))
	return nil
}

// Wait blocks until every reader loop has returned
func (e *ReaderEngine) Wait() {
	e.wg.Wait()
}

// Run starts the readers and waits for them
func (e *ReaderEngine) Run(ctx context.Context, descs []domain.ReaderDescriptor) error {
	if err := e.StartReaders(ctx, descs); err != nil {
		return err
	}
	e.Wait()
	return nil
}

// Readers returns the current status of every reader
func (e *ReaderEngine) Readers() []domain.ReaderStatus {
	return e.connMgr.Snapshot()
}

// Reader returns the status of one reader
func (e *ReaderEngine) Reader(readerID int) (domain.ReaderStatus, bool) {
	return e.connMgr.Status(readerID)
}

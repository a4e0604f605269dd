package reader

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"gitlab.com/readerload.net/internal/config"
	"gitlab.com/readerload.net/internal/core/ports/primary"
	"gitlab.com/readerload.net/internal/core/ports/secondary"
	"gitlab.com/readerload.net/internal/domain"
	"gitlab.com/readerload.net/internal/static/errs"
	"gitlab.com/readerload.net/internal/tcp/codec"
	"gitlab.com/readerload.net/internal/tcp/connectionmanager"
)

const recordTimeout = 2 * time.Second

var _ IReaderService = (*ReaderService)(nil)

type ReaderService struct {
	cfg      *config.ReaderCfg
	connMgr  *connectionmanager.ConnectionManager
	recorder secondary.ExchangeRecorder
	reporter primary.Reporter
	logger   primary.Logger
	dialer   *net.Dialer
}

// NewReaderService creates the reader loop. recorder may be nil.
func NewReaderService(
	cfg *config.ReaderCfg,
	connMgr *connectionmanager.ConnectionManager,
	recorder secondary.ExchangeRecorder,
	reporter primary.Reporter,
	logger primary.Logger,
) *ReaderService {
	return &ReaderService{
		cfg:      cfg,
		connMgr:  connMgr,
		recorder: recorder,
		reporter: reporter,
		logger:   logger,
		dialer:   &net.Dialer{Timeout: cfg.DialTimeout},
	}
}

func (s *ReaderService) Run(ctx context.Context, desc domain.ReaderDescriptor) {
	picker := NewKeyPicker(desc.ID, s.cfg.KeySpace)
	s.logger.Info("Reader started", "readerID", desc.ID, "addr", desc.Addr())
	defer func() {
		s.connMgr.SetState(desc.ID, domain.ReaderStateStopped)
		s.logger.Info("Reader stopped", "readerID", desc.ID)
	}()

	for {
		if ctx.Err() != nil {
			return
		}

		delay := s.cfg.PaceInterval
		exchange, err := s.Iterate(ctx, desc, picker)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.connMgr.RecordFailure(desc.ID, err)
			s.logger.Error("Reader iteration failed", "readerID", desc.ID, "addr", desc.Addr(), "error", err)
			delay = s.cfg.RetryDelay
		} else {
			s.connMgr.RecordSuccess(desc.ID, exchange.Factorial != nil, exchange.StartedAt.Add(exchange.Duration))
			s.record(ctx, exchange)
		}

		if !sleepContext(ctx, delay) {
			return
		}
	}
}

func (s *ReaderService) Iterate(ctx context.Context, desc domain.ReaderDescriptor, picker *KeyPicker) (*domain.Exchange, error) {
	start := time.Now()

	s.connMgr.SetState(desc.ID, domain.ReaderStateConnecting)
	conn, err := s.dialer.DialContext(ctx, "tcp", desc.Addr())
	if err != nil {
		s.connMgr.SetState(desc.ID, domain.ReaderStateClosed)
		return nil, fmt.Errorf("%w: %w", errs.ErrConnect, err)
	}
	if !s.connMgr.TrackConnection(desc.ID, conn) {
		conn.Close()
		s.connMgr.SetState(desc.ID, domain.ReaderStateClosed)
		return nil, errs.ErrConnectionClosed
	}
	stopWatch := context.AfterFunc(ctx, func() { conn.Close() })
	defer func() {
		stopWatch()
		if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			s.logger.Debug("Failed to close connection", "readerID", desc.ID, "error", err)
		}
		s.connMgr.ReleaseConnection(desc.ID)
		s.connMgr.SetState(desc.ID, domain.ReaderStateClosed)
	}()

	if s.cfg.IOTimeout > 0 {
		if err := conn.SetDeadline(time.Now().Add(s.cfg.IOTimeout)); err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrConnect, err)
		}
	}

	index := picker.Next()
	request := BuildRequest(index)
	exchange := domain.NewExchange(desc, index, request, start)

	s.connMgr.SetState(desc.ID, domain.ReaderStateSendingLength)
	if err := codec.WriteLength(conn, s.cfg.ByteOrder, len(request)); err != nil {
		return nil, err
	}
	s.connMgr.SetState(desc.ID, domain.ReaderStateSendingBody)
	if err := codec.WriteBody(conn, []byte(request)); err != nil {
		return nil, err
	}

	s.connMgr.SetState(desc.ID, domain.ReaderStateReceiving)
	response, err := s.receive(conn)
	if err != nil {
		return nil, err
	}

	exchange.Response = string(response)
	s.reporter.Received(desc.ID, exchange.Response)

	s.connMgr.SetState(desc.ID, domain.ReaderStateParsing)
	s.derive(desc, exchange)

	exchange.Duration = time.Since(start)
	return exchange, nil
}

func (s *ReaderService) receive(conn net.Conn) ([]byte, error) {
	if s.cfg.ResponseMode == config.ResponseModeRaw {
		return codec.ReadRaw(conn, s.cfg.MaxResponseBytes)
	}
	return codec.ReadFrame(conn, s.cfg.ByteOrder, s.cfg.MaxResponseBytes)
}

// derive computes n! when the response carries a value. A response without
// a value is not an error.
func (s *ReaderService) derive(desc domain.ReaderDescriptor, exchange *domain.Exchange) {
	n, ok := ParseValue(exchange.Response)
	if !ok {
		s.logger.Debug("Response carries no value", "readerID", desc.ID)
		return
	}
	exchange.Value = &n

	result, err := Factorial(n, s.cfg.MaxFactorialInput)
	if err != nil {
		s.logger.Warn("Cannot derive factorial", "readerID", desc.ID, "value", n, "error", err)
		return
	}

	text := result.String()
	exchange.Factorial = &text
	s.reporter.Factorial(desc.ID, n, result)
}

func (s *ReaderService) record(ctx context.Context, exchange *domain.Exchange) {
	if s.recorder == nil {
		return
	}

	recordCtx, cancel := context.WithTimeout(ctx, recordTimeout)
	defer cancel()

	if err := s.recorder.RecordExchange(recordCtx, exchange); err != nil && ctx.Err() == nil {
		s.logger.Warn("Failed to record exchange", "readerID", exchange.ReaderID, "exchangeID", exchange.ID, "error", err)
	}
}

// sleepContext waits for d and reports whether ctx is still live
func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// package exchangerepository contains the PostgreSQL exchange recorder
package exchangerepository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gitlab.com/readerload.net/internal/core/ports/primary"
	"gitlab.com/readerload.net/internal/core/ports/secondary"
	"gitlab.com/readerload.net/internal/domain"
)

const schema = `
	CREATE TABLE IF NOT EXISTS reader_exchanges (
		id          UUID PRIMARY KEY,
		reader_id   INTEGER NOT NULL,
		addr        TEXT NOT NULL,
		key_index   INTEGER NOT NULL,
		request     TEXT NOT NULL,
		response    TEXT NOT NULL,
		value       BIGINT,
		factorial   TEXT,
		started_at  TIMESTAMPTZ NOT NULL,
		duration_ns BIGINT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS reader_exchanges_reader_idx ON reader_exchanges (reader_id, started_at DESC);
`

var _ secondary.ExchangeRecorder = (*ExchangeRepository)(nil)

// ExchangeRepository implements the ExchangeRecorder interface with PostgreSQL
type ExchangeRepository struct {
	db     *sqlx.DB
	logger primary.Logger
}

// NewExchangeRepository creates a new PostgreSQL exchange repository
func NewExchangeRepository(db *sqlx.DB, logger primary.Logger) *ExchangeRepository {
	return &ExchangeRepository{
		db:     db,
		logger: logger,
	}
}

// EnsureSchema creates the exchange table when it does not exist
func (r *ExchangeRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		r.logger.Error("Failed to create exchange schema", "error", err)
		return fmt.Errorf("failed to create exchange schema: %w", err)
	}
	return nil
}

// RecordExchange saves an exchange to PostgreSQL
func (r *ExchangeRepository) RecordExchange(ctx context.Context, exchange *domain.Exchange) error {
	tbl := domain.GetExchangeTable()
	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		) VALUES (
			:id, :reader_id, :addr, :key_index, :request, :response, :value, :factorial, :started_at, :duration_ns
		) ON CONFLICT (%s) DO NOTHING
	`,
		tbl.TableName(),
		tbl.ID, tbl.ReaderID, tbl.Addr, tbl.Index, tbl.Request,
		tbl.Response, tbl.Value, tbl.Factorial, tbl.StartedAt, tbl.Duration,
		tbl.ID,
	)

	if _, err := r.db.NamedExecContext(ctx, query, exchange); err != nil {
		r.logger.Error("Failed to save exchange", "exchangeID", exchange.ID, "error", err)
		return fmt.Errorf("failed to save exchange: %w", err)
	}

	return nil
}

// GetExchangesByReader returns a reader's most recent exchanges, newest first
func (r *ExchangeRepository) GetExchangesByReader(ctx context.Context, readerID int, limit int) ([]*domain.Exchange, error) {
	query := `
		SELECT id, reader_id, addr, key_index, request, response, value, factorial, started_at, duration_ns
		FROM reader_exchanges
		WHERE reader_id = $1
		ORDER BY started_at DESC
		LIMIT $2
	`

	var exchanges []*domain.Exchange
	if err := r.db.SelectContext(ctx, &exchanges, query, readerID, limit); err != nil {
		r.logger.Error("Failed to get exchanges", "readerID", readerID, "error", err)
		return nil, fmt.Errorf("failed to get exchanges: %w", err)
	}

	return exchanges, nil
}

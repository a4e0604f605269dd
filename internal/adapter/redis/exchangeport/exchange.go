package exchangeport

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"

	"gitlab.com/readerload.net/internal/core/ports/primary"
	"gitlab.com/readerload.net/internal/core/ports/secondary"
	"gitlab.com/readerload.net/internal/domain"
)

const (
	exchangeListKey   = "reader:exchanges"
	readerStatsPrefix = "reader:stats:"
	maxHistory        = 1000
)

var _ secondary.ExchangeRecorder = (*ExchangeRepository)(nil)

// ExchangeRepository keeps a capped exchange history and per-reader
// counters in Redis
type ExchangeRepository struct {
	redisClient *redis.Client
	logger      primary.Logger
}

// NewExchangeRepository creates a new Redis exchange repository
func NewExchangeRepository(redisClient *redis.Client, logger primary.Logger) *ExchangeRepository {
	return &ExchangeRepository{
		redisClient: redisClient,
		logger:      logger,
	}
}

// RecordExchange pushes the exchange onto the history list and bumps the reader's counters
func (r *ExchangeRepository) RecordExchange(ctx context.Context, exchange *domain.Exchange) error {
	exchangeJSON, err := json.Marshal(exchange)
	if err != nil {
		return fmt.Errorf("failed to marshal exchange: %w", err)
	}

	statsKey := readerStatsPrefix + strconv.Itoa(exchange.ReaderID)
	_, err = r.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, exchangeListKey, exchangeJSON)
		pipe.LTrim(ctx, exchangeListKey, 0, maxHistory-1)
		pipe.HIncrBy(ctx, statsKey, "exchanges", 1)
		if exchange.Factorial != nil {
			pipe.HIncrBy(ctx, statsKey, "factorials", 1)
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to record exchange", "exchangeID", exchange.ID, "error", err)
		return fmt.Errorf("failed to record exchange: %w", err)
	}

	return nil
}

// GetRecentExchanges returns up to limit of the most recent exchanges, newest first
func (r *ExchangeRepository) GetRecentExchanges(ctx context.Context, limit int64) ([]*domain.Exchange, error) {
	if limit <= 0 {
		limit = maxHistory
	}

	data, err := r.redisClient.LRange(ctx, exchangeListKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read exchanges: %w", err)
	}

	exchanges := make([]*domain.Exchange, 0, len(data))
	for _, item := range data {
		var exchange domain.Exchange
		if err := json.Unmarshal([]byte(item), &exchange); err != nil {
			return nil, fmt.Errorf("failed to unmarshal exchange: %w", err)
		}
		exchanges = append(exchanges, &exchange)
	}

	return exchanges, nil
}

// GetReaderStats returns the exchange and factorial counters of a reader
func (r *ExchangeRepository) GetReaderStats(ctx context.Context, readerID int) (exchanges int64, factorials int64, err error) {
	values, err := r.redisClient.HGetAll(ctx, readerStatsPrefix+strconv.Itoa(readerID)).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("failed to read reader stats: %w", err)
	}

	exchanges, _ = strconv.ParseInt(values["exchanges"], 10, 64)
	factorials, _ = strconv.ParseInt(values["factorials"], 10, 64)
	return exchanges, factorials, nil
}

package secondary

import (
	"context"

	"gitlab.com/readerload.net/internal/domain"
)

// ExchangeRecorder persists completed request/response exchanges
type ExchangeRecorder interface {
	RecordExchange(ctx context.Context, exchange *domain.Exchange) error
}

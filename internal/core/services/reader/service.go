package reader

import (
	"context"

	"gitlab.com/readerload.net/internal/domain"
)

type IReaderService interface {
	// Run loops connect, request, receive, report and pace until ctx is cancelled
	Run(ctx context.Context, desc domain.ReaderDescriptor)

	// Iterate performs one connect/send/receive/close cycle
	Iterate(ctx context.Context, desc domain.ReaderDescriptor, picker *KeyPicker) (*domain.Exchange, error)
}

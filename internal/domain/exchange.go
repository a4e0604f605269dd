package domain

import (
	"time"

	"github.com/google/uuid"
)

// Exchange is one completed request/response cycle of a reader
type Exchange struct {
	ID        uuid.UUID     `json:"id" db:"id"`
	ReaderID  int           `json:"reader_id" db:"reader_id"`
	Addr      string        `json:"addr" db:"addr"`
	Index     int           `json:"index" db:"key_index"`
	Request   string        `json:"request" db:"request"`
	Response  string        `json:"response" db:"response"`
	Value     *int64        `json:"value,omitempty" db:"value"`
	Factorial *string       `json:"factorial,omitempty" db:"factorial"`
	StartedAt time.Time     `json:"started_at" db:"started_at"`
	Duration  time.Duration `json:"duration" db:"duration_ns"`
}

// NewExchange starts an exchange record for a reader
func NewExchange(desc ReaderDescriptor, index int, request string, startedAt time.Time) *Exchange {
	return &Exchange{
		ID:        uuid.New(),
		ReaderID:  desc.ID,
		Addr:      desc.Addr(),
		Index:     index,
		Request:   request,
		StartedAt: startedAt,
	}
}

type ExchangeTable struct {
	ID        string
	ReaderID  string
	Addr      string
	Index     string
	Request   string
	Response  string
	Value     string
	Factorial string
	StartedAt string
	Duration  string
}

func (t ExchangeTable) TableName() string {
	return "reader_exchanges"
}

func GetExchangeTable() ExchangeTable {
	return ExchangeTable{
		ID:        "id",
		ReaderID:  "reader_id",
		Addr:      "addr",
		Index:     "key_index",
		Request:   "request",
		Response:  "response",
		Value:     "value",
		Factorial: "factorial",
		StartedAt: "started_at",
		Duration:  "duration_ns",
	}
}

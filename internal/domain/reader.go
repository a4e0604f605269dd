package domain

import (
	"net"
	"strconv"
	"time"
)

// ReaderDescriptor identifies one reader worker and its target server
type ReaderDescriptor struct {
	ID   int    `json:"id"`
	Host string `json:"host"`
	Port int    `json:"port"`
}

// Addr returns the dial address of the target server
func (d ReaderDescriptor) Addr() string {
	return net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
}

// NewReaderDescriptors allocates descriptors with ids 1..count
func NewReaderDescriptors(host string, port int, count int) []ReaderDescriptor {
	descs := make([]ReaderDescriptor, 0, count)
	for i := 1; i <= count; i++ {
		descs = append(descs, ReaderDescriptor{ID: i, Host: host, Port: port})
	}
	return descs
}

// ReaderState is the position of a reader inside one iteration
type ReaderState string

const (
	ReaderStateIdle          ReaderState = "IDLE"
	ReaderStateConnecting    ReaderState = "CONNECTING"
	ReaderStateSendingLength ReaderState = "SENDING_LENGTH"
	ReaderStateSendingBody   ReaderState = "SENDING_BODY"
	ReaderStateReceiving     ReaderState = "RECEIVING"
	ReaderStateParsing       ReaderState = "PARSING"
	ReaderStateClosed        ReaderState = "CLOSED"
	ReaderStateStopped       ReaderState = "STOPPED"
)

// ReaderStatus is a point-in-time view of a reader
type ReaderStatus struct {
	ID             int         `json:"id"`
	Addr           string      `json:"addr"`
	State          ReaderState `json:"state"`
	Connected      bool        `json:"connected"`
	Iterations     uint64      `json:"iterations"`
	Failures       uint64      `json:"failures"`
	Factorials     uint64      `json:"factorials"`
	LastError      string      `json:"last_error,omitempty"`
	LastExchangeAt *time.Time  `json:"last_exchange_at,omitempty"`
}

package errs

import "errors"

var (
	ErrConnect          = errors.New("connection failed")
	ErrSendLength       = errors.New("failed to send message length")
	ErrSendBody         = errors.New("failed to send read request")
	ErrReceive          = errors.New("read error")
	ErrConnectionClosed = errors.New("connection closed")
	ErrResponseTooLarge = errors.New("response exceeds maximum size")
)

var (
	ErrNegativeFactorial = errors.New("factorial of negative value")
	ErrFactorialTooLarge = errors.New("factorial input too large")
)

var ErrUsage = errors.New("usage: <server_ip> <port> <num_readers>")

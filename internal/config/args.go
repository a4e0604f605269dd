package config

import (
	"fmt"
	"strconv"

	"gitlab.com/readerload.net/internal/static/errs"
)

// LaunchArgs are the positional command line arguments
type LaunchArgs struct {
	ServerIP   string
	Port       int
	NumReaders int
}

// ParseArgs parses <server_ip> <port> <num_readers>, program name excluded
func ParseArgs(args []string) (*LaunchArgs, error) {
	if len(args) != 3 {
		return nil, fmt.Errorf("expected 3 arguments, got %d: %w", len(args), errs.ErrUsage)
	}

	if args[0] == "" {
		return nil, fmt.Errorf("empty server address: %w", errs.ErrUsage)
	}

	port, err := strconv.Atoi(args[1])
	if err != nil || port < 1 || port > 65535 {
		return nil, fmt.Errorf("invalid port %q: %w", args[1], errs.ErrUsage)
	}

	numReaders, err := strconv.Atoi(args[2])
	if err != nil || numReaders < 1 {
		return nil, fmt.Errorf("invalid reader count %q: %w", args[2], errs.ErrUsage)
	}

	return &LaunchArgs{
		ServerIP:   args[0],
		Port:       port,
		NumReaders: numReaders,
	}, nil
}

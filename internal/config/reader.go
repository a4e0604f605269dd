package config

import (
	"encoding/binary"
	"strings"
	"time"
)

type ResponseMode string

const (
	// ResponseModeFramed reads a length-prefixed response until the declared length is satisfied
	ResponseModeFramed ResponseMode = "framed"
	// ResponseModeRaw performs a single receive, for servers that reply with bare text
	ResponseModeRaw ResponseMode = "raw"
)

const (
	DefaultPaceInterval      = 1 * time.Second
	DefaultDialTimeout       = 5 * time.Second
	DefaultIOTimeout         = 10 * time.Second
	DefaultKeySpace          = 10
	DefaultMaxResponseBytes  = 1024
	DefaultMaxFactorialInput = 1000
)

type ReaderCfg struct {
	PaceInterval      time.Duration
	RetryDelay        time.Duration
	DialTimeout       time.Duration
	IOTimeout         time.Duration
	KeySpace          int
	MaxResponseBytes  int
	ResponseMode      ResponseMode
	ByteOrder         binary.ByteOrder
	MaxFactorialInput int64
}

// DefaultReaderCfg returns the settings used when no environment overrides exist
func DefaultReaderCfg() *ReaderCfg {
	return &ReaderCfg{
		PaceInterval:      DefaultPaceInterval,
		RetryDelay:        0,
		DialTimeout:       DefaultDialTimeout,
		IOTimeout:         DefaultIOTimeout,
		KeySpace:          DefaultKeySpace,
		MaxResponseBytes:  DefaultMaxResponseBytes,
		ResponseMode:      ResponseModeFramed,
		ByteOrder:         binary.BigEndian,
		MaxFactorialInput: DefaultMaxFactorialInput,
	}
}

func NewReaderCfg() *ReaderCfg {
	cfg := DefaultReaderCfg()

	cfg.PaceInterval = getMillisEnv("READER_PACE_INTERVAL_MS", cfg.PaceInterval)
	cfg.RetryDelay = getMillisEnv("READER_RETRY_DELAY_MS", cfg.RetryDelay)
	cfg.DialTimeout = getMillisEnv("READER_DIAL_TIMEOUT_MS", cfg.DialTimeout)
	cfg.IOTimeout = getMillisEnv("READER_IO_TIMEOUT_MS", cfg.IOTimeout)

	if v := getIntEnv("READER_KEY_SPACE", 0); v > 0 {
		cfg.KeySpace = v
	}
	if v := getIntEnv("READER_MAX_RESPONSE_BYTES", 0); v > 0 {
		cfg.MaxResponseBytes = v
	}
	if v := getIntEnv("READER_MAX_FACTORIAL_INPUT", -1); v >= 0 {
		cfg.MaxFactorialInput = int64(v)
	}

	if strings.EqualFold(getEnv("READER_RESPONSE_MODE", ""), string(ResponseModeRaw)) {
		cfg.ResponseMode = ResponseModeRaw
	}
	if strings.EqualFold(getEnv("READER_BYTE_ORDER", ""), "little") {
		cfg.ByteOrder = binary.LittleEndian
	}

	return cfg
}

package config

import "strings"

type RecorderKind string

const (
	RecorderNone     RecorderKind = "none"
	RecorderRedis    RecorderKind = "redis"
	RecorderPostgres RecorderKind = "postgres"
)

type RecorderConfig struct {
	Kind RecorderKind
}

func NewRecorderConfig() *RecorderConfig {
	kind := RecorderKind(strings.ToLower(getEnv("READER_RECORDER", string(RecorderNone))))
	switch kind {
	case RecorderRedis, RecorderPostgres:
	default:
		kind = RecorderNone
	}
	return &RecorderConfig{Kind: kind}
}

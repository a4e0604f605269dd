package config

import "os"

type AppConfig struct {
	DebugMode      bool
	ReaderCfg      *ReaderCfg
	RecorderConfig *RecorderConfig
	RedisConfig    *RedisConfig
	PostgresConfig *PostgresConfig
	AdminConfig    *AdminConfig
}

func NewSystemConfig() *AppConfig {
	return &AppConfig{
		DebugMode:      os.Getenv("DEBUG_MODE") == "true",
		ReaderCfg:      NewReaderCfg(),
		RecorderConfig: NewRecorderConfig(),
		RedisConfig:    NewRedisConfig(),
		PostgresConfig: NewPostgresConfig(),
		AdminConfig:    NewAdminConfig(),
	}
}

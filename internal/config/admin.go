package config

// AdminConfig configures the operator HTTP control surface.
// Port 0 disables it.
type AdminConfig struct {
	Port      int
	JwtSecret string
}

func NewAdminConfig() *AdminConfig {
	return &AdminConfig{
		Port:      getIntEnv("READER_ADMIN_PORT", 0),
		JwtSecret: getEnv("READER_ADMIN_JWT_SECRET", ""),
	}
}

func (c *AdminConfig) Enabled() bool {
	return c.Port > 0
}

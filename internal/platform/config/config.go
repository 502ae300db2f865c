package config

import "os"

// Server captures process-level configuration. Empty PostgresDSN or RedisAddr
// select the in-memory adapters so the binary runs standalone in development.
type Server struct {
	Addr        string
	PostgresDSN string
	RedisAddr   string
	AssetsDir   string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("CLINICA_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Server{
		Addr:        addr,
		PostgresDSN: os.Getenv("CLINICA_PG_DSN"),
		RedisAddr:   os.Getenv("CLINICA_REDIS_ADDR"),
		AssetsDir:   os.Getenv("CLINICA_ASSETS_DIR"),
	}
}

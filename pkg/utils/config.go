package utils

import (
	"os"
	"strconv"
	"time"
)

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

func LoadAuthConfig() AuthConfig {
	secret := os.Getenv("COLLECTHUB_JWT_SECRET")
	if secret == "" {
		// dev default (change for demo / production)
		secret = "dev-secret-change-me"
	}

	issuer := os.Getenv("COLLECTHUB_JWT_ISSUER")
	if issuer == "" {
		issuer = "collecthub"
	}

	duration := 24 * time.Hour
	if ttl := os.Getenv("COLLECTHUB_JWT_TTL_HOURS"); ttl != "" {
		if h, err := strconv.Atoi(ttl); err == nil && h > 0 {
			duration = time.Duration(h) * time.Hour
		}
	}

	return AuthConfig{
		JWTSecret:   secret,
		JWTIssuer:   issuer,
		JWTDuration: duration,
	}
}

type ServerConfig struct {
	Addr      string
	StaticDir string
}

func LoadServerConfig() ServerConfig {
	addr := os.Getenv("COLLECTHUB_HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	staticDir := os.Getenv("COLLECTHUB_STATIC_DIR")
	if staticDir == "" {
		staticDir = "static"
	}

	return ServerConfig{Addr: addr, StaticDir: staticDir}
}

package utils

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

func LoadAuthConfig() AuthConfig {
	secret := os.Getenv("EPAPERHUB_JWT_SECRET")
	if secret == "" {
		// dev default (change for production)
		secret = "dev-secret-change-me"
	}

	issuer := os.Getenv("EPAPERHUB_JWT_ISSUER")
	if issuer == "" {
		issuer = "epaperhub"
	}

	dur := 24 * time.Hour
	if ttl := os.Getenv("EPAPERHUB_JWT_TTL_HOURS"); ttl != "" {
		if h, err := strconv.Atoi(ttl); err == nil && h > 0 {
			dur = time.Duration(h) * time.Hour
		}
	}

	return AuthConfig{
		JWTSecret:   secret,
		JWTIssuer:   issuer,
		JWTDuration: dur,
	}
}

type ServerConfig struct {
	Addr           string
	PublishersPath string // optional YAML override of the publisher table
	ClearHours     []int  // wall-clock hours at which the cache is cleared
}

func LoadServerConfig() ServerConfig {
	addr := os.Getenv("EPAPERHUB_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	return ServerConfig{
		Addr:           addr,
		PublishersPath: os.Getenv("EPAPERHUB_PUBLISHERS"),
		ClearHours:     ParseHours(os.Getenv("EPAPERHUB_CLEAR_HOURS")),
	}
}

// ParseHours parses a comma-separated hour list like "16,17,18".
// Invalid or out-of-range entries are skipped; an empty or fully
// invalid value falls back to the historical 16,17,18 schedule.
func ParseHours(s string) []int {
	var hours []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		h, err := strconv.Atoi(part)
		if err != nil || h < 0 || h > 23 {
			continue
		}
		hours = append(hours, h)
	}
	if len(hours) == 0 {
		return []int{16, 17, 18}
	}
	return hours
}

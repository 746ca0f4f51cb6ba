package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseHours(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []int
	}{
		{"empty falls back", "", []int{16, 17, 18}},
		{"single hour", "6", []int{6}},
		{"list", "16,17,18", []int{16, 17, 18}},
		{"spaces tolerated", " 4 , 12 ", []int{4, 12}},
		{"invalid entries skipped", "4,noon,25,-1", []int{4}},
		{"all invalid falls back", "noon,25", []int{16, 17, 18}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseHours(tt.in))
		})
	}
}

func TestLoadAuthConfig_Defaults(t *testing.T) {
	t.Setenv("EPAPERHUB_JWT_SECRET", "")
	t.Setenv("EPAPERHUB_JWT_ISSUER", "")
	t.Setenv("EPAPERHUB_JWT_TTL_HOURS", "")

	cfg := LoadAuthConfig()
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.Equal(t, "epaperhub", cfg.JWTIssuer)
	assert.Equal(t, 24*time.Hour, cfg.JWTDuration)
}

func TestLoadAuthConfig_Overrides(t *testing.T) {
	t.Setenv("EPAPERHUB_JWT_SECRET", "s3cret")
	t.Setenv("EPAPERHUB_JWT_ISSUER", "custom")
	t.Setenv("EPAPERHUB_JWT_TTL_HOURS", "2")

	cfg := LoadAuthConfig()
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, "custom", cfg.JWTIssuer)
	assert.Equal(t, 2*time.Hour, cfg.JWTDuration)
}

func TestLoadServerConfig(t *testing.T) {
	t.Setenv("EPAPERHUB_ADDR", "")
	t.Setenv("EPAPERHUB_PUBLISHERS", "/etc/epaperhub/publishers.yaml")
	t.Setenv("EPAPERHUB_CLEAR_HOURS", "6,18")

	cfg := LoadServerConfig()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "/etc/epaperhub/publishers.yaml", cfg.PublishersPath)
	assert.Equal(t, []int{6, 18}, cfg.ClearHours)
}

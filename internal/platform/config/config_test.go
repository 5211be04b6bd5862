// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"net/netip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/worldtravels/internal/platform/config"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://wt:wt@localhost:5432/wt?sslmode=disable")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
}

/*
TestLoad_Defaults verifies default values when only required keys are set.
*/
func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 60*time.Minute, cfg.JWTTTL)
	assert.Equal(t, 15*time.Minute, cfg.VerificationCodeTTL)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.Empty(t, cfg.TrustedProxies)
}

/*
TestLoad_TrustedProxies parses the comma separated CIDR list.
*/
func TestLoad_TrustedProxies(t *testing.T) {
	setRequired(t)
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8,127.0.0.1/32")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	require.Len(t, cfg.TrustedProxies, 2)
	assert.True(t, cfg.TrustedProxies[0].Contains(netip.MustParseAddr("10.20.30.40")))
	assert.Equal(t, "127.0.0.1/32", cfg.TrustedProxies[1].String())

	t.Setenv("TRUSTED_PROXIES", "not-a-cidr")
	_, err = config.Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

/*
TestLoad_WeakSecret rejects secrets shorter than 32 characters.
*/
func TestLoad_WeakSecret(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "too-short")

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

/*
TestLoad_DotEnv reads values from a file without overriding exported ones.
*/
func TestLoad_DotEnv(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_PORT", "9000")

	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("SERVER_PORT=7000\nJWT_TTL=30m\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("JWT_TTL") })

	cfg, err := config.Load(file)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
}

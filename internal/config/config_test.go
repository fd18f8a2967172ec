// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "Vx9k!mQ2pL7wRt4nB8sD1fG6hJ3zC5yA"

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CMS_MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("CMS_JWT_SECRET", testSecret)
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "ktltc_db", cfg.MongoDB)
	assert.Equal(t, "KTLTC", cfg.SiteName)
	assert.Equal(t, "localhost", cfg.ServerHost)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.RedisURL)
	assert.False(t, cfg.DoSeed)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadMissingMongoURI(t *testing.T) {
	t.Setenv("CMS_JWT_SECRET", testSecret)
	t.Setenv("CMS_MONGO_URI", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadShortSecret(t *testing.T) {
	t.Setenv("CMS_MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("CMS_JWT_SECRET", "too-short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CMS_JWT_SECRET")
}

func TestLoadWeakSecret(t *testing.T) {
	t.Setenv("CMS_MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("CMS_JWT_SECRET", "change-me-to-32-byte-secret-key!")

	_, err := Load()
	assert.Error(t, err, "known default secret must be rejected")
}

func TestServerAddr(t *testing.T) {
	cfg := Config{ServerHost: "0.0.0.0", ServerPort: 9000}
	assert.Equal(t, "0.0.0.0:9000", cfg.ServerAddr())
}

func TestUseRedisCache(t *testing.T) {
	cfg := Config{}
	assert.False(t, cfg.UseRedisCache())

	cfg.RedisURL = "redis://localhost:6379/0"
	assert.True(t, cfg.UseRedisCache())
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		secret string
		want   bool
	}{
		{"abcdefghij", false},
		{"abcDEF123", true},
		{"abc123!@#", true},
		{"ABCDEF123456", false},
		{testSecret, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, hasMinimumEntropy(tt.secret), "hasMinimumEntropy(%q)", tt.secret)
	}
}

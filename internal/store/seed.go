// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/ktltc/cms-go/internal/auth"
	"github.com/ktltc/cms-go/internal/model"
)

// Seed creates the initial super admin account when seeding is enabled and
// the users collection is empty. The generated password is printed exactly
// once; there is no other way to recover it.
func Seed(ctx context.Context, s *Store, doSeed bool) error {
	if !doSeed {
		return nil
	}

	count, err := s.Users.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if count > 0 {
		slog.Debug("seed skipped, users already exist", "count", count)
		return nil
	}

	password, err := generatePassword()
	if err != nil {
		return fmt.Errorf("generating seed password: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing seed password: %w", err)
	}

	admin := &model.User{
		Username:     "superadmin",
		PasswordHash: hash,
		Name:         "Super Admin",
		Role:         model.RoleSuperAdmin,
		IsActive:     true,
	}

	if _, err := s.Users.Create(ctx, admin); err != nil {
		return fmt.Errorf("creating seed super admin: %w", err)
	}

	slog.Info("seeded initial super admin account",
		"username", admin.Username,
		"password", password,
		"note", "change this password after first login")
	return nil
}

// generatePassword returns a 24-character URL-safe random password.
func generatePassword() (string, error) {
	buf := make([]byte, 18)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"net/http"
	"time"

	"github.com/alexedwards/scs/mongodbstore"
	"github.com/alexedwards/scs/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

// New creates a session manager backed by the MongoDB sessions collection.
func New(db *mongo.Database, isDev bool) *scs.SessionManager {
	return newWithStore(mongodbstore.New(db), isDev)
}

func newWithStore(store scs.Store, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = store

	sm.Lifetime = 24 * time.Hour
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev // Secure cookies in production only

	// __Host- prefix pins the cookie to this host over HTTPS. Plain name
	// in development where there is no TLS.
	if !isDev {
		sm.Cookie.Name = "__Host-session"
		sm.Cookie.Path = "/"
	}

	return sm
}

// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// VisitorCountID is the _id of the running visitor counter document in the
// site_stats collection.
const VisitorCountID = "visitor_count"

// SiteStat is a document in the site_stats collection. The running visitor
// counter uses the fixed id "visitor_count"; daily breakdowns use
// "daily:YYYY-MM-DD".
type SiteStat struct {
	ID        string           `bson:"_id" json:"_id"`
	Count     int64            `bson:"count" json:"count"`
	Countries map[string]int64 `bson:"countries,omitempty" json:"countries,omitempty"`
}

// DailyStatID returns the site_stats _id for a YYYY-MM-DD day string.
func DailyStatID(day string) string {
	return "daily:" + day
}

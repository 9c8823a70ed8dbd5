// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strconv"
	"time"
)

// RelativeDate buckets a timestamp for sidebar grouping: "Today",
// "Yesterday", "N days ago" for the past week, then the locale-free
// date. Buckets are computed against calendar days, not 24h windows,
// so a chat from 23:50 still reads "Yesterday" ten minutes later.
func RelativeDate(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	y1, m1, d1 := t.Local().Date()
	y2, m2, d2 := now.Local().Date()
	day1 := time.Date(y1, m1, d1, 0, 0, 0, 0, time.Local)
	day2 := time.Date(y2, m2, d2, 0, 0, 0, 0, time.Local)

	days := int(day2.Sub(day1).Hours() / 24)
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return strconv.Itoa(days) + " days ago"
	default:
		return t.Local().Format("Jan 2, 2006")
	}
}

// ClockTime formats a message timestamp as HH:MM for display next to a
// message. Returns "" for the zero time (the pending placeholder has no
// timestamp).
func ClockTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("15:04")
}

// ParseServerTime parses an ISO-8601 timestamp as sent by the backend.
// Returns the zero time for empty or malformed input rather than an
// error; a bad timestamp only degrades display, never the message flow.
func ParseServerTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

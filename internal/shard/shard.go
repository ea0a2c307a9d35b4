// Package shard maps record dates to calendar-month shards and storage
// paths. The backend exposes no directory listing, so readers enumerate a
// bounded window of candidate shard keys and probe each path.
package shard

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDate reports a date that is not in YYYY-MM-DD form.
var ErrInvalidDate = errors.New("invalid date (want YYYY-MM-DD)")

// Key returns the shard key for an ISO date: its first seven characters
// (YYYY-MM). Two dates in the same month always share a key.
func Key(date string) (string, error) {
	if !validDate(date) {
		return "", fmt.Errorf("%q: %w", date, ErrInvalidDate)
	}
	return date[:7], nil
}

// KeyForTime returns the shard key for t.
func KeyForTime(t time.Time) string { return t.Format("2006-01") }

// Path returns the storage path for a shard: <root>/<key>.json.
func Path(root, key string) string { return root + "/" + key + ".json" }

// Window returns the probe window: the month of now plus the preceding n-1
// months, newest first.
func Window(now time.Time, n int) []string {
	keys := make([]string, 0, n)
	y, m, _ := now.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		keys = append(keys, first.AddDate(0, -i, 0).Format("2006-01"))
	}
	return keys
}

func validDate(date string) bool {
	if len(date) != 10 || date[4] != '-' || date[7] != '-' {
		return false
	}
	for i, c := range date {
		if i == 4 || i == 7 {
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	mm := (date[5]-'0')*10 + (date[6] - '0')
	dd := (date[8]-'0')*10 + (date[9] - '0')
	return mm >= 1 && mm <= 12 && dd >= 1 && dd <= 31
}

package codec

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// LongDateFormat is the timestamp layout the Graph API emits by default.
const LongDateFormat = "2006-01-02T15:04:05-0700"

// Layouts accepted by ParseDate, tried in order. Layouts without a zone are
// interpreted in UTC.
var dateLayouts = []string{
	"2006-01-02T15:04:05Z0700",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006-01",
	"01/02/2006", // birthday with year
	"01/02",      // birthday without year
	"2006",
}

// ParseDate parses any of the date shapes returned by the Graph API, including
// all-digit unix timestamps (more than four digits, so a bare year stays a
// year).
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, &FormatError{Value: s, Format: "date"}
	}
	if len(s) > 4 && allDigits(s) {
		sec, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}, &FormatError{Value: s, Format: "unix timestamp", Err: err}
		}
		return time.Unix(sec, 0).UTC(), nil
	}
	var firstErr error
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, &FormatError{Value: s, Format: "date", Err: firstErr}
}

// FormatDate renders t in LongDateFormat in UTC.
func FormatDate(t time.Time) string { return t.UTC().Format(LongDateFormat) }

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FacebookDate returns a Codec between Graph API date strings and time.Time.
func FacebookDate() Codec[string, time.Time] { return facebookDate{} }

type facebookDate struct{}

func (facebookDate) Decode(_ context.Context, a string) (time.Time, error) { return ParseDate(a) }

func (facebookDate) Encode(_ context.Context, b time.Time) (string, error) {
	return FormatDate(b), nil
}

// UnixTime returns a Codec between unix seconds and time.Time.
func UnixTime() Codec[int64, time.Time] { return unixTime{} }

type unixTime struct{}

func (unixTime) Decode(_ context.Context, a int64) (time.Time, error) {
	return time.Unix(a, 0).UTC(), nil
}

func (unixTime) Encode(_ context.Context, b time.Time) (int64, error) { return b.Unix(), nil }

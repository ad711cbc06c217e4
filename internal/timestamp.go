package internal

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Timestamp is a point in time in Unix milliseconds. Zero means unset.
//
// Decoding is lenient: JSON numbers, numeric strings and RFC3339 strings are
// accepted, and anything else (older clients wrote locale time strings such
// as "10:31:07 AM") decodes as zero rather than failing the whole log.
type Timestamp int64

// TimestampOf converts t to a Timestamp
func TimestampOf(t time.Time) Timestamp {
	return Timestamp(t.UnixMilli())
}

// Time converts the timestamp back to a time.Time. Zero yields the zero time.
func (ts Timestamp) Time() time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.UnixMilli(int64(ts))
}

// IsZero reports whether the timestamp is unset
func (ts Timestamp) IsZero() bool {
	return ts == 0
}

// UnmarshalJSON implements json.Unmarshaler
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*ts = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*ts = 0
			return nil
		}
		*ts = parseTimestamp(s)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*ts = 0
		return nil
	}
	if math.IsNaN(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		*ts = 0
		return nil
	}
	*ts = Timestamp(int64(f))
	return nil
}

// parseTimestamp parses a timestamp string, returning zero when it is not
// a number of milliseconds or an RFC3339 time
func parseTimestamp(s string) Timestamp {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Timestamp(ms)
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return TimestampOf(t)
	}
	return 0
}

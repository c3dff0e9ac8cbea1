package history

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/MrSnakeDoc/viddst/internal/domain"
)

// record is the on-disk shape of one entry. Timestamp is epoch milliseconds,
// but older writers stored it as a string, so it is decoded leniently.
type record struct {
	URL       string           `json:"url"`
	MediaType domain.MediaType `json:"mediaType"`
	Season    int              `json:"season,omitempty"`
	Episode   int              `json:"episode,omitempty"`
	Timestamp json.RawMessage  `json:"timestamp,omitempty"`
}

// Encode serializes entries newest first as a JSON array.
func Encode(entries []domain.HistoryEntry) ([]byte, error) {
	out := make([]record, 0, len(entries))
	for _, e := range entries {
		out = append(out, record{
			URL:       e.URL,
			MediaType: e.MediaType,
			Season:    e.Season,
			Episode:   e.Episode,
			Timestamp: json.RawMessage(strconv.FormatInt(e.Timestamp.UnixMilli(), 10)),
		})
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal history: %w", err)
	}
	return data, nil
}

// maxTimestampMillis bounds representable dates (±100,000,000 days around the epoch).
const maxTimestampMillis = 8.64e15

// Decode parses a persisted history array.
//
// Only a value that is not a JSON array is an error. Elements are decoded one
// by one: an element that is not an object or has no URL is dropped, later
// duplicates of a URL are dropped, and malformed fields are coerced. The
// result is capped at MaxEntries.
func Decode(data []byte, now time.Time) ([]domain.HistoryEntry, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history: %w", err)
	}

	entries := make([]domain.HistoryEntry, 0, min(len(raw), MaxEntries))
	seen := make(map[string]bool, len(raw))
	for _, elem := range raw {
		e, ok := decodeEntry(elem, now)
		if !ok || seen[e.URL] {
			continue
		}
		seen[e.URL] = true

		entries = append(entries, e)
		if len(entries) == MaxEntries {
			break
		}
	}
	return entries, nil
}

func decodeEntry(elem json.RawMessage, now time.Time) (domain.HistoryEntry, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(elem, &fields); err != nil || fields == nil {
		return domain.HistoryEntry{}, false
	}

	var url string
	if err := json.Unmarshal(fields["url"], &url); err != nil || url == "" {
		return domain.HistoryEntry{}, false
	}

	e := domain.HistoryEntry{
		URL:       url,
		MediaType: domain.MediaMovie,
		Timestamp: decodeTimestamp(fields["timestamp"], now),
	}

	var mediaType string
	if json.Unmarshal(fields["mediaType"], &mediaType) == nil && domain.MediaType(mediaType) == domain.MediaSeries {
		e.MediaType = domain.MediaSeries
		e.Season = decodeCount(fields["season"])
		e.Episode = decodeCount(fields["episode"])
	}
	return e, true
}

// decodeCount reads a season or episode number, accepting 2 or "2".
// Anything else falls back to 1.
func decodeCount(raw json.RawMessage) int {
	s := strings.TrimSpace(string(raw))
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 1 || f > math.MaxInt32 || f != math.Trunc(f) {
		return 1
	}
	return int(f)
}

// decodeTimestamp keeps any in-range JSON number as epoch milliseconds,
// zero included. A numeric string is accepted unless it is zero. Everything
// else becomes now.
func decodeTimestamp(raw json.RawMessage, now time.Time) time.Time {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return now
	}

	quoted := false
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
		quoted = true
	}

	ms, err := strconv.ParseFloat(s, 64)
	switch {
	case err != nil, math.IsNaN(ms), math.IsInf(ms, 0):
		return now
	case math.Abs(ms) > maxTimestampMillis:
		return now
	case quoted && ms == 0:
		return now
	}
	return time.UnixMilli(int64(ms))
}

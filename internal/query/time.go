package query

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/jinzhu/now"
)

// maxEpochMillis is the largest distance from the epoch a date may lie, in either direction.
const maxEpochMillis = 8.64e15

var ErrInvalidTime = errors.New("invalid date")

// textLayouts extends jinzhu/now's numeric layouts with the written-out forms
// browsers commonly send.
var textLayouts = append(append([]string{}, now.TimeFormats...),
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"Mon Jan 2 2006",
	"Mon Jan 2 2006 15:04:05",
	"2006/1/2",
	"2006/1/2 15:4:5",
	"1/2/2006",
	time.RFC1123,
	time.RFC1123Z,
	time.RFC850,
	time.ANSIC,
)

var textTime = &now.Config{
	WeekStartDay: time.Monday,
	TimeLocation: time.UTC,
	TimeFormats:  textLayouts,
}

// ParseTime converts a JSON-ish value into an instant. Numbers and integer strings are
// epoch milliseconds; any other string is parsed as date text.
func ParseTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case json.Number:
		if ms, err := t.Int64(); err == nil {
			return fromMillis(float64(ms))
		}
		f, err := t.Float64()
		if err != nil {
			return time.Time{}, ErrInvalidTime
		}
		return fromMillis(f)
	case float64:
		return fromMillis(t)
	case int64:
		return fromMillis(float64(t))
	case int:
		return fromMillis(float64(t))
	case string:
		return ParseTimeString(t)
	case time.Time:
		return t.UTC(), nil
	}
	return time.Time{}, ErrInvalidTime
}

func ParseTimeString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidTime
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return fromMillis(float64(ms))
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := textTime.Parse(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return t.UTC(), nil
}

func fromMillis(ms float64) (time.Time, error) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) || math.Abs(ms) > maxEpochMillis {
		return time.Time{}, ErrInvalidTime
	}
	return time.UnixMilli(int64(math.Trunc(ms))).UTC(), nil
}

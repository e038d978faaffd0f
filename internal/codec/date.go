// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package codec

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-note-vault/models"
)

const (
	msLayout = "2006-01-02T15:04:05.000Z07:00"
	// restLayout is msLayout without the year; used for extended years.
	restLayout = "-01-02T15:04:05.999999999Z07:00"
)

// FormatDate renders t in UTC as ISO-8601. Whole milliseconds use exactly
// three fraction digits; finer values keep nanoseconds. Years outside
// 0000-9999 use the six-digit signed form (+010000, -000001).
func FormatDate(t time.Time) string {
	t = t.UTC()
	if y := t.Year(); y < 0 || y > 9999 {
		sign := "+"
		if y < 0 {
			sign, y = "-", -y
		}
		return fmt.Sprintf("%s%06d%s", sign, y, t.Format(restLayout))
	}
	if t.Nanosecond()%int(time.Millisecond) == 0 {
		return t.Format(msLayout)
	}
	return t.Format(time.RFC3339Nano)
}

// ParseDate is the inverse of FormatDate. It accepts any RFC 3339 offset
// and fraction length.
func ParseDate(s string) (time.Time, error) {
	if len(s) > 7 && (s[0] == '+' || s[0] == '-') {
		year, err := strconv.Atoi(s[1:7])
		if err != nil {
			return time.Time{}, fmt.Errorf("bad extended year in %q: %w", s, err)
		}
		if s[0] == '-' {
			year = -year
		}
		// 2000 is a leap year, so Feb 29 survives the placeholder
		t, err := time.Parse(time.RFC3339Nano, "2000"+s[7:])
		if err != nil {
			return time.Time{}, err
		}
		return time.Date(year, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location()), nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

func tagDate(t time.Time) models.TaggedDate {
	return models.TaggedDate{DateType: models.DateTypeTag, Value: FormatDate(t)}
}

// untagDate reports whether m is a TaggedDate and, if so, its time.
func untagDate(m map[string]any) (time.Time, bool) {
	if len(m) != 2 || m[models.DateTypeField] != models.DateTypeTag {
		return time.Time{}, false
	}
	s, ok := m[models.DateValueField].(string)
	if !ok || strings.TrimSpace(s) == "" {
		return time.Time{}, false
	}
	t, err := ParseDate(s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

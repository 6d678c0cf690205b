// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"fmt"
	"html/template"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/olegiv/eventix/internal/api"
	"github.com/olegiv/eventix/internal/identity"
	"github.com/olegiv/eventix/internal/util"
)

const (
	dateFormat     = "02/01/2006"
	dateTimeFormat = "02/01/2006 15:04"
)

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate":     formatDate,
		"formatDateTime": formatDateTime,
		"inputDate":      inputDate,
		"amount":         amount,
		"markdown":       Markdown,
		"eventPath":      util.EventPath,
		"truncate":       truncate,
		"percent":        percent,
		"roleLabel":      roleLabel,
		"statusClass":    statusClass,
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"seq": func(start, end int) []int {
			var result []int
			for i := start; i <= end; i++ {
				result = append(result, i)
			}
			return result
		},
		"dict": dict,
	}
}

func asTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case api.Date:
		return t.Time
	case api.DateTime:
		return t.Time
	case *time.Time:
		if t != nil {
			return *t
		}
	}
	return time.Time{}
}

func formatDate(v any) string {
	t := asTime(v)
	if t.IsZero() {
		return ""
	}
	return t.Format(dateFormat)
}

func formatDateTime(v any) string {
	t := asTime(v)
	if t.IsZero() {
		return ""
	}
	return t.Format(dateTimeFormat)
}

// inputDate formats a date for an <input type="date"> value.
func inputDate(v any) string {
	t := asTime(v)
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func amount(v any) string {
	switch n := v.(type) {
	case int:
		return util.FormatAmount(float64(n))
	case int64:
		return util.FormatAmount(float64(n))
	case float64:
		return util.FormatAmount(n)
	default:
		return util.FormatAmount(0)
	}
}

func truncate(s string, length int) string {
	if utf8.RuneCountInString(s) <= length {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:length])) + "…"
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f %%", v)
}

func roleLabel(v any) string {
	role, err := identity.ParseRole(fmt.Sprint(v))
	if err != nil {
		return fmt.Sprint(v)
	}
	return role.Label()
}

// statusClass maps an event status to the badge CSS class.
func statusClass(s api.EventStatus) string {
	switch s {
	case api.EventActive, api.EventOngoing:
		return "badge-success"
	case api.EventUpcoming:
		return "badge-info"
	case api.EventPending:
		return "badge-warning"
	default:
		return "badge-muted"
	}
}

// dict builds a map for passing several values to a partial.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

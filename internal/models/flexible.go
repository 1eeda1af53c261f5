package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StringList accepts either a single JSON string or an array of strings.
// Clients send "photos" and "highlights" in both shapes.
type StringList struct {
	single string
	many   []string
	isMany bool
}

// NewStringList builds a StringList from an already-normalized slice.
func NewStringList(values []string) StringList {
	return StringList{many: values, isMany: true}
}

// SingleString wraps a raw string value, e.g. a form field.
func SingleString(s string) StringList {
	return StringList{single: s}
}

func (s *StringList) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = StringList{single: str}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = StringList{many: list, isMany: true}
		return nil
	}
	return fmt.Errorf("expected string or array of strings, got %s", string(data))
}

func (s StringList) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

// Values returns the canonical slice: a single string becomes a
// one-element slice, an absent value becomes an empty slice.
func (s StringList) Values() []string {
	if s.isMany {
		if s.many == nil {
			return []string{}
		}
		return s.many
	}
	if s.single == "" {
		return []string{}
	}
	return []string{s.single}
}

// SplitCommas normalizes highlights: a single string is split on commas
// and trimmed, an array is taken as-is.
func (s StringList) SplitCommas() []string {
	if s.isMany {
		if s.many == nil {
			return []string{}
		}
		return s.many
	}
	if s.single == "" {
		return []string{}
	}
	parts := strings.Split(s.single, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// IsZero reports whether no value was supplied at all.
func (s StringList) IsZero() bool {
	return !s.isMany && s.single == ""
}

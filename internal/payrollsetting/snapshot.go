package payrollsetting

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Entry struct {
	Value string    `json:"value"`
	Type  ValueType `json:"type"`
}

// Snapshot is an immutable view of every setting, taken once per calculation.
// Lookups never fail: a missing or malformed key yields the caller's default.
type Snapshot struct {
	Entries map[string]Entry `json:"entries"`

	logger *zap.Logger
}

func NewSnapshot(settings []PayrollSetting) Snapshot {
	entries := make(map[string]Entry, len(settings))
	for _, s := range settings {
		entries[s.Key] = Entry{Value: s.Value, Type: s.Type}
	}
	return Snapshot{Entries: entries}
}

func (s Snapshot) withLogger(l *zap.Logger) Snapshot {
	s.logger = l
	return s
}

func (s Snapshot) fallback(key, reason string, def any) {
	if s.logger == nil {
		return
	}
	s.logger.Debug("payroll setting fallback",
		zap.String("key", key),
		zap.String("reason", reason),
		zap.Any("default", def),
	)
}

func (s Snapshot) lookup(key string) (string, bool) {
	e, ok := s.Entries[key]
	if !ok {
		return "", false
	}
	return strings.TrimSpace(e.Value), true
}

func (s Snapshot) Decimal(key string, def decimal.Decimal) decimal.Decimal {
	raw, ok := s.lookup(key)
	if !ok {
		s.fallback(key, "missing", def.String())
		return def
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		s.fallback(key, "malformed", def.String())
		return def
	}
	return v
}

func (s Snapshot) Int(key string, def int) int {
	raw, ok := s.lookup(key)
	if !ok {
		s.fallback(key, "missing", def)
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		s.fallback(key, "malformed", def)
		return def
	}
	return v
}

func (s Snapshot) Bool(key string, def bool) bool {
	raw, ok := s.lookup(key)
	if !ok {
		s.fallback(key, "missing", def)
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		s.fallback(key, "malformed", def)
		return def
	}
	return v
}

func (s Snapshot) String(key string, def string) string {
	raw, ok := s.lookup(key)
	if !ok || raw == "" {
		s.fallback(key, "missing", def)
		return def
	}
	return raw
}

// Clock reads an "HH:MM" value. A malformed value yields def, which must be well formed.
func (s Snapshot) Clock(key, def string) (hour, minute int) {
	raw := s.String(key, def)
	t, err := time.Parse("15:04", raw)
	if err != nil {
		s.fallback(key, "malformed", def)
		t, _ = time.Parse("15:04", def)
	}
	return t.Hour(), t.Minute()
}

// Manila is used when the configured zone cannot be loaded (no tzdata on the host).
var Manila = time.FixedZone("PHT", 8*60*60)

// Location resolves an IANA zone name stored under key.
func (s Snapshot) Location(key string) *time.Location {
	name := s.String(key, "Asia/Manila")
	loc, err := time.LoadLocation(name)
	if err != nil {
		s.fallback(key, "unknown zone", Manila.String())
		return Manila
	}
	return loc
}

// validValue checks that value parses as t.
func validValue(t ValueType, value string) bool {
	value = strings.TrimSpace(value)
	switch t {
	case TypeDecimal:
		_, err := decimal.NewFromString(value)
		return err == nil
	case TypeInteger:
		_, err := strconv.Atoi(value)
		return err == nil
	case TypeBoolean:
		_, err := strconv.ParseBool(value)
		return err == nil
	case TypeString:
		return true
	}
	return false
}

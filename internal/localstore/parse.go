package localstore

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/osse101/TapQuest_Go/internal/domain"
)

// ParseFloatOr returns the parsed value, or def when raw is absent, unparsable or not finite
func ParseFloatOr(raw string, present bool, def float64) float64 {
	if v, ok := parseFloat(raw, present); ok {
		return v
	}
	return def
}

// ParseTimeOr reads a unix-millisecond timestamp, or returns def when absent, unparsable or non-positive
func ParseTimeOr(raw string, present bool, def time.Time) time.Time {
	if t, ok := parseTime(raw, present); ok {
		return t
	}
	return def
}

func parseFloat(raw string, present bool) (float64, bool) {
	if !present {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func parseTime(raw string, present bool) (time.Time, bool) {
	if !present {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || ms <= 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

// ParseSnapshotOr decodes a cached user record, or returns def and false when absent or invalid
func ParseSnapshotOr(raw string, present bool, def domain.UserProgress) (domain.UserProgress, bool) {
	if !present {
		return def, false
	}
	u, err := domain.UnmarshalSnapshot(raw)
	if err != nil {
		return def, false
	}
	return u, true
}

// FormatTime encodes t the way ParseTimeOr reads it
func FormatTime(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

// FormatFloat encodes an energy value
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// EnergyRecord is the persisted energy pair
type EnergyRecord struct {
	Energy   float64
	LastTick time.Time
	// Recovered is true when any stored value was missing or corrupt and a default was used
	Recovered bool
}

// LoadEnergy reads energy and last tick, falling back to defEnergy and defTick
func LoadEnergy(ctx context.Context, s Store, defEnergy float64, defTick time.Time) (EnergyRecord, error) {
	rawEnergy, hasEnergy, err := s.Get(ctx, KeyEnergy)
	if err != nil {
		return EnergyRecord{}, err
	}
	rawTick, hasTick, err := s.Get(ctx, KeyLastTick)
	if err != nil {
		return EnergyRecord{}, err
	}

	energy, energyOK := parseFloat(rawEnergy, hasEnergy)
	if energy < 0 {
		energyOK = false
	}
	lastTick, tickOK := parseTime(rawTick, hasTick)

	rec := EnergyRecord{Energy: energy, LastTick: lastTick}
	if !energyOK {
		rec.Energy = defEnergy
		rec.Recovered = true
	}
	if !tickOK {
		rec.LastTick = defTick
		rec.Recovered = true
	}
	return rec, nil
}

// SaveEnergy writes energy and last tick together
func SaveEnergy(ctx context.Context, s Store, energy float64, lastTick time.Time) error {
	return s.SetMany(ctx, map[string]string{
		KeyEnergy:   FormatFloat(energy),
		KeyLastTick: FormatTime(lastTick),
	})
}

// LoadSnapshot reads the cached user record
func LoadSnapshot(ctx context.Context, s Store) (domain.UserProgress, bool, error) {
	raw, ok, err := s.Get(ctx, KeyUserSnapshot)
	if err != nil {
		return domain.UserProgress{}, false, err
	}
	u, ok := ParseSnapshotOr(raw, ok, domain.UserProgress{})
	return u, ok, nil
}

// SaveSnapshot caches the user record
func SaveSnapshot(ctx context.Context, s Store, u domain.UserProgress) error {
	raw, err := u.MarshalSnapshot()
	if err != nil {
		return err
	}
	return s.Set(ctx, KeyUserSnapshot, raw)
}

package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// ItemType identifies a shop upgrade
type ItemType string

const (
	ItemTapStrength  ItemType = "tapStrength"
	ItemRecoverSpeed ItemType = "recoverSpeed"
	ItemEnergyLevel  ItemType = "energyLevel"
)

// AllItemTypes lists upgrades in ItemLevels slot order
var AllItemTypes = []ItemType{ItemTapStrength, ItemRecoverSpeed, ItemEnergyLevel}

// Index returns the ItemLevels slot for the item type
func (t ItemType) Index() (int, bool) {
	switch t {
	case ItemTapStrength:
		return 0, true
	case ItemRecoverSpeed:
		return 1, true
	case ItemEnergyLevel:
		return 2, true
	}
	return 0, false
}

// Valid reports whether t is a known upgrade
func (t ItemType) Valid() bool {
	_, ok := t.Index()
	return ok
}

// ItemLevels holds upgrade levels as [tapStrength, recoverSpeed, energyLevel]
type ItemLevels [3]int

// Level returns the level for an item type, 0 for unknown types
func (l ItemLevels) Level(t ItemType) int {
	idx, ok := t.Index()
	if !ok {
		return 0
	}
	return l[idx]
}

// With returns a copy of l with the item type set to level
func (l ItemLevels) With(t ItemType, level int) ItemLevels {
	if idx, ok := t.Index(); ok {
		l[idx] = level
	}
	return l
}

// Validate checks every slot is within [0, MaxItemLevel]
func (l ItemLevels) Validate() error {
	for i, lvl := range l {
		if lvl < 0 || lvl > MaxItemLevel {
			return fmt.Errorf("%w: item level %d out of range at slot %d", ErrInvalidInput, lvl, i)
		}
	}
	return nil
}

// UserProgress is the persisted player record
type UserProgress struct {
	Identity    string     `json:"identity"`
	Name        string     `json:"name"`
	IsPremium   bool       `json:"is_premium"`
	Balance     int64      `json:"balance"`
	TotalEarned int64      `json:"total_earned"`
	EarnPerTap  int        `json:"earn_per_tap"`
	ItemLevels  ItemLevels `json:"item_levels"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewUserProgress returns a fresh record with starting values
func NewUserProgress(identity, name string, isPremium bool) UserProgress {
	return UserProgress{
		Identity:   identity,
		Name:       name,
		IsPremium:  isPremium,
		EarnPerTap: DefaultEarnPerTap,
	}
}

// MarshalSnapshot encodes the record for local caching
func (u UserProgress) MarshalSnapshot() (string, error) {
	b, err := json.Marshal(u)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// UnmarshalSnapshot decodes a cached record and checks it is usable
func UnmarshalSnapshot(raw string) (UserProgress, error) {
	var u UserProgress
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return UserProgress{}, err
	}
	if u.Identity == "" {
		return UserProgress{}, fmt.Errorf("%w: snapshot has no identity", ErrInvalidInput)
	}
	if err := u.ItemLevels.Validate(); err != nil {
		return UserProgress{}, err
	}
	if u.EarnPerTap < 1 {
		u.EarnPerTap = DefaultEarnPerTap
	}
	return u, nil
}

// Profile is a user record with derived level information
type Profile struct {
	UserProgress
	LevelInfo LevelInfo `json:"level_info"`
}

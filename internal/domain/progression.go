package domain

import "math"

// LevelInfo describes a player's level derived from total earnings
type LevelInfo struct {
	Level           int     `json:"level"`
	ProgressPercent float64 `json:"progress_percent"`
	PointsToNext    int64   `json:"points_to_next"`
	MaxLevel        bool    `json:"max_level"`
}

// ComputeLevel derives level info from cumulative points
func ComputeLevel(totalEarned int64) LevelInfo {
	if totalEarned < 0 {
		totalEarned = 0
	}
	level := int(totalEarned / PointsPerLevel)
	if level >= MaxPlayerLevel {
		return LevelInfo{Level: MaxPlayerLevel, ProgressPercent: 100, MaxLevel: true}
	}
	inLevel := totalEarned - int64(level)*PointsPerLevel
	return LevelInfo{
		Level:           level,
		ProgressPercent: float64(inLevel) / PointsPerLevel * 100,
		PointsToNext:    int64(level+1)*PointsPerLevel - totalEarned,
	}
}

// EnergyCapacity returns max energy for the given upgrade levels
func EnergyCapacity(levels ItemLevels) float64 {
	return float64(BaseEnergyCapacity + levels.Level(ItemEnergyLevel)*EnergyPerLevel)
}

// RegenRate returns energy regenerated per second for the given upgrade levels
func RegenRate(levels ItemLevels) float64 {
	return float64(BaseRegenPerSecond + levels.Level(ItemRecoverSpeed))
}

// TapYield returns points earned by one tap event carrying touchCount touch points.
// Touch counts outside 1..MaxTouchesPerTap yield nothing.
func TapYield(earnPerTap int, levels ItemLevels, touchCount int) int64 {
	if touchCount < 1 || touchCount > MaxTouchesPerTap {
		return 0
	}
	return int64(touchCount) * int64(earnPerTap+levels.Level(ItemTapStrength)) * TapPointsMultiplier
}

// UpgradeCost returns floor(baseCost * growth^level)
func UpgradeCost(baseCost int64, level int) int64 {
	return int64(math.Floor(float64(baseCost) * math.Pow(UpgradeCostGrowth, float64(level))))
}

package domain

// LeaderboardEntry is one ranked row of the leaderboard
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	Identity    string `json:"identity"`
	Name        string `json:"name"`
	TotalEarned int64  `json:"total_earned"`
	Level       int    `json:"level"`
}

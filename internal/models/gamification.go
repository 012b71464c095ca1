package models

import "time"

// XPReason describes why experience points were awarded
type XPReason string

const (
	XPReasonLessonCompleted XPReason = "lesson_completed"
	XPReasonCourseCompleted XPReason = "course_completed"
	XPReasonStreakMilestone XPReason = "streak_milestone"
)

// XPLog represents a single XP award
type XPLog struct {
	ID          int       `json:"id"`
	UserID      int       `json:"userId"`
	Amount      int       `json:"amount"`
	Reason      XPReason  `json:"reason"`
	ReferenceID *int      `json:"referenceId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UserStreak represents a user's daily activity streak
type UserStreak struct {
	UserID           int        `json:"userId"`
	CurrentStreak    int        `json:"currentStreak"`
	LongestStreak    int        `json:"longestStreak"`
	LastActivityDate *time.Time `json:"lastActivityDate,omitempty"`
}

// UserStats represents a user's gamification summary
type UserStats struct {
	TotalXP       int `json:"totalXp"`
	Level         int `json:"level"`
	XPToNextLevel int `json:"xpToNextLevel"`
	CurrentStreak int `json:"currentStreak"`
	LongestStreak int `json:"longestStreak"`
}

// LeaderboardEntry represents a ranked user
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   int    `json:"userId"`
	Username string `json:"username"`
	TotalXP  int    `json:"totalXp"`
	Level    int    `json:"level"`
}

// XPTotal is a user's aggregated XP
type XPTotal struct {
	UserID  int
	TotalXP int
}

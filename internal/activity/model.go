package activity

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatusSolved     = "solved"
	StatusAttempted  = "attempted"
	StatusBookmarked = "bookmarked"
)

type Activity struct {
	ID          uint                        `gorm:"primaryKey"`
	UserID      uint                        `gorm:"not null;index"`
	ProblemName string                      `gorm:"size:255;not null"`
	ProblemURL  string                      `gorm:"column:problem_url;size:500;not null"`
	Difficulty  string                      `gorm:"size:10;not null"`
	TopicTags   datatypes.JSONSlice[string] `gorm:"column:topic_tags"`
	Status      string                      `gorm:"size:20;not null"`
	CompletedAt time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Activity) TableName() string {
	return "activities"
}

type Stats struct {
	Total      int64 `json:"total"`
	Solved     int64 `json:"solved"`
	Attempted  int64 `json:"attempted"`
	Bookmarked int64 `json:"bookmarked"`
}

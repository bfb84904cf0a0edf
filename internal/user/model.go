package user

import (
	"time"
)

const DefaultDailyTarget = 5

type User struct {
	ID                    uint       `gorm:"primaryKey"`
	Email                 string     `gorm:"uniqueIndex;not null"`
	PasswordHash          *string    `gorm:"column:hashed_password"`
	IsVerified            bool       `gorm:"not null;default:false"`
	VerificationCode      *string    `gorm:"size:6"`
	VerificationExpiresAt *time.Time `gorm:"column:verification_code_expires"`
	LastCodeSentAt        *time.Time
	ResendCooldownSeconds int       `gorm:"not null;default:30"`
	DisplayName           *string   `gorm:"size:255"`
	TargetDaily           int       `gorm:"not null;default:5"`
	ProgressToday         int       `gorm:"not null;default:0"`
	ProgressDate          time.Time `gorm:"type:date;not null;default:CURRENT_DATE"`
	CreatedAt             time.Time
}

func (User) TableName() string {
	return "users"
}

func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

func (u *User) Name() string {
	if u.DisplayName == nil {
		return ""
	}
	return *u.DisplayName
}

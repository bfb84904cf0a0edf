package blocklist

import "time"

type Item struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;index"`
	Website   string `gorm:"size:255;not null"`
	CreatedAt time.Time
}

func (Item) TableName() string {
	return "blocklist_items"
}

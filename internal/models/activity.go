package models

import (
	"time"

	"gorm.io/gorm"
)

// Activity is one historical record of an attempted interaction, directed
// sender -> receiver. The table is append-mostly: the only in-place
// mutation is the Status flip on interest/superInterest entries when the
// pair resolves to accepted/declined.
type Activity struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	SenderID   uint           `gorm:"not null;index:idx_act_sender_created" json:"sender_id"`
	ReceiverID uint           `gorm:"not null;index:idx_act_receiver_created" json:"receiver_id"`
	Type       string         `gorm:"size:32;not null;index" json:"type"`
	Status     string         `gorm:"size:16;not null;default:'none'" json:"status"`
	Cost       int64          `gorm:"not null;default:0" json:"cost"`
	Metadata   string         `gorm:"type:text" json:"metadata"` // JSON payload (message text, meeting details, ...)
	CreatedAt  time.Time      `gorm:"index:idx_act_sender_created;index:idx_act_receiver_created" json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Sender   User `gorm:"foreignKey:SenderID" json:"-"`
	Receiver User `gorm:"foreignKey:ReceiverID" json:"-"`
}

func (Activity) TableName() string { return "activities" }

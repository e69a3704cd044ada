package models

import "time"

// EntryLog is the append-only audit record of one successful redemption.
// Written in the same transaction as the pass decrement.
type EntryLog struct {
	ID          string    `gorm:"column:id;type:uuid;primary_key" json:"id"`
	MemberID    string    `gorm:"column:member_id;type:uuid;not null;index" json:"member_id"`
	PhoneNumber string    `gorm:"column:phone_number;type:varchar(16);not null" json:"phone_number"`
	Name        string    `gorm:"column:name;type:varchar(64);not null" json:"name"`
	PassType    string    `gorm:"column:pass_type;type:varchar(64);not null" json:"pass_type"`
	EntryTime   time.Time `gorm:"column:entry_time;not null;index:,sort:desc" json:"entry_time"`
	CreatedAt   time.Time `json:"created_at"`
}

func (EntryLog) TableName() string {
	return "entry_logs"
}

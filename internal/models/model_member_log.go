package models

import (
	"time"

	"github.com/hyosobang/passgate/pkg/types"
)

// MemberLog is the append-only lifecycle audit trail (가입/탈퇴/강제탈퇴).
// Writes are best-effort: a failed audit write never blocks the member
// operation itself.
type MemberLog struct {
	ID          string             `gorm:"column:id;type:uuid;primary_key" json:"id"`
	PhoneNumber string             `gorm:"column:phone_number;type:varchar(16);not null;index" json:"phone_number"`
	Name        string             `gorm:"column:name;type:varchar(64);not null" json:"name"`
	ActionType  types.MemberAction `gorm:"column:action_type;type:varchar(32);not null" json:"action_type"`
	CreatedAt   time.Time          `json:"created_at"`
}

func (MemberLog) TableName() string {
	return "member_logs"
}

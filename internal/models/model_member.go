package models

import "time"

// Member is an identity record keyed by phone number and, once a ticket has
// been issued, by an opaque QR token. The QR token binds to the member id,
// not the phone number: editing the phone never invalidates issued tickets.
type Member struct {
	ID          string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Name        string `gorm:"column:name;type:varchar(64);not null" json:"name"`
	PhoneNumber string `gorm:"column:phone_number;type:varchar(16);not null;uniqueIndex" json:"phone_number"`
	// QrCode is nil until a ticket is issued. Unique when present; the sole
	// lookup key for scan-based flows.
	QrCode *string `gorm:"column:qr_code;type:varchar(64);uniqueIndex" json:"qr_code"`
	// SecondPassword is an optional recovery secret, bcrypt-hashed at rest.
	// Empty means the member never set one.
	SecondPassword string    `gorm:"column:second_password;type:varchar(128)" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Member) TableName() string {
	return "members"
}

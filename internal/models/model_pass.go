package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/hyosobang/passgate/pkg/types"
)

// Pass is one purchased entitlement: a ledger row with a decrementing
// counter. Rows are never merged or deleted by normal flows; redemption is
// the only mutation and it flips IsActive off when the counter hits zero.
// Invariant: 0 <= RemainingCount <= PurchaseCount, IsActive iff remaining > 0,
// both maintained by the conditional decrement in the redemption service.
type Pass struct {
	ID          string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	MemberID    string `gorm:"column:member_id;type:uuid;not null;index" json:"member_id"`
	PhoneNumber string `gorm:"column:phone_number;type:varchar(16);not null;index" json:"phone_number"`
	Name        string `gorm:"column:name;type:varchar(64);not null" json:"name"`
	// PassType is the catalog item label at purchase time (e.g. "10회권").
	PassType       string     `gorm:"column:pass_type;type:varchar(64);not null" json:"pass_type"`
	PurchaseCount  int        `gorm:"column:purchase_count;not null" json:"purchase_count"`
	RemainingCount int        `gorm:"column:remaining_count;not null" json:"remaining_count"`
	Price          int64      `gorm:"column:price;not null;default:0" json:"price"`
	PurchaseDate   time.Time  `gorm:"column:purchase_date;not null;index" json:"purchase_date"`
	LastUsedDate   *time.Time `gorm:"column:last_used_date" json:"last_used_date"`
	IsActive       bool       `gorm:"column:is_active;not null" json:"is_active"`
	// Extra snapshots the catalog item sold, so catalog edits never rewrite
	// purchase history.
	Extra     datatypes.JSONType[PassExtra] `gorm:"column:extra;type:jsonb" json:"extra"`
	CreatedAt time.Time                     `json:"created_at"`
	UpdatedAt time.Time                     `json:"updated_at"`
}

type PassExtra struct {
	Item *types.PassItem `json:"item,omitempty"`
}

func (Pass) TableName() string {
	return "purchase_history"
}

// GetItemSnapshot returns the catalog item captured at purchase time, nil if
// the row predates snapshotting.
func (p *Pass) GetItemSnapshot() *types.PassItem {
	return p.Extra.Data().Item
}

// NewPassExtra builds the jsonb snapshot for a catalog item.
func NewPassExtra(item *types.PassItem) datatypes.JSONType[PassExtra] {
	return datatypes.NewJSONType(PassExtra{Item: item})
}

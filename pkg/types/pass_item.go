package types

// PassItem is a sellable entry-pass product from the config catalog.
// The catalog is configuration, not a table: a purchase snapshots the item
// into the ledger row so later catalog edits never rewrite history.
type PassItem struct {
	ID    string `json:"id" mapstructure:"id"`
	Name  string `json:"name" mapstructure:"name"`
	Count int    `json:"count" mapstructure:"count"`
	Price int64  `json:"price" mapstructure:"price"`
}

// MemberAction labels a member lifecycle audit record.
type MemberAction string

const (
	MemberActionSignup      MemberAction = "가입"
	MemberActionWithdraw    MemberAction = "탈퇴"
	MemberActionForceDelete MemberAction = "강제탈퇴"
)

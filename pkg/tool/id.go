package tool

import "github.com/google/uuid"

// GenerateUUIDV7 returns a time-ordered id for primary keys.
func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// GenerateTicketToken returns the opaque unguessable token bound to a member
// and embedded in /my-qr/{token} deep links. Random (v4), not time-ordered,
// so issuance time cannot be inferred from the token.
func GenerateTicketToken() string {
	return uuid.NewString()
}

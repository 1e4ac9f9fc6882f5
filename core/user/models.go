package user

import "time"

// User mirrors one row of the external auth provider's users table. Identity
// is wholly owned by the provider; the only column this system writes is the
// premium entitlement, and only from the payment webhook flow.
type User struct {
	ID        string    `json:"id" db:"id"` // provider-issued UUID
	Email     string    `json:"email" db:"email"`
	IsPremium bool      `json:"is_premium" db:"is_premium"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// Identity is the resolved caller: anonymous when ID is empty.
type Identity struct {
	ID    string
	Email string
}

func (id Identity) Anonymous() bool { return id.ID == "" }

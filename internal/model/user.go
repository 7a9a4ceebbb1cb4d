package model

import "time"

// User roles and membership statuses stored on the users table.
const (
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"

	MembershipActive   = "ACTIVE"
	MembershipInactive = "INACTIVE"
	MembershipPending  = "PENDING"
)

// User is a club member or administrator account.
//
// Fields:
//  ID               – primary key identifier.
//  Email            – unique login email (stored lowercase).
//  PasswordHash     – bcrypt hashed password, never serialized.
//  FirstName        – given name.
//  LastName         – family name.
//  Role             – ADMIN or MEMBER.
//  MembershipStatus – ACTIVE, INACTIVE or PENDING.
//  CreatedAt        – registration timestamp.
//  UpdatedAt        – last update timestamp.
type User struct {
	ID               uint64    `json:"id"`                // users.id
	Email            string    `json:"email"`             // users.email
	PasswordHash     string    `json:"-"`                 // users.password_hash
	FirstName        string    `json:"first_name"`        // users.first_name
	LastName         string    `json:"last_name"`         // users.last_name
	Role             string    `json:"role"`              // users.role
	MembershipStatus string    `json:"membership_status"` // users.membership_status
	CreatedAt        time.Time `json:"created_at"`        // users.created_at
	UpdatedAt        time.Time `json:"updated_at"`        // users.updated_at
}

package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleInformant UserRole = "INFORMANT"
	RoleReporter  UserRole = "REPORTER"
	RoleAdmin     UserRole = "ADMIN"
)

// AuthProvider identifies which identity source a user signed up through.
type AuthProvider string

const (
	ProviderGoogle AuthProvider = "GOOGLE"
	ProviderKakao  AuthProvider = "KAKAO"
	ProviderNaver  AuthProvider = "NAVER"
	// ProviderLocal is reserved for password-based admin dashboard accounts.
	ProviderLocal AuthProvider = "LOCAL"
)

// User represents an application user stored in the users table.
type User struct {
	ID           string       `db:"id" json:"id"`
	Email        string       `db:"email" json:"email"`
	Name         string       `db:"name" json:"name"`
	PasswordHash string       `db:"password_hash" json:"-"`
	Role         UserRole     `db:"role" json:"role"`
	Provider     AuthProvider `db:"provider" json:"provider"`
	Active       bool         `db:"active" json:"active"`
	LastLogin    *time.Time   `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

// Reputation aggregates an informant's submission track record.
type Reputation struct {
	UserID        string    `db:"user_id" json:"user_id"`
	Score         int       `db:"score" json:"score"`
	ReportCount   int       `db:"report_count" json:"report_count"`
	ApprovedCount int       `db:"approved_count" json:"approved_count"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// UserWithReputation is the /users/me projection.
type UserWithReputation struct {
	User
	Reputation *Reputation `json:"reputation,omitempty"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

package model

import "time"

// User represents an application user record as stored in the `users`
// table. Password reset fields hold only the SHA-256 hash of the reset
// token, never the token itself; the plain value travels to the user by
// email and is discarded.
//
// Fields:
//  ID               – primary key identifier.
//  Username         – display name chosen at signup.
//  Email            – unique email address.
//  PasswordHash     – bcrypt hashed password.
//  Role             – "user" or "admin".
//  IsSuspended      – set by an admin; suspended users cannot log in.
//  ResetTokenHash   – SHA-256 hex digest of the active reset token (nullable).
//  ResetTokenExpiry – when the reset token stops being accepted (nullable).
//  CreatedAt        – timestamp of creation.
//  UpdatedAt        – timestamp of last update.
type User struct {
	ID               uint64     // users.id
	Username         string     // users.username
	Email            string     // users.email
	PasswordHash     string     // users.password_hash
	Role             string     // users.role
	IsSuspended      bool       // users.is_suspended
	ResetTokenHash   *string    // users.reset_token_hash (nullable)
	ResetTokenExpiry *time.Time // users.reset_token_expiry (nullable)
	CreatedAt        time.Time  // users.created_at
	UpdatedAt        time.Time  // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table. Each refresh
// token belongs to a user; only the SHA-256 hash of the raw token is stored.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}

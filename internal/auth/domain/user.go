package domain

import "time"

// User is an account record. Email is stored lowercased. PasswordHash is
// empty for federated-only accounts; FederatedID is nil for local accounts.
// An account with neither cannot authenticate by any path but may still exist
// as a disabled record.
type User struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string  // argon2 encoded, "" = unusable password
	FederatedID  *string // external identity provider subject, unique when set
	Salt         string  // random hex, assigned at creation
	TOTPSecret   *string // base32 TOTP secret (nullable)
	TOTPEnabled  *time.Time
	IsStaff      bool
	IsSuperuser  bool
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the user gets the admin role claim.
func (u User) IsAdmin() bool {
	return u.IsStaff || u.IsSuperuser
}

// HasUsablePassword reports whether password login is possible at all.
func (u User) HasUsablePassword() bool {
	return u.PasswordHash != ""
}

// MFARequired reports whether a TOTP second factor is active for this user.
func (u User) MFARequired() bool {
	return u.TOTPEnabled != nil && u.TOTPSecret != nil && *u.TOTPSecret != ""
}

package models

// Customer is the principal API keys are issued on behalf of. Its active
// state is an independent gate: deactivating a customer denies all of its
// keys without touching the key rows.
type Customer struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Organization string `json:"organization,omitempty"`
	IsActive     bool   `json:"is_active"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
}

// User is an administrator of the control plane, not a streaming client.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email,omitempty"`
	DisplayName  string `json:"display_name,omitempty"`
	PasswordHash string `json:"-"`
	IsActive     bool   `json:"is_active"`
	IsAdmin      bool   `json:"is_admin"`
	CreatedAt    int64  `json:"created_at"`
	LastLoginAt  *int64 `json:"last_login_at,omitempty"`
}

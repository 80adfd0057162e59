package models

type APIKey struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	KeyHash    string `json:"-"`
	KeyPrefix  string `json:"key_prefix"`
	IsActive   bool   `json:"is_active"`
	CanPublish bool   `json:"can_publish"`
	CanRead    bool   `json:"can_read"`
	LastUsedAt *int64 `json:"last_used_at,omitempty"`
	ExpiresAt  *int64 `json:"expires_at,omitempty"`
	CreatedAt  int64  `json:"created_at"`
}

// IsValid reports whether the key itself is usable: active and, when an
// expiry is set, not past it. The customer gate is checked separately.
func (k *APIKey) IsValid(now int64) bool {
	if !k.IsActive {
		return false
	}
	if k.ExpiresAt != nil && *k.ExpiresAt <= now {
		return false
	}
	return true
}

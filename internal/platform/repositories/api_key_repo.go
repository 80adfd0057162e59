package repositories

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/emfoursolutions/mtxbridge/internal/platform/models"
)

type APIKeyRepository struct {
	db *sql.DB
}

func NewAPIKeyRepository(db *sql.DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

func (r *APIKeyRepository) Create(key *models.APIKey) error {
	if key.ID == "" {
		key.ID = "key_" + uuid.New().String()
	}
	key.CreatedAt = time.Now().Unix()
	key.IsActive = true

	query := `
		INSERT INTO api_keys (id, customer_id, name, key_hash, key_prefix, is_active, can_publish, can_read, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, key.ID, key.CustomerID, key.Name, key.KeyHash, key.KeyPrefix, key.IsActive, key.CanPublish, key.CanRead, key.CreatedAt, key.ExpiresAt)
	return err
}

// GetByHash resolves a key by its stored digest. Returns (nil, nil) when no
// key carries that digest.
func (r *APIKeyRepository) GetByHash(hash string) (*models.APIKey, error) {
	query := `SELECT id, customer_id, name, key_prefix, is_active, can_publish, can_read, created_at, last_used_at, expires_at FROM api_keys WHERE key_hash = ?`
	row := r.db.QueryRow(query, hash)

	var k models.APIKey
	var lastUsedAt sql.NullInt64
	var expiresAt sql.NullInt64

	err := row.Scan(&k.ID, &k.CustomerID, &k.Name, &k.KeyPrefix, &k.IsActive, &k.CanPublish, &k.CanRead, &k.CreatedAt, &lastUsedAt, &expiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if lastUsedAt.Valid {
		k.LastUsedAt = &lastUsedAt.Int64
	}
	if expiresAt.Valid {
		k.ExpiresAt = &expiresAt.Int64
	}
	k.KeyHash = hash

	return &k, nil
}

func (r *APIKeyRepository) GetByID(id string) (*models.APIKey, error) {
	query := `SELECT id, customer_id, name, key_hash, key_prefix, is_active, can_publish, can_read, created_at, last_used_at, expires_at FROM api_keys WHERE id = ?`
	row := r.db.QueryRow(query, id)

	var k models.APIKey
	var lastUsedAt sql.NullInt64
	var expiresAt sql.NullInt64

	err := row.Scan(&k.ID, &k.CustomerID, &k.Name, &k.KeyHash, &k.KeyPrefix, &k.IsActive, &k.CanPublish, &k.CanRead, &k.CreatedAt, &lastUsedAt, &expiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if lastUsedAt.Valid {
		k.LastUsedAt = &lastUsedAt.Int64
	}
	if expiresAt.Valid {
		k.ExpiresAt = &expiresAt.Int64
	}

	return &k, nil
}

func (r *APIKeyRepository) ListByCustomer(customerID string) ([]*models.APIKey, error) {
	query := `SELECT id, name, key_prefix, is_active, can_publish, can_read, created_at, last_used_at, expires_at FROM api_keys WHERE customer_id = ? ORDER BY created_at DESC`
	rows, err := r.db.Query(query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []*models.APIKey
	for rows.Next() {
		var k models.APIKey
		var lastUsedAt sql.NullInt64
		var expiresAt sql.NullInt64

		if err := rows.Scan(&k.ID, &k.Name, &k.KeyPrefix, &k.IsActive, &k.CanPublish, &k.CanRead, &k.CreatedAt, &lastUsedAt, &expiresAt); err != nil {
			return nil, err
		}

		if lastUsedAt.Valid {
			k.LastUsedAt = &lastUsedAt.Int64
		}
		if expiresAt.Valid {
			k.ExpiresAt = &expiresAt.Int64
		}
		k.CustomerID = customerID
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

func (r *APIKeyRepository) Revoke(id string) error {
	_, err := r.db.Exec(`UPDATE api_keys SET is_active = 0 WHERE id = ?`, id)
	return err
}

func (r *APIKeyRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM api_keys WHERE id = ?`, id)
	return err
}

func (r *APIKeyRepository) UpdateLastUsed(id string) error {
	_, err := r.db.Exec(`UPDATE api_keys SET last_used_at = ? WHERE id = ?`, time.Now().Unix(), id)
	return err
}

package repositories

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/emfoursolutions/mtxbridge/internal/platform/models"
)

type CustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(c *models.Customer) error {
	if c.ID == "" {
		c.ID = "cus_" + uuid.New().String()
	}
	now := time.Now().Unix()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.IsActive = true

	_, err := r.db.Exec(`
		INSERT INTO customers (id, name, email, organization, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Name, c.Email, c.Organization, c.IsActive, c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *CustomerRepository) GetByID(id string) (*models.Customer, error) {
	c := &models.Customer{}
	err := r.db.QueryRow(`
		SELECT id, name, email, organization, is_active, created_at, updated_at
		FROM customers WHERE id = ?
	`, id).Scan(&c.ID, &c.Name, &c.Email, &c.Organization, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (r *CustomerRepository) GetByEmail(email string) (*models.Customer, error) {
	c := &models.Customer{}
	err := r.db.QueryRow(`
		SELECT id, name, email, organization, is_active, created_at, updated_at
		FROM customers WHERE email = ?
	`, email).Scan(&c.ID, &c.Name, &c.Email, &c.Organization, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (r *CustomerRepository) List() ([]*models.Customer, error) {
	rows, err := r.db.Query(`
		SELECT id, name, email, organization, is_active, created_at, updated_at
		FROM customers ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		c := &models.Customer{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Organization, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *CustomerRepository) Update(c *models.Customer) error {
	c.UpdatedAt = time.Now().Unix()
	_, err := r.db.Exec(`
		UPDATE customers SET name = ?, email = ?, organization = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`, c.Name, c.Email, c.Organization, c.IsActive, c.UpdatedAt, c.ID)
	return err
}

// Deactivate disables the customer and revokes all of its API keys in one
// transaction, so the next stream-open attempt with any of those keys fails.
func (r *CustomerRepository) Deactivate(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	if _, err := tx.Exec(`UPDATE customers SET is_active = 0, updated_at = ? WHERE id = ?`, now, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE api_keys SET is_active = 0 WHERE customer_id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *CustomerRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM customers WHERE id = ?`, id)
	return err
}

// IsActive implements the owner gate used by the stream-auth verifier.
func (r *CustomerRepository) IsActive(id string) (bool, error) {
	var active bool
	err := r.db.QueryRow(`SELECT is_active FROM customers WHERE id = ?`, id).Scan(&active)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return active, nil
}

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = "usr_" + uuid.New().String()
	}
	user.CreatedAt = time.Now().Unix()

	_, err := r.db.Exec(`
		INSERT INTO users (id, username, email, display_name, password_hash, is_active, is_admin, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, user.ID, user.Username, user.Email, user.DisplayName, user.PasswordHash, user.IsActive, user.IsAdmin, user.CreatedAt)
	return err
}

func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	user := &models.User{}
	var lastLogin sql.NullInt64
	err := r.db.QueryRow(`
		SELECT id, username, email, display_name, password_hash, is_active, is_admin, created_at, last_login_at
		FROM users WHERE username = ?
	`, username).Scan(&user.ID, &user.Username, &user.Email, &user.DisplayName, &user.PasswordHash, &user.IsActive, &user.IsAdmin, &user.CreatedAt, &lastLogin)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if lastLogin.Valid {
		user.LastLoginAt = &lastLogin.Int64
	}
	return user, nil
}

func (r *UserRepository) List() ([]*models.User, error) {
	rows, err := r.db.Query(`
		SELECT id, username, email, display_name, password_hash, is_active, is_admin, created_at, last_login_at
		FROM users ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		var lastLogin sql.NullInt64
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.DisplayName, &user.PasswordHash, &user.IsActive, &user.IsAdmin, &user.CreatedAt, &lastLogin); err != nil {
			return nil, err
		}
		if lastLogin.Valid {
			user.LastLoginAt = &lastLogin.Int64
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) SetAdmin(username string, admin bool) error {
	_, err := r.db.Exec(`UPDATE users SET is_admin = ? WHERE username = ?`, admin, username)
	return err
}

func (r *UserRepository) SetActive(username string, active bool) error {
	_, err := r.db.Exec(`UPDATE users SET is_active = ? WHERE username = ?`, active, username)
	return err
}

func (r *UserRepository) UpdateLastLogin(userID string, timestamp int64) error {
	_, err := r.db.Exec(`UPDATE users SET last_login_at = ? WHERE id = ?`, timestamp, userID)
	return err
}

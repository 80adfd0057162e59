package audit

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Entry is one stream authorization decision. KeyPrefix is the display
// prefix only; raw secrets and digests never reach this table.
type Entry struct {
	ID         string `json:"id"`
	Action     string `json:"action"`
	Path       string `json:"path"`
	Protocol   string `json:"protocol,omitempty"`
	IPAddress  string `json:"ip_address"`
	Outcome    string `json:"outcome"`
	KeyPrefix  string `json:"key_prefix,omitempty"`
	CustomerID string `json:"customer_id,omitempty"`
	CreatedAt  int64  `json:"created_at"`
}

type Logger struct {
	db *sql.DB
}

func NewLogger(db *sql.DB) *Logger {
	return &Logger{db: db}
}

// Record persists one decision entry. The insert runs off the request path;
// a failed insert is logged but never fails the authorization call.
func (l *Logger) Record(e Entry) {
	e.ID = "audit_" + uuid.New().String()
	e.CreatedAt = time.Now().Unix()

	go func() {
		query := `
			INSERT INTO audit_logs (id, action, path, protocol, ip_address, outcome, key_prefix, customer_id, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		if _, err := l.db.Exec(query, e.ID, e.Action, e.Path, e.Protocol, e.IPAddress, e.Outcome, e.KeyPrefix, e.CustomerID, e.CreatedAt); err != nil {
			log.Error().Err(err).Str("outcome", e.Outcome).Msg("failed to write audit entry")
		}
	}()
}

func (l *Logger) List(limit int) ([]*Entry, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	rows, err := l.db.Query(`
		SELECT id, action, path, protocol, ip_address, outcome, key_prefix, customer_id, created_at
		FROM audit_logs ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		if err := rows.Scan(&e.ID, &e.Action, &e.Path, &e.Protocol, &e.IPAddress, &e.Outcome, &e.KeyPrefix, &e.CustomerID, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

package repositories

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestAPIKeyRepositoryGetByHash(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAPIKeyRepository(db)

	t.Run("Found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "customer_id", "name", "key_prefix", "is_active", "can_publish", "can_read", "created_at", "last_used_at", "expires_at"}).
			AddRow("key_1", "cus_1", "Ingest key", "mtx_abcd", true, true, false, 1700000000, nil, nil)

		mock.ExpectQuery("SELECT (.+) FROM api_keys WHERE key_hash = ?").
			WithArgs("somehash").
			WillReturnRows(rows)

		key, err := repo.GetByHash("somehash")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if key == nil {
			t.Fatal("Expected key, got nil")
		}
		if key.ID != "key_1" || key.CustomerID != "cus_1" {
			t.Errorf("Unexpected key: %+v", key)
		}
		if key.KeyHash != "somehash" {
			t.Errorf("Expected hash backfilled, got %q", key.KeyHash)
		}
		if key.LastUsedAt != nil || key.ExpiresAt != nil {
			t.Errorf("Expected nil timestamps, got %+v", key)
		}
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM api_keys WHERE key_hash = ?").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		key, err := repo.GetByHash("missing")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if key != nil {
			t.Errorf("Expected nil for unknown hash, got %+v", key)
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}

func TestAPIKeyRepositoryMutations(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAPIKeyRepository(db)

	t.Run("Revoke", func(t *testing.T) {
		mock.ExpectExec("UPDATE api_keys SET is_active = 0 WHERE id = ?").
			WithArgs("key_1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		if err := repo.Revoke("key_1"); err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
	})

	t.Run("UpdateLastUsed", func(t *testing.T) {
		mock.ExpectExec("UPDATE api_keys SET last_used_at = ?").
			WithArgs(sqlmock.AnyArg(), "key_1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		if err := repo.UpdateLastUsed("key_1"); err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM api_keys WHERE id = ?").
			WithArgs("key_1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		if err := repo.Delete("key_1"); err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}

func TestCustomerRepositoryIsActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewCustomerRepository(db)

	t.Run("Active", func(t *testing.T) {
		mock.ExpectQuery("SELECT is_active FROM customers WHERE id = ?").
			WithArgs("cus_1").
			WillReturnRows(sqlmock.NewRows([]string{"is_active"}).AddRow(true))

		active, err := repo.IsActive("cus_1")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !active {
			t.Error("Expected active")
		}
	})

	t.Run("Unknown customer is inactive", func(t *testing.T) {
		mock.ExpectQuery("SELECT is_active FROM customers WHERE id = ?").
			WithArgs("cus_missing").
			WillReturnRows(sqlmock.NewRows([]string{"is_active"}))

		active, err := repo.IsActive("cus_missing")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if active {
			t.Error("Unknown customer must not be active")
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}

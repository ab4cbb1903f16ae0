package db

import (
	"database/sql"
	"errors"
	"fmt"
)

// Keys of client state stored in the kv table.
const (
	KeySession  = "usuario"
	KeyBookings = "agendamentos"
	KeyUIPrefs  = "ui_prefs"
)

// GetValue returns the value stored under key and whether it exists.
func GetValue(db *sql.DB, key string) (string, bool, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

// PutValue stores value under key, replacing any previous value.
func PutValue(db *sql.DB, key, value string) error {
	query := `
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := db.Exec(query, key, value); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// DeleteValue removes key. Missing keys are not an error.
func DeleteValue(db *sql.DB, key string) error {
	if _, err := db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// KVStore exposes the kv table through Get/Put/Delete methods.
type KVStore struct {
	DB *sql.DB
}

func (k KVStore) Get(key string) (string, bool, error) { return GetValue(k.DB, key) }
func (k KVStore) Put(key, value string) error { return PutValue(k.DB, key, value) }
func (k KVStore) Delete(key string) error { return DeleteValue(k.DB, key) }

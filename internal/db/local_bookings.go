package db

import (
	"database/sql"
	"fmt"

	"tesoura/internal/model"
)

// LoadLocalBookings returns every local booking, ordered by date then name.
func LoadLocalBookings(db *sql.DB) ([]model.LocalBooking, error) {
	rows, err := db.Query(`SELECT name, date, time, service FROM local_bookings ORDER BY date, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query local bookings: %w", err)
	}
	defer rows.Close()

	var out []model.LocalBooking
	for rows.Next() {
		var b model.LocalBooking
		if err := rows.Scan(&b.Name, &b.Date, &b.Time, &b.Service); err != nil {
			return nil, fmt.Errorf("failed to scan local booking: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate local bookings: %w", err)
	}
	return out, nil
}

// ReplaceLocalBookings rewrites the whole table with bookings in one
// transaction.
func ReplaceLocalBookings(db *sql.DB, bookings []model.LocalBooking) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM local_bookings`); err != nil {
		return fmt.Errorf("failed to clear local bookings: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO local_bookings (name, date, time, service) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, b := range bookings {
		if _, err := stmt.Exec(b.Name, b.Date, b.Time, b.Service); err != nil {
			return fmt.Errorf("failed to insert local booking %s|%s: %w", b.Name, b.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit local bookings: %w", err)
	}
	return nil
}

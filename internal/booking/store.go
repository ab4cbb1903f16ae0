package booking

import (
	"database/sql"

	"tesoura/internal/db"
	"tesoura/internal/model"
)

// SQLStore keeps local bookings in the client database.
type SQLStore struct {
	DB *sql.DB
}

func (s SQLStore) LoadLocalBookings() ([]model.LocalBooking, error) {
	return db.LoadLocalBookings(s.DB)
}

func (s SQLStore) ReplaceLocalBookings(bookings []model.LocalBooking) error {
	return db.ReplaceLocalBookings(s.DB, bookings)
}

package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"tesoura/internal/model"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := Open(filepath.Join(t.TempDir(), "tesoura.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestKV(t *testing.T) {
	conn := openTestDB(t)

	if _, ok, err := GetValue(conn, KeySession); err != nil || ok {
		t.Fatalf("GetValue on empty db = ok %v, err %v", ok, err)
	}
	if err := PutValue(conn, KeySession, `{"id":"1"}`); err != nil {
		t.Fatalf("PutValue: %v", err)
	}
	if err := PutValue(conn, KeySession, `{"id":"2"}`); err != nil {
		t.Fatalf("PutValue overwrite: %v", err)
	}
	v, ok, err := GetValue(conn, KeySession)
	if err != nil || !ok || v != `{"id":"2"}` {
		t.Fatalf("GetValue = %q, %v, %v", v, ok, err)
	}
	if err := DeleteValue(conn, KeySession); err != nil {
		t.Fatalf("DeleteValue: %v", err)
	}
	if err := DeleteValue(conn, KeySession); err != nil {
		t.Fatalf("DeleteValue on missing key: %v", err)
	}
	if _, ok, _ := GetValue(conn, KeySession); ok {
		t.Error("value still present after delete")
	}
}

func TestReplaceLocalBookings(t *testing.T) {
	conn := openTestDB(t)

	first := []model.LocalBooking{
		{Name: "Bruno", Date: "15/05/2030", Time: "11:00", Service: "barba"},
		{Name: "Ana", Date: "15/05/2030", Time: "10:00", Service: "corte"},
	}
	if err := ReplaceLocalBookings(conn, first); err != nil {
		t.Fatalf("ReplaceLocalBookings: %v", err)
	}
	got, err := LoadLocalBookings(conn)
	if err != nil {
		t.Fatalf("LoadLocalBookings: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Ana" {
		t.Fatalf("unexpected bookings %+v", got)
	}

	if err := ReplaceLocalBookings(conn, first[:1]); err != nil {
		t.Fatalf("ReplaceLocalBookings: %v", err)
	}
	got, _ = LoadLocalBookings(conn)
	if len(got) != 1 || got[0].Name != "Bruno" {
		t.Fatalf("table not rewritten in full: %+v", got)
	}

	dup := []model.LocalBooking{first[0], first[0]}
	if err := ReplaceLocalBookings(conn, dup); err == nil {
		t.Fatal("expected primary key violation")
	}
	got, _ = LoadLocalBookings(conn)
	if len(got) != 1 {
		t.Errorf("failed rewrite changed table: %+v", got)
	}
}

func TestOpenRefusesNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tesoura.db")
	conn, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := conn.Exec(`PRAGMA user_version = 99`); err != nil {
		t.Fatalf("set user_version: %v", err)
	}
	conn.Close()

	if conn, err := Open(path); err == nil {
		conn.Close()
		t.Fatal("expected an error for a newer schema version")
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tesoura.db")
	for i := 0; i < 2; i++ {
		conn, err := Open(path)
		if err != nil {
			t.Fatalf("Open #%d: %v", i+1, err)
		}
		var version int
		if err := conn.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil || version != schemaVersion {
			t.Errorf("user_version = %d, %v", version, err)
		}
		conn.Close()
	}
}

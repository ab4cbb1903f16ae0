package ui

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"tesoura/internal/db"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TablePrefs stores per-table UI preferences.
type TablePrefs struct {
	SortKey       string   `json:"sort_key"`
	SortDesc      bool     `json:"sort_desc"`
	HiddenColumns []string `json:"hidden_columns"`
	ActiveColumn  string   `json:"active_column"`
}

// UIPreferences stores persisted app preferences. They outlive sessions.
type UIPreferences struct {
	Bookings   TablePrefs `json:"bookings"`
	AdminShops TablePrefs `json:"admin_shops"`
	Scheduler  TablePrefs `json:"scheduler"`
}

// PrefsStore is where preferences are kept, normally the kv table.
type PrefsStore interface {
	Get(key string) (string, bool, error)
	Put(key, value string) error
}

// loadUIPreferences reads the saved preferences. A missing store, key or
// unreadable value yields the defaults.
func loadUIPreferences(store PrefsStore) UIPreferences {
	if store == nil {
		return UIPreferences{}
	}
	raw, ok, err := store.Get(db.KeyUIPrefs)
	if err != nil || !ok {
		return UIPreferences{}
	}

	var prefs UIPreferences
	if err := json.UnmarshalFromString(raw, &prefs); err != nil {
		return UIPreferences{}
	}
	return prefs
}

func saveUIPreferences(store PrefsStore, prefs UIPreferences) error {
	if store == nil {
		return nil
	}
	raw, err := json.MarshalToString(prefs)
	if err != nil {
		return fmt.Errorf("failed to marshal prefs: %w", err)
	}
	if err := store.Put(db.KeyUIPrefs, raw); err != nil {
		return fmt.Errorf("failed to save prefs: %w", err)
	}
	return nil
}

package db

import (
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()
	d, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	d := newTestDB(t)

	if err := d.EnsureAdmin("admin", "secret"); err != nil {
		t.Fatalf("first EnsureAdmin: %v", err)
	}
	if err := d.EnsureAdmin("admin2", "other"); err != nil {
		t.Fatalf("second EnsureAdmin: %v", err)
	}

	if _, err := d.GetUserByUsername("admin"); err != nil {
		t.Fatalf("admin user missing: %v", err)
	}
	if _, err := d.GetUserByUsername("admin2"); err == nil {
		t.Fatal("second admin created even though one existed")
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	d := newTestDB(t)

	if got := d.GetSetting("gemini_api_key", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}

	if err := d.SetSetting("gemini_api_key", "AIza-test"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if got := d.GetSetting("gemini_api_key", ""); got != "AIza-test" {
		t.Fatalf("expected stored value, got %q", got)
	}

	// Upsert overwrites
	if err := d.SetSetting("gemini_api_key", "AIza-new"); err != nil {
		t.Fatalf("SetSetting overwrite: %v", err)
	}
	all, err := d.GetAllSettings()
	if err != nil {
		t.Fatalf("GetAllSettings: %v", err)
	}
	if all["gemini_api_key"] != "AIza-new" {
		t.Fatalf("expected overwritten value, got %q", all["gemini_api_key"])
	}
}

func TestHistoryAddListClear(t *testing.T) {
	d := newTestDB(t)
	if err := d.EnsureAdmin("admin", "secret"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	user, err := d.GetUserByUsername("admin")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}

	if err := d.AddHistoryEntry(user.ID, "Hello", "es", "Hola"); err != nil {
		t.Fatalf("AddHistoryEntry: %v", err)
	}
	if err := d.AddHistoryEntry(user.ID, "Hello", "fr", "Bonjour"); err != nil {
		t.Fatalf("AddHistoryEntry: %v", err)
	}

	entries, err := d.ListHistory(user.ID, 10)
	if err != nil {
		t.Fatalf("ListHistory: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	byLang := map[string]string{}
	for _, e := range entries {
		byLang[e.Language] = e.TranslatedText
		if e.SourceText != "Hello" {
			t.Errorf("unexpected source text %q", e.SourceText)
		}
	}
	if byLang["es"] != "Hola" || byLang["fr"] != "Bonjour" {
		t.Fatalf("unexpected translations: %#v", byLang)
	}

	// Another user's history is isolated
	other, err := d.ListHistory(user.ID+1, 10)
	if err != nil {
		t.Fatalf("ListHistory other user: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected no entries for other user, got %d", len(other))
	}

	if err := d.ClearHistory(user.ID); err != nil {
		t.Fatalf("ClearHistory: %v", err)
	}
	entries, err = d.ListHistory(user.ID, 10)
	if err != nil {
		t.Fatalf("ListHistory after clear: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty history after clear, got %d", len(entries))
	}
}

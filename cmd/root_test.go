package cmd

import (
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tesoura/internal/stubapi"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	prev := os.Args
	os.Args = append([]string{"tesoura"}, args...)
	t.Cleanup(func() { os.Args = prev })
}

func TestParseFlagsLayering(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("lookahead_rows: 7\nlog_level: warn\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TESOURA_PAGE_SIZE", "8")
	t.Setenv("TESOURA_LOG_LEVEL", "error")
	withArgs(t, "-db", filepath.Join(dir, "t.db"), "-api", "http://api.example.com:3000", "-log-level", "debug")

	cfg, err := ParseFlags()
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if cfg.APIURL != "http://api.example.com:3000" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.PageSize != 8 {
		t.Errorf("PageSize = %d, want env value 8", cfg.PageSize)
	}
	if cfg.LookaheadRows != 7 {
		t.Errorf("LookaheadRows = %d, want config file value 7", cfg.LookaheadRows)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want flag value", cfg.LogLevel)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if cfg.ConflictScope != "global" {
		t.Errorf("ConflictScope = %q", cfg.ConflictScope)
	}
	if cfg.ConfigDir != dir {
		t.Errorf("ConfigDir = %q, want %q", cfg.ConfigDir, dir)
	}
}

func TestParseFlagsUsesOnboardingURL(t *testing.T) {
	dir := t.TempDir()
	if err := saveOnboardingSettings(dir, OnboardingSettings{Completed: true, APIURL: "https://barber.example.com"}); err != nil {
		t.Fatal(err)
	}
	withArgs(t, "-db", filepath.Join(dir, "t.db"))

	cfg, err := ParseFlags()
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if cfg.APIURL != "https://barber.example.com" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
}

func TestParseFlagsRejectsBadURL(t *testing.T) {
	dir := t.TempDir()
	withArgs(t, "-db", filepath.Join(dir, "t.db"), "-api", "ftp://nope")
	if _, err := ParseFlags(); err == nil {
		t.Error("expected error for non-http URL")
	}
}

func TestValidateAPIURL(t *testing.T) {
	for _, ok := range []string{"http://localhost:3000", "https://api.example.com/v1"} {
		if err := validateAPIURL(ok); err != nil {
			t.Errorf("validateAPIURL(%q) = %v", ok, err)
		}
	}
	for _, bad := range []string{"", "localhost:3000", "ftp://x", "http://"} {
		if err := validateAPIURL(bad); err == nil {
			t.Errorf("validateAPIURL(%q) accepted", bad)
		}
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestOnboardingDemoChoice(t *testing.T) {
	var m tea.Model = newOnboardingModel(OnboardingSettings{})
	m, _ = m.Update(key("j"))
	m, _ = m.Update(key("enter"))

	got := m.(onboardingModel)
	if got.step != stepDone || !got.settings.Demo || !got.settings.Completed {
		t.Errorf("unexpected state %+v", got.settings)
	}
}

func TestOnboardingURLEntry(t *testing.T) {
	var m tea.Model = newOnboardingModel(OnboardingSettings{})
	m, _ = m.Update(key("enter"))
	if m.(onboardingModel).step != stepURL {
		t.Fatal("did not reach URL step")
	}

	for _, r := range "nope" {
		m, _ = m.Update(key(string(r)))
	}
	m, _ = m.Update(key("enter"))
	if got := m.(onboardingModel); got.step != stepURL || got.errText == "" {
		t.Fatalf("invalid URL accepted: %+v", got.settings)
	}

	om := m.(onboardingModel)
	om.urlInput.SetValue("http://localhost:4000/")
	m, cmd := om.Update(key("enter"))
	if m.(onboardingModel).step != stepProbe || cmd == nil {
		t.Fatalf("expected a reachability check, step %v", m.(onboardingModel).step)
	}

	m, _ = m.Update(probeResultMsg{url: "http://localhost:4000"})
	got := m.(onboardingModel)
	if got.step != stepDone || got.settings.APIURL != "http://localhost:4000" {
		t.Errorf("unexpected settings %+v", got.settings)
	}
}

func TestOnboardingUnreachableURL(t *testing.T) {
	var m tea.Model = newOnboardingModel(OnboardingSettings{})
	m, _ = m.Update(key("enter"))
	om := m.(onboardingModel)
	om.urlInput.SetValue("http://10.255.255.1:9")
	m, _ = om.Update(key("enter"))

	m, _ = m.Update(probeResultMsg{url: "http://10.255.255.1:9", err: errors.New("connection refused")})
	got := m.(onboardingModel)
	if got.step != stepURL || !strings.Contains(got.errText, "connection refused") {
		t.Fatalf("failed check should return to the URL step, got %v %q", got.step, got.errText)
	}

	m, cmd := m.Update(key("enter"))
	got = m.(onboardingModel)
	if got.step != stepDone || got.settings.APIURL != "http://10.255.255.1:9" {
		t.Errorf("second enter should save anyway, got %+v", got.settings)
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
}

func TestProbeAPI(t *testing.T) {
	ts := httptest.NewServer(stubapi.New(stubapi.Options{Seed: true}).Handler())
	defer ts.Close()

	msg := probeAPI(ts.URL)().(probeResultMsg)
	if msg.err != nil || msg.url != ts.URL {
		t.Errorf("probe of a live API = %+v", msg)
	}

	ts.Close()
	if msg := probeAPI(ts.URL)().(probeResultMsg); msg.err == nil {
		t.Error("probe of a closed server should fail")
	}
}

func TestOnboardingSettingsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := OnboardingSettings{Completed: true, APIURL: "http://x:1"}
	if err := saveOnboardingSettings(dir, want); err != nil {
		t.Fatal(err)
	}
	got, err := loadOnboardingSettings(dir)
	if err != nil || got != want {
		t.Errorf("load = %+v, %v", got, err)
	}
}

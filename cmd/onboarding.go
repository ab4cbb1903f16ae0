package cmd

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	jsoniter "github.com/json-iterator/go"

	"tesoura/internal/apiclient"
	"tesoura/internal/ui"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// probeTimeout bounds the reachability check of a new API URL.
const probeTimeout = 3 * time.Second

// OnboardingSettings is what first-run setup remembers in onboarding.json.
type OnboardingSettings struct {
	Completed bool   `json:"completed"`
	APIURL    string `json:"api_url,omitempty"`
	Demo      bool   `json:"demo"`
}

func onboardingPath(configDir string) string {
	return filepath.Join(configDir, "onboarding.json")
}

func loadOnboardingSettings(configDir string) (OnboardingSettings, error) {
	data, err := os.ReadFile(onboardingPath(configDir))
	if os.IsNotExist(err) {
		return OnboardingSettings{}, nil
	}
	if err != nil {
		return OnboardingSettings{}, err
	}

	var settings OnboardingSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return OnboardingSettings{}, fmt.Errorf("failed to parse %s: %w", onboardingPath(configDir), err)
	}
	return settings, nil
}

func saveOnboardingSettings(configDir string, settings OnboardingSettings) error {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(onboardingPath(configDir), data, 0644)
}

// shouldRunOnboarding is true for an interactive first run.
func shouldRunOnboarding(settings OnboardingSettings) bool {
	if settings.Completed {
		return false
	}
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

func validateAPIURL(raw string) error {
	u, err := url.ParseRequestURI(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid API URL %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("API URL must use http or https, got %q", u.Scheme)
	}
	return nil
}

type onboardingStep int

const (
	stepMode onboardingStep = iota
	stepURL
	stepProbe
	stepDone
)

// probeResultMsg reports whether the API at url answered a listing request.
type probeResultMsg struct {
	url string
	err error
}

// probeAPI asks for a single establishment, which any working backend serves
// without authentication.
func probeAPI(apiURL string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()
		client := apiclient.New(apiURL, apiclient.Options{Timeout: probeTimeout})
		_, err := client.ListEstablishments(ctx, 1, 1)
		return probeResultMsg{url: apiURL, err: err}
	}
}

type onboardingModel struct {
	step     onboardingStep
	demo     bool
	urlInput textinput.Model
	spinner  spinner.Model
	settings OnboardingSettings
	status   string
	errText  string
	// unverified is a URL whose probe failed. Entering it again saves it
	// anyway, for APIs that are not up yet.
	unverified string
	width      int
	height     int
}

func newOnboardingModel(prev OnboardingSettings) onboardingModel {
	in := textinput.New()
	in.Placeholder = DefaultAPIURL
	in.CharLimit = 300
	in.Prompt = "url> "
	in.TextStyle = ui.UserBarStyle
	in.PlaceholderStyle = ui.HelpDescStyle
	in.SetValue(prev.APIURL)
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = ui.SpinnerStyle

	return onboardingModel{
		step:     stepMode,
		demo:     prev.Demo,
		urlInput: in,
		spinner:  sp,
		settings: OnboardingSettings{Completed: true},
	}
}

func (m onboardingModel) Init() tea.Cmd { return textinput.Blink }

func (m onboardingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if m.step != stepProbe {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case probeResultMsg:
		if m.step != stepProbe {
			return m, nil
		}
		if msg.err != nil {
			m.step = stepURL
			m.unverified = msg.url
			m.errText = fmt.Sprintf("Could not reach %s: %v. Press Enter again to save it anyway.", msg.url, msg.err)
			return m, textinput.Blink
		}
		return m.accept(msg.url, "API URL saved: "+msg.url)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.cancel()
		}
		switch m.step {
		case stepMode:
			return m.updateMode(msg)
		case stepURL:
			return m.updateURL(msg)
		}
	}
	return m, nil
}

func (m onboardingModel) updateMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k", "left", "h":
		m.demo = false
	case "down", "j", "right", "l":
		m.demo = true
	case "d", "D":
		m.demo = true
		return m.nextStep()
	case "a", "A":
		m.demo = false
		return m.nextStep()
	case "enter":
		return m.nextStep()
	case "q":
		return m.cancel()
	}
	return m, nil
}

func (m onboardingModel) updateURL(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		raw := strings.TrimRight(strings.TrimSpace(m.urlInput.Value()), "/")
		if raw == "" {
			raw = DefaultAPIURL
		}
		if err := validateAPIURL(raw); err != nil {
			m.errText = err.Error()
			return m, nil
		}
		if raw == m.unverified {
			return m.accept(raw, "API URL saved without a check: "+raw)
		}
		m.step = stepProbe
		m.errText = ""
		return m, tea.Batch(m.spinner.Tick, probeAPI(raw))
	case "esc":
		m.step = stepMode
		m.errText = ""
		return m, nil
	}
	m.errText = ""
	var cmd tea.Cmd
	m.urlInput, cmd = m.urlInput.Update(msg)
	return m, cmd
}

func (m onboardingModel) accept(apiURL, status string) (tea.Model, tea.Cmd) {
	m.settings.APIURL = apiURL
	m.status = status
	m.step = stepDone
	return m, tea.Quit
}

func (m onboardingModel) cancel() (tea.Model, tea.Cmd) {
	m.settings.Completed = false
	m.status = "Setup canceled. Using the default API URL."
	m.step = stepDone
	return m, tea.Quit
}

func (m onboardingModel) nextStep() (tea.Model, tea.Cmd) {
	if m.demo {
		m.settings.Demo = true
		m.status = "Demo mode enabled. A built-in API with sample shops will start with the app."
		m.step = stepDone
		return m, tea.Quit
	}
	m.step = stepURL
	return m, textinput.Blink
}

func (m onboardingModel) View() string {
	width, height := m.width, m.height
	if width <= 0 {
		width = 100
	}
	if height <= 0 {
		height = 28
	}

	header := ui.TitleStyle.Width(width).Render("  " + ui.HeaderStyle.Render("✂ tesoura") + ui.BreadcrumbStyle.Render(" › Setup"))
	footer := ui.FooterStyle.Width(width).Render(m.footerText())
	content := m.renderContent(width, max(8, height-4))

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, content, footer))
}

func (m onboardingModel) footerText() string {
	switch m.step {
	case stepMode:
		return "↑↓/jk to navigate  a/d enter to confirm  q cancel"
	case stepURL:
		return "enter check and save  esc back  ctrl+c cancel"
	case stepProbe:
		return "checking…  ctrl+c cancel"
	}
	return "Setup complete"
}

func (m onboardingModel) renderContent(width, height int) string {
	cardWidth := min(92, width-6)
	if cardWidth < 40 {
		cardWidth = width - 2
	}

	var lines []string
	switch m.step {
	case stepMode:
		options := []string{"Connect to an API server", "Demo mode (built-in sample data)"}
		selected := 0
		if m.demo {
			selected = 1
		}
		lines = append(lines, ui.LabelStyle.Render("Which barbershop API should tesoura use?"), "")
		for i, opt := range options {
			if i == selected {
				lines = append(lines, "  "+ui.BreadcrumbActiveStyle.Bold(true).Render("→ "+opt))
			} else {
				lines = append(lines, "    "+opt)
			}
		}
		lines = append(lines, "",
			ui.HelpDescStyle.Render("You can change this later in ~/.tesoura/onboarding.json"))
	case stepURL, stepProbe:
		lines = []string{
			ui.LabelStyle.Render("API base URL"),
			"",
			ui.HelpDescStyle.Render("The server that serves /usuarios, /login, /establishments and /agendamentos."),
			ui.HelpDescStyle.Render("Leave empty for " + DefaultAPIURL + "."),
			"",
			ui.ActiveBorderStyle.Width(max(30, cardWidth-14)).Render(m.urlInput.View()),
		}
		if m.step == stepProbe {
			lines = append(lines, "", m.spinner.View()+" Checking the API…")
		}
		if m.errText != "" {
			lines = append(lines, "", ui.ErrorStyle.Width(cardWidth-6).Render(m.errText))
		}
	default:
		status := ui.SuccessStyle.Render(m.status)
		if !m.settings.Completed {
			status = ui.ErrorStyle.Render(m.status)
		}
		lines = []string{ui.LabelStyle.Render("Setup complete"), "", status}
	}

	card := ui.PanelStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, card)
}

func runOnboarding(configDir string, prev OnboardingSettings) (OnboardingSettings, error) {
	prog := tea.NewProgram(newOnboardingModel(prev), tea.WithAltScreen())
	finalModel, err := prog.Run()
	if err != nil {
		return OnboardingSettings{}, fmt.Errorf("onboarding tui failed: %w", err)
	}
	m, ok := finalModel.(onboardingModel)
	if !ok {
		return OnboardingSettings{}, fmt.Errorf("unexpected onboarding model type")
	}
	if !m.settings.Completed {
		return m.settings, nil
	}
	if err := saveOnboardingSettings(configDir, m.settings); err != nil {
		return OnboardingSettings{}, err
	}
	return m.settings, nil
}

package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/night-watch/pkg/anomaly"
	"github.com/jwebster45206/night-watch/pkg/difficulty"
	"github.com/jwebster45206/night-watch/pkg/sim"
	"github.com/muesli/reflow/wordwrap"
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config   *ConsoleConfig
	client   *http.Client
	snapshot *sim.Snapshot
	width    int
	height   int
	err      error
	loading  bool

	// Difficulty selection state
	showDifficultyModal bool
	selectedTier        int

	// Report menu state
	showReportMenu   bool
	selectedCategory int

	// Instructions overlay state
	showInstructions bool
	infoViewport     viewport.Model

	// Quit confirmation state
	showQuitModal bool
}

type sessionCreatedMsg struct {
	snapshot *sim.Snapshot
	err      error
}

type snapshotMsg struct {
	snapshot *sim.Snapshot
	err      error
}

type actionResultMsg struct {
	snapshot *sim.Snapshot
	err      error
}

type pollTickMsg struct{}

var (
	cameraPanelStyle = lipgloss.NewStyle().
				PaddingTop(1).
				PaddingBottom(1).
				PaddingLeft(3).
				PaddingRight(3)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	clockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")). // light grey
			Bold(true)

	roomStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")). // teal
			Bold(true)

	bandLowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("40")) // green

	bandUnstableStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("220")) // yellow

	bandHighStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")) // orange

	bandCriticalStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196")). // red
				Bold(true).
				Blink(true)

	feedbackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")). // yellow
			Bold(true)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

// categoryGuide is the field-manual text shown on the instructions screen.
var categoryGuide = []struct {
	category anomaly.Category
	text     string
}{
	{anomaly.MissingObject, "An object that belongs in the room is gone. Compare the feed against what the room normally holds."},
	{anomaly.Displacement, "Furniture or props have shifted from their usual position. Subtle slides count."},
	{anomaly.ShadowFigure, "A dark silhouette where no person should be. Often at the edge of the frame."},
	{anomaly.Intruder, "A human figure moving through the building. Report immediately."},
	{anomaly.StrangeImagery, "Marks, symbols, or pictures on the feed that were not there before."},
	{anomaly.DemonicPresence, "A distorted, inhuman shape. The most dangerous category on the sheet."},
	{anomaly.ExtraObject, "Something new has appeared in the room. Check for objects that do not belong."},
	{anomaly.AudioDisturbance, "The feed's audio track carries sounds the empty room cannot make."},
}

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	infoVp := viewport.New(60, 20)

	return ConsoleUI{
		config:              cfg,
		client:              client,
		infoViewport:        infoVp,
		showDifficultyModal: true,
		selectedTier:        1, // default to medium
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return nil
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle difficulty modal first
	if m.showDifficultyModal {
		return m.updateDifficultyModal(msg)
	}

	// Handle quit modal second
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	if m.showInstructions {
		return m.updateInstructions(msg)
	}

	if m.showReportMenu {
		return m.updateReportMenu(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.infoViewport.Width = min(msg.Width-10, 70)
		m.infoViewport.Height = msg.Height - 8

	case tea.KeyMsg:
		if m.snapshot != nil && m.snapshot.Over {
			switch msg.String() {
			case "q", "esc", "ctrl+c", "enter":
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.showQuitModal = true
			return m, nil
		case "left":
			return m, m.dispatch("prev", "")
		case "right":
			return m, m.dispatch("next", "")
		case "p":
			if m.snapshot != nil && m.snapshot.Paused {
				return m, m.dispatch("resume", "")
			}
			return m, m.dispatch("pause", "")
		case "r":
			m.showReportMenu = true
			m.selectedCategory = 0
			return m, m.dispatch("open-report", "")
		case "i":
			m.showInstructions = true
			m.infoViewport.SetContent(m.writeInstructions())
			m.infoViewport.GotoTop()
			return m, nil
		}

	case snapshotMsg:
		if msg.err == nil && msg.snapshot != nil {
			m.snapshot = msg.snapshot
		}

	case actionResultMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.snapshot = msg.snapshot
		}

	case pollTickMsg:
		if m.snapshot == nil || m.snapshot.Over {
			return m, nil
		}
		return m, tea.Batch(m.fetchSnapshot(), pollTick())
	}

	return m, nil
}

func (m ConsoleUI) updateDifficultyModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case sessionCreatedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.snapshot = msg.snapshot
			m.showDifficultyModal = false
			return m, pollTick()
		}

	case tea.KeyMsg:
		if m.err != nil {
			if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
				return m, tea.Quit
			}
			return m, nil
		}
		if m.loading {
			if msg.Type == tea.KeyCtrlC {
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.selectedTier > 0 {
				m.selectedTier--
			}
		case tea.KeyDown:
			if m.selectedTier < len(difficulty.Tiers)-1 {
				m.selectedTier++
			}
		case tea.KeyEnter:
			m.loading = true
			return m, m.startSession(difficulty.Tiers[m.selectedTier])
		}
	}

	return m, nil
}

func (m ConsoleUI) updateReportMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case actionResultMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.snapshot = msg.snapshot
		}

	case snapshotMsg:
		if msg.err == nil && msg.snapshot != nil {
			m.snapshot = msg.snapshot
		}

	case pollTickMsg:
		if m.snapshot == nil || m.snapshot.Over {
			return m, nil
		}
		return m, tea.Batch(m.fetchSnapshot(), pollTick())

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEsc:
			m.showReportMenu = false
			return m, m.dispatch("cancel-report", "")
		case tea.KeyUp:
			if m.selectedCategory > 0 {
				m.selectedCategory--
			}
		case tea.KeyDown:
			if m.selectedCategory < len(anomaly.Categories)-1 {
				m.selectedCategory++
			}
		case tea.KeyEnter:
			m.showReportMenu = false
			return m, m.dispatch("report", string(anomaly.Categories[m.selectedCategory]))
		}
	}

	return m, nil
}

func (m ConsoleUI) updateInstructions(msg tea.Msg) (tea.Model, tea.Cmd) {
	var vpCmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.infoViewport.Width = min(msg.Width-10, 70)
		m.infoViewport.Height = msg.Height - 8
		m.infoViewport.SetContent(m.writeInstructions())

	case snapshotMsg:
		if msg.err == nil && msg.snapshot != nil {
			m.snapshot = msg.snapshot
		}

	case pollTickMsg:
		if m.snapshot == nil || m.snapshot.Over {
			return m, nil
		}
		return m, tea.Batch(m.fetchSnapshot(), pollTick())

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "i", "esc", "q":
			m.showInstructions = false
			return m, nil
		}
	}

	m.infoViewport, vpCmd = m.infoViewport.Update(msg)
	return m, vpCmd
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			return m, m.abandonShift()
		default:
			switch msg.String() {
			case "y", "Y":
				return m, m.abandonShift()
			case "n", "N", "esc":
				m.showQuitModal = false
				return m, nil
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) startSession(tier difficulty.Tier) tea.Cmd {
	return func() tea.Msg {
		snap, err := createSession(m.client, m.config.APIBaseURL, string(tier))
		return sessionCreatedMsg{snap, err}
	}
}

func (m ConsoleUI) fetchSnapshot() tea.Cmd {
	return func() tea.Msg {
		snap, err := getSession(m.client, m.config.APIBaseURL, m.snapshot.ID)
		return snapshotMsg{snap, err}
	}
}

func (m ConsoleUI) dispatch(action, category string) tea.Cmd {
	return func() tea.Msg {
		snap, err := postAction(m.client, m.config.APIBaseURL, m.snapshot.ID, action, category)
		return actionResultMsg{snap, err}
	}
}

// abandonShift ends the session server-side before quitting.
func (m ConsoleUI) abandonShift() tea.Cmd {
	return func() tea.Msg {
		if m.snapshot != nil && !m.snapshot.Over {
			_ = deleteSession(m.client, m.config.APIBaseURL, m.snapshot.ID)
		}
		return tea.Quit()
	}
}

// pollTick refreshes the snapshot once per second, matching the tick rate.
func pollTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return pollTickMsg{}
	})
}

func bandStyleFor(band string) lipgloss.Style {
	switch band {
	case sim.BandLow:
		return bandLowStyle
	case sim.BandUnstable:
		return bandUnstableStyle
	case sim.BandHigh:
		return bandHighStyle
	default:
		return bandCriticalStyle
	}
}

func renderThreatBar(threat, width int) string {
	if width < 10 {
		width = 10
	}
	filled := (threat * width) / 100
	var bar strings.Builder
	for i := 0; i < width; i++ {
		if i < filled {
			bar.WriteString("█")
		} else {
			bar.WriteString("░")
		}
	}
	return bandStyleFor(sim.ThreatBand(threat)).Render(bar.String())
}

func (m ConsoleUI) writeInstructions() string {
	wrapWidth := m.infoViewport.Width - 4
	if wrapWidth < 20 {
		wrapWidth = 60
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("EMPLOYEE FIELD MANUAL") + "\n\n")
	content.WriteString(wordwrap.String(
		"Watch the camera feeds until 6:00 AM. When a room looks wrong, open a report "+
			"and name the anomaly category. Correct reports remove the anomaly and lower "+
			"the threat level. Wrong or invented reports raise it. If the threat meter "+
			"saturates, you have ten seconds before the shift ends badly.", wrapWidth) + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", wrapWidth)) + "\n\n")

	for _, entry := range categoryGuide {
		content.WriteString(roomStyle.Render(entry.category.Label()) + "\n")
		content.WriteString(wordwrap.String(entry.text, wrapWidth) + "\n\n")
	}

	content.WriteString(separatorStyle.Render(strings.Repeat("─", wrapWidth)) + "\n\n")
	content.WriteString("Controls:\n")
	content.WriteString("• ←/→: Switch cameras\n")
	content.WriteString("• R: Open a report\n")
	content.WriteString("• P: Pause / resume\n")
	content.WriteString("• I: Toggle this manual\n")
	content.WriteString("• Q: Abandon the shift\n")

	return content.String()
}

func (m ConsoleUI) renderDifficultyModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	if m.err != nil {
		content.WriteString(modalTitleStyle.Render("Error"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(fmt.Sprintf("Failed to start shift: %v", m.err)))
		content.WriteString("\n\n")
		content.WriteString("Press Ctrl+C to exit")
	} else if m.loading {
		content.WriteString(modalTitleStyle.Render("Clocking In..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Bringing the camera feeds online..."))
	} else {
		content.WriteString(modalTitleStyle.Render("Select Shift Difficulty"))
		content.WriteString("\n\n")

		for i, tier := range difficulty.Tiers {
			if i == m.selectedTier {
				content.WriteString(modalSelectedItemStyle.Render(fmt.Sprintf("▶ %s", tier.Label())))
			} else {
				content.WriteString(modalItemStyle.Render(fmt.Sprintf("  %s", tier.Label())))
			}
			content.WriteString("\n")
		}

		content.WriteString("\n")
		content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Ctrl+C to exit"))
	}

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderReportMenu() string {
	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("File Anomaly Report"))
	content.WriteString("\n\n")

	for i, cat := range anomaly.Categories {
		if i == m.selectedCategory {
			content.WriteString(modalSelectedItemStyle.Render(fmt.Sprintf("▶ %s", cat.Label())))
		} else {
			content.WriteString(modalItemStyle.Render(fmt.Sprintf("  %s", cat.Label())))
		}
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to report, Esc to cancel"))

	modal := modalStyle.Width(44).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Abandon Shift?"))
	content.WriteString("\n\n")
	content.WriteString("Walking out now ends the night for good.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to leave, N to stay, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderInstructions() string {
	header := titleStyle.Render("NIGHT WATCH") + "  " + promptStyle.Render("field manual")
	footer := promptStyle.Render("↑/↓ to scroll, I or Esc to return")
	body := lipgloss.JoinVertical(lipgloss.Left, header, "", m.infoViewport.View(), "", footer)
	return cameraPanelStyle.Render(body)
}

func (m ConsoleUI) renderGameOver() string {
	var content strings.Builder

	switch m.snapshot.Outcome {
	case sim.OutcomeWin:
		content.WriteString(modalTitleStyle.Render("6:00 AM"))
		content.WriteString("\n\n")
		content.WriteString(feedbackStyle.Render("Shift complete. The building is quiet. Go home."))
	case sim.OutcomeLoss:
		content.WriteString(modalTitleStyle.Render("SIGNAL LOST"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render("Something found the office before sunrise."))
		if m.snapshot.Asset != "" {
			content.WriteString("\n\n")
			content.WriteString(promptStyle.Render("final frame: " + m.snapshot.Asset))
		}
	default:
		content.WriteString(modalTitleStyle.Render("SHIFT ABANDONED"))
		content.WriteString("\n\n")
		content.WriteString("You clocked out early. The cameras keep rolling without you.")
	}

	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Q to exit"))

	modal := modalStyle.Width(54).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showDifficultyModal {
		return m.renderDifficultyModal()
	}

	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if m.snapshot == nil {
		return "\n  Initializing..."
	}

	if m.snapshot.Over {
		return m.renderGameOver()
	}

	if m.showInstructions {
		return m.renderInstructions()
	}

	if m.showReportMenu {
		return m.renderReportMenu()
	}

	if m.snapshot.Paused {
		return m.renderPauseOverlay()
	}

	return m.renderCameraView()
}

func (m ConsoleUI) renderPauseOverlay() string {
	var content strings.Builder
	content.WriteString(pausedStyle.Render("|| PAUSED ||"))
	content.WriteString("\n\n")
	content.WriteString("The shift clock is holding at " + m.snapshot.Clock + ".")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press P to resume, Q to abandon the shift"))

	modal := modalStyle.Width(46).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderCameraView() string {
	snap := m.snapshot
	barWidth := min(m.width-30, 40)

	var content strings.Builder
	content.WriteString(titleStyle.Render("NIGHT WATCH"))
	content.WriteString("   ")
	content.WriteString(clockStyle.Render(snap.Clock))
	content.WriteString("   ")
	content.WriteString(promptStyle.Render(snap.Difficulty.Label() + " shift"))
	content.WriteString("\n\n")

	content.WriteString(roomStyle.Render("CAM // " + strings.ToUpper(snap.RoomName)))
	content.WriteString("\n")
	if snap.Asset != "" {
		content.WriteString(promptStyle.Render("feed: " + snap.Asset))
		content.WriteString("\n")
	}
	content.WriteString("\n")

	band := bandStyleFor(snap.ThreatBand)
	content.WriteString(fmt.Sprintf("THREAT  %s  %s\n",
		renderThreatBar(snap.Threat, barWidth),
		band.Render(snap.ThreatBand)))

	if snap.CountdownArmed {
		content.WriteString(bandCriticalStyle.Render(
			fmt.Sprintf("!! CONTAINMENT FAILING IN %ds !!", snap.CountdownSeconds)))
		content.WriteString("\n")
	}
	content.WriteString("\n")

	switch {
	case snap.Reporting:
		content.WriteString(loadingStyle.Render(sim.FeedbackReporting))
	case snap.CooldownSeconds > 0:
		content.WriteString(promptStyle.Render(
			fmt.Sprintf("report system rebooting (%ds)", snap.CooldownSeconds)))
	case snap.Feedback != "":
		content.WriteString(feedbackStyle.Render(snap.Feedback))
	}
	content.WriteString("\n")

	if m.err != nil {
		content.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		content.WriteString("\n")
	}
	content.WriteString("\n")

	content.WriteString(separatorStyle.Render(strings.Repeat("─", max(barWidth+20, 30))))
	content.WriteString("\n")
	content.WriteString(promptStyle.Render("←/→ cameras  •  R report  •  P pause  •  I manual  •  Q quit"))

	return cameraPanelStyle.Render(content.String())
}

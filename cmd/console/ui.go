package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/adventure-engine/internal/progression"
	"github.com/jwebster45206/adventure-engine/pkg/engine"
)

const PlaceHolderText = "go north, take key, use lamp..."

var titleCaser = cases.Title(language.English)

// prettify turns a snake_case ID into a display name.
func prettify(id string) string {
	return titleCaser.String(strings.ReplaceAll(id, "_", " "))
}

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config        *ConsoleConfig
	client        *http.Client
	gameID        string
	view          *engine.SceneView
	story         []string
	sceneViewport viewport.Model
	metaViewport  viewport.Model
	textarea      textarea.Model
	ready         bool
	width         int
	height        int
	err           error
	loading       bool

	// World selection state
	showWorldModal bool
	worlds         []string
	worldMap       map[string]string
	selectedWorld  int
	loadingWorlds  bool

	// Quit confirmation state
	showQuitModal bool
}

type worldsLoadedMsg struct {
	worlds   []string
	worldMap map[string]string
	err      error
}

type viewMsg struct {
	view *engine.SceneView
	err  error
}

type actionResultMsg struct {
	result *progression.ActionResult
	err    error
}

type delayedMessageMsg struct {
	message string
}

var (
	scenePanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	sceneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	playerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	rewardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")). // gold
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

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

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render("> ")
	ta.CharLimit = 200
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	sceneVp := viewport.New(50, 20)
	sceneVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:         cfg,
		client:         client,
		textarea:       ta,
		sceneViewport:  sceneVp,
		metaViewport:   metaVp,
		ready:          false,
		showWorldModal: true,
		loadingWorlds:  true,
		selectedWorld:  0,
	}
}

// writeStoryContent rebuilds the narrative viewport for the current width.
func (m *ConsoleUI) writeStoryContent() {
	storyWidth := m.sceneViewport.Width - 6

	var content strings.Builder
	content.WriteString(titleStyle.Render("ADVENTURE ENGINE") + "\n\n")
	content.WriteString("Type commands below to explore.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", max(storyWidth-6, 1))) + "\n\n")

	for _, entry := range m.story {
		content.WriteString(wordwrap.String(entry, storyWidth) + "\n\n")
	}

	if m.loading {
		content.WriteString(loadingStyle.Render("...") + "\n")
	}

	m.sceneViewport.SetContent(content.String())
	m.sceneViewport.GotoBottom()
}

// writeMetadata renders the scene panel: where you are, what you see,
// and what you carry.
func writeMetadata(view *engine.SceneView, gameID string) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render(prettify(view.Scene)) + "\n")
	content.WriteString(promptStyle.Render(prettify(gameID)) + "\n\n")

	content.WriteString("Exits:\n")
	if len(view.Exits) == 0 {
		content.WriteString("  none\n")
	}
	for _, exit := range view.Exits {
		content.WriteString("  • " + exit.Direction + "\n")
	}
	content.WriteString("\n")

	content.WriteString("You see:\n")
	if len(view.Items) == 0 {
		content.WriteString("  nothing of note\n")
	}
	for _, item := range view.Items {
		content.WriteString("  • " + prettify(item.Name) + "\n")
	}
	content.WriteString("\n")

	if len(view.Options) > 0 {
		content.WriteString("You could:\n")
		for _, opt := range view.Options {
			marker := ""
			if opt.Selected {
				marker = " ✓"
			}
			content.WriteString("  • " + prettify(opt.Name) + marker + "\n")
		}
		content.WriteString("\n")
	}

	content.WriteString(fmt.Sprintf("Pack (%d/%d):\n", len(view.Inventory), view.Capacity))
	if len(view.Inventory) == 0 {
		content.WriteString("  empty\n")
	}
	for _, item := range view.Inventory {
		content.WriteString("  • " + prettify(item) + "\n")
	}
	content.WriteString("\n")

	content.WriteString(rewardStyle.Render(fmt.Sprintf("Points: %d", view.Points)) + "\n\n")

	content.WriteString("Commands:\n")
	content.WriteString("• go <direction>\n")
	content.WriteString("• take / use / drop <item>\n")
	content.WriteString("• choose <option>\n")
	content.WriteString("• look\n")
	content.WriteString("• Ctrl+C: Quit\n")

	return content.String()
}

func (m ConsoleUI) Init() tea.Cmd {
	if m.showWorldModal {
		return m.loadWorlds()
	}
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showWorldModal {
		return m.updateWorldModal(msg)
	}

	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.sceneViewport, vpCmd = m.sceneViewport.Update(msg)
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.writeStoryContent()
		if m.view != nil {
			m.metaViewport.SetContent(writeMetadata(m.view, m.gameID))
		}
		m.ready = true

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			m.textarea.Reset()
			return m.handleInput(input)
		}

	case actionResultMsg:
		m.loading = false
		if msg.err != nil {
			m.story = append(m.story, errorStyle.Render("Error: "+msg.err.Error()))
			m.writeStoryContent()
			return m, nil
		}
		text, delayed := m.describeOutcome(&msg.result.Outcome)
		m.story = append(m.story, sceneStyle.Render(text))
		m.writeStoryContent()
		cmds := []tea.Cmd{m.refreshView()}
		if delayed != nil {
			cmds = append(cmds, delayed)
		}
		return m, tea.Batch(cmds...)

	case delayedMessageMsg:
		m.story = append(m.story, sceneStyle.Render(msg.message))
		m.writeStoryContent()
		return m, nil

	case viewMsg:
		if msg.err == nil && msg.view != nil {
			m.view = msg.view
			m.metaViewport.SetContent(writeMetadata(m.view, m.gameID))
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.sceneViewport, vpCmd = m.sceneViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m *ConsoleUI) resize() {
	sceneWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - sceneWidth - 6
	m.sceneViewport.Width = sceneWidth - 2
	m.sceneViewport.Height = m.height - 6
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(sceneWidth - 4)
}

// handleInput parses a typed command into an action request or a local
// command, then dispatches it.
func (m ConsoleUI) handleInput(input string) (tea.Model, tea.Cmd) {
	m.story = append(m.story, playerStyle.Render("> "+input))

	fields := strings.Fields(strings.ToLower(input))
	verb := fields[0]
	rest := strings.Join(fields[1:], "_")

	switch verb {
	case "look", "l":
		if m.view != nil {
			m.story = append(m.story, sceneStyle.Render(m.view.Description))
		}
		m.writeStoryContent()
		return m, m.refreshView()

	case "help", "/help", "?":
		m.story = append(m.story,
			"Commands: go <direction> • take <item> • use <item> • drop <item> • choose <option> • look")
		m.writeStoryContent()
		return m, nil
	}

	req := &progression.ActionRequest{
		UserID: m.config.UserID,
		GameID: m.gameID,
	}
	switch verb {
	case "go", "move", "walk", "head":
		req.Action = progression.ActionMove
		req.Direction = rest
	case "take", "get", "grab", "pick":
		req.Action = progression.ActionTake
		req.Item = strings.TrimPrefix(rest, "up_")
	case "use", "apply":
		req.Action = progression.ActionUse
		req.Item = rest
	case "drop", "leave":
		req.Action = progression.ActionDrop
		req.Item = rest
	case "choose", "select", "do":
		req.Action = progression.ActionSelectOption
		req.Option = rest
	default:
		// A bare direction works when the scene has a matching exit.
		if m.view != nil {
			for _, exit := range m.view.Exits {
				if exit.Direction == verb {
					req.Action = progression.ActionMove
					req.Direction = verb
					break
				}
			}
		}
		if req.Action == "" {
			m.story = append(m.story, errorStyle.Render("I don't understand that. Try 'help'."))
			m.writeStoryContent()
			return m, nil
		}
	}

	if err := req.Validate(); err != nil {
		m.story = append(m.story, errorStyle.Render(err.Error()))
		m.writeStoryContent()
		return m, nil
	}

	m.loading = true
	m.writeStoryContent()
	return m, m.sendAction(req)
}

// describeOutcome turns a terminal outcome into narrative text. When a
// success message carries a display delay, it is returned as a command
// that fires after the delay instead of printing immediately.
func (m ConsoleUI) describeOutcome(out *engine.Outcome) (string, tea.Cmd) {
	var delayed tea.Cmd
	var text string

	switch out.Kind {
	case engine.OutcomeMoved:
		text = "You make your way to " + prettify(out.Scene) + "."
		if out.Message != "" {
			if out.DelayMS > 0 {
				message := out.Message
				delayed = tea.Tick(time.Duration(out.DelayMS)*time.Millisecond, func(time.Time) tea.Msg {
					return delayedMessageMsg{message: message}
				})
			} else {
				text += " " + out.Message
			}
		}
	case engine.OutcomeBlocked:
		pretty := make([]string, len(out.Missing))
		for i, item := range out.Missing {
			pretty[i] = prettify(item)
		}
		text = "Something bars the way. You need: " + strings.Join(pretty, ", ") + "."
	case engine.OutcomeNoSuchExit:
		text = "You can't go that way."
	case engine.OutcomeTaken:
		text = "Taken."
		if out.Message != "" {
			text += " " + out.Message
		}
	case engine.OutcomeInventoryFull:
		text = "Your pack is full."
	case engine.OutcomeAlreadyHeld:
		text = "You're already carrying that."
	case engine.OutcomeNotHeld:
		text = "You're not carrying that."
	case engine.OutcomeNoSuchItem:
		text = "You don't see that here."
	case engine.OutcomeUsed:
		text = "You put it to use."
	case engine.OutcomeNoEffect:
		if out.Message != "" {
			text = out.Message
		} else {
			text = "Nothing happens."
		}
	case engine.OutcomeDropped:
		text = "Dropped."
	case engine.OutcomeOption:
		text = "Done."
		if out.Message != "" {
			text = out.Message
		}
	case engine.OutcomeNoSuchOption:
		text = "That's not something you can do here."
	default:
		text = string(out.Kind)
	}

	if out.Points > 0 {
		text += " " + rewardStyle.Render(fmt.Sprintf("(+%d points)", out.Points))
	}
	if len(out.Revealed) > 0 {
		text += "\nSomething new catches your eye..."
	}
	return text, delayed
}

func (m ConsoleUI) sendAction(req *progression.ActionRequest) tea.Cmd {
	return func() tea.Msg {
		result, err := postAction(m.client, m.config.APIBaseURL, req)
		return actionResultMsg{result, err}
	}
}

func (m ConsoleUI) refreshView() tea.Cmd {
	return func() tea.Msg {
		view, err := getView(m.client, m.config.APIBaseURL, m.gameID, m.config.UserID)
		return viewMsg{view, err}
	}
}

func (m ConsoleUI) loadWorlds() tea.Cmd {
	return func() tea.Msg {
		names, worldMap, err := listWorlds(m.client, m.config.APIBaseURL)
		return worldsLoadedMsg{names, worldMap, err}
	}
}

func (m ConsoleUI) updateWorldModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case worldsLoadedMsg:
		m.loadingWorlds = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.worlds = msg.worlds
			m.worldMap = msg.worldMap
		}

	case viewMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.view = msg.view
			m.showWorldModal = false
			m.resize()
			m.story = append(m.story, sceneStyle.Render(m.view.Description))
			m.writeStoryContent()
			m.metaViewport.SetContent(writeMetadata(m.view, m.gameID))
			m.textarea.Focus()
			m.ready = true
		}
		return m, textarea.Blink

	case tea.KeyMsg:
		if m.loadingWorlds || m.err != nil {
			if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyUp:
			if m.selectedWorld > 0 {
				m.selectedWorld--
			}
		case tea.KeyDown:
			if m.selectedWorld < len(m.worlds)-1 {
				m.selectedWorld++
			}
		case tea.KeyEnter:
			if len(m.worlds) > 0 {
				m.gameID = m.worldMap[m.worlds[m.selectedWorld]]
				m.loading = true
				return m, m.refreshView()
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				if !m.showWorldModal {
					m.textarea.Focus()
					return m, textarea.Blink
				}
				return m, nil
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Your progress is saved; you can pick up where you left off.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderWorldModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	if m.loadingWorlds {
		content.WriteString(modalTitleStyle.Render("Loading Worlds..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Please wait while we fetch available worlds..."))
	} else if m.err != nil {
		content.WriteString(modalTitleStyle.Render("Error"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(fmt.Sprintf("Failed to load worlds: %v", m.err)))
		content.WriteString("\n\n")
		content.WriteString("Press Ctrl+C to exit")
	} else if m.loading {
		content.WriteString(modalTitleStyle.Render("Entering World..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Setting the scene..."))
	} else {
		content.WriteString(modalTitleStyle.Render("Select a World"))
		content.WriteString("\n\n")

		for i, name := range m.worlds {
			if i == m.selectedWorld {
				content.WriteString(modalSelectedItemStyle.Render(fmt.Sprintf("▶ %s", name)))
			} else {
				content.WriteString(modalItemStyle.Render(fmt.Sprintf("  %s", name)))
			}
			content.WriteString("\n")
		}

		content.WriteString("\n")
		content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Ctrl+C to exit"))
	}

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showWorldModal {
		return m.renderWorldModal()
	}

	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	sceneWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - sceneWidth - 6

	scenePanel := scenePanelStyle.Width(sceneWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.sceneViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(sceneWidth-4, 1))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, scenePanel, metaPanel)
}

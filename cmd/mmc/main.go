// mmc is a real-time TUI console for the Mars swarm simulation service.
//
// It keeps a WebSocket session to the simulation server and renders the
// shared world model: terrain, rover/drone/base agents, discovered
// resources, hazards and the mission log, with a pannable viewport over
// the grid.
//
// Usage:
//
//	mmc                          # Connect to ws://localhost:8080/ws
//	mmc --server <url>           # Use a specific server URL
//	mmc --config <path>          # Load settings from a YAML file
//	mmc --scenarios <dir>        # Use a specific scenario directory
//	mmc --record <dir>           # Write mission log recordings here
//	mmc --dump                   # Dump resolved config and scenarios as JSON and exit
//	mmc --version                # Print version and exit
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	logport "github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"marsmc/internal/client"
	"marsmc/internal/config"
	"marsmc/internal/protocol"
	"marsmc/internal/recorder"
	"marsmc/internal/scenario"
	"marsmc/internal/viewport"
	"marsmc/internal/world"
)

// Version is set via ldflags at build time (e.g. -X main.Version=v0.1.0).
var Version = "dev"

// dumpOutput is the structure for --dump mode.
type dumpOutput struct {
	ServerURL       string   `json:"server_url"`
	ScenarioDir     string   `json:"scenario_dir"`
	Scenarios       []string `json:"scenarios"`
	RecordDir       string   `json:"record_dir"`
	ReconnectBaseMs int      `json:"reconnect_base_ms"`
	ReconnectMaxMs  int      `json:"reconnect_max_ms"`
	FrameRateMs     int      `json:"frame_rate_ms"`
}

func main() {
	serverFlag := flag.String("server", "", "simulation server URL (default: from config)")
	configFlag := flag.String("config", "", "path to a YAML config file")
	scenarioFlag := flag.String("scenarios", "", "scenario directory (default: auto-discover)")
	recordFlag := flag.String("record", "", "mission recording directory (default: from config)")
	dumpMode := flag.Bool("dump", false, "dump resolved config and scenario listing as JSON and exit (no TUI)")
	versionFlag := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("mmc %s\n", Version)
		os.Exit(0)
	}

	cfg := config.Default()
	if *configFlag != "" {
		c, err := config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "mmc: %v\n", err)
			os.Exit(1)
		}
		cfg = c
	}
	if *serverFlag != "" {
		cfg.ServerURL = *serverFlag
	}
	if *recordFlag != "" {
		cfg.RecordDir = *recordFlag
	}
	// Discover honors MARSMC_SCENARIOS; the flag outranks an inherited
	// env var, a configured custom dir fills in for an unset one.
	if *scenarioFlag != "" {
		os.Setenv("MARSMC_SCENARIOS", *scenarioFlag)
	} else if os.Getenv("MARSMC_SCENARIOS") == "" && cfg.ScenarioDir != config.Default().ScenarioDir {
		os.Setenv("MARSMC_SCENARIOS", cfg.ScenarioDir)
	}

	// A missing scenario directory is not fatal: the console can still
	// observe a running mission, it just cannot start one.
	scenarioDir, scenarioErr := scenario.Discover()
	var files []string
	if scenarioErr == nil {
		if fs, err := scenario.List(scenarioDir); err == nil {
			files = fs
		}
	}

	// --dump mode: print resolved settings, exit.
	if *dumpMode {
		out := dumpOutput{
			ServerURL:       cfg.ServerURL,
			ScenarioDir:     scenarioDir,
			Scenarios:       files,
			RecordDir:       cfg.RecordDir,
			ReconnectBaseMs: cfg.ReconnectBaseMs,
			ReconnectMaxMs:  cfg.ReconnectMaxMs,
			FrameRateMs:     cfg.FrameRateMs,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fmt.Fprintf(os.Stderr, "mmc: json: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	var watcher *scenario.Watcher
	if scenarioDir != "" {
		w, err := scenario.NewWatcher(scenarioDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "mmc: watch scenarios: %v\n", err)
		} else {
			watcher = w
		}
	}

	conn := client.New(cfg.ServerURL, cfg.ReconnectBase(), cfg.ReconnectMax())

	// An empty record_dir disables session recording.
	var rec *recorder.Recorder
	if cfg.RecordDir != "" {
		rec = recorder.New(cfg.RecordDir)
	}

	m := newModel(world.New(), conn, rec, watcher, cfg, scenarioDir, files)
	if scenarioErr != nil {
		m = m.appendLog("system", fmt.Sprintf("scenarios unavailable: %v", scenarioErr))
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// Feed the connection's event stream into the TUI.
	go conn.Run()
	go func() {
		for ev := range conn.Events() {
			p.Send(serverEventMsg{ev: ev})
		}
	}()

	// Feed scenario directory changes into the TUI.
	if watcher != nil {
		go func() {
			for range watcher.Changes() {
				p.Send(scenariosChangedMsg{})
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "mmc: %v\n", err)
		os.Exit(1)
	}
}

// --- Messages ---

// tickMsg drives the render cadence: world changes accumulate in the
// store and the next frame picks them up.
type tickMsg struct{}

// serverEventMsg wraps one value from the connection's event stream.
type serverEventMsg struct {
	ev any
}

type scenariosChangedMsg struct{}

type sendFailedMsg struct {
	err error
}

// --- Key bindings ---

type keyMap struct {
	Quit      key.Binding
	PanUp     key.Binding
	PanDown   key.Binding
	PanLeft   key.Binding
	PanRight  key.Binding
	Up        key.Binding
	Down      key.Binding
	Select    key.Binding
	Esc       key.Binding
	Scenarios key.Binding
	Pause     key.Binding
	Stop      key.Binding
	Refresh   key.Binding
	Command   key.Binding
	Reconnect key.Binding
	Reset     key.Binding
	LogUp     key.Binding
	LogDown   key.Binding
	Help      key.Binding
}

var keys = keyMap{
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	PanUp:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑↓←→", "pan map")),
	PanDown:   key.NewBinding(key.WithKeys("down")),
	PanLeft:   key.NewBinding(key.WithKeys("left")),
	PanRight:  key.NewBinding(key.WithKeys("right")),
	Up:        key.NewBinding(key.WithKeys("k"), key.WithHelp("j/k", "roster")),
	Down:      key.NewBinding(key.WithKeys("j")),
	Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Esc:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
	Scenarios: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "scenarios")),
	Pause:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause/resume")),
	Stop:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop mission")),
	Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Command:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "command agent")),
	Reconnect: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reconnect")),
	Reset:     key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "clear world")),
	LogUp:     key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup/pgdn", "scroll log")),
	LogDown:   key.NewBinding(key.WithKeys("pgdown")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Scenarios, k.Select, k.Command, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PanUp, k.Up, k.Select, k.Esc},
		{k.Scenarios, k.Pause, k.Stop, k.Refresh},
		{k.Command, k.Reconnect, k.Reset, k.LogUp, k.Quit},
	}
}

// contextHelp returns the status-bar hint for the current input mode.
func contextHelp(m uiModel) string {
	switch {
	case m.cmdActive:
		return "enter: send command | esc: cancel"
	case m.showScenarios:
		return "j/k: choose scenario | enter: start | esc: close | q: quit"
	default:
		return "arrows/drag: pan | click/j/k+enter: select | s: scenarios | p: pause | c: command | ?: help | q: quit"
	}
}

// --- Model ---

type logLine struct {
	at      time.Time
	sender  string
	content string
}

// dragState tracks a press-drag-release gesture on the map pane. A
// release with no intervening motion is a click.
type dragState struct {
	active  bool
	moved   bool
	startX  int
	startY  int
	originX int
	originY int
}

type uiModel struct {
	store   *world.Store
	conn    *client.Manager
	rec     *recorder.Recorder
	watcher *scenario.Watcher
	cfg     config.Config

	vp viewport.State

	// Selection: an entity picked by click or roster. Commands require
	// an agent selection.
	selKind     string // "agent", "resource", "hazard" or ""
	selID       string
	agentCursor int

	connStatus  client.Status
	connAttempt int
	connWait    time.Duration

	simRunning bool
	simPaused  bool

	scenarioDir   string
	scenarioFiles []string
	scenarioIdx   int
	showScenarios bool

	logLines  []logLine
	logView   logport.Model
	recFailed bool

	spin      spinner.Model
	cmdInput  textinput.Model
	cmdActive bool

	drag dragState

	width  int
	height int

	help     help.Model
	showHelp bool
}

func newModel(s *world.Store, conn *client.Manager, rec *recorder.Recorder,
	w *scenario.Watcher, cfg config.Config, scenarioDir string, files []string) uiModel {

	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(spinnerStyle))

	ti := textinput.New()
	ti.Placeholder = "command"
	ti.CharLimit = 120

	m := uiModel{
		store:         s,
		conn:          conn,
		rec:           rec,
		watcher:       w,
		cfg:           cfg,
		scenarioDir:   scenarioDir,
		scenarioFiles: files,
		logView:       logport.New(80, 6),
		spin:          sp,
		cmdInput:      ti,
		help:          help.New(),
	}
	return m.appendLog("system", fmt.Sprintf("console started, server %s", cfg.ServerURL))
}

func (m uiModel) Init() tea.Cmd {
	return tea.Batch(
		tickEvery(m.cfg.FrameInterval()),
		m.spin.Tick,
	)
}

func tickEvery(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		mapPaneW, mapH, _, logH := m.layout()
		m.vp.Width = mapPaneW / viewport.CellW
		m.vp.Height = mapH
		m.vp = m.vp.Clamp(m.store.Bounds())
		m.logView.Width = msg.Width
		m.logView.Height = logH
		m.logView.SetContent(m.renderLogContent())
		m.logView.GotoBottom()
		m.cmdInput.Width = max(20, msg.Width-30)

	case serverEventMsg:
		return m.handleServerEvent(msg.ev)

	case scenariosChangedMsg:
		return m.rescanScenarios(), nil

	case sendFailedMsg:
		return m.appendLog("system", fmt.Sprintf("send failed: %v", msg.err)), nil

	case tickMsg:
		// The frame tick: state mutated since the last frame is drawn now.
		return m, tickEvery(m.cfg.FrameInterval())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m uiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Command prompt captures everything except escape and enter.
	if m.cmdActive {
		switch {
		case key.Matches(msg, keys.Esc):
			m.cmdActive = false
			m.cmdInput.Blur()
			m.cmdInput.SetValue("")
			return m, nil
		case key.Matches(msg, keys.Select):
			cmd := strings.TrimSpace(m.cmdInput.Value())
			m.cmdActive = false
			m.cmdInput.Blur()
			m.cmdInput.SetValue("")
			if cmd == "" || m.selKind != "agent" {
				return m, nil
			}
			m = m.appendLog("system", fmt.Sprintf("command to %s: %s", m.selID, cmd))
			return m, m.send(protocol.Command{
				Type: protocol.TypeCommand, Command: cmd, AgentID: m.selID,
			})
		case msg.Type == tea.KeyCtrlC:
			return m.quit()
		}
		var cmd tea.Cmd
		m.cmdInput, cmd = m.cmdInput.Update(msg)
		return m, cmd
	}

	if m.showScenarios {
		return m.handlePickerKey(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m.quit()

	case key.Matches(msg, keys.PanUp):
		m.vp = m.vp.Pan(0, -1, m.store.Bounds())
	case key.Matches(msg, keys.PanDown):
		m.vp = m.vp.Pan(0, 1, m.store.Bounds())
	case key.Matches(msg, keys.PanLeft):
		m.vp = m.vp.Pan(-1, 0, m.store.Bounds())
	case key.Matches(msg, keys.PanRight):
		m.vp = m.vp.Pan(1, 0, m.store.Bounds())

	case key.Matches(msg, keys.Up):
		if m.agentCursor > 0 {
			m.agentCursor--
		}
	case key.Matches(msg, keys.Down):
		if n := len(m.store.Agents()); m.agentCursor < n-1 {
			m.agentCursor++
		}

	case key.Matches(msg, keys.Select):
		// Selecting from the roster never recenters the viewport.
		agents := m.store.Agents()
		if m.agentCursor >= 0 && m.agentCursor < len(agents) {
			a := agents[m.agentCursor]
			m.selKind = "agent"
			m.selID = a.ID
			if !m.vp.Contains(a.Cell()) {
				m = m.appendLog("system", a.ID+" selected (outside current view)")
			}
		}

	case key.Matches(msg, keys.Esc):
		m.selKind = ""
		m.selID = ""

	case key.Matches(msg, keys.Scenarios):
		m.showScenarios = true
		m = m.rescanScenarios()

	case key.Matches(msg, keys.Pause):
		if !m.simRunning {
			return m.appendLog("system", "no mission running"), nil
		}
		if m.simPaused {
			return m, m.send(protocol.Simple{Type: protocol.TypeResumeSimulation})
		}
		return m, m.send(protocol.Simple{Type: protocol.TypePauseSimulation})

	case key.Matches(msg, keys.Stop):
		if !m.simRunning {
			return m.appendLog("system", "no mission running"), nil
		}
		return m, m.send(protocol.Simple{Type: protocol.TypeStopSimulation})

	case key.Matches(msg, keys.Refresh):
		return m, m.send(protocol.Simple{Type: protocol.TypeRequestStatsAndMap})

	case key.Matches(msg, keys.Command):
		if m.selKind != "agent" {
			return m.appendLog("system", "select an agent to command"), nil
		}
		m.cmdActive = true
		m.cmdInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, keys.Reconnect):
		m.conn.Reconnect()
		return m.appendLog("system", "reconnect requested"), nil

	case key.Matches(msg, keys.Reset):
		m.store.Reset()
		m.vp = m.vp.Clamp(m.store.Bounds())
		m.selKind, m.selID = "", ""
		m.agentCursor = 0
		return m.appendLog("system", "world state cleared"), nil

	case key.Matches(msg, keys.LogUp):
		m.logView.LineUp(3)
	case key.Matches(msg, keys.LogDown):
		m.logView.LineDown(3)

	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
	}

	return m, nil
}

func (m uiModel) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m.quit()

	case key.Matches(msg, keys.Esc), key.Matches(msg, keys.Scenarios):
		m.showScenarios = false

	case key.Matches(msg, keys.Up), msg.Type == tea.KeyUp:
		if m.scenarioIdx > 0 {
			m.scenarioIdx--
		}
	case key.Matches(msg, keys.Down), msg.Type == tea.KeyDown:
		if m.scenarioIdx < len(m.scenarioFiles)-1 {
			m.scenarioIdx++
		}

	case key.Matches(msg, keys.Select):
		if m.scenarioIdx >= 0 && m.scenarioIdx < len(m.scenarioFiles) {
			file := m.scenarioFiles[m.scenarioIdx]
			m.showScenarios = false
			// A new mission invalidates everything from the old one.
			m.store.Reset()
			m.vp = m.vp.Clamp(m.store.Bounds())
			m.selKind, m.selID = "", ""
			m.agentCursor = 0
			// Optimistic: the server only reports failures, via log frames.
			m.simRunning = true
			m.simPaused = false
			m = m.appendLog("system", "starting scenario "+file)
			return m, m.send(protocol.StartSimulation{
				Type: protocol.TypeStartSimulation, ConfigFile: file,
			})
		}
	}
	return m, nil
}

func (m uiModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	// The scenario picker is keyboard-only; ignore the pointer while
	// it covers the map pane.
	if m.showScenarios {
		m.drag = dragState{}
		return m, nil
	}

	mapPaneW, mapH, _, _ := m.layout()
	// Map pane occupies rows mapTop..mapTop+mapH-1, columns 0..mapPaneW-1.
	sx := msg.X
	sy := msg.Y - mapTop
	inMap := sx >= 0 && sx < mapPaneW && sy >= 0 && sy < mapH

	// Shift flips the wheel to horizontal; some terminals report that as
	// wheel-left/right themselves.
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		switch {
		case inMap && msg.Shift:
			m.vp = m.vp.Pan(-1, 0, m.store.Bounds())
		case inMap:
			m.vp = m.vp.Pan(0, -1, m.store.Bounds())
		default:
			m.logView.LineUp(1)
		}
		return m, nil
	case tea.MouseButtonWheelDown:
		switch {
		case inMap && msg.Shift:
			m.vp = m.vp.Pan(1, 0, m.store.Bounds())
		case inMap:
			m.vp = m.vp.Pan(0, 1, m.store.Bounds())
		default:
			m.logView.LineDown(1)
		}
		return m, nil
	case tea.MouseButtonWheelLeft:
		if inMap {
			m.vp = m.vp.Pan(-1, 0, m.store.Bounds())
		}
		return m, nil
	case tea.MouseButtonWheelRight:
		if inMap {
			m.vp = m.vp.Pan(1, 0, m.store.Bounds())
		}
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft && inMap {
			m.drag = dragState{
				active: true, startX: msg.X, startY: msg.Y,
				originX: m.vp.X, originY: m.vp.Y,
			}
		}

	case tea.MouseActionMotion:
		if m.drag.active {
			if msg.X != m.drag.startX || msg.Y != m.drag.startY {
				m.drag.moved = true
			}
			// Dragging pulls the world with the pointer: the origin
			// moves opposite to the pointer delta.
			dx := msg.X - m.drag.startX
			dy := msg.Y - m.drag.startY
			m.vp.X = m.drag.originX - dx/viewport.CellW
			m.vp.Y = m.drag.originY - dy/viewport.CellH
			m.vp = m.vp.Clamp(m.store.Bounds())
		}

	case tea.MouseActionRelease:
		if m.drag.active && !m.drag.moved && inMap {
			m = m.selectAt(m.vp.ScreenToWorld(sx, sy))
		}
		m.drag = dragState{}
	}

	return m, nil
}

// selectAt picks the entity drawn on top at the world cell: agents over
// hazards over resources, later arrivals over earlier. An empty cell
// clears the selection.
func (m uiModel) selectAt(c world.Coord) uiModel {
	agents := m.store.Agents()
	for i := len(agents) - 1; i >= 0; i-- {
		if agents[i].Cell() == c {
			m.selKind = "agent"
			m.selID = agents[i].ID
			m.agentCursor = i
			return m
		}
	}
	hazards := m.store.Hazards()
	for i := len(hazards) - 1; i >= 0; i-- {
		if (world.Coord{X: int(hazards[i].X), Y: int(hazards[i].Y)}) == c {
			m.selKind = "hazard"
			m.selID = hazards[i].ID
			return m
		}
	}
	resources := m.store.Resources()
	for i := len(resources) - 1; i >= 0; i-- {
		if (world.Coord{X: int(resources[i].X), Y: int(resources[i].Y)}) == c {
			m.selKind = "resource"
			m.selID = resources[i].ID
			return m
		}
	}
	m.selKind = ""
	m.selID = ""
	return m
}

func (m uiModel) handleServerEvent(ev any) (tea.Model, tea.Cmd) {
	switch ev := ev.(type) {
	case client.StatusChange:
		m.connStatus = ev.Status
		m.connAttempt = ev.Attempt
		m.connWait = ev.Wait
		switch ev.Status {
		case client.StatusOpen:
			m = m.appendLog("system", "connected, requesting world state")
			return m, m.send(protocol.Simple{Type: protocol.TypeRequestStatsAndMap})
		case client.StatusBackoff:
			reason := ""
			if ev.Err != nil {
				reason = ": " + ev.Err.Error()
			}
			m = m.appendLog("system", fmt.Sprintf(
				"connection lost%s, retrying in %s (attempt %d)", reason, ev.Wait, ev.Attempt))
		}

	case client.DecodeError:
		m = m.appendLog("system", fmt.Sprintf("dropped bad frame: %v", ev.Err))

	case protocol.FullMapInit:
		m.store.ReplaceMap(ev.MapCells)
		m.vp = m.vp.Clamp(m.store.Bounds())

	case protocol.UpdateMap:
		m.store.ReplaceMap(ev.MapCells)
		m.vp = m.vp.Clamp(m.store.Bounds())

	case protocol.MapCellUpdate:
		m.store.PatchCell(ev.Cell)

	case protocol.AgentUpdate:
		m.store.UpsertAgent(ev.Agent)
		// Clamp the roster cursor in case the roster grew or emptied.
		if n := len(m.store.Agents()); n == 0 {
			m.agentCursor = 0
		} else if m.agentCursor >= n {
			m.agentCursor = n - 1
		}

	case protocol.ResourceDiscovered:
		if m.store.AddResource(ev.Resource) {
			m = m.appendLog("system", fmt.Sprintf(
				"resource %s discovered at (%.0f, %.0f)", ev.Resource.ID, ev.Resource.X, ev.Resource.Y))
		}

	case protocol.HazardDetected:
		if m.store.AddHazard(ev.Hazard) {
			m = m.appendLog("system", fmt.Sprintf(
				"hazard %s detected at (%.0f, %.0f) radius %.0f",
				ev.Hazard.ID, ev.Hazard.X, ev.Hazard.Y, ev.Hazard.Radius))
		}

	case protocol.CellExplored:
		m.store.MarkExplored(ev.X, ev.Y)

	case protocol.StatsUpdate:
		m.store.SetStats(ev.Stats)

	case protocol.LogMessage:
		m = m.appendLog(ev.Sender, ev.Content)

	case protocol.SimulationNotice:
		return m.handleNotice(ev.Type)

	case protocol.ErrorMessage:
		m = m.appendLog("server", ev.Message)
	}

	return m, nil
}

func (m uiModel) handleNotice(kind string) (tea.Model, tea.Cmd) {
	switch kind {
	case protocol.TypeSimulationStarted:
		// Another console may have started the mission; drop stale state.
		m.store.Reset()
		m.vp = m.vp.Clamp(m.store.Bounds())
		m.selKind, m.selID = "", ""
		m.agentCursor = 0
		m.simRunning = true
		m.simPaused = false
		m = m.appendLog("system", "mission started")
	case protocol.TypeSimulationPaused:
		m.simPaused = true
		m = m.appendLog("system", "mission paused")
	case protocol.TypeSimulationResumed:
		m.simPaused = false
		m = m.appendLog("system", "mission resumed")
	case protocol.TypeSimulationCompleted:
		m.simRunning = false
		m.simPaused = false
		m = m.appendLog("system", "mission completed")
	case protocol.TypeSimulationStopped:
		m.simRunning = false
		m.simPaused = false
		m = m.appendLog("system", "mission stopped")
	}
	return m, nil
}

func (m uiModel) quit() (tea.Model, tea.Cmd) {
	m.conn.Close()
	if m.rec != nil {
		m.rec.Close()
	}
	if m.watcher != nil {
		m.watcher.Close()
	}
	return m, tea.Quit
}

// send writes one frame to the server off the update loop.
func (m uiModel) send(v any) tea.Cmd {
	conn := m.conn
	return func() tea.Msg {
		if err := conn.Send(v); err != nil {
			return sendFailedMsg{err: err}
		}
		return nil
	}
}

func (m uiModel) rescanScenarios() uiModel {
	if m.scenarioDir == "" {
		return m
	}
	files, err := scenario.List(m.scenarioDir)
	if err != nil {
		return m.appendLog("system", fmt.Sprintf("scenario scan: %v", err))
	}
	m.scenarioFiles = files
	if m.scenarioIdx >= len(files) {
		m.scenarioIdx = max(0, len(files)-1)
	}
	return m
}

// appendLog adds one line to the mission log pane and the recording.
func (m uiModel) appendLog(sender, content string) uiModel {
	line := logLine{at: time.Now(), sender: sender, content: content}
	m.logLines = append(m.logLines, line)
	limit := m.cfg.LogLines
	if limit <= 0 {
		limit = 500
	}
	if over := len(m.logLines) - limit; over > 0 {
		m.logLines = m.logLines[over:]
	}

	atBottom := m.logView.AtBottom()
	m.logView.SetContent(m.renderLogContent())
	if atBottom {
		m.logView.GotoBottom()
	}

	if m.rec != nil && !m.recFailed {
		if err := m.rec.Write(recorder.Entry{At: line.at, Sender: sender, Content: content}); err != nil {
			m.recFailed = true
			m.logLines = append(m.logLines, logLine{
				at: time.Now(), sender: "system",
				content: fmt.Sprintf("recording stopped: %v", err),
			})
			m.logView.SetContent(m.renderLogContent())
		}
	}
	return m
}

// --- Layout ---

// mapTop is the first screen row of the map pane: title bar + one blank.
const mapTop = 2

// layout computes the pane geometry for the current terminal size.
func (m uiModel) layout() (mapPaneW, mapH, sideW, logH int) {
	sideW = 34
	if m.width < 100 {
		sideW = 26
	}
	mapPaneW = m.width - sideW - 3
	if mapPaneW < viewport.CellW {
		mapPaneW = viewport.CellW
	}
	logH = 6
	if m.height < 18 {
		logH = 3
	}
	// Title + blank above, log header + log + status below.
	mapH = m.height - logH - 4
	if mapH < 1 {
		mapH = 1
	}
	return mapPaneW, mapH, sideW, logH
}

// --- Styles ---

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F38BA8")).
			Background(lipgloss.Color("#1E1E2E")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#89B4FA"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086"))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CDD6F4")).
			Background(lipgloss.Color("#1E1E2E"))

	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F9E2AF"))

	openTerrainStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#45475A"))

	openTerrainAltStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#313244"))

	exploredStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9399B2"))

	exploredAltStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#7F849C"))

	ruggedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#B4845C"))

	impassableStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#585B70"))

	dustStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F9E2AF"))

	hazardAreaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D4A54"))

	hazardStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F38BA8"))

	ringStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#585B70"))

	statGoodStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6E3A1"))

	statBadStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F38BA8"))

	logSystemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F9E2AF"))

	logServerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F38BA8"))

	logSenderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#89B4FA"))
)

// Default glyph colors per agent kind, used when a sighting carries no
// color of its own.
var agentKindColors = map[string]string{
	"rover": "#3b82f6",
	"drone": "#f59e0b",
	"base":  "#8b5cf6",
}

var resourceKindColors = map[string]string{
	"water":   "#38bdf8",
	"mineral": "#fbbf24",
	"ice":     "#a5f3fc",
}

// --- View rendering ---

func (m uiModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(m.renderTitleBar())
	b.WriteRune('\n')
	b.WriteRune('\n')

	mapPaneW, mapH, sideW, _ := m.layout()

	var content string
	if m.showScenarios {
		content = m.renderScenarioPicker(mapH)
	} else {
		content = renderSplitPane(m.renderMap(), m.renderSidePane(), mapPaneW, sideW, mapH)
	}
	content = truncateLines(content, m.width)
	b.WriteString(content)
	if !strings.HasSuffix(content, "\n") {
		b.WriteRune('\n')
	}

	b.WriteString(m.renderLogHeader())
	b.WriteRune('\n')
	b.WriteString(m.logView.View())

	// Pad to fill screen.
	rendered := strings.Count(b.String(), "\n")
	for rendered < m.height-2 {
		b.WriteRune('\n')
		rendered++
	}
	b.WriteRune('\n')

	switch {
	case m.cmdActive:
		b.WriteString(statusBarStyle.Render(" command → "+m.selID+": ") + m.cmdInput.View())
	case m.showHelp:
		b.WriteString(m.help.View(keys))
	default:
		b.WriteString(m.renderStatusBar())
	}

	return b.String()
}

func (m uiModel) renderTitleBar() string {
	title := titleStyle.Render("mars mission console")

	var conn string
	switch m.connStatus {
	case client.StatusOpen:
		conn = statGoodStyle.Render("● connected")
	case client.StatusBackoff:
		conn = m.spin.View() + statBadStyle.Render(fmt.Sprintf(
			" retry in %s (attempt %d)", m.connWait, m.connAttempt))
	case client.StatusConnecting:
		conn = m.spin.View() + dimStyle.Render(" connecting")
	default:
		conn = dimStyle.Render("○ offline")
	}

	sim := "IDLE"
	switch {
	case m.simRunning && m.simPaused:
		sim = "PAUSED"
	case m.simRunning:
		sim = "RUNNING"
	}

	stats := dimStyle.Render(fmt.Sprintf(
		"%d agents | %d resources | %d hazards | %d cells explored",
		len(m.store.Agents()),
		len(m.store.Resources()),
		len(m.store.Hazards()),
		m.store.ExploredCount(),
	))
	right := fmt.Sprintf("%s | %s | %s ", conn, sim, stats)
	gap := strings.Repeat(" ", max(0, m.width-lipgloss.Width(title)-lipgloss.Width(right)-1))
	// The backoff segment can outgrow narrow terminals; never let the bar wrap.
	return ansi.Truncate(title+gap+right, m.width, "")
}

func (m uiModel) renderLogHeader() string {
	head := headerStyle.Render("Mission Log")
	note := ""
	if m.rec != nil && m.rec.Path() != "" {
		note = dimStyle.Render(" recording → " + m.rec.Path())
	}
	return head + note
}

func (m uiModel) renderStatusBar() string {
	left := " " + contextHelp(m)
	right := dimStyle.Render(fmt.Sprintf("(%d,%d) ", m.vp.X, m.vp.Y))
	gap := strings.Repeat(" ", max(0, m.width-lipgloss.Width(left)-lipgloss.Width(right)))
	return ansi.Truncate(statusBarStyle.Render(left)+gap+right, m.width, "")
}

// --- Map rendering ---

// cellFace is one rendered map cell: a two-character glyph plus style.
type cellFace struct {
	glyph string
	style lipgloss.Style
}

func (m uiModel) renderMap() string {
	snap := m.store.Snapshot()
	cols, rows := m.vp.Width, m.vp.Height
	if cols < 1 || rows < 1 {
		return ""
	}

	if !snap.Bounds.Loaded {
		var b strings.Builder
		for y := 0; y < rows; y++ {
			if y == rows/2 {
				b.WriteString("  " + m.spin.View() + dimStyle.Render(" waiting for terrain data"))
			}
			if y < rows-1 {
				b.WriteRune('\n')
			}
		}
		return b.String()
	}

	grid := make([]cellFace, cols*rows)
	put := func(c world.Coord, f cellFace) {
		if !m.vp.Contains(c) {
			return
		}
		sx, sy := m.vp.WorldToScreen(c)
		grid[sy*cols+sx/viewport.CellW] = f
	}

	// Terrain layer.
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			c := world.Coord{X: m.vp.X + x, Y: m.vp.Y + y}
			cell, ok := snap.Cells[c]
			if !ok {
				continue
			}
			f := terrainFace(c, cell)
			if _, explored := snap.Explored[c]; explored && cell.Terrain == world.TerrainOpen && !cell.DustStorm {
				f.style = exploredStyle
				if (c.X+c.Y)%2 != 0 {
					f.style = exploredAltStyle
				}
			}
			grid[y*cols+x] = f
		}
	}

	// Hazard areas shade the cells inside each hazard's radius.
	for _, h := range snap.Hazards {
		cx, cy := int(h.X), int(h.Y)
		r := int(h.Radius)
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if float64(dx*dx+dy*dy) > h.Radius*h.Radius {
					continue
				}
				put(world.Coord{X: cx + dx, Y: cy + dy}, cellFace{glyph: "░░", style: hazardAreaStyle})
			}
		}
	}

	// Sensor rings: drones and bases always sweep; the selected agent
	// shows its ring regardless of kind.
	ring := func(c world.Coord, radius float64) {
		r := int(radius)
		for dy := -r - 1; dy <= r+1; dy++ {
			for dx := -r - 1; dx <= r+1; dx++ {
				d := float64(dx*dx + dy*dy)
				if d < (radius-0.5)*(radius-0.5) || d > (radius+0.5)*(radius+0.5) {
					continue
				}
				put(world.Coord{X: c.X + dx, Y: c.Y + dy}, cellFace{glyph: " ·", style: ringStyle})
			}
		}
	}
	for _, a := range snap.Agents {
		if a.Radius <= 0 {
			continue
		}
		if a.Kind == "drone" || a.Kind == "base" || (m.selKind == "agent" && m.selID == a.ID) {
			ring(a.Cell(), a.Radius)
		}
	}

	// Resources, then hazard centers, then agents on top.
	for _, r := range snap.Resources {
		f := cellFace{glyph: "◆ ", style: lipgloss.NewStyle().Foreground(lipgloss.Color(resourceColor(r.Kind)))}
		if m.selKind == "resource" && m.selID == r.ID {
			f.style = f.style.Reverse(true)
		}
		put(world.Coord{X: int(r.X), Y: int(r.Y)}, f)
	}
	for _, h := range snap.Hazards {
		f := cellFace{glyph: "◎ ", style: hazardStyle}
		if m.selKind == "hazard" && m.selID == h.ID {
			f.style = f.style.Reverse(true)
		}
		put(world.Coord{X: int(h.X), Y: int(h.Y)}, f)
	}
	for _, a := range snap.Agents {
		f := cellFace{
			glyph: agentGlyph(a.Kind),
			style: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(agentColor(a))),
		}
		if m.selKind == "agent" && m.selID == a.ID {
			f.style = f.style.Reverse(true)
		}
		put(a.Cell(), f)
	}

	var b strings.Builder
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			f := grid[y*cols+x]
			if f.glyph == "" {
				b.WriteString("  ")
				continue
			}
			b.WriteString(f.style.Render(f.glyph))
		}
		if y < rows-1 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}

func terrainFace(co world.Coord, c world.Cell) cellFace {
	if c.DustStorm {
		return cellFace{glyph: "░░", style: dustStyle}
	}
	switch c.Terrain {
	case world.TerrainImpassable:
		return cellFace{glyph: "██", style: impassableStyle}
	case world.TerrainRugged:
		return cellFace{glyph: "▒▒", style: ruggedStyle}
	}
	// Open ground alternates shade by cell parity.
	if (co.X+co.Y)%2 != 0 {
		return cellFace{glyph: "· ", style: openTerrainAltStyle}
	}
	return cellFace{glyph: "· ", style: openTerrainStyle}
}

func agentGlyph(kind string) string {
	switch kind {
	case "rover":
		return "■ "
	case "drone":
		return "▲ "
	case "base":
		return "⊙ "
	}
	return "● "
}

func agentColor(a world.Agent) string {
	if a.Color != "" {
		return a.Color
	}
	if c, ok := agentKindColors[a.Kind]; ok {
		return c
	}
	return "#94a3b8"
}

func resourceColor(kind string) string {
	if c, ok := resourceKindColors[kind]; ok {
		return c
	}
	return "#34d399"
}

// --- Side pane ---

func (m uiModel) renderSidePane() string {
	var b strings.Builder
	stats := m.store.Stats()

	b.WriteString(headerStyle.Render("Mission"))
	b.WriteRune('\n')
	state := "idle"
	style := dimStyle
	switch {
	case m.simRunning && m.simPaused:
		state, style = "paused", logSystemStyle
	case m.simRunning:
		state, style = "running", statGoodStyle
	}
	b.WriteString(fmt.Sprintf("  %s  %s", style.Render(state), dimStyle.Render("t+"+missionClock(stats.MissionTime))))
	b.WriteRune('\n')
	b.WriteString(dimStyle.Render(fmt.Sprintf("  terrain mapped %.1f%%  energy %.0f", stats.TerrainMapped, stats.TotalEnergy)))
	b.WriteRune('\n')
	b.WriteRune('\n')

	b.WriteString(headerStyle.Render("Agents"))
	b.WriteRune('\n')
	agents := m.store.Agents()
	for i, a := range agents {
		cursor := "  "
		if i == m.agentCursor {
			cursor = "> "
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(agentColor(a)))
		battery := ""
		if a.Battery > 0 {
			battery = fmt.Sprintf("%3.0f%%", a.Battery)
		}
		line := fmt.Sprintf("%s%s%-10s %4s %s", cursor, agentGlyph(a.Kind), a.ID, battery, a.Status)
		if m.selKind == "agent" && m.selID == a.ID {
			b.WriteString(style.Bold(true).Render(line))
		} else {
			b.WriteString(style.Render(line))
		}
		b.WriteRune('\n')
	}
	if len(agents) == 0 {
		b.WriteString(dimStyle.Render("  (no agents reporting)"))
		b.WriteRune('\n')
	}
	b.WriteRune('\n')

	b.WriteString(headerStyle.Render("Resources"))
	b.WriteRune('\n')
	if len(stats.ResourcesFound) > 0 {
		for _, kind := range sortedKeys(stats.ResourcesFound) {
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(resourceColor(kind)))
			b.WriteString(style.Render(fmt.Sprintf("  ◆ %-10s %d", kind, stats.ResourcesFound[kind])))
			b.WriteRune('\n')
		}
	} else if n := len(m.store.Resources()); n > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %d discovered", n)))
		b.WriteRune('\n')
	} else {
		b.WriteString(dimStyle.Render("  (none discovered)"))
		b.WriteRune('\n')
	}
	b.WriteRune('\n')

	if m.selKind != "" {
		b.WriteString(headerStyle.Render("Selected"))
		b.WriteRune('\n')
		b.WriteString(m.renderSelected())
	}

	return b.String()
}

func (m uiModel) renderSelected() string {
	var b strings.Builder
	switch m.selKind {
	case "agent":
		a, ok := m.store.Agent(m.selID)
		if !ok {
			b.WriteString(dimStyle.Render("  " + m.selID + " (no longer reporting)"))
			b.WriteRune('\n')
			break
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(agentColor(a)))
		b.WriteString(style.Bold(true).Render(fmt.Sprintf("  %s%s", agentGlyph(a.Kind), a.ID)))
		b.WriteRune('\n')
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %s at (%.1f, %.1f)", a.Kind, a.X, a.Y)))
		b.WriteRune('\n')
		batteryStyle := statGoodStyle
		if a.Battery < 20 {
			batteryStyle = statBadStyle
		}
		b.WriteString("  " + batteryStyle.Render(fmt.Sprintf("battery %.0f%%", a.Battery)))
		if a.Status != "" {
			b.WriteString(dimStyle.Render("  " + a.Status))
		}
		b.WriteRune('\n')
		b.WriteString(dimStyle.Render("  c: send command"))
		b.WriteRune('\n')
	case "resource":
		for _, r := range m.store.Resources() {
			if r.ID != m.selID {
				continue
			}
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(resourceColor(r.Kind)))
			b.WriteString(style.Render(fmt.Sprintf("  ◆ %s", r.ID)))
			b.WriteRune('\n')
			b.WriteString(dimStyle.Render(fmt.Sprintf("  %s at (%.0f, %.0f)", r.Kind, r.X, r.Y)))
			b.WriteRune('\n')
		}
	case "hazard":
		for _, h := range m.store.Hazards() {
			if h.ID != m.selID {
				continue
			}
			b.WriteString(hazardStyle.Render(fmt.Sprintf("  ◎ %s", h.ID)))
			b.WriteRune('\n')
			b.WriteString(dimStyle.Render(fmt.Sprintf("  %s at (%.0f, %.0f), radius %.0f", h.Kind, h.X, h.Y, h.Radius)))
			b.WriteRune('\n')
		}
	}
	return b.String()
}

// --- Scenario picker ---

func (m uiModel) renderScenarioPicker(rows int) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Scenarios"))
	if m.scenarioDir != "" {
		b.WriteString(dimStyle.Render("  " + m.scenarioDir))
	}
	b.WriteRune('\n')
	b.WriteRune('\n')

	switch {
	case m.scenarioDir == "":
		b.WriteString(dimStyle.Render("  no scenario directory found"))
		b.WriteRune('\n')
	case len(m.scenarioFiles) == 0:
		b.WriteString(dimStyle.Render("  (no scenario files)"))
		b.WriteRune('\n')
	default:
		// Window the list around the cursor on short terminals.
		visible := max(1, rows-5)
		start := 0
		if len(m.scenarioFiles) > visible {
			start = min(max(0, m.scenarioIdx-visible/2), len(m.scenarioFiles)-visible)
		}
		end := min(len(m.scenarioFiles), start+visible)
		for i := start; i < end; i++ {
			f := m.scenarioFiles[i]
			if i == m.scenarioIdx {
				b.WriteString(headerStyle.Render("> " + f))
			} else {
				b.WriteString("  " + f)
			}
			b.WriteRune('\n')
		}
	}

	b.WriteRune('\n')
	b.WriteString(dimStyle.Render("  starting a scenario resets the current world state"))
	b.WriteRune('\n')

	// Pad to the content height so the log pane stays put.
	for strings.Count(b.String(), "\n") < rows {
		b.WriteRune('\n')
	}
	return b.String()
}

// --- Log pane ---

func (m uiModel) renderLogContent() string {
	var b strings.Builder
	for i, l := range m.logLines {
		ts := dimStyle.Render(l.at.Format("15:04:05"))
		var sender string
		switch l.sender {
		case "system":
			sender = logSystemStyle.Render(l.sender)
		case "server":
			sender = logServerStyle.Render(l.sender)
		default:
			sender = logSenderStyle.Render(l.sender)
		}
		line := fmt.Sprintf("%s %s %s", ts, sender, l.content)
		// Long lines would wrap inside the pane and break the layout.
		if m.width > 0 && lipgloss.Width(line) > m.width {
			line = ansi.Truncate(line, m.width, "")
		}
		b.WriteString(line)
		if i < len(m.logLines)-1 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}

// --- Split-pane rendering ---

// renderSplitPane renders two content panes side by side with a vertical separator.
func renderSplitPane(left, right string, leftWidth, rightWidth, maxHeight int) string {
	leftLines := strings.Split(left, "\n")
	rightLines := strings.Split(right, "\n")

	// Pad to equal height.
	maxLines := max(len(leftLines), len(rightLines))
	if maxLines > maxHeight {
		maxLines = maxHeight
	}
	for len(leftLines) < maxLines {
		leftLines = append(leftLines, "")
	}
	for len(rightLines) < maxLines {
		rightLines = append(rightLines, "")
	}

	sep := dimStyle.Render("│")
	var b strings.Builder
	for i := 0; i < maxLines; i++ {
		b.WriteString(padOrTruncate(leftLines[i], leftWidth))
		b.WriteString(" ")
		b.WriteString(sep)
		b.WriteString(" ")
		b.WriteString(ansi.Truncate(rightLines[i], rightWidth, ""))
		b.WriteRune('\n')
	}
	return b.String()
}

// padOrTruncate pads or truncates a line to the target visible width.
// Width is measured on the rendered form so escape codes and wide map
// glyphs count correctly.
func padOrTruncate(styled string, width int) string {
	visWidth := lipgloss.Width(styled)
	if visWidth > width {
		return ansi.Truncate(styled, width, "")
	}
	return styled + strings.Repeat(" ", width-visWidth)
}

// --- Helpers ---

// truncateLines truncates each line in content to at most width visible
// characters, preserving ANSI escape codes. This prevents terminal line
// wrapping when the window is resized narrower.
func truncateLines(content string, width int) string {
	if width <= 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if lipgloss.Width(line) > width {
			lines[i] = ansi.Truncate(line, width, "")
		}
	}
	return strings.Join(lines, "\n")
}

func sortedKeys(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// missionClock formats elapsed mission seconds as mm:ss, or h:mm over
// an hour.
func missionClock(seconds int) string {
	if seconds < 3600 {
		return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
	}
	return fmt.Sprintf("%dh%02dm", seconds/3600, (seconds%3600)/60)
}

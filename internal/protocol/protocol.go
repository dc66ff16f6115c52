// Package protocol defines the wire frames exchanged with the simulation
// service and decodes inbound frames into typed messages.
//
// Every frame is one JSON object with a "type" discriminator. Field names
// follow the service's snake_case convention.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Frame kinds sent by the simulation service.
const (
	TypeFullMapInit        = "full_map_init"
	TypeUpdateMap          = "update_map"
	TypeMapCellUpdate      = "map_cell_update"
	TypeAgentUpdate        = "agent_update"
	TypeResourceDiscovered = "resource_discovered"
	TypeHazardDetected     = "hazard_detected"
	TypeCellExplored       = "cell_explored"
	TypeLogMessage         = "log_message"
	TypeStats              = "stats"
	TypeError              = "error"

	TypeSimulationStarted   = "simulation_started"
	TypeSimulationPaused    = "simulation_paused"
	TypeSimulationResumed   = "simulation_resumed"
	TypeSimulationCompleted = "simulation_completed"
	TypeSimulationStopped   = "simulation_stopped"
)

// Frame kinds sent by the console.
const (
	TypeRequestStatsAndMap = "request_stats_and_map_data"
	TypeStartSimulation    = "start_simulation"
	TypeStopSimulation     = "stop_simulation"
	TypePauseSimulation    = "pause_simulation"
	TypeResumeSimulation   = "resume_simulation"
	TypeCommand            = "command"
)

// BaseMessage lets us route unknown JSON messages by type.
type BaseMessage struct {
	Type string `json:"type"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}

// CellData is the wire form of one terrain cell in a full or bulk map
// frame. Terrain arrives as a JSON number and may be float-formatted.
type CellData struct {
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Terrain   float64 `json:"terrain"`
	DustStorm bool    `json:"dust_storm"`
}

// FullMapInit replaces the whole cell table.
type FullMapInit struct {
	Type     string     `json:"type"`
	MapCells []CellData `json:"map_cells"`
}

// UpdateMap carries the same payload as FullMapInit for bulk terrain or
// storm changes.
type UpdateMap struct {
	Type     string     `json:"type"`
	MapCells []CellData `json:"map_cells"`
}

// CellPatch is a single-cell change. Terrain and DustStorm are pointers so
// an absent field leaves the stored value untouched.
type CellPatch struct {
	X         int      `json:"x"`
	Y         int      `json:"y"`
	Terrain   *float64 `json:"terrain"`
	DustStorm *bool    `json:"dust_storm"`
}

type MapCellUpdate struct {
	Type string    `json:"type"`
	Cell CellPatch `json:"cell"`
}

// AgentData is the wire form of one agent sighting. Only ID is mandatory;
// numeric fields are pointers and string fields treat "" as absent, so a
// partial update merges instead of zeroing.
type AgentData struct {
	ID      string   `json:"id"`
	Kind    string   `json:"type"`
	X       *float64 `json:"x"`
	Y       *float64 `json:"y"`
	Battery *float64 `json:"battery"`
	Status  string   `json:"status"`
	Color   string   `json:"color"`
	Radius  *float64 `json:"radius"`
}

type AgentUpdate struct {
	Type  string    `json:"type"`
	Agent AgentData `json:"agent"`
}

// ResourceData announces a discovered resource. Kind is optional; older
// service builds omit it.
type ResourceData struct {
	ID   string  `json:"id"`
	Kind string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type ResourceDiscovered struct {
	Type     string       `json:"type"`
	Resource ResourceData `json:"resource"`
}

// HazardData announces a detected hazard. Kind is optional on the wire.
type HazardData struct {
	ID     string  `json:"id"`
	Kind   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

type HazardDetected struct {
	Type   string     `json:"type"`
	Hazard HazardData `json:"hazard"`
}

// CellExplored marks one grid cell as visited by an agent.
type CellExplored struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// LogMessage is one line for the mission log pane.
type LogMessage struct {
	Type    string `json:"type"`
	Sender  string `json:"sender"`
	Content string `json:"content"`
}

// Stats are the service's aggregate mission counters.
type Stats struct {
	TerrainMapped  float64        `json:"terrainMapped"`
	ResourcesFound map[string]int `json:"resourcesFound"`
	TotalEnergy    float64        `json:"totalEnergy"`
	MissionTime    int            `json:"missionTime"`
	Hazards        int            `json:"hazards"`
}

type StatsUpdate struct {
	Type  string `json:"type"`
	Stats Stats  `json:"stats"`
}

// SimulationNotice covers the lifecycle kinds that carry no payload.
type SimulationNotice struct {
	Type string `json:"type"`
}

// ErrorMessage is a server-reported failure, rendered as a log entry.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Simple is an outbound frame with no payload beyond the kind.
type Simple struct {
	Type string `json:"type"`
}

// StartSimulation asks the service to launch the named scenario config.
type StartSimulation struct {
	Type       string `json:"type"`
	ConfigFile string `json:"config_file"`
}

// Command directs a free-form instruction at one agent.
type Command struct {
	Type    string `json:"type"`
	Command string `json:"command"`
	AgentID string `json:"agent_id"`
}

// Decode parses one inbound frame into its typed message. Frames with an
// unrecognized kind decode to (nil, nil) so callers can skip them.
func Decode(b []byte) (any, error) {
	base, err := DecodeBase(b)
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}

	switch base.Type {
	case TypeFullMapInit:
		return decodeAs[FullMapInit](b, base.Type)
	case TypeUpdateMap:
		return decodeAs[UpdateMap](b, base.Type)
	case TypeMapCellUpdate:
		return decodeAs[MapCellUpdate](b, base.Type)
	case TypeAgentUpdate:
		return decodeAs[AgentUpdate](b, base.Type)
	case TypeResourceDiscovered:
		return decodeAs[ResourceDiscovered](b, base.Type)
	case TypeHazardDetected:
		return decodeAs[HazardDetected](b, base.Type)
	case TypeCellExplored:
		return decodeAs[CellExplored](b, base.Type)
	case TypeLogMessage:
		return decodeAs[LogMessage](b, base.Type)
	case TypeStats:
		return decodeAs[StatsUpdate](b, base.Type)
	case TypeError:
		return decodeAs[ErrorMessage](b, base.Type)
	case TypeSimulationStarted, TypeSimulationPaused, TypeSimulationResumed,
		TypeSimulationCompleted, TypeSimulationStopped:
		return SimulationNotice{Type: base.Type}, nil
	}

	return nil, nil
}

func decodeAs[T any](b []byte, kind string) (any, error) {
	var m T
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	return m, nil
}

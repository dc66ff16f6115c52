// Package world holds the reconciled in-memory model of the simulation:
// terrain cells, agents, resources, hazards, the explored set, and the
// mission counters.
//
// The Store owns every collection. Frame handlers mutate it through the
// Apply/Replace methods; the renderer and input code read it through
// Snapshot. The update loop is single-threaded, so a handler always
// finishes its mutation before anything renders.
package world

import (
	"math"
	"time"

	"marsmc/internal/protocol"
)

// Terrain classifies one cell.
type Terrain int8

const (
	TerrainImpassable Terrain = -1
	TerrainOpen       Terrain = 0
	TerrainRugged     Terrain = 1
)

func (t Terrain) String() string {
	switch t {
	case TerrainImpassable:
		return "impassable"
	case TerrainOpen:
		return "open"
	case TerrainRugged:
		return "rugged"
	}
	return "?"
}

// TerrainFrom maps a wire terrain number to its class. The service emits
// float-formatted values (-1.0, 0.0, 1.0).
func TerrainFrom(v float64) Terrain {
	switch {
	case v < -0.5:
		return TerrainImpassable
	case v >= 0.5:
		return TerrainRugged
	}
	return TerrainOpen
}

// Coord is an integer cell coordinate.
type Coord struct {
	X, Y int
}

// Cell is one terrain cell. DustStorm is a transient overlay, not a
// terrain class.
type Cell struct {
	Terrain   Terrain
	DustStorm bool
}

// Bounds is the extent of the loaded chunk, recomputed from scratch on
// every chunk replacement. Loaded is false until a non-empty chunk
// arrives and after a reset.
type Bounds struct {
	Min, Max Coord
	Loaded   bool
}

// Agent is one sighted agent. Agents are never removed; one that goes
// silent simply stops receiving updates.
type Agent struct {
	ID      string
	Kind    string // rover, drone, base
	X, Y    float64
	Battery float64
	Status  string
	Color   string // display hex color, optional
	Radius  float64
}

// Cell returns the grid cell the agent occupies.
func (a Agent) Cell() Coord {
	return Coord{X: int(math.Floor(a.X)), Y: int(math.Floor(a.Y))}
}

// Resource is a discovered deposit. Fields are fixed at discovery.
type Resource struct {
	ID   string
	Kind string
	X, Y float64
}

// Hazard is a detected danger zone.
type Hazard struct {
	ID     string
	Kind   string // storm, rock
	X, Y   float64
	Radius float64
}

// Stats are the service's aggregate mission counters, display-only.
type Stats struct {
	TerrainMapped  float64
	ResourcesFound map[string]int
	TotalEnergy    float64
	MissionTime    int
	Hazards        int
}

// ResourceCount sums the per-id discovery counters.
func (s Stats) ResourceCount() int {
	n := 0
	for _, c := range s.ResourcesFound {
		n += c
	}
	return n
}

// Store is the owned world model. Zero collections after New or Reset.
type Store struct {
	cells  map[Coord]Cell
	bounds Bounds

	agents   map[string]Agent
	agentIDs []string // first-sighting order, keeps the roster stable

	resources   map[string]Resource
	resourceIDs []string

	hazards   map[string]Hazard
	hazardIDs []string

	explored map[Coord]struct{}
	stats    Stats
}

func New() *Store {
	s := &Store{}
	s.clear()
	return s
}

func (s *Store) clear() {
	s.cells = make(map[Coord]Cell)
	s.bounds = Bounds{}
	s.agents = make(map[string]Agent)
	s.agentIDs = nil
	s.resources = make(map[string]Resource)
	s.resourceIDs = nil
	s.hazards = make(map[string]Hazard)
	s.hazardIDs = nil
	s.explored = make(map[Coord]struct{})
	s.stats = Stats{}
}

// Reset drops every collection, the explored set, the counters, and the
// bounds. Agents, resources and hazards are gone too: a reset precedes a
// fresh scenario, not a reconnect.
func (s *Store) Reset() {
	s.clear()
}

// ReplaceMap swaps the whole cell table for the incoming chunk and
// recomputes bounds from scratch. An empty chunk leaves the world
// unloaded.
func (s *Store) ReplaceMap(chunk []protocol.CellData) {
	cells := make(map[Coord]Cell, len(chunk))
	var b Bounds
	for _, cd := range chunk {
		c := Coord{X: cd.X, Y: cd.Y}
		cells[c] = Cell{Terrain: TerrainFrom(cd.Terrain), DustStorm: cd.DustStorm}
		if !b.Loaded {
			b = Bounds{Min: c, Max: c, Loaded: true}
			continue
		}
		if c.X < b.Min.X {
			b.Min.X = c.X
		}
		if c.Y < b.Min.Y {
			b.Min.Y = c.Y
		}
		if c.X > b.Max.X {
			b.Max.X = c.X
		}
		if c.Y > b.Max.Y {
			b.Max.Y = c.Y
		}
	}
	s.cells = cells
	s.bounds = b
}

// PatchCell merges the present fields of p into an existing cell. A patch
// for a coordinate outside the loaded chunk is a no-op; it reports
// whether anything was applied.
func (s *Store) PatchCell(p protocol.CellPatch) bool {
	c := Coord{X: p.X, Y: p.Y}
	cell, ok := s.cells[c]
	if !ok {
		return false
	}
	if p.Terrain != nil {
		cell.Terrain = TerrainFrom(*p.Terrain)
	}
	if p.DustStorm != nil {
		cell.DustStorm = *p.DustStorm
	}
	s.cells[c] = cell
	return true
}

// UpsertAgent creates the agent on first sighting and field-merges every
// later update: present fields overwrite, absent fields keep their stored
// value. Updates without an id are dropped.
func (s *Store) UpsertAgent(u protocol.AgentData) bool {
	if u.ID == "" {
		return false
	}
	a, ok := s.agents[u.ID]
	if !ok {
		a = Agent{ID: u.ID}
		s.agentIDs = append(s.agentIDs, u.ID)
	}
	if u.Kind != "" {
		a.Kind = u.Kind
	}
	if u.X != nil {
		a.X = *u.X
	}
	if u.Y != nil {
		a.Y = *u.Y
	}
	if u.Battery != nil {
		a.Battery = *u.Battery
	}
	if u.Status != "" {
		a.Status = u.Status
	}
	if u.Color != "" {
		a.Color = u.Color
	}
	if u.Radius != nil {
		a.Radius = *u.Radius
	}
	s.agents[u.ID] = a
	return true
}

// AddResource records a discovery once. A repeat for a known id is a
// no-op and never overwrites the stored fields.
func (s *Store) AddResource(r protocol.ResourceData) bool {
	if r.ID == "" {
		return false
	}
	if _, ok := s.resources[r.ID]; ok {
		return false
	}
	kind := r.Kind
	if kind == "" {
		kind = "mineral"
	}
	s.resources[r.ID] = Resource{ID: r.ID, Kind: kind, X: r.X, Y: r.Y}
	s.resourceIDs = append(s.resourceIDs, r.ID)
	return true
}

// AddHazard records a detection once, like AddResource.
func (s *Store) AddHazard(h protocol.HazardData) bool {
	if h.ID == "" {
		return false
	}
	if _, ok := s.hazards[h.ID]; ok {
		return false
	}
	kind := h.Kind
	if kind == "" {
		kind = "storm"
	}
	s.hazards[h.ID] = Hazard{ID: h.ID, Kind: kind, X: h.X, Y: h.Y, Radius: h.Radius}
	s.hazardIDs = append(s.hazardIDs, h.ID)
	return true
}

// MarkExplored adds a coordinate to the explored set. The set only grows
// until the next reset.
func (s *Store) MarkExplored(x, y float64) {
	c := Coord{X: int(math.Floor(x)), Y: int(math.Floor(y))}
	s.explored[c] = struct{}{}
}

// SetStats replaces the mission counters.
func (s *Store) SetStats(st protocol.Stats) {
	s.stats = Stats{
		TerrainMapped:  st.TerrainMapped,
		ResourcesFound: st.ResourcesFound,
		TotalEnergy:    st.TotalEnergy,
		MissionTime:    st.MissionTime,
		Hazards:        st.Hazards,
	}
}

// Bounds returns the loaded chunk extent.
func (s *Store) Bounds() Bounds {
	return s.bounds
}

// CellAt looks up one cell.
func (s *Store) CellAt(c Coord) (Cell, bool) {
	cell, ok := s.cells[c]
	return cell, ok
}

// CellCount returns the size of the cell table.
func (s *Store) CellCount() int {
	return len(s.cells)
}

// Explored reports whether a coordinate has been visited.
func (s *Store) Explored(c Coord) bool {
	_, ok := s.explored[c]
	return ok
}

// ExploredCount returns the size of the explored set.
func (s *Store) ExploredCount() int {
	return len(s.explored)
}

// Agent looks up one agent by id.
func (s *Store) Agent(id string) (Agent, bool) {
	a, ok := s.agents[id]
	return a, ok
}

// Agents lists all agents in first-sighting order.
func (s *Store) Agents() []Agent {
	out := make([]Agent, 0, len(s.agentIDs))
	for _, id := range s.agentIDs {
		out = append(out, s.agents[id])
	}
	return out
}

// Resources lists all resources in discovery order.
func (s *Store) Resources() []Resource {
	out := make([]Resource, 0, len(s.resourceIDs))
	for _, id := range s.resourceIDs {
		out = append(out, s.resources[id])
	}
	return out
}

// Hazards lists all hazards in detection order.
func (s *Store) Hazards() []Hazard {
	out := make([]Hazard, 0, len(s.hazardIDs))
	for _, id := range s.hazardIDs {
		out = append(out, s.hazards[id])
	}
	return out
}

// Stats returns the latest mission counters.
func (s *Store) Stats() Stats {
	return s.stats
}

// Snapshot is a read-only view of the store for rendering and hit
// testing. Cells and Explored share the store's backing maps; callers
// must not mutate them.
type Snapshot struct {
	Cells     map[Coord]Cell
	Bounds    Bounds
	Agents    []Agent
	Resources []Resource
	Hazards   []Hazard
	Explored  map[Coord]struct{}
	Stats     Stats
	BuiltAt   time.Time
}

// Snapshot builds the current view. Entity lists are copied; the cell and
// explored maps are shared, which is safe because mutation and rendering
// never interleave on the single-threaded loop.
func (s *Store) Snapshot() *Snapshot {
	return &Snapshot{
		Cells:     s.cells,
		Bounds:    s.bounds,
		Agents:    s.Agents(),
		Resources: s.Resources(),
		Hazards:   s.Hazards(),
		Explored:  s.explored,
		Stats:     s.stats,
		BuiltAt:   time.Now(),
	}
}

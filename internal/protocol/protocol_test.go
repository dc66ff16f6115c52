package protocol

import (
	"strings"
	"testing"
)

func TestDecodeRoutesByKind(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string // expected concrete type, "" for skip
	}{
		{"full map", `{"type":"full_map_init","map_cells":[]}`, "FullMapInit"},
		{"bulk update", `{"type":"update_map","map_cells":[]}`, "UpdateMap"},
		{"cell patch", `{"type":"map_cell_update","cell":{"x":1,"y":2,"terrain":1.0}}`, "MapCellUpdate"},
		{"agent", `{"type":"agent_update","agent":{"id":"rover1"}}`, "AgentUpdate"},
		{"resource", `{"type":"resource_discovered","resource":{"id":"r_1_2","x":1,"y":2}}`, "ResourceDiscovered"},
		{"hazard", `{"type":"hazard_detected","hazard":{"id":"dust_storm","x":5,"y":5,"radius":3}}`, "HazardDetected"},
		{"explored", `{"type":"cell_explored","x":3,"y":4}`, "CellExplored"},
		{"log", `{"type":"log_message","sender":"rover1","content":"hi"}`, "LogMessage"},
		{"stats", `{"type":"stats","stats":{"terrainMapped":0.5}}`, "StatsUpdate"},
		{"error", `{"type":"error","message":"boom"}`, "ErrorMessage"},
		{"paused", `{"type":"simulation_paused"}`, "SimulationNotice"},
		{"completed", `{"type":"simulation_completed"}`, "SimulationNotice"},
		{"unknown kind", `{"type":"telemetry_v2","data":7}`, ""},
		{"missing kind", `{"x":1}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Decode([]byte(tt.raw))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if tt.want == "" {
				if msg != nil {
					t.Fatalf("expected nil for unrecognized frame, got %T", msg)
				}
				return
			}
			got := typeName(msg)
			if got != tt.want {
				t.Errorf("Decode routed to %s, want %s", got, tt.want)
			}
		})
	}
}

func typeName(v any) string {
	switch v.(type) {
	case FullMapInit:
		return "FullMapInit"
	case UpdateMap:
		return "UpdateMap"
	case MapCellUpdate:
		return "MapCellUpdate"
	case AgentUpdate:
		return "AgentUpdate"
	case ResourceDiscovered:
		return "ResourceDiscovered"
	case HazardDetected:
		return "HazardDetected"
	case CellExplored:
		return "CellExplored"
	case LogMessage:
		return "LogMessage"
	case StatsUpdate:
		return "StatsUpdate"
	case ErrorMessage:
		return "ErrorMessage"
	case SimulationNotice:
		return "SimulationNotice"
	}
	return "?"
}

func TestDecodeMalformed(t *testing.T) {
	if _, err := Decode([]byte(`{not json`)); err == nil {
		t.Error("Decode should fail on malformed JSON")
	}
	// Right kind, wrong payload shape.
	if _, err := Decode([]byte(`{"type":"agent_update","agent":"nope"}`)); err == nil {
		t.Error("Decode should fail when the payload does not match the kind")
	}
}

func TestDecodeFullMapCarriesCells(t *testing.T) {
	raw := `{"type":"full_map_init","map_cells":[
		{"x":0,"y":0,"terrain":0.0,"dust_storm":false},
		{"x":1,"y":0,"terrain":1.0,"dust_storm":true},
		{"x":2,"y":0,"terrain":-1.0,"dust_storm":false}
	]}`
	msg, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	m, ok := msg.(FullMapInit)
	if !ok {
		t.Fatalf("expected FullMapInit, got %T", msg)
	}
	if len(m.MapCells) != 3 {
		t.Fatalf("expected 3 cells, got %d", len(m.MapCells))
	}
	if m.MapCells[1].Terrain != 1.0 || !m.MapCells[1].DustStorm {
		t.Errorf("cell 1 = %+v, want terrain 1.0 with dust storm", m.MapCells[1])
	}
	if m.MapCells[2].Terrain != -1.0 {
		t.Errorf("cell 2 terrain = %v, want -1.0", m.MapCells[2].Terrain)
	}
}

func TestDecodeAgentPartialFields(t *testing.T) {
	// The service always sends the full agent, but partial frames must merge
	// cleanly: absent numeric fields decode to nil, never to zero.
	raw := `{"type":"agent_update","agent":{"id":"r1","battery":42.5}}`
	msg, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	a := msg.(AgentUpdate).Agent
	if a.ID != "r1" {
		t.Errorf("id = %q, want r1", a.ID)
	}
	if a.Battery == nil || *a.Battery != 42.5 {
		t.Errorf("battery = %v, want 42.5", a.Battery)
	}
	if a.X != nil || a.Y != nil || a.Radius != nil {
		t.Errorf("absent numeric fields should be nil, got x=%v y=%v radius=%v", a.X, a.Y, a.Radius)
	}
	if a.Kind != "" || a.Status != "" || a.Color != "" {
		t.Errorf("absent string fields should be empty, got %+v", a)
	}
}

func TestDecodeAgentNullColor(t *testing.T) {
	raw := `{"type":"agent_update","agent":{"id":"b1","type":"base","x":10,"y":10,"battery":100,"status":"idle","color":null,"radius":5}}`
	msg, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	a := msg.(AgentUpdate).Agent
	if a.Color != "" {
		t.Errorf("null color should decode to empty, got %q", a.Color)
	}
	if a.Radius == nil || *a.Radius != 5 {
		t.Errorf("radius = %v, want 5", a.Radius)
	}
}

func TestDecodeCellPatchOptionalFields(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		terrain   *float64
		dustStorm *bool
	}{
		{
			"both fields",
			`{"type":"map_cell_update","cell":{"x":1,"y":2,"terrain":-1.0,"dust_storm":true}}`,
			f64(-1), boolp(true),
		},
		{
			"dust only",
			`{"type":"map_cell_update","cell":{"x":1,"y":2,"dust_storm":false}}`,
			nil, boolp(false),
		},
		{
			"terrain only",
			`{"type":"map_cell_update","cell":{"x":1,"y":2,"terrain":1}}`,
			f64(1), nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Decode([]byte(tt.raw))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			c := msg.(MapCellUpdate).Cell
			if c.X != 1 || c.Y != 2 {
				t.Errorf("coord = (%d,%d), want (1,2)", c.X, c.Y)
			}
			if !eqF64(c.Terrain, tt.terrain) {
				t.Errorf("terrain = %v, want %v", c.Terrain, tt.terrain)
			}
			if !eqBool(c.DustStorm, tt.dustStorm) {
				t.Errorf("dust_storm = %v, want %v", c.DustStorm, tt.dustStorm)
			}
		})
	}
}

func TestDecodeResourceWithoutKind(t *testing.T) {
	// Older service builds send no resource type.
	raw := `{"type":"resource_discovered","resource":{"id":"r_12_7","x":12,"y":7}}`
	msg, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	r := msg.(ResourceDiscovered).Resource
	if r.ID != "r_12_7" || r.Kind != "" {
		t.Errorf("resource = %+v, want id r_12_7 with empty kind", r)
	}
}

func TestDecodeStatsCounters(t *testing.T) {
	raw := `{"type":"stats","stats":{
		"terrainMapped":0.25,
		"resourcesFound":{"water":2,"mineral":1},
		"totalEnergy":87.5,
		"missionTime":120,
		"hazards":3
	}}`
	msg, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	st := msg.(StatsUpdate).Stats
	if st.TerrainMapped != 0.25 {
		t.Errorf("terrainMapped = %v, want 0.25", st.TerrainMapped)
	}
	if st.ResourcesFound["water"] != 2 || st.ResourcesFound["mineral"] != 1 {
		t.Errorf("resourcesFound = %v", st.ResourcesFound)
	}
	if st.TotalEnergy != 87.5 || st.MissionTime != 120 || st.Hazards != 3 {
		t.Errorf("stats = %+v", st)
	}
}

func TestDecodeErrorContext(t *testing.T) {
	_, err := Decode([]byte(`{"type":"stats","stats":[]}`))
	if err == nil {
		t.Fatal("expected decode error")
	}
	if !strings.Contains(err.Error(), "stats") {
		t.Errorf("error should name the frame kind, got %q", err.Error())
	}
}

func f64(v float64) *float64 { return &v }
func boolp(v bool) *bool     { return &v }

func eqF64(got, want *float64) bool {
	if got == nil || want == nil {
		return got == nil && want == nil
	}
	return *got == *want
}

func eqBool(got, want *bool) bool {
	if got == nil || want == nil {
		return got == nil && want == nil
	}
	return *got == *want
}

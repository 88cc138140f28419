package models

import "time"

// Gate is one rules-engine verdict.
type Gate string

const (
	GatePass    Gate = "PASS"
	GateBlock   Gate = "BLOCK"
	GateUnknown Gate = "UNKNOWN"
)

// Gates holds the three rules-engine verdicts. An empty value means the gate
// was not reported.
type Gates struct {
	Gate1 Gate `json:"gate_1,omitempty"`
	Gate2 Gate `json:"gate_2,omitempty"`
	Gate3 Gate `json:"gate_3,omitempty"`
}

// NamedGate pairs a gate name with its verdict.
type NamedGate struct {
	Name  string
	Value Gate
}

// List returns the reported gates in order.
func (g Gates) List() []NamedGate {
	out := make([]NamedGate, 0, 3)
	for _, ng := range []NamedGate{{"gate_1", g.Gate1}, {"gate_2", g.Gate2}, {"gate_3", g.Gate3}} {
		if ng.Value != "" {
			out = append(out, ng)
		}
	}
	return out
}

// Blocked returns the names of gates that returned BLOCK.
func (g Gates) Blocked() []string {
	var out []string
	for _, ng := range g.List() {
		if ng.Value == GateBlock {
			out = append(out, ng.Name)
		}
	}
	return out
}

// AllPass reports whether at least one gate was reported and every reported
// gate is PASS. UNKNOWN is not pass-equivalent.
func (g Gates) AllPass() bool {
	list := g.List()
	if len(list) == 0 {
		return false
	}
	for _, ng := range list {
		if ng.Value != GatePass {
			return false
		}
	}
	return true
}

// Summary renders the gates for b_summary.
func (g Gates) Summary() map[string]string {
	out := make(map[string]string, 3)
	for _, ng := range g.List() {
		out[ng.Name] = string(ng.Value)
	}
	return out
}

// Rules-engine diagnostic flags.
const (
	FlagContextMissing = "BRMS_CONTEXT_MISSING"
)

// RulesEngineFlags is the normalized brms_flags_v0_1 payload. A nil
// *RulesEngineFlags means the engine was unavailable.
type RulesEngineFlags struct {
	SchemaVersion string    `json:"meta_schema_version"`
	GeneratedAt   time.Time `json:"meta_generated_at"`
	RequestContext
	PolicyID       string   `json:"meta_policy_id"`
	PolicyVersion  string   `json:"meta_policy_version"`
	ValidationMode string   `json:"meta_validation_mode"`
	LatencyMS      int64    `json:"meta_latency_ms"`
	Gates          Gates    `json:"gates"`
	Flags          []string `json:"flags"`
	Reasons        []string `json:"reasons"`
}

// HasFlag reports whether the diagnostic flag is set.
func (f *RulesEngineFlags) HasFlag(flag string) bool {
	if f == nil {
		return false
	}
	for _, v := range f.Flags {
		if v == flag {
			return true
		}
	}
	return false
}

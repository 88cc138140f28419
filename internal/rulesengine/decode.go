// Package rulesengine talks to the external business rules engine bridge and
// normalizes whatever it answers into three pass/block gates.
package rulesengine

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"originate/internal/decision/models"
)

// ErrMalformed marks a bridge answer that cannot be read at all.
var ErrMalformed = errors.New("malformed rules engine response")

const unknown = "unknown"

// gateAliases maps each canonical gate to the names the engine may use.
var gateAliases = []struct {
	canonical string
	aliases   []string
}{
	{"gate_1", []string{"gate_1", "Gate_1_Eligibility"}},
	{"gate_2", []string{"gate_2", "Gate_2_Offer"}},
	{"gate_3", []string{"gate_3", "Gate_3_FinalDecision"}},
}

// envelopeKeys are checked in order when gates are not at the top level.
var envelopeKeys = []string{"brms_flags", "result", "data", "payload"}

var passVocabulary = map[string]bool{
	"PASS": true, "APPROVE": true, "APPROVED": true, "TRUE": true,
	"YES": true, "OK": true, "ELIGIBLE": true,
}

var offerKeys = []string{"offer", "assigned_rate", "tier", "apr", "rate"}

// DecodeGate turns one raw gate value into a verdict. Booleans map directly,
// numbers pass when non-zero, strings pass on the fixed vocabulary, objects
// pass on an eligible/approved flag or any offer key. Missing or null values
// are UNKNOWN.
func DecodeGate(v any) models.Gate {
	switch t := v.(type) {
	case nil:
		return models.GateUnknown
	case bool:
		return passIf(t)
	case float64:
		return passIf(t != 0)
	case json.Number:
		f, err := t.Float64()
		return passIf(err == nil && f != 0)
	case int:
		return passIf(t != 0)
	case string:
		s := strings.ToUpper(strings.TrimSpace(t))
		if s == string(models.GateUnknown) {
			return models.GateUnknown
		}
		return passIf(passVocabulary[s])
	case map[string]any:
		if b, ok := t["eligible"].(bool); ok && b {
			return models.GatePass
		}
		if b, ok := t["approved"].(bool); ok && b {
			return models.GatePass
		}
		for _, k := range offerKeys {
			if t[k] != nil {
				return models.GatePass
			}
		}
		return models.GateBlock
	default:
		return models.GateBlock
	}
}

func passIf(ok bool) models.Gate {
	if ok {
		return models.GatePass
	}
	return models.GateBlock
}

// GatesFrom decodes the three gates from obj. ok is false when obj carries
// none of the gate names, in which case every gate is UNKNOWN.
func GatesFrom(obj map[string]any) (gates models.Gates, ok bool) {
	values := make(map[string]models.Gate, len(gateAliases))
	for _, g := range gateAliases {
		var raw any
		for _, alias := range g.aliases {
			if v, present := obj[alias]; present {
				raw, ok = v, true
				break
			}
		}
		values[g.canonical] = DecodeGate(raw)
	}
	return models.Gates{
		Gate1: values["gate_1"],
		Gate2: values["gate_2"],
		Gate3: values["gate_3"],
	}, ok
}

func hasGateKey(obj map[string]any) bool {
	for _, g := range gateAliases {
		for _, alias := range g.aliases {
			if _, ok := obj[alias]; ok {
				return true
			}
		}
	}
	return false
}

// locate finds the object that carries the gates: a "gates" member, the top
// level itself, or one level down under the first envelope key present.
func locate(obj map[string]any) (container map[string]any, gates map[string]any) {
	if g, ok := obj["gates"].(map[string]any); ok {
		return obj, g
	}
	if hasGateKey(obj) {
		return obj, obj
	}
	for _, key := range envelopeKeys {
		inner, ok := obj[key].(map[string]any)
		if !ok {
			continue
		}
		if g, ok := inner["gates"].(map[string]any); ok {
			return inner, g
		}
		if hasGateKey(inner) {
			return inner, inner
		}
		return inner, nil
	}
	return obj, nil
}

// Normalize reads a bridge answer into brms_flags_v0_1. Policy metadata not
// echoed by the engine comes from snapshot. An answer without gates is not
// an error: it yields UNKNOWN gates flagged BRMS_CONTEXT_MISSING.
func Normalize(raw []byte, rc models.RequestContext, snapshot models.PolicySnapshot) (*models.RulesEngineFlags, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected object, got %T", ErrMalformed, payload)
	}

	container, gateObj := locate(obj)
	if v, ok := container["meta_schema_version"].(string); ok && v != models.SchemaRulesEngineFlags {
		return nil, fmt.Errorf("%w: schema %q", ErrMalformed, v)
	}

	flags := &models.RulesEngineFlags{
		SchemaVersion:  models.SchemaRulesEngineFlags,
		RequestContext: rc,
		PolicyID:       firstString(container, "meta_policy_id", snapshot.PolicyID),
		PolicyVersion:  firstString(container, "meta_policy_version", snapshot.PolicyVersion),
		ValidationMode: firstString(container, "meta_validation_mode", unknown),
		Flags:          stringList(container["flags"]),
		Reasons:        stringList(container["reasons"]),
	}
	if v, ok := container["meta_generated_at"].(string); ok {
		flags.GeneratedAt, _ = time.Parse(time.RFC3339Nano, v)
	}
	if n, ok := container["meta_latency_ms"].(json.Number); ok {
		flags.LatencyMS, _ = n.Int64()
	}

	found := false
	if gateObj != nil {
		flags.Gates, found = GatesFrom(gateObj)
	}
	if !found {
		flags.Gates = models.Gates{Gate1: models.GateUnknown, Gate2: models.GateUnknown, Gate3: models.GateUnknown}
		if !flags.HasFlag(models.FlagContextMissing) {
			flags.Flags = append(flags.Flags, models.FlagContextMissing)
		}
	}
	return flags, nil
}

func firstString(obj map[string]any, key, fallback string) string {
	if v, ok := obj[key].(string); ok && v != "" && v != unknown {
		return v
	}
	return fallback
}

func stringList(v any) []string {
	out := []string{}
	items, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

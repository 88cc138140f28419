// Package audit carries decision audit events from the orchestrator to a
// store: in-memory for tests and the CLI, Kafka for deployed servers.
package audit

import (
	"context"
	"time"
)

// Action names the audited step of a decision run.
type Action string

const (
	// ActionDecisionMade is emitted once a full pipeline decision is emitted.
	ActionDecisionMade Action = "decision_made"
	// ActionDecisionEarlyCut is emitted when eligibility short-circuits the run.
	ActionDecisionEarlyCut Action = "decision_early_cut"
	// ActionDecisionReplayed is emitted when a stored pack is re-evaluated.
	ActionDecisionReplayed Action = "decision_replayed"
)

// Event is emitted after a decision is produced. It carries identifiers and
// the outcome only, never the raw signal payloads.
type Event struct {
	Timestamp      time.Time `json:"timestamp"`
	RequestID      string    `json:"request_id"`
	ClientID       string    `json:"client_id"`
	Action         string    `json:"action"`
	Outcome        string    `json:"outcome"`
	Reason         string    `json:"reason"`
	PolicyID       string    `json:"policy_id,omitempty"`
	PolicyVersion  string    `json:"policy_version,omitempty"`
	ValidationMode string    `json:"validation_mode,omitempty"`
	Warnings       []string  `json:"warnings,omitempty"`
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Lister is implemented by stores that can read events back per client.
type Lister interface {
	ListByClient(ctx context.Context, clientID string) ([]Event, error)
}

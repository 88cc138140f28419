package handler

import (
	"encoding/json"
	"strings"
	"time"

	"originate/internal/decision/models"
	"originate/internal/decision/orchestrator"
	dErrors "originate/pkg/domain-errors"
)

const maxIDLength = 128

// OriginateRequest is the HTTP request body for POST /decision/originate.
type OriginateRequest struct {
	RequestID     string          `json:"request_id"`
	ClientID      string          `json:"client_id"`
	Seed          *int64          `json:"seed"`
	Channel       string          `json:"channel"`
	ApplicationID string          `json:"application_id"`
	AsOf          *time.Time      `json:"as_of"`
	FraudSignal   json.RawMessage `json:"fraud_signal"`
}

// Validate trims and checks the request.
func (r *OriginateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.ClientID = strings.TrimSpace(r.ClientID)
	r.RequestID = strings.TrimSpace(r.RequestID)
	if len(r.ClientID) > maxIDLength || len(r.RequestID) > maxIDLength {
		return dErrors.New(dErrors.CodeValidation, "identifiers must be at most 128 characters")
	}
	if r.ClientID == "" {
		return dErrors.New(dErrors.CodeValidation, "client_id is required")
	}
	if len(r.FraudSignal) > 0 && string(r.FraudSignal) == "null" {
		r.FraudSignal = nil
	}
	return nil
}

// ToDomain builds the orchestrator request. fallbackID is used when the
// body carries no request_id.
func (r *OriginateRequest) ToDomain(fallbackID string) orchestrator.Request {
	req := orchestrator.Request{
		RequestID:     r.RequestID,
		ClientID:      r.ClientID,
		Seed:          r.Seed,
		Channel:       r.Channel,
		ApplicationID: r.ApplicationID,
		FraudSignal:   r.FraudSignal,
	}
	if req.RequestID == "" {
		req.RequestID = fallbackID
	}
	if r.AsOf != nil {
		req.AsOf = *r.AsOf
	}
	return req
}

// ReplayRequest is the body of POST /decision/replay. Exactly one of
// RequestID and Pack must be set.
type ReplayRequest struct {
	RequestID string               `json:"request_id"`
	Pack      *models.DecisionPack `json:"decision_pack"`
}

func (r *ReplayRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.RequestID = strings.TrimSpace(r.RequestID)
	switch {
	case r.RequestID == "" && r.Pack == nil:
		return dErrors.New(dErrors.CodeValidation, "request_id or decision_pack is required")
	case r.RequestID != "" && r.Pack != nil:
		return dErrors.New(dErrors.CodeValidation, "request_id and decision_pack are mutually exclusive")
	}
	return nil
}

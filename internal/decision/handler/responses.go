package handler

import (
	"originate/internal/decision"
	"originate/internal/decision/models"
)

// OriginateResponse is the HTTP response for POST /decision/originate.
type OriginateResponse struct {
	RequestID      string               `json:"request_id"`
	FinalOutcome   models.Outcome       `json:"final_outcome"`
	ReasonCode     string               `json:"final_reason_code"`
	ValidationMode string               `json:"validation_mode"`
	Warnings       []string             `json:"warnings"`
	DecisionPack   *models.DecisionPack `json:"decision_pack"`
}

// FromPack summarizes a sealed pack.
func FromPack(pack *models.DecisionPack) *OriginateResponse {
	resp := &OriginateResponse{
		RequestID:    pack.RequestID,
		DecisionPack: pack,
		Warnings:     []string{},
	}
	if fd := pack.Decisions.FinalDecision; fd != nil {
		resp.FinalOutcome = fd.Outcome
		resp.ReasonCode = fd.ReasonCode
		resp.ValidationMode = fd.ValidationMode
		if fd.Warnings != nil {
			resp.Warnings = fd.Warnings
		}
	}
	return resp
}

// ReplayResponse is the HTTP response for replay endpoints.
type ReplayResponse struct {
	RequestID string                 `json:"request_id"`
	Match     bool                   `json:"match"`
	Diffs     []string               `json:"diffs"`
	Result    *decision.ReplayResult `json:"result"`
}

func FromReplay(requestID string, result *decision.ReplayResult) *ReplayResponse {
	diffs := result.Diffs
	if diffs == nil {
		diffs = []string{}
	}
	return &ReplayResponse{
		RequestID: requestID,
		Match:     result.Match,
		Diffs:     diffs,
		Result:    result,
	}
}

// Package report turns an emitted decision pack into the reporter_output_v0_1
// record consumed by human-facing reporting.
package report

import (
	"fmt"
	"time"

	"originate/internal/contract"
	"originate/internal/decision/models"
	dErrors "originate/pkg/domain-errors"
)

// DecisionRef names the decision being reported.
type DecisionRef struct {
	Outcome    models.Outcome `json:"final_outcome"`
	ReasonCode string         `json:"final_reason_code"`
}

// TraceRefs point back at the decision's own summaries.
type TraceRefs struct {
	ASummary        map[string]string `json:"a_summary"`
	BSummary        map[string]string `json:"b_summary"`
	DominantSignals []string          `json:"dominant_signals"`
}

// Report is the reporter_output_v0_1 payload.
type Report struct {
	SchemaVersion string    `json:"meta_schema_version"`
	GeneratedAt   time.Time `json:"meta_generated_at"`
	models.RequestContext
	LatencyMS int64 `json:"meta_latency_ms"`

	DecisionRef          DecisionRef `json:"decision_ref"`
	ExecutiveSummary     string      `json:"executive_summary"`
	RiskHighlights       []string    `json:"risk_highlights"`
	GovernanceHighlights []string    `json:"governance_highlights"`
	Warnings             []string    `json:"warnings"`
	TraceRefs            TraceRefs   `json:"trace_refs"`
}

var (
	riskKeys       = []string{string(models.ModelDefault), string(models.ModelFraud), string(models.ModelPayoff), "fraud_signal", "eligibility"}
	governanceKeys = []string{"gate_1", "gate_2", "gate_3"}
)

// Build reports on pack. The pack must satisfy its contract and carry a
// final decision.
func Build(pack *models.DecisionPack, now time.Time) (*Report, error) {
	started := time.Now()
	if pack == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "decision pack is required")
	}
	if err := contract.ValidateValue(pack, contract.DecisionPack, "reporter_input"); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeContractViolation, "reporter input")
	}
	fd := pack.Decisions.FinalDecision
	if fd == nil {
		return nil, dErrors.New(dErrors.CodeValidation, "decision pack must include decisions.final_decision")
	}

	r := &Report{
		SchemaVersion:        models.SchemaReport,
		GeneratedAt:          now.UTC(),
		RequestContext:       pack.RequestContext,
		DecisionRef:          DecisionRef{Outcome: fd.Outcome, ReasonCode: fd.ReasonCode},
		ExecutiveSummary:     fmt.Sprintf("Outcome %s due to %s.", fd.Outcome, fd.ReasonCode),
		RiskHighlights:       highlights(fd.ASummary, riskKeys),
		GovernanceHighlights: highlights(fd.BSummary, governanceKeys),
		Warnings:             append([]string{}, fd.Warnings...),
		TraceRefs: TraceRefs{
			ASummary:        orEmpty(fd.ASummary),
			BSummary:        orEmpty(fd.BSummary),
			DominantSignals: append([]string{}, fd.DominantSignals...),
		},
	}
	r.LatencyMS = time.Since(started).Milliseconds()

	if err := contract.ValidateValue(r, contract.Report, "reporter_output"); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeContractViolation, "reporter output")
	}
	return r, nil
}

func highlights(summary map[string]string, keys []string) []string {
	out := []string{}
	for _, k := range keys {
		if v, ok := summary[k]; ok {
			out = append(out, k+"="+v)
		}
	}
	return out
}

func orEmpty(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

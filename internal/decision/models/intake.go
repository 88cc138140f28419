package models

import (
	"strings"
	"time"
)

// Application is the application_intake_v0_1 payload.
type Application struct {
	SchemaVersion string    `json:"meta_schema_version"`
	GeneratedAt   time.Time `json:"meta_generated_at"`
	RequestContext
	ApplicationID string    `json:"meta_application_id"`
	Channel       string    `json:"meta_channel"`
	AsOf          time.Time `json:"meta_as_of_ts"`
	LatencyMS     int64     `json:"meta_latency_ms"`

	Applicant Applicant          `json:"applicant"`
	Loan      Loan               `json:"loan"`
	Sensors   EligibilitySensors `json:"dynamic_sensors_for_eligibility"`
}

// Applicant holds the static KYC and affordability data.
type Applicant struct {
	CustomerID         string  `json:"customer_id,omitempty"`
	IsExistingCustomer *bool   `json:"is_existing_customer,omitempty"`
	Age                int     `json:"age"`
	IncomeMonthly      float64 `json:"income_monthly"`
	EmploymentStatus   string  `json:"employment_status"`
	DeclaredDTI        float64 `json:"declared_dti"`
	FICOScore          int     `json:"fico_credit_score,omitempty"`
}

// ExistingCustomer prefers the explicit flag and falls back to the presence
// of a customer ID.
func (a Applicant) ExistingCustomer() bool {
	if a.IsExistingCustomer != nil {
		return *a.IsExistingCustomer
	}
	return strings.TrimSpace(a.CustomerID) != ""
}

// Loan is the requested product.
type Loan struct {
	Amount     float64 `json:"loan_amount"`
	TermMonths int     `json:"loan_term_months"`
}

// EligibilitySensors carries the dynamic values the eligibility gate reads.
type EligibilitySensors struct {
	EmploymentVerified bool    `json:"dyn_bureau_employment_verified"`
	TenureMonths       int     `json:"dyn_bureau_tenure_months"`
	MarketStress7d     float64 `json:"dyn_market_stress_score_7d"`
}

// IntakeRequest asks the intake source for an application.
type IntakeRequest struct {
	RequestContext
	Seed          int64
	Channel       string
	ApplicationID string
	AsOf          time.Time
}

// Package eligibility implements the KYC and affordability gate that runs
// before any model is consulted.
package eligibility

import (
	"originate/internal/decision/models"
	"originate/internal/policy"
)

// Reason codes, reported in evaluation order.
const (
	ReasonNotExistingCustomer  = "EA_KYC_NOT_EXISTING_CUSTOMER"
	ReasonAgeUnderMin          = "EA_AGE_UNDER_MIN"
	ReasonIncomeBelowMin       = "EA_INCOME_BELOW_MIN"
	ReasonEmploymentUnverified = "EA_BUREAU_EMPLOYMENT_UNVERIFIED"
	ReasonMacroStressReview    = "EA_MACRO_STRESS_REVIEW"
)

// Evaluate applies every rule to app. Reject reasons win over review
// reasons and only the winning set is reported; an approval carries an
// empty, non-nil reason list.
func Evaluate(app models.Application, params policy.Eligibility) (models.EligibilityStatus, []string) {
	var reject, review []string

	if !app.Applicant.ExistingCustomer() {
		reject = append(reject, ReasonNotExistingCustomer)
	}
	if app.Applicant.Age < params.MinAge {
		reject = append(reject, ReasonAgeUnderMin)
	}
	if app.Applicant.IncomeMonthly < params.MinIncome {
		reject = append(reject, ReasonIncomeBelowMin)
	}
	if !app.Sensors.EmploymentVerified {
		review = append(review, ReasonEmploymentUnverified)
	}
	if app.Sensors.MarketStress7d > params.MacroStressReviewThr {
		review = append(review, ReasonMacroStressReview)
	}

	switch {
	case len(reject) > 0:
		return models.EligibilityRejected, reject
	case len(review) > 0:
		return models.EligibilityReviewRequired, review
	default:
		return models.EligibilityApproved, []string{}
	}
}

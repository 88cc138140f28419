package policy

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// Eligibility holds the tunable eligibility parameters.
type Eligibility struct {
	MinAge               int
	MinIncome            float64
	MacroStressReviewThr float64
	// OnlyExistingCustomers seeds the intake stub's existing-customer flag.
	OnlyExistingCustomers bool
}

// DefaultEligibility returns the parameters used when the canonical file is
// absent or silent on a key.
func DefaultEligibility() Eligibility {
	return Eligibility{
		MinAge:                18,
		MinIncome:             1200,
		MacroStressReviewThr:  0.85,
		OnlyExistingCustomers: true,
	}
}

type eligibilityAlias struct {
	Parameters map[string]json.Number `json:"parameters"`
	Policy     map[string]any         `json:"policy"`
}

// LoadEligibility reads the eligibility canonical alias. A missing file
// yields the defaults.
func LoadEligibility(path string) (Eligibility, error) {
	params := DefaultEligibility()
	if path == "" {
		return params, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return params, nil
		}
		return params, fmt.Errorf("read eligibility alias %s: %w", path, err)
	}

	var alias eligibilityAlias
	if err := json.Unmarshal(raw, &alias); err != nil {
		return params, fmt.Errorf("parse eligibility alias %s: %w", path, err)
	}

	if v, ok := alias.Parameters["MIN_AGE"]; ok {
		f, err := v.Float64()
		if err != nil {
			return params, fmt.Errorf("MIN_AGE: %w", err)
		}
		params.MinAge = int(f)
	}
	if v, ok := alias.Parameters["MIN_INCOME"]; ok {
		if params.MinIncome, err = v.Float64(); err != nil {
			return params, fmt.Errorf("MIN_INCOME: %w", err)
		}
	}
	if v, ok := alias.Parameters["MACRO_STRESS_REVIEW_THR"]; ok {
		if params.MacroStressReviewThr, err = v.Float64(); err != nil {
			return params, fmt.Errorf("MACRO_STRESS_REVIEW_THR: %w", err)
		}
	}
	if v, ok := alias.Policy["only_existing_customers"]; ok {
		params.OnlyExistingCustomers = asBool(v, true)
	}
	return params, nil
}

// asBool accepts JSON booleans and the usual string spellings.
func asBool(v any, fallback bool) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1", "yes", "y":
			return true
		case "false", "0", "no", "n":
			return false
		}
		if b, err := strconv.ParseBool(t); err == nil {
			return b
		}
	}
	return fallback
}

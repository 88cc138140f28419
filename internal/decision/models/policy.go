package models

import "strings"

// Policy snapshot load status.
const (
	PolicyStatusOK           = "OK"
	PolicyStatusMissingAlias = "MISSING_ALIAS"
)

// PolicySnapshot is read-only policy metadata loaded once per run.
type PolicySnapshot struct {
	SchemaVersion      string `json:"schema_version,omitempty"`
	Status             string `json:"status"`
	AliasName          string `json:"alias_name"`
	PolicyID           string `json:"policy_id"`
	PolicyVersion      string `json:"policy_version"`
	FlagsSchemaVersion string `json:"brms_flags_schema_version,omitempty"`
	BridgeBaseURL      string `json:"bridge_base_url"`
	BridgeEndpoint     string `json:"bridge_endpoint"`
}

// BridgeURL joins the bridge base URL and endpoint.
func (p PolicySnapshot) BridgeURL() string {
	if p.BridgeBaseURL == "" {
		return ""
	}
	return strings.TrimRight(p.BridgeBaseURL, "/") + "/" + strings.TrimLeft(p.BridgeEndpoint, "/")
}

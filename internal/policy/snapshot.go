// Package policy loads the canonical policy files: the rules-engine policy
// snapshot and the eligibility parameters. Both are read once and shared
// read-only for the lifetime of the process.
package policy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"originate/internal/decision/models"
)

// Snapshot defaults applied when the canonical alias is missing or silent.
const (
	DefaultAliasName          = "brms_policy_canonical"
	DefaultPolicyID           = "P1"
	DefaultPolicyVersion      = "1.0"
	DefaultBridgeBaseURL      = "http://localhost:8090"
	DefaultBridgeEndpoint     = "/bridge/brms_flags"
	DefaultFlagsSchemaVersion = models.SchemaRulesEngineFlags
)

// canonicalAlias is the on-disk layout of the policy alias file.
type canonicalAlias struct {
	AliasName          string `json:"alias_name"`
	PolicyID           string `json:"policy_id"`
	PolicyVersion      string `json:"policy_version"`
	FlagsSchemaVersion string `json:"brms_flags_schema_version"`
	Bridge             *struct {
		BaseURL  string `json:"base_url"`
		Endpoint string `json:"endpoint"`
	} `json:"bridge"`
}

// FileSource loads the policy snapshot from the canonical alias file on
// first use and caches it.
type FileSource struct {
	path string

	once     sync.Once
	snapshot models.PolicySnapshot
	err      error
}

// NewFileSource creates a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Snapshot returns the cached snapshot. A missing file yields the defaults
// with status MISSING_ALIAS; a malformed file is an error.
func (s *FileSource) Snapshot(_ context.Context) (models.PolicySnapshot, error) {
	s.once.Do(func() {
		s.snapshot, s.err = LoadSnapshot(s.path)
	})
	return s.snapshot, s.err
}

// LoadSnapshot reads the canonical alias at path.
func LoadSnapshot(path string) (models.PolicySnapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || path == "" {
			return missingAlias(), nil
		}
		return models.PolicySnapshot{}, fmt.Errorf("read policy alias %s: %w", path, err)
	}

	var alias canonicalAlias
	if err := json.Unmarshal(raw, &alias); err != nil {
		return models.PolicySnapshot{}, fmt.Errorf("parse policy alias %s: %w", path, err)
	}

	snap := models.PolicySnapshot{
		SchemaVersion:      models.SchemaPolicySnapshot,
		Status:             models.PolicyStatusOK,
		AliasName:          orDefault(alias.AliasName, DefaultAliasName),
		PolicyID:           orDefault(alias.PolicyID, DefaultPolicyID),
		PolicyVersion:      orDefault(alias.PolicyVersion, DefaultPolicyVersion),
		FlagsSchemaVersion: orDefault(alias.FlagsSchemaVersion, DefaultFlagsSchemaVersion),
		BridgeBaseURL:      DefaultBridgeBaseURL,
		BridgeEndpoint:     DefaultBridgeEndpoint,
	}
	if alias.Bridge != nil {
		snap.BridgeBaseURL = orDefault(alias.Bridge.BaseURL, DefaultBridgeBaseURL)
		snap.BridgeEndpoint = orDefault(alias.Bridge.Endpoint, DefaultBridgeEndpoint)
	}
	return snap, nil
}

func missingAlias() models.PolicySnapshot {
	return models.PolicySnapshot{
		Status:         models.PolicyStatusMissingAlias,
		AliasName:      DefaultAliasName,
		PolicyID:       DefaultPolicyID,
		PolicyVersion:  DefaultPolicyVersion,
		BridgeBaseURL:  DefaultBridgeBaseURL,
		BridgeEndpoint: DefaultBridgeEndpoint,
	}
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

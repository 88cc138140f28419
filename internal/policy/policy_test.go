package policy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"originate/internal/decision/models"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "alias.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadSnapshot(t *testing.T) {
	t.Run("missing alias falls back to defaults", func(t *testing.T) {
		snap, err := LoadSnapshot(filepath.Join(t.TempDir(), "absent.json"))
		require.NoError(t, err)
		assert.Equal(t, models.PolicyStatusMissingAlias, snap.Status)
		assert.Equal(t, "P1", snap.PolicyID)
		assert.Equal(t, "1.0", snap.PolicyVersion)
		assert.Equal(t, "http://localhost:8090/bridge/brms_flags", snap.BridgeURL())
		assert.Empty(t, snap.SchemaVersion)
	})

	t.Run("present alias reads nested bridge", func(t *testing.T) {
		path := writeFile(t, `{
			"alias_name": "brms_policy_canonical",
			"policy_id": "P7",
			"policy_version": "2.1",
			"bridge": {"base_url": "http://bridge:9000/", "endpoint": "bridge/brms_flags"}
		}`)
		snap, err := LoadSnapshot(path)
		require.NoError(t, err)
		assert.Equal(t, models.PolicyStatusOK, snap.Status)
		assert.Equal(t, models.SchemaPolicySnapshot, snap.SchemaVersion)
		assert.Equal(t, "P7", snap.PolicyID)
		assert.Equal(t, models.SchemaRulesEngineFlags, snap.FlagsSchemaVersion)
		assert.Equal(t, "http://bridge:9000/bridge/brms_flags", snap.BridgeURL())
	})

	t.Run("malformed alias is an error", func(t *testing.T) {
		_, err := LoadSnapshot(writeFile(t, `{not json`))
		assert.Error(t, err)
	})
}

func TestFileSourceCachesSnapshot(t *testing.T) {
	path := writeFile(t, `{"policy_id": "P2"}`)
	src := NewFileSource(path)

	first, err := src.Snapshot(context.Background())
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	second, err := src.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "P2", second.PolicyID)
}

func TestLoadEligibility(t *testing.T) {
	t.Run("defaults when file is absent", func(t *testing.T) {
		params, err := LoadEligibility(filepath.Join(t.TempDir(), "absent.json"))
		require.NoError(t, err)
		assert.Equal(t, DefaultEligibility(), params)
	})

	t.Run("overrides present keys only", func(t *testing.T) {
		path := writeFile(t, `{
			"parameters": {"MIN_AGE": 21, "MACRO_STRESS_REVIEW_THR": 0.9},
			"policy": {"only_existing_customers": "no"}
		}`)
		params, err := LoadEligibility(path)
		require.NoError(t, err)
		assert.Equal(t, 21, params.MinAge)
		assert.InDelta(t, 1200.0, params.MinIncome, 1e-9)
		assert.InDelta(t, 0.9, params.MacroStressReviewThr, 1e-9)
		assert.False(t, params.OnlyExistingCustomers)
	})

	t.Run("non numeric parameter is an error", func(t *testing.T) {
		_, err := LoadEligibility(writeFile(t, `{"parameters": {"MIN_INCOME": "lots"}}`))
		assert.Error(t, err)
	})
}

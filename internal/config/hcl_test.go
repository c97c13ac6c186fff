package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeHCL(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.hcl")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadHCLFileParsesScalarFields(t *testing.T) {
	path := writeHCL(t, `
region_selector = "^aws-"
replication_factor_min = 2
replication_factor_max = 4
latency_slo = 85.5
use_clarkson = true
optimizer = "clarkson"
`)
	cfg, err := LoadHCLFile(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.RegionSelector)
	assert.Equal(t, "^aws-", *cfg.RegionSelector)
	require.NotNil(t, cfg.ReplicationFactorMin)
	assert.Equal(t, 2, *cfg.ReplicationFactorMin)
	require.NotNil(t, cfg.ReplicationFactorMax)
	assert.Equal(t, 4, *cfg.ReplicationFactorMax)
	require.NotNil(t, cfg.LatencySLO)
	assert.Equal(t, 85.5, *cfg.LatencySLO)
	require.NotNil(t, cfg.UseClarkson)
	assert.True(t, *cfg.UseClarkson)
	require.NotNil(t, cfg.Optimizer)
	assert.Equal(t, "clarkson", *cfg.Optimizer)
}

func TestLoadHCLFileParsesPriceOverridesMap(t *testing.T) {
	path := writeHCL(t, `
price_overrides = {
  "aws-us-east-1-s3-standard" = 0.0199
  "gcp-us-central1-gcs-standard" = 0.018
}
`)
	cfg, err := LoadHCLFile(path)
	require.NoError(t, err)
	require.Len(t, cfg.PriceOverrides, 2)
	assert.Equal(t, 0.0199, cfg.PriceOverrides["aws-us-east-1-s3-standard"])
}

func TestLoadHCLFileRejectsUnknownKey(t *testing.T) {
	path := writeHCL(t, `bogus_key = "x"`)
	_, err := LoadHCLFile(path)
	assert.Error(t, err)
}

func TestLoadHCLFileRejectsMissingFile(t *testing.T) {
	_, err := LoadHCLFile(filepath.Join(t.TempDir(), "missing.hcl"))
	assert.Error(t, err)
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		RegionSelector:               "^aws-",
		ObjectStoreSelector:          "^s3",
		ReplicationFactor:            1,
		ReplicationFactorMax:         2,
		NetworkFile:                  "network.csv",
		ObjectStoreFile:              "prices.csv",
		BatchSize:                    64,
		RedundancyEliminationWorkers: 4,
		WorkerID:                     0,
		NumWorkers:                   1,
		OutputFileName:               "decisions.bin",
		OutputCandidatesFileName:     "candidates.bin",
		ExperimentName:               "exp1",
		Optimizer:                    "clarkson",
	}
}

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	c := validConfig()
	assert.NoError(t, c.Validate())
}

func TestValidateRejectsMissingRequiredFiles(t *testing.T) {
	c := validConfig()
	c.NetworkFile = ""
	err := c.Validate()
	require.Error(t, err)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "network-file", cfgErr.Field)
}

func TestValidateRejectsReplicationFactorMaxBelowMin(t *testing.T) {
	c := validConfig()
	c.ReplicationFactor = 3
	c.ReplicationFactorMax = 2
	assert.Error(t, c.Validate())
}

func TestValidateRejectsWorkerIDOutOfRange(t *testing.T) {
	c := validConfig()
	c.NumWorkers = 2
	c.WorkerID = 2
	assert.Error(t, c.Validate())
}

func TestValidateRejectsLatencySLOWithoutLatencyFile(t *testing.T) {
	c := validConfig()
	slo := 100.0
	c.LatencySLO = &slo
	assert.Error(t, c.Validate())
}

func TestValidateAcceptsLatencySLOWithLatencyFile(t *testing.T) {
	c := validConfig()
	slo := 100.0
	c.LatencySLO = &slo
	c.LatencyFile = "latency.csv"
	assert.NoError(t, c.Validate())
}

func TestApplyFileOverwritesOnlySetFields(t *testing.T) {
	c := validConfig()
	batch := 128
	var f FileConfig
	f.BatchSize = &batch
	c.ApplyFile(f)
	assert.Equal(t, 128, c.BatchSize)
	assert.Equal(t, "exp1", c.ExperimentName)
}

func TestApplyFileMergesPriceOverrides(t *testing.T) {
	c := validConfig()
	f := FileConfig{PriceOverrides: map[string]float64{"aws-us-east-1-s3-standard": 0.01}}
	c.ApplyFile(f)
	require.Contains(t, c.PriceOverrides, "aws-us-east-1-s3-standard")
	assert.Equal(t, 0.01, c.PriceOverrides["aws-us-east-1-s3-standard"])
}

func TestWorkerOutputPathAppliesStemUnderscoreIDExtension(t *testing.T) {
	assert.Equal(t, "decisions_3.bin", WorkerOutputPath("decisions.bin", 3))
	assert.Equal(t, "out/decisions_0.bin", WorkerOutputPath("out/decisions.bin", 0))
	assert.Equal(t, "noext_2", WorkerOutputPath("noext", 2))
}

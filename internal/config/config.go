// Package config holds the CLI's flat run configuration: the flag surface
// of spec.md §6, the optional HCL file overlay (hcl.go), and the exit-code
// mapping cmd/skypie-oracle uses to terminate the process.
package config

import "fmt"

// ExitCode is one of spec.md §6's three process exit codes.
type ExitCode int

const (
	ExitSuccess       ExitCode = 0
	ExitFatalError    ExitCode = 1
	ExitInvalidConfig ExitCode = 2
)

// Config is the fully-resolved set of flags a precompute run needs, after
// flags, the optional --config file, and defaults have been merged.
type Config struct {
	RegionSelector       string
	ObjectStoreSelector  string
	ReplicationFactor    int
	ReplicationFactorMax int

	NetworkFile     string
	ObjectStoreFile string
	LatencyFile     string
	LatencySLO      *float64

	BatchSize                   int
	RedundancyEliminationWorkers int

	WorkerID   int
	NumWorkers int

	OutputFileName           string
	OutputCandidatesFileName string
	ExperimentName           string

	Optimizer   string
	UseClarkson bool

	PriceOverrides map[string]float64
}

// ConfigError is an invalid-configuration failure (exit code 2), distinct
// from the fatal runtime errors (exit code 1) internal/catalog and friends
// raise once a run is underway.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) *ConfigError {
	return &ConfigError{Field: field, Reason: reason}
}

// ApplyFile overlays a parsed HCL FileConfig onto cfg: every field the file
// sets overwrites the current value, whether or not it came from a
// command-line flag. It does not track which flags were set explicitly;
// precompute.go calls it after flag parsing, so file values win there.
func (c *Config) ApplyFile(f FileConfig) {
	if f.RegionSelector != nil {
		c.RegionSelector = *f.RegionSelector
	}
	if f.ObjectStoreSelector != nil {
		c.ObjectStoreSelector = *f.ObjectStoreSelector
	}
	if f.ReplicationFactorMin != nil {
		c.ReplicationFactor = *f.ReplicationFactorMin
	}
	if f.ReplicationFactorMax != nil {
		c.ReplicationFactorMax = *f.ReplicationFactorMax
	}
	if f.NetworkFile != nil {
		c.NetworkFile = *f.NetworkFile
	}
	if f.ObjectStoreFile != nil {
		c.ObjectStoreFile = *f.ObjectStoreFile
	}
	if f.LatencyFile != nil {
		c.LatencyFile = *f.LatencyFile
	}
	if f.LatencySLO != nil {
		c.LatencySLO = f.LatencySLO
	}
	if f.BatchSize != nil {
		c.BatchSize = *f.BatchSize
	}
	if f.RedundancyEliminationWorkers != nil {
		c.RedundancyEliminationWorkers = *f.RedundancyEliminationWorkers
	}
	if f.NumWorkers != nil {
		c.NumWorkers = *f.NumWorkers
	}
	if f.OutputFileName != nil {
		c.OutputFileName = *f.OutputFileName
	}
	if f.OutputCandidatesFileName != nil {
		c.OutputCandidatesFileName = *f.OutputCandidatesFileName
	}
	if f.ExperimentName != nil {
		c.ExperimentName = *f.ExperimentName
	}
	if f.Optimizer != nil {
		c.Optimizer = *f.Optimizer
	}
	if f.UseClarkson != nil {
		c.UseClarkson = *f.UseClarkson
	}
	if len(f.PriceOverrides) > 0 {
		if c.PriceOverrides == nil {
			c.PriceOverrides = make(map[string]float64, len(f.PriceOverrides))
		}
		for k, v := range f.PriceOverrides {
			c.PriceOverrides[k] = v
		}
	}
}

// Validate checks the required-unless-noted rules of spec.md §6. A non-nil
// error here is always a ConfigError (exit code 2).
func (c *Config) Validate() error {
	if c.NetworkFile == "" {
		return invalid("network-file", "required")
	}
	if c.ObjectStoreFile == "" {
		return invalid("object-store-file", "required")
	}
	if c.ReplicationFactor < 1 {
		return invalid("replication-factor", "must be >= 1")
	}
	if c.ReplicationFactorMax < c.ReplicationFactor {
		return invalid("replication-factor-max", "must be >= replication-factor")
	}
	if c.BatchSize < 1 {
		return invalid("batch-size", "must be >= 1")
	}
	if c.RedundancyEliminationWorkers < 1 {
		return invalid("redundancy-elimination-workers", "must be >= 1")
	}
	if c.NumWorkers < 1 {
		return invalid("num-workers", "must be >= 1")
	}
	if c.WorkerID < 0 || c.WorkerID >= c.NumWorkers {
		return invalid("worker-id", "must be in [0, num-workers)")
	}
	if c.OutputFileName == "" {
		return invalid("output-file-name", "required")
	}
	if c.OutputCandidatesFileName == "" {
		return invalid("output-candidates-file-name", "required")
	}
	if c.ExperimentName == "" {
		return invalid("experiment-name", "required")
	}
	if c.Optimizer == "" {
		return invalid("optimizer", "required")
	}
	if c.LatencyFile == "" && c.LatencySLO != nil {
		return invalid("latency-slo", "requires latency-file")
	}
	return nil
}

// WorkerOutputPath applies the "<stem>_<id>.<ext>" per-worker naming rule
// spec.md §6 specifies for --output-file-name and --output-candidates-file-name.
func WorkerOutputPath(nameTemplate string, workerID int) string {
	stem, ext := splitExt(nameTemplate)
	return fmt.Sprintf("%s_%d%s", stem, workerID, ext)
}

func splitExt(name string) (stem, ext string) {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[:i], name[i:]
		}
		if name[i] == '/' {
			break
		}
	}
	return name, ""
}

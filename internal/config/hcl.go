package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// FileConfig is the optional --config HCL file's contents: any CLI flag
// named in spec.md §6 except --worker-id may be set here instead, plus a
// price_overrides map this repo adds as strictly additive convenience.
// Every field is a pointer so the merge step (Config.ApplyFile) only
// overwrites a flag the file actually set.
type FileConfig struct {
	RegionSelector               *string
	ObjectStoreSelector          *string
	ReplicationFactorMin         *int
	ReplicationFactorMax         *int
	NetworkFile                  *string
	ObjectStoreFile              *string
	LatencyFile                  *string
	LatencySLO                   *float64
	BatchSize                    *int
	RedundancyEliminationWorkers *int
	NumWorkers                   *int
	OutputFileName               *string
	OutputCandidatesFileName     *string
	ExperimentName               *string
	Optimizer                    *string
	UseClarkson                  *bool
	PriceOverrides               map[string]float64
}

// LoadHCLFile parses path as a flat attribute list, grounded on
// pkg/engine/provenance/hcl_parser.go's hclparse.NewParser()+hclsyntax.Body
// scanning shape, but reading attribute values (via go-cty) instead of
// that file's block positions.
func LoadHCLFile(path string) (FileConfig, error) {
	var cfg FileConfig

	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return cfg, fmt.Errorf("config: parse %s: %w", path, diags)
	}

	body, ok := f.Body.(*hclsyntax.Body)
	if !ok {
		return cfg, fmt.Errorf("config: %s has no syntax body", path)
	}

	for name, attr := range body.Attributes {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return cfg, fmt.Errorf("config: evaluate %s: %w", name, diags)
		}
		if err := cfg.set(name, val); err != nil {
			return cfg, fmt.Errorf("config: %s: %w", name, err)
		}
	}
	return cfg, nil
}

func (c *FileConfig) set(name string, val cty.Value) error {
	switch name {
	case "region_selector":
		return setString(&c.RegionSelector, val)
	case "object_store_selector":
		return setString(&c.ObjectStoreSelector, val)
	case "replication_factor_min":
		return setInt(&c.ReplicationFactorMin, val)
	case "replication_factor_max":
		return setInt(&c.ReplicationFactorMax, val)
	case "network_file":
		return setString(&c.NetworkFile, val)
	case "object_store_file":
		return setString(&c.ObjectStoreFile, val)
	case "latency_file":
		return setString(&c.LatencyFile, val)
	case "latency_slo":
		return setFloat(&c.LatencySLO, val)
	case "batch_size":
		return setInt(&c.BatchSize, val)
	case "redundancy_elimination_workers":
		return setInt(&c.RedundancyEliminationWorkers, val)
	case "num_workers":
		return setInt(&c.NumWorkers, val)
	case "output_file_name":
		return setString(&c.OutputFileName, val)
	case "output_candidates_file_name":
		return setString(&c.OutputCandidatesFileName, val)
	case "experiment_name":
		return setString(&c.ExperimentName, val)
	case "optimizer":
		return setString(&c.Optimizer, val)
	case "use_clarkson":
		return setBool(&c.UseClarkson, val)
	case "price_overrides":
		m, err := decodePriceOverrides(val)
		if err != nil {
			return err
		}
		c.PriceOverrides = m
		return nil
	default:
		return fmt.Errorf("unknown config key %q", name)
	}
}

func setString(dst **string, val cty.Value) error {
	var s string
	if err := gocty.FromCtyValue(val, &s); err != nil {
		return err
	}
	*dst = &s
	return nil
}

func setInt(dst **int, val cty.Value) error {
	var n int
	if err := gocty.FromCtyValue(val, &n); err != nil {
		return err
	}
	*dst = &n
	return nil
}

func setFloat(dst **float64, val cty.Value) error {
	var f float64
	if err := gocty.FromCtyValue(val, &f); err != nil {
		return err
	}
	*dst = &f
	return nil
}

func setBool(dst **bool, val cty.Value) error {
	var b bool
	if err := gocty.FromCtyValue(val, &b); err != nil {
		return err
	}
	*dst = &b
	return nil
}

func decodePriceOverrides(val cty.Value) (map[string]float64, error) {
	if !val.CanIterateElements() {
		return nil, fmt.Errorf("price_overrides must be a map")
	}
	out := map[string]float64{}
	it := val.ElementIterator()
	for it.Next() {
		k, v := it.Element()
		var key string
		if err := gocty.FromCtyValue(k, &key); err != nil {
			return nil, err
		}
		var price float64
		if err := gocty.FromCtyValue(v, &price); err != nil {
			return nil, err
		}
		out[key] = price
	}
	return out, nil
}

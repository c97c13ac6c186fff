// Package ingest turns the three input CSVs named in spec.md §6 (network
// prices, object-store prices, latency) into the raw row slices
// internal/catalog.Load consumes. Grounded on pkg/engine/report/export.go's
// encoding/csv usage — the teacher never imports a third-party CSV library,
// so this stays stdlib.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/skypie-oracle/precomputer/internal/catalog"
)

// MalformedRowError records one skipped CSV row (spec.md §7's MalformedInput
// kind): bad per-row data is a warning, not a fatal error.
type MalformedRowError struct {
	File string
	Line int
	Err  error
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("ingest: %s line %d: %v", e.File, e.Line, e.Err)
}

func (e *MalformedRowError) Unwrap() error { return e.Err }

// LoadObjectStorePrices reads the object-store price CSV: Vendor, Region,
// Name, Tier, Group, PricePerUnit.
func LoadObjectStorePrices(path string, logger *slog.Logger) ([]catalog.StoreRaw, error) {
	logger = orDefault(logger)
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	rows := make([]catalog.StoreRaw, 0, len(records))
	for i, rec := range records {
		line := i + 2 // header consumed by readCSV, +1 for 1-indexing
		if len(rec) != 6 {
			logger.Warn("skipping malformed object-store price row", "file", path, "line", line, "fields", len(rec))
			continue
		}
		price, err := strconv.ParseFloat(rec[5], 64)
		if err != nil {
			logger.Warn("skipping object-store price row with non-numeric price", "file", path, "line", line, "err", err)
			continue
		}
		rows = append(rows, catalog.StoreRaw{
			Vendor:       rec[0],
			Region:       rec[1],
			Name:         rec[2],
			Tier:         rec[3],
			Group:        catalog.PriceGroup(rec[4]),
			PricePerUnit: price,
		})
	}
	return rows, nil
}

// LoadNetworkPrices reads the network price CSV: src_vendor, src_region,
// dest_vendor, dest_region, cost.
func LoadNetworkPrices(path string, logger *slog.Logger) ([]catalog.NetworkRaw, error) {
	logger = orDefault(logger)
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	rows := make([]catalog.NetworkRaw, 0, len(records))
	for i, rec := range records {
		line := i + 2
		if len(rec) != 5 {
			logger.Warn("skipping malformed network price row", "file", path, "line", line, "fields", len(rec))
			continue
		}
		cost, err := strconv.ParseFloat(rec[4], 64)
		if err != nil {
			logger.Warn("skipping network price row with non-numeric cost", "file", path, "line", line, "err", err)
			continue
		}
		rows = append(rows, catalog.NetworkRaw{
			SrcVendor:  rec[0],
			SrcRegion:  rec[1],
			DestVendor: rec[2],
			DestRegion: rec[3],
			Cost:       cost,
		})
	}
	return rows, nil
}

// LoadLatencies reads the optional latency CSV: src_vendor, src_region,
// dest_vendor, dest_region, latency. path == "" returns nil, nil: the file
// is optional per spec.md §6.
func LoadLatencies(path string, logger *slog.Logger) ([]catalog.LatencyRaw, error) {
	if path == "" {
		return nil, nil
	}
	logger = orDefault(logger)
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	rows := make([]catalog.LatencyRaw, 0, len(records))
	for i, rec := range records {
		line := i + 2
		if len(rec) != 5 {
			logger.Warn("skipping malformed latency row", "file", path, "line", line, "fields", len(rec))
			continue
		}
		latency, err := strconv.ParseFloat(rec[4], 64)
		if err != nil {
			logger.Warn("skipping latency row with non-numeric latency", "file", path, "line", line, "err", err)
			continue
		}
		rows = append(rows, catalog.LatencyRaw{
			SrcVendor:  rec[0],
			SrcRegion:  rec[1],
			DestVendor: rec[2],
			DestRegion: rec[3],
			Latency:    latency,
		})
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // row-level length checking happens per loader above
	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("ingest: %s is empty", path)
		}
		return nil, fmt.Errorf("ingest: read header of %s: %w", path, err)
	}

	var out [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ingest: read %s: %w", path, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

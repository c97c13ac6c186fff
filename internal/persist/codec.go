package persist

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"time"
)

// DecisionRecord is the stable wire shape of one Decision message (§6):
// the write choice by store name, the read choice by (region, store) name
// pairs, the halfplane cost-vector row, and an arrival timestamp.
type DecisionRecord struct {
	WriteStoreNames []string
	Assignments     []AssignmentRecord
	CostHalfplane   []float64
	Timestamp       time.Time
}

// AssignmentRecord names one application region's serving store.
type AssignmentRecord struct {
	RegionName string
	StoreName  string
}

// OptimizerStat accumulates call count and min/max/total duration for one
// optimizer backend name, the SUPPLEMENTED per-optimizer histogram bucket
// from original_source/skypie_lib/src/optimizer_stats.rs.
type OptimizerStat struct {
	Calls int
	Total time.Duration
	Min   time.Duration
	Max   time.Duration
}

// Observe folds one call's duration into the accumulator.
func (s *OptimizerStat) Observe(d time.Duration) {
	if s.Calls == 0 || d < s.Min {
		s.Min = d
	}
	if d > s.Max {
		s.Max = d
	}
	s.Total += d
	s.Calls++
}

// WrapperRecord is the once-per-run message recording the catalog shape,
// output partition paths, halfplane dimension, and per-optimizer timing,
// per spec.md §4.8.
type WrapperRecord struct {
	RegionNames     []string
	StoreNames      []string
	CandidatesPath  string
	OptimalPath     string
	Dimension       int
	OptimizerStats  map[string]OptimizerStat
	Total           time.Duration
	RedundancyElim  time.Duration
	WriteChoiceGen  time.Duration
	OptimalCount    int
}

// EncodeDecision serializes r into the Decision message payload.
func EncodeDecision(r DecisionRecord) []byte {
	var buf bytes.Buffer
	writeStringSlice(&buf, r.WriteStoreNames)
	writeUint32(&buf, uint32(len(r.Assignments)))
	for _, a := range r.Assignments {
		writeString(&buf, a.RegionName)
		writeString(&buf, a.StoreName)
	}
	writeFloat64Slice(&buf, r.CostHalfplane)
	writeInt64(&buf, r.Timestamp.Unix())
	writeInt64(&buf, int64(r.Timestamp.Nanosecond()))
	return buf.Bytes()
}

// DecodeDecision parses a Decision message payload produced by
// EncodeDecision.
func DecodeDecision(payload []byte) (DecisionRecord, error) {
	r := bytes.NewReader(payload)
	var rec DecisionRecord

	names, err := readStringSlice(r)
	if err != nil {
		return rec, fmt.Errorf("persist: decode write stores: %w", err)
	}
	rec.WriteStoreNames = names

	n, err := readUint32(r)
	if err != nil {
		return rec, fmt.Errorf("persist: decode assignment count: %w", err)
	}
	rec.Assignments = make([]AssignmentRecord, n)
	for i := range rec.Assignments {
		region, err := readString(r)
		if err != nil {
			return rec, fmt.Errorf("persist: decode assignment region: %w", err)
		}
		store, err := readString(r)
		if err != nil {
			return rec, fmt.Errorf("persist: decode assignment store: %w", err)
		}
		rec.Assignments[i] = AssignmentRecord{RegionName: region, StoreName: store}
	}

	cost, err := readFloat64Slice(r)
	if err != nil {
		return rec, fmt.Errorf("persist: decode cost vector: %w", err)
	}
	rec.CostHalfplane = cost

	sec, err := readInt64(r)
	if err != nil {
		return rec, fmt.Errorf("persist: decode timestamp seconds: %w", err)
	}
	nsec, err := readInt64(r)
	if err != nil {
		return rec, fmt.Errorf("persist: decode timestamp nanos: %w", err)
	}
	rec.Timestamp = time.Unix(sec, nsec).UTC()

	return rec, nil
}

// EncodeWrapper serializes w into the once-per-run wrapper message payload.
func EncodeWrapper(w WrapperRecord) []byte {
	var buf bytes.Buffer
	writeStringSlice(&buf, w.RegionNames)
	writeStringSlice(&buf, w.StoreNames)
	writeString(&buf, w.CandidatesPath)
	writeString(&buf, w.OptimalPath)
	writeUint32(&buf, uint32(w.Dimension))

	writeUint32(&buf, uint32(len(w.OptimizerStats)))
	for name, stat := range w.OptimizerStats {
		writeString(&buf, name)
		writeUint32(&buf, uint32(stat.Calls))
		writeInt64(&buf, int64(stat.Total))
		writeInt64(&buf, int64(stat.Min))
		writeInt64(&buf, int64(stat.Max))
	}

	writeInt64(&buf, int64(w.Total))
	writeInt64(&buf, int64(w.RedundancyElim))
	writeInt64(&buf, int64(w.WriteChoiceGen))
	writeUint32(&buf, uint32(w.OptimalCount))
	return buf.Bytes()
}

// DecodeWrapper parses a wrapper message payload produced by EncodeWrapper.
func DecodeWrapper(payload []byte) (WrapperRecord, error) {
	r := bytes.NewReader(payload)
	var w WrapperRecord

	var err error
	if w.RegionNames, err = readStringSlice(r); err != nil {
		return w, fmt.Errorf("persist: decode region names: %w", err)
	}
	if w.StoreNames, err = readStringSlice(r); err != nil {
		return w, fmt.Errorf("persist: decode store names: %w", err)
	}
	if w.CandidatesPath, err = readString(r); err != nil {
		return w, fmt.Errorf("persist: decode candidates path: %w", err)
	}
	if w.OptimalPath, err = readString(r); err != nil {
		return w, fmt.Errorf("persist: decode optimal path: %w", err)
	}
	dim, err := readUint32(r)
	if err != nil {
		return w, fmt.Errorf("persist: decode dimension: %w", err)
	}
	w.Dimension = int(dim)

	n, err := readUint32(r)
	if err != nil {
		return w, fmt.Errorf("persist: decode optimizer stat count: %w", err)
	}
	w.OptimizerStats = make(map[string]OptimizerStat, n)
	for i := uint32(0); i < n; i++ {
		name, err := readString(r)
		if err != nil {
			return w, fmt.Errorf("persist: decode optimizer name: %w", err)
		}
		calls, err := readUint32(r)
		if err != nil {
			return w, fmt.Errorf("persist: decode optimizer calls: %w", err)
		}
		total, err := readInt64(r)
		if err != nil {
			return w, fmt.Errorf("persist: decode optimizer total: %w", err)
		}
		min, err := readInt64(r)
		if err != nil {
			return w, fmt.Errorf("persist: decode optimizer min: %w", err)
		}
		max, err := readInt64(r)
		if err != nil {
			return w, fmt.Errorf("persist: decode optimizer max: %w", err)
		}
		w.OptimizerStats[name] = OptimizerStat{
			Calls: int(calls), Total: time.Duration(total), Min: time.Duration(min), Max: time.Duration(max),
		}
	}

	total, err := readInt64(r)
	if err != nil {
		return w, fmt.Errorf("persist: decode total duration: %w", err)
	}
	redundancy, err := readInt64(r)
	if err != nil {
		return w, fmt.Errorf("persist: decode redundancy duration: %w", err)
	}
	writeGen, err := readInt64(r)
	if err != nil {
		return w, fmt.Errorf("persist: decode write-choice duration: %w", err)
	}
	optimalCount, err := readUint32(r)
	if err != nil {
		return w, fmt.Errorf("persist: decode optimal count: %w", err)
	}
	w.Total = time.Duration(total)
	w.RedundancyElim = time.Duration(redundancy)
	w.WriteChoiceGen = time.Duration(writeGen)
	w.OptimalCount = int(optimalCount)
	return w, nil
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func readUint32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

func writeInt64(buf *bytes.Buffer, v int64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	buf.Write(b[:])
}

func readInt64(r io.Reader) (int64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b[:])), nil
}

func writeString(buf *bytes.Buffer, s string) {
	writeUint32(buf, uint32(len(s)))
	buf.WriteString(s)
}

func readString(r io.Reader) (string, error) {
	n, err := readUint32(r)
	if err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
}

func writeStringSlice(buf *bytes.Buffer, ss []string) {
	writeUint32(buf, uint32(len(ss)))
	for _, s := range ss {
		writeString(buf, s)
	}
}

func readStringSlice(r io.Reader) ([]string, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	out := make([]string, n)
	for i := range out {
		s, err := readString(r)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func writeFloat64Slice(buf *bytes.Buffer, fs []float64) {
	writeUint32(buf, uint32(len(fs)))
	for _, f := range fs {
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], math.Float64bits(f))
		buf.Write(b[:])
	}
}

func readFloat64Slice(r io.Reader) ([]float64, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	var b [8]byte
	for i := range out {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return nil, err
		}
		out[i] = math.Float64frombits(binary.BigEndian.Uint64(b[:]))
	}
	return out, nil
}

package persist

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecisionRoundTripsThroughEncodeDecode(t *testing.T) {
	rec := DecisionRecord{
		WriteStoreNames: []string{"aws-us-east-1-s3", "aws-eu-west-1-s3"},
		Assignments: []AssignmentRecord{
			{RegionName: "us-east-1", StoreName: "aws-us-east-1-s3"},
			{RegionName: "eu-west-1", StoreName: "aws-eu-west-1-s3"},
		},
		CostHalfplane: []float64{0, 0.023, 0.0004, 0.0004, 0.0004, 0.09, 0.09, 0, 0, -1},
		Timestamp:     time.Date(2026, 3, 5, 12, 0, 0, 123456000, time.UTC),
	}

	got, err := DecodeDecision(EncodeDecision(rec))
	require.NoError(t, err)
	assert.Equal(t, rec.WriteStoreNames, got.WriteStoreNames)
	assert.Equal(t, rec.Assignments, got.Assignments)
	assert.Equal(t, rec.CostHalfplane, got.CostHalfplane)
	assert.True(t, rec.Timestamp.Equal(got.Timestamp))
}

func TestDecisionRoundTripsWithEmptyWriteChoice(t *testing.T) {
	rec := DecisionRecord{Timestamp: time.Unix(0, 0).UTC()}
	got, err := DecodeDecision(EncodeDecision(rec))
	require.NoError(t, err)
	assert.Empty(t, got.WriteStoreNames)
	assert.Empty(t, got.Assignments)
	assert.Empty(t, got.CostHalfplane)
}

func TestWrapperRoundTripsThroughEncodeDecode(t *testing.T) {
	w := WrapperRecord{
		RegionNames:    []string{"us-east-1", "eu-west-1"},
		StoreNames:     []string{"aws-us-east-1-s3"},
		CandidatesPath: "run1/candidates.bin",
		OptimalPath:    "run1/optimal.bin",
		Dimension:      10,
		OptimizerStats: map[string]OptimizerStat{
			"naive": {Calls: 3, Total: 300 * time.Millisecond, Min: 80 * time.Millisecond, Max: 150 * time.Millisecond},
		},
		Total:          2 * time.Second,
		RedundancyElim: 300 * time.Millisecond,
		WriteChoiceGen: 1700 * time.Millisecond,
		OptimalCount:   7,
	}

	got, err := DecodeWrapper(EncodeWrapper(w))
	require.NoError(t, err)
	assert.Equal(t, w, got)
}

func TestOptimizerStatObserveTracksMinMaxTotal(t *testing.T) {
	var s OptimizerStat
	s.Observe(100 * time.Millisecond)
	s.Observe(50 * time.Millisecond)
	s.Observe(200 * time.Millisecond)

	assert.Equal(t, 3, s.Calls)
	assert.Equal(t, 50*time.Millisecond, s.Min)
	assert.Equal(t, 200*time.Millisecond, s.Max)
	assert.Equal(t, 350*time.Millisecond, s.Total)
}

func TestFrameRoundTripsMultipleMessages(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, []byte("hello")))
	require.NoError(t, WriteFrame(&buf, []byte("")))
	require.NoError(t, WriteFrame(&buf, []byte("world")))

	frames, err := ReadAllFrames(&buf)
	require.NoError(t, err)
	require.Len(t, frames, 3)
	assert.Equal(t, "hello", string(frames[0]))
	assert.Equal(t, "", string(frames[1]))
	assert.Equal(t, "world", string(frames[2]))
}

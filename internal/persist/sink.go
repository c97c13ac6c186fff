package persist

import (
	"bytes"
	"context"
	"time"

	"github.com/skypie-oracle/precomputer/internal/decision"
)

// Now lets tests stamp deterministic timestamps without touching the
// system clock; production code leaves it at its time.Now default.
var Now = time.Now

// FramedSink satisfies internal/pipeline.Sink: it frames each Decision as
// it arrives into an in-memory buffer and spools the whole buffer to a
// BlobStore once on Close, since S3's PutObject (and the local store, for
// symmetry) take a full body rather than supporting append. This is the
// candidates/optimal stream writer named in spec.md §4.8.
type FramedSink struct {
	ctx   context.Context
	store BlobStore
	key   string
	buf   bytes.Buffer
	count int
}

// NewFramedSink builds a sink that will Put its accumulated frames to
// store under key when Close is called.
func NewFramedSink(ctx context.Context, store BlobStore, key string) *FramedSink {
	return &FramedSink{ctx: ctx, store: store, key: key}
}

// Write frames d and appends it to the pending buffer.
func (s *FramedSink) Write(d decision.Decision) error {
	rec := ToRecord(d, Now())
	s.count++
	return WriteFrame(&s.buf, EncodeDecision(rec))
}

// Count returns how many Decisions have been written so far.
func (s *FramedSink) Count() int { return s.count }

// Close flushes the buffered frames to the backing store. Calling Close on
// an empty sink still writes a zero-length-record file, so a run that
// genuinely produced nothing leaves a verifiable marker instead of a
// missing file.
func (s *FramedSink) Close() error {
	return s.store.Put(s.ctx, s.key, s.buf.Bytes())
}

// ReadDecisions reads every DecisionRecord previously written to key.
func ReadDecisions(ctx context.Context, store BlobStore, key string) ([]DecisionRecord, error) {
	data, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	frames, err := ReadAllFrames(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	out := make([]DecisionRecord, 0, len(frames))
	for _, f := range frames {
		rec, err := DecodeDecision(f)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// WriteWrapper frames and persists the once-per-run wrapper message.
func WriteWrapper(ctx context.Context, store BlobStore, key string, w WrapperRecord) error {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, EncodeWrapper(w)); err != nil {
		return err
	}
	return store.Put(ctx, key, buf.Bytes())
}

// ReadWrapper reads back the wrapper message written by WriteWrapper.
func ReadWrapper(ctx context.Context, store BlobStore, key string) (WrapperRecord, error) {
	data, err := store.Get(ctx, key)
	if err != nil {
		return WrapperRecord{}, err
	}
	payload, err := ReadFrame(bytes.NewReader(data))
	if err != nil {
		return WrapperRecord{}, err
	}
	return DecodeWrapper(payload)
}

// Package persist implements C8: length-delimited framed persistence of
// candidate/optimal Decision streams and the once-per-run stats wrapper,
// plus the local and S3 BlobStore-backed sinks that write them.
package persist

import (
	"encoding/binary"
	"fmt"
	"io"
)

// maxFrameBytes guards against a corrupt or truncated length prefix turning
// into an unbounded allocation when reading back a file.
const maxFrameBytes = 64 << 20

// WriteFrame writes payload prefixed with its length as a big-endian
// uint32, the length-delimited framing spec.md §4.8/§6 specifies for both
// the candidates/optimal Decision streams and the wrapper message.
func WriteFrame(w io.Writer, payload []byte) error {
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("persist: write frame header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("persist: write frame payload: %w", err)
	}
	return nil
}

// ReadFrame reads one length-delimited frame, returning io.EOF unmodified
// when the stream ends cleanly on a frame boundary.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(header[:])
	if n > maxFrameBytes {
		return nil, fmt.Errorf("persist: frame length %d exceeds %d byte limit", n, maxFrameBytes)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("persist: read frame payload: %w", err)
	}
	return payload, nil
}

// ReadAllFrames reads every frame until a clean EOF.
func ReadAllFrames(r io.Reader) ([][]byte, error) {
	var frames [][]byte
	for {
		payload, err := ReadFrame(r)
		if err == io.EOF {
			return frames, nil
		}
		if err != nil {
			return frames, err
		}
		frames = append(frames, payload)
	}
}

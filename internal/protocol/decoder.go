package protocol

import (
	"bytes"
	"fmt"
	"iter"
)

// Delimiter terminates every record on the snapshot stream.
const Delimiter = '\n'

// DefaultMaxFrame bounds how many bytes may accumulate without a delimiter.
const DefaultMaxFrame = 1 << 20

// Decoder splits a byte stream into records and decodes each one. It is not
// safe for concurrent use; a session's receive loop owns its decoder.
type Decoder struct {
	buf      bytes.Buffer
	maxFrame int
}

// NewDecoder creates a decoder. maxFrame <= 0 selects DefaultMaxFrame.
func NewDecoder(maxFrame int) *Decoder {
	if maxFrame <= 0 {
		maxFrame = DefaultMaxFrame
	}
	return &Decoder{maxFrame: maxFrame}
}

// Feed appends p to the pending buffer and returns the records that are now
// complete, in arrival order. A record that fails to decode is yielded as a
// nil Snapshot with a *DecodeError and decoding carries on with the next one.
//
// The append happens immediately; the returned sequence decodes lazily. If
// iteration stops early the remaining records stay buffered and are yielded
// by the next Feed.
func (d *Decoder) Feed(p []byte) iter.Seq2[Snapshot, error] {
	d.buf.Write(p)
	return func(yield func(Snapshot, error) bool) {
		for {
			i := bytes.IndexByte(d.buf.Bytes(), Delimiter)
			if i < 0 {
				if d.buf.Len() > d.maxFrame {
					n := d.buf.Len()
					d.buf.Reset()
					yield(nil, &DecodeError{
						Reason: fmt.Sprintf("frame exceeds %d bytes without delimiter (%d buffered)", d.maxFrame, n),
					})
				}
				return
			}
			line := bytes.TrimSpace(d.buf.Next(i + 1))
			if len(line) == 0 {
				continue
			}
			snap, err := ParseSnapshot(line)
			if !yield(snap, err) {
				return
			}
		}
	}
}

// Buffered returns the number of bytes held back waiting for a delimiter.
func (d *Decoder) Buffered() int {
	return d.buf.Len()
}

// Reset drops any partial record.
func (d *Decoder) Reset() {
	d.buf.Reset()
}

package diag

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Record is the on-disk form of a captured message.
type Record struct {
	Time     time.Time `cbor:"1,keyasint"`
	Severity Severity  `cbor:"2,keyasint"`
	Kind     Kind      `cbor:"3,keyasint"`
	Source   string    `cbor:"4,keyasint,omitempty"`
	Text     string    `cbor:"5,keyasint"`
}

// Message returns the message carried by r.
func (r Record) Message() Message {
	return Message{Severity: r.Severity, Kind: r.Kind, Source: r.Source, Text: r.Text}
}

var (
	captureEncMode cbor.EncMode
	captureDecMode cbor.DecMode
)

func init() {
	var err error
	encOpts := cbor.EncOptions{
		Sort:        cbor.SortCanonical,
		IndefLength: cbor.IndefLengthForbidden,
		Time:        cbor.TimeRFC3339Nano,
	}
	captureEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("diag: capture encoder mode: %v", err))
	}
	decOpts := cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyQuiet,
	}
	captureDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("diag: capture decoder mode: %v", err))
	}
}

// Capture writes every message as a CBOR record to w.
// It is safe for concurrent use.
type Capture struct {
	mu     sync.Mutex
	enc    *cbor.Encoder
	closer io.Closer
	closed bool
	now    func() time.Time
	err    error
}

// NewCapture returns a capture sink writing to w.
func NewCapture(w io.Writer) *Capture {
	c := &Capture{enc: captureEncMode.NewEncoder(w), now: time.Now}
	if wc, ok := w.(io.Closer); ok {
		c.closer = wc
	}
	return c
}

// NewCaptureFile opens path for appending and returns a capture sink
// writing to it. The file is created with permissions 0644.
func NewCaptureFile(path string) (*Capture, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("diag: opening capture: %w", err)
	}
	return NewCapture(f), nil
}

// Emit encodes m. Encoding failures never reach the caller; the first one
// is kept and reported by Err.
func (c *Capture) Emit(m Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	rec := Record{Time: c.now(), Severity: m.Severity, Kind: m.Kind, Source: m.Source, Text: m.Text}
	if err := c.enc.Encode(rec); err != nil && c.err == nil {
		c.err = err
	}
}

// Err returns the first encoding error, if any.
func (c *Capture) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed && c.err == nil {
		return ErrClosed
	}
	return c.err
}

// Close closes the underlying writer if it is an io.Closer. Later messages
// are dropped. Close is idempotent.
func (c *Capture) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

// ReadCapture decodes every record from r until EOF.
func ReadCapture(r io.Reader) ([]Record, error) {
	dec := captureDecMode.NewDecoder(r)
	var out []Record
	for {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, fmt.Errorf("diag: reading capture: %w", err)
		}
		out = append(out, rec)
	}
}

// ReadCaptureFile reads every record from the file at path.
func ReadCaptureFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("diag: opening capture: %w", err)
	}
	defer f.Close()
	return ReadCapture(f)
}

var _ Sink = (*Capture)(nil)

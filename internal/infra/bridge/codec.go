package bridge

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"gardenreach/internal/domain"
)

const maxLineLength = 64 * 1024

// ErrLineTooLong reports an input line above the size limit; the line is discarded.
var ErrLineTooLong = errors.New("bridge line too long")

// LineError reports an input line that could not be decoded. Decoding can continue after it.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Decoder reads one host event per line.
type Decoder struct {
	reader *bufio.Reader
	line   int
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{reader: bufio.NewReaderSize(r, 8192)}
}

// Next returns the next event, io.EOF at end of input, or a *LineError for a bad line.
func (d *Decoder) Next() (domain.HostEvent, error) {
	for {
		raw, err := d.readLine()
		if raw == nil && err != nil {
			return domain.HostEvent{}, err
		}
		d.line++
		if errors.Is(err, ErrLineTooLong) {
			return domain.HostEvent{}, d.lineError(err)
		}
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 {
			continue
		}
		event, decodeErr := decodeEvent(trimmed)
		if decodeErr != nil {
			return domain.HostEvent{}, d.lineError(decodeErr)
		}
		return event, nil
	}
}

// readLine returns a full line without its terminator.
func (d *Decoder) readLine() ([]byte, error) {
	var buf []byte
	for {
		chunk, isPrefix, err := d.reader.ReadLine()
		if err != nil {
			if buf != nil {
				return buf, nil
			}
			return nil, err
		}
		if len(buf)+len(chunk) > maxLineLength {
			for isPrefix {
				if _, isPrefix, err = d.reader.ReadLine(); err != nil {
					break
				}
			}
			return []byte{}, ErrLineTooLong
		}
		buf = append(buf, chunk...)
		if !isPrefix {
			return buf, nil
		}
	}
}

func (d *Decoder) lineError(err error) error {
	return domain.E(domain.CodeInvalidArgument, "decode host event", "", &LineError{Line: d.line, Err: err})
}

func decodeEvent(raw []byte) (domain.HostEvent, error) {
	var event domain.HostEvent
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&event); err != nil {
		return domain.HostEvent{}, err
	}
	if dec.More() {
		return domain.HostEvent{}, errors.New("trailing data after event")
	}
	switch event.Type {
	case domain.EventUpdateTicked, domain.EventSecondTicked, domain.EventButtonReleased, domain.EventSelection:
	default:
		return domain.HostEvent{}, fmt.Errorf("event type %q: %w", event.Type, domain.ErrUnknownEvent)
	}
	return event, nil
}

// Encoder writes the actions for one event as a JSON array on a single line.
type Encoder struct {
	mu     sync.Mutex
	writer io.Writer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{writer: w}
}

func (e *Encoder) Write(actions []domain.HostAction) error {
	if actions == nil {
		actions = []domain.HostAction{}
	}
	payload, err := json.Marshal(actions)
	if err != nil {
		return fmt.Errorf("encode host actions: %w", err)
	}
	payload = append(payload, '\n')

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.writer.Write(payload); err != nil {
		return fmt.Errorf("write host actions: %w", err)
	}
	return nil
}

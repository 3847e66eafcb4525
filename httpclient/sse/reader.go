// Package sse reads Server-Sent Events, the push channel platforms
// without native notifications fall back to.
package sse

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"
)

// Event is one server-sent event.
type Event struct {
	// Event is the event type (from "event:" lines). Empty for
	// data-only events.
	Event string
	// Data is the payload. Multi-line data joins with newlines.
	Data string
	// ID is the event ID (from "id:" lines).
	ID string
}

// Reader yields events from a stream.
type Reader interface {
	// Next returns the next event, or io.EOF when the stream ends.
	Next() (*Event, error)
	// Retry reports the reconnection delay the server last asked
	// for, zero when the stream never sent one.
	Retry() time.Duration
	// Close releases the underlying stream.
	Close() error
}

type reader struct {
	scanner *bufio.Scanner
	body    io.ReadCloser
	retry   time.Duration
}

// NewReader wraps a text/event-stream body.
func NewReader(body io.ReadCloser) Reader {
	return &reader{
		scanner: bufio.NewScanner(body),
		body:    body,
	}
}

// Next accumulates field lines until the blank line that terminates an
// event. Comment lines (leading colon) and events without data are
// skipped, per the SSE wire format.
func (r *reader) Next() (*Event, error) {
	var ev Event
	dataLines := 0

	for r.scanner.Scan() {
		line := r.scanner.Text()
		switch {
		case line == "":
			if dataLines > 0 {
				return &ev, nil
			}
		case strings.HasPrefix(line, ":"):
			// keepalive comment
		default:
			field, value, found := strings.Cut(line, ":")
			if found {
				value = strings.TrimPrefix(value, " ")
			}
			switch field {
			case "data":
				if dataLines > 0 {
					ev.Data += "\n"
				}
				ev.Data += value
				dataLines++
			case "event":
				ev.Event = value
			case "id":
				ev.ID = value
			case "retry":
				r.setRetry(value)
			}
		}
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}

	// The stream may end mid-event, without the trailing blank line.
	if dataLines > 0 {
		return &ev, nil
	}
	return nil, io.EOF
}

// setRetry records a "retry:" hint. Non-numeric values are ignored
// per the wire format.
func (r *reader) setRetry(value string) {
	ms, err := strconv.Atoi(value)
	if err != nil || ms < 0 {
		return
	}
	r.retry = time.Duration(ms) * time.Millisecond
}

// Retry reports the last "retry:" hint seen on the stream.
func (r *reader) Retry() time.Duration {
	return r.retry
}

// Close releases the underlying stream.
func (r *reader) Close() error {
	return r.body.Close()
}

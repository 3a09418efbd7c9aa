// Package serialio wraps github.com/tarm/serial to provide the non-blocking
// byte-level contract spec.md §4.1 (C1) requires: write, a poll-friendly
// any()/read_into(), and flush. tarm/serial's Read blocks only up to
// Config.ReadTimeout, so a short fixed timeout turns it into the "return 0
// if idle" primitive the driver's cooperative poll loop expects — the same
// idea as go.bug.st/serial's SetReadTimeout used in
// clients/go/serial_control.go, expressed through tarm/serial's
// constructor-time timeout instead.
package serialio

import (
	"sync"
	"time"

	"github.com/tarm/serial"
)

// pollTimeout bounds how long a single Read call may block when no bytes
// are available; it is what makes ReadInto "0 if idle" rather than a true
// OS-level non-blocking read.
const pollTimeout = 10 * time.Millisecond

// probeBufSize is large enough for any single device reply (spec.md §6:
// "a 16-byte receive buffer is sufficient for any single reply"), with
// headroom for the occasional longer firmware-version string.
const probeBufSize = 64

// Port is a serial port opened at 38400 8N1, matching spec.md §6.
type Port struct {
	mu      sync.Mutex
	port    *serial.Port
	pending []byte
}

// Open opens name at 38400 baud, 8 data bits, no parity, one stop bit, no
// flow control, per spec.md §6.
func Open(name string) (*Port, error) {
	cfg := &serial.Config{
		Name:        name,
		Baud:        38400,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
		ReadTimeout: pollTimeout,
	}
	p, err := serial.OpenPort(cfg)
	if err != nil {
		return nil, err
	}
	return &Port{port: p}, nil
}

// Write sends bytes to the device.
func (p *Port) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.port.Write(b)
}

// Flush discards the port's input and output buffers.
func (p *Port) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = p.pending[:0]
	return p.port.Flush()
}

// Any reports whether at least one byte is available to read, pulling a
// bounded probe read into the internal pending buffer if it is currently
// empty. It never blocks longer than pollTimeout.
func (p *Port) Any() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fillLocked()
	return len(p.pending) > 0
}

// ReadInto copies up to len(buf) pending bytes into buf, pulling a bounded
// probe read first if nothing is buffered. It returns the number of bytes
// copied, 0 if the port is idle.
func (p *Port) ReadInto(buf []byte) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fillLocked()
	n := copy(buf, p.pending)
	p.pending = p.pending[n:]
	return n
}

func (p *Port) fillLocked() {
	if len(p.pending) > 0 {
		return
	}
	probe := make([]byte, probeBufSize)
	n, err := p.port.Read(probe)
	if err != nil || n <= 0 {
		return
	}
	p.pending = append(p.pending, probe[:n]...)
}

// Close closes the underlying port.
func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.port.Close()
}

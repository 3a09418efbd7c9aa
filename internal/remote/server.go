// Package remote implements the line-oriented key::value TCP protocol
// server (spec C7): login, client control dispatch, and per-client state
// delta emission. Grounded on the teacher's mutex-guarded connection idiom
// (session.go, rotctl.go) and on
// original_source/src/kpa500-remote/kat500.py's serve_kat500_remote_client,
// generalized to both device variants via the Device struct below.
package remote

import (
	"bytes"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/n1kdo/kpa500-bridge/internal/devstate"
	"github.com/n1kdo/kpa500-bridge/internal/queue"
)

const (
	readDeadline   = 50 * time.Millisecond
	writeDeadline  = 1 * time.Second
	keepaliveAfter = 15 * time.Second
	receiveIdleMax = 300 * time.Second
)

// Device bundles everything a Server needs from one bridge device (the
// amplifier or the tuner): its state table, its command queue, the order a
// fresh client is seeded in, and its client-control-line dispatcher.
type Device struct {
	Label            string
	Username         string
	Password         string
	State            *devstate.State
	Queue            *queue.Queue
	InitialBroadcast []int
	Dispatch         func(line string) ([][]byte, bool)
}

// Server listens for one device's TCP clients and runs the per-client
// cooperative loop described in spec.md §4.6.
type Server struct {
	device Device
}

// New creates a server for the given device.
func New(device Device) *Server {
	return &Server{device: device}
}

// ListenAndServe opens addr and serves clients until the listener errors or
// is closed. It does not return on its own under normal operation.
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("%s: listen %s: %w", s.device.Label, addr, err)
	}
	defer ln.Close()
	log.Printf("%s: listening on %s", s.device.Label, addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			return fmt.Errorf("%s: accept: %w", s.device.Label, err)
		}
		go s.serveClient(conn)
	}
}

// clientSession holds the per-connection state for one accepted client,
// after the per-connection struct the teacher uses for RotctlClient and
// Session. It has no lock: only the client's own goroutine touches it.
type clientSession struct {
	id           string
	conn         net.Conn
	pending      []byte // bytes read but not yet forming a complete line
	updates      *devstate.UpdateSet
	authorized   bool
	lastActivity time.Time
	lastReceive  time.Time
}

func (s *Server) serveClient(conn net.Conn) {
	d := &s.device
	now := time.Now()
	sess := &clientSession{
		id:           uuid.NewString(),
		conn:         conn,
		updates:      devstate.NewUpdateSet(d.State.Len()),
		lastActivity: now,
		lastReceive:  now,
	}

	d.State.Register(sess.updates)
	sess.updates.Seed(d.InitialBroadcast...)
	log.Printf("%s: client %s connected from %s", d.Label, sess.id, conn.RemoteAddr())

	defer func() {
		d.State.Unregister(sess.updates)
		conn.Close()
		log.Printf("%s: client %s disconnected: %s", d.Label, sess.id, conn.RemoteAddr())
	}()

	for {
		if s.readOneLine(sess) {
			// A real error (not a poll timeout) ends the session.
			return
		}

		if sess.updates.Len() > 0 {
			if i, ok := sess.updates.PopFront(); ok {
				line := fmt.Sprintf("%s::%s\n", d.State.Key(i), d.State.Get(i))
				conn.SetWriteDeadline(time.Now().Add(writeDeadline))
				if _, err := conn.Write([]byte(line)); err != nil {
					return
				}
				sess.lastActivity = time.Now()
			}
		}

		now := time.Now()
		if now.Sub(sess.lastActivity) > keepaliveAfter {
			conn.SetWriteDeadline(now.Add(writeDeadline))
			if _, err := conn.Write([]byte("\n")); err != nil {
				return
			}
			sess.lastActivity = now
		}
		if now.Sub(sess.lastReceive) > receiveIdleMax {
			log.Printf("%s: client %s idle beyond receive timeout, disconnecting", d.Label, conn.RemoteAddr())
			return
		}
	}
}

// readBufSize is one socket read's worth of scratch space; client control
// lines are short, so one read comfortably covers a full line in the
// common case, with the rest handled by pending accumulation below.
const readBufSize = 256

// readOneLine polls the socket for up to readDeadline and, if any bytes
// arrived, appends them to the session's pending buffer. A read that times
// out with no complete line yet is not an error: it is the cooperative
// timeout spec.md §5 describes, and any partial line already read stays
// buffered for the next iteration instead of being misinterpreted as a
// complete one. readOneLine processes at most one complete line per call,
// per spec.md §4.6's "emit/consume one unit of work per iteration" design.
//
// It returns true iff the session should terminate: a real read error
// (EOF or otherwise) outside of a timeout, i.e. the disconnect signal
// spec.md §4.6 calls a "None read".
func (s *Server) readOneLine(sess *clientSession) bool {
	d := &s.device

	if i := bytes.IndexByte(sess.pending, '\n'); i < 0 {
		sess.conn.SetReadDeadline(time.Now().Add(readDeadline))
		buf := make([]byte, readBufSize)
		n, err := sess.conn.Read(buf)
		if n > 0 {
			sess.pending = append(sess.pending, buf[:n]...)
		}
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				// Cooperative timeout: keep whatever partial line we have.
			} else {
				return true
			}
		}
	}

	i := bytes.IndexByte(sess.pending, '\n')
	if i < 0 {
		return false
	}
	line := string(sess.pending[:i])
	sess.pending = sess.pending[i+1:]

	trimmed := strings.TrimRight(line, "\r")
	sess.lastActivity = time.Now()
	sess.lastReceive = time.Now()

	if trimmed == "" {
		return false
	}

	if strings.HasPrefix(trimmed, "server::login::") {
		s.handleLogin(sess, trimmed)
		return false
	}

	if !sess.authorized {
		log.Printf("%s: ignoring control line from unauthorized client: %q", d.Label, trimmed)
		return false
	}

	cmds, ok := d.Dispatch(trimmed)
	if !ok {
		log.Printf("%s: unrecognized client control line: %q", d.Label, trimmed)
		return false
	}
	d.Queue.PushMany(cmds...)
	return false
}

const loginPrefix = "server::login::"

func (s *Server) handleLogin(sess *clientSession, line string) {
	d := &s.device
	rest := line[len(loginPrefix):]
	parts := strings.SplitN(rest, "::", 2)
	if len(parts) != 2 {
		s.reply(sess, "server::login::invalid::malformed\n")
		return
	}
	user, pass := parts[0], parts[1]
	if user == d.Username && pass == d.Password {
		sess.authorized = true
		s.reply(sess, "server::login::valid\n")
		return
	}
	s.reply(sess, "server::login::invalid::bad credentials\n")
}

func (s *Server) reply(sess *clientSession, msg string) {
	sess.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	sess.conn.Write([]byte(msg))
	sess.lastActivity = time.Now()
}

// Package client keeps a WebSocket session to the mission server alive.
// Decoded frames and connection status changes arrive on one event
// channel so the UI can treat both uniformly.
package client

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"marsmc/internal/protocol"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// ErrNotConnected is returned by Send while no session is open.
var ErrNotConnected = errors.New("client: not connected")

// Status is the connection lifecycle phase.
type Status int

const (
	StatusConnecting Status = iota
	StatusOpen
	StatusBackoff
	StatusClosed
)

func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusOpen:
		return "open"
	case StatusBackoff:
		return "backoff"
	case StatusClosed:
		return "closed"
	}
	return "?"
}

// StatusChange reports a lifecycle transition on the event channel.
// Attempt and Wait are set while backing off; Err carries the dial or
// read failure that caused the transition, when there was one.
type StatusChange struct {
	Status  Status
	Attempt int
	Wait    time.Duration
	Err     error
}

// DecodeError reports a frame that arrived but could not be decoded.
// The session stays up; the frame is dropped.
type DecodeError struct {
	Err error
}

// Manager owns the dial/read/ping loops for one server URL.
type Manager struct {
	url  string
	base time.Duration
	max  time.Duration

	mu   sync.Mutex // guards conn and serializes writes
	conn *websocket.Conn

	events    chan any
	reconnect chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New prepares a manager for url with the given backoff bounds. Run
// starts the session loop.
func New(url string, base, max time.Duration) *Manager {
	if base <= 0 {
		base = 500 * time.Millisecond
	}
	if max < base {
		max = base
	}
	return &Manager{
		url:       url,
		base:      base,
		max:       max,
		events:    make(chan any, 64),
		reconnect: make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
}

// Events is the stream of decoded server messages, StatusChange and
// DecodeError values. The channel is never closed; stop draining only
// after Close.
func (m *Manager) Events() <-chan any {
	return m.events
}

// Run dials, reads and redials until Close. Run blocks; start it on its
// own goroutine.
func (m *Manager) Run() {
	defer m.emit(StatusChange{Status: StatusClosed})
	attempt := 0
	for {
		select {
		case <-m.done:
			return
		default:
		}

		attempt++
		m.emit(StatusChange{Status: StatusConnecting, Attempt: attempt})
		conn, _, err := websocket.DefaultDialer.Dial(m.url, nil)
		if err != nil {
			wait := Backoff(m.base, m.max, attempt)
			m.emit(StatusChange{Status: StatusBackoff, Attempt: attempt, Wait: wait, Err: err})
			if !m.sleep(wait) {
				return
			}
			continue
		}

		// Fresh session: the backoff ladder restarts and any reconnect
		// request queued while dialing is stale.
		attempt = 0
		select {
		case <-m.reconnect:
		default:
		}

		m.setConn(conn)
		m.emit(StatusChange{Status: StatusOpen})

		readDone := make(chan struct{})
		var readErr error
		go func() {
			readErr = m.readLoop(conn)
			close(readDone)
		}()

		closing := m.pingLoop(conn, readDone)
		m.setConn(nil)
		conn.Close()
		if closing {
			return
		}

		wait := Backoff(m.base, m.max, 1)
		m.emit(StatusChange{Status: StatusBackoff, Attempt: 1, Wait: wait, Err: readErr})
		if !m.sleep(wait) {
			return
		}
	}
}

// readLoop decodes inbound frames onto the event channel until the
// connection fails. Unknown message kinds are skipped; undecodable
// payloads are reported and dropped.
func (m *Manager) readLoop(conn *websocket.Conn) error {
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}
		msg, err := protocol.Decode(data)
		if err != nil {
			m.emit(DecodeError{Err: err})
			continue
		}
		if msg == nil {
			continue
		}
		m.emit(msg)
	}
}

// pingLoop keeps the session alive until the read loop ends or the
// manager closes. Reports whether the manager is shutting down.
func (m *Manager) pingLoop(conn *websocket.Conn, readDone <-chan struct{}) bool {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return true
		case <-readDone:
			return false
		case <-ticker.C:
			m.mu.Lock()
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			// A failed ping surfaces as a read error, ending the session.
			_ = conn.WriteMessage(websocket.PingMessage, nil)
			m.mu.Unlock()
		}
	}
}

// Send marshals v as JSON onto the open session.
func (m *Manager) Send(v any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn == nil {
		return ErrNotConnected
	}
	m.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := m.conn.WriteJSON(v); err != nil {
		return fmt.Errorf("send %T: %w", v, err)
	}
	return nil
}

// Reconnect cuts a pending backoff wait short. While a session is open
// it drops the connection instead, so a fresh dial starts right away.
func (m *Manager) Reconnect() {
	select {
	case m.reconnect <- struct{}{}:
	default:
	}
	m.mu.Lock()
	if m.conn != nil {
		m.conn.Close()
	}
	m.mu.Unlock()
}

// Close stops the run loop and drops any open session. Safe to call
// more than once.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
		m.mu.Lock()
		if m.conn != nil {
			m.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			m.conn.Close()
		}
		m.mu.Unlock()
	})
}

func (m *Manager) setConn(c *websocket.Conn) {
	m.mu.Lock()
	m.conn = c
	m.mu.Unlock()
}

// emit delivers ev unless the manager is closing.
func (m *Manager) emit(ev any) {
	select {
	case m.events <- ev:
	case <-m.done:
	}
}

// sleep waits out a backoff delay. A reconnect request ends the wait
// early; reports false when the manager is closing.
func (m *Manager) sleep(d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-m.reconnect:
		return true
	case <-m.done:
		return false
	}
}

// Backoff returns the wait before reconnect attempt n: the base delay
// doubled once per prior failure, capped at max.
func Backoff(base, max time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= max {
			return max
		}
	}
	if d > max {
		return max
	}
	return d
}

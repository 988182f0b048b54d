// Package session maintains the duplex connection that carries remote-input
// commands.
//
// The session is best-effort: sends are fire-and-forget, and a dropped
// connection is re-dialed after a fixed delay, forever. Callers observe
// health through the status projection instead of errors.
package session

import (
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/DeltaFoundry/TouchRelay/internal/command"
)

// ReconnectDelay is the fixed pause between a disconnect and the next dial.
// There is no backoff growth and no retry limit.
const ReconnectDelay = 3 * time.Second

const (
	writeTimeout = 10 * time.Second
	readTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second
	readLimit    = 4096
)

// Status is the session's connection state projection.
type Status int

const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusConnected
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusError:
		return "error"
	default:
		return "disconnected"
	}
}

// Connected reports whether commands can currently be sent.
func (s Status) Connected() bool { return s == StatusConnected }

// EndpointURL builds the WebSocket endpoint for a remote host. secure
// selects wss, mirroring the scheme of the surface the client runs on.
func EndpointURL(host, path string, secure bool) string {
	scheme := "ws"
	if secure {
		scheme = "wss"
	}
	u := url.URL{Scheme: scheme, Host: host, Path: path}
	return u.String()
}

// Session owns one connection at a time to a fixed endpoint.
type Session struct {
	endpoint string
	log      zerolog.Logger

	// dial and after are swappable for tests.
	dial  func(endpoint string) (*websocket.Conn, error)
	after func(d time.Duration) <-chan time.Time

	mu       sync.Mutex
	status   Status
	conn     *websocket.Conn
	onStatus func(Status)

	startOnce sync.Once
	done      chan struct{}
}

// New creates a session for the given endpoint URL. Start must be called
// before the session connects.
func New(endpoint string, log zerolog.Logger) *Session {
	return &Session{
		endpoint: endpoint,
		log:      log,
		dial: func(endpoint string) (*websocket.Conn, error) {
			conn, _, err := websocket.DefaultDialer.Dial(endpoint, nil)
			return conn, err
		},
		after: time.After,
		done:  make(chan struct{}),
	}
}

// OnStatus registers a callback fired on every status transition. It must be
// set before Start; the callback runs on the session goroutine and must not
// block.
func (s *Session) OnStatus(fn func(Status)) {
	s.mu.Lock()
	s.onStatus = fn
	s.mu.Unlock()
}

// Status returns the current connection state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Start begins the connect/reconnect loop.
func (s *Session) Start() {
	s.startOnce.Do(func() {
		go s.loop()
	})
}

// Close stops the session permanently.
func (s *Session) Close() {
	close(s.done)
	s.mu.Lock()
	if s.conn != nil {
		s.conn.Close()
	}
	s.mu.Unlock()
}

// loop is the single owner of the connection lifecycle. Running connect and
// the reconnect delay in one goroutine guarantees at most one live
// connection attempt and at most one pending reconnect at any time.
func (s *Session) loop() {
	for {
		s.connect()

		select {
		case <-s.done:
			return
		case <-s.after(ReconnectDelay):
			s.log.Info().Msg("attempting reconnection")
		}
	}
}

// connect dials the endpoint and services the connection until it closes.
func (s *Session) connect() {
	s.setStatus(StatusConnecting)
	s.log.Info().Str("endpoint", s.endpoint).Msg("connecting")

	conn, err := s.dial(s.endpoint)
	if err != nil {
		s.log.Error().Err(err).Msg("connection failed")
		s.setStatus(StatusError)
		s.setStatus(StatusDisconnected)
		return
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	s.setStatus(StatusConnected)
	s.log.Info().Msg("connected")

	pingDone := make(chan struct{})
	go s.pingLoop(conn, pingDone)

	s.readPump(conn)

	close(pingDone)
	conn.Close()

	s.mu.Lock()
	s.conn = nil
	s.mu.Unlock()
	s.setStatus(StatusDisconnected)
	s.log.Info().Msg("disconnected")
}

// readPump drains inbound frames so close and pong control messages are
// processed. The remote sends no application messages today.
func (s *Session) readPump(conn *websocket.Conn) {
	conn.SetReadLimit(readLimit)
	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				s.log.Error().Err(err).Msg("transport error")
				s.setStatus(StatusError)
			}
			return
		}
	}
}

func (s *Session) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			err := conn.WriteMessage(websocket.PingMessage, nil)
			s.mu.Unlock()
			if err != nil {
				return
			}
		case <-done:
			return
		case <-s.done:
			return
		}
	}
}

// Send encodes and transmits one command iff the session is connected. It
// returns false otherwise, with no buffering and no retry of the message.
// Callers decide whether a rejected send is worth surfacing to the user.
func (s *Session) Send(c command.Command) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusConnected || s.conn == nil {
		return false
	}

	data, err := command.Marshal(c)
	if err != nil {
		s.log.Warn().Err(err).Msg("command encode failed")
		return false
	}

	s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.log.Warn().Err(err).Msg("send failed")
		return false
	}
	return true
}

func (s *Session) setStatus(st Status) {
	s.mu.Lock()
	if s.status == st {
		s.mu.Unlock()
		return
	}
	s.status = st
	fn := s.onStatus
	s.mu.Unlock()

	if fn != nil {
		fn(st)
	}
}

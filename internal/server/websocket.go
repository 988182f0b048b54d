package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/DeltaFoundry/TouchRelay/internal/command"
)

const (
	readLimit      = 4096
	readTimeout    = 60 * time.Second
	doubleClickGap = 50 * time.Millisecond
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// LAN tool, any origin may connect.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	log := s.log.With().
		Str("conn", uuid.NewString()[:8]).
		Str("remote", r.RemoteAddr).
		Logger()
	log.Info().Msg("client connected")

	conn.SetReadLimit(readLimit)
	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPingHandler(func(data string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Msg("read error")
			}
			break
		}
		conn.SetReadDeadline(time.Now().Add(readTimeout))

		cmd, err := command.Unmarshal(data)
		if err != nil {
			log.Warn().Err(err).Str("message", string(data)).Msg("message rejected")
			continue
		}

		if err := s.dispatch(cmd, log); err != nil {
			log.Warn().Err(err).Str("op", cmd.Op()).Msg("injection failed")
		}
	}

	log.Info().Msg("client disconnected")
}

// dispatch applies one decoded command to the injector.
func (s *Server) dispatch(cmd command.Command, log zerolog.Logger) error {
	switch c := cmd.(type) {
	case command.Move:
		return s.injector.MouseMove(c.DX, c.DY)

	case command.ScrollUnit:
		return s.injector.Scroll(c.Direction)

	case command.Click:
		for i := 0; i < c.Count; i++ {
			if err := s.injector.Click(c.Button, 1); err != nil {
				return err
			}
			// The OS needs a beat between the halves of a double click.
			if c.Count > 1 && i < c.Count-1 {
				time.Sleep(doubleClickGap)
			}
		}
		return nil

	case command.Text:
		return s.injector.TypeText(c.Content)

	case command.Key:
		return s.injector.PressKey(c.Name)

	case command.Ping:
		log.Debug().Msg("ping received")
		return nil
	}
	return nil
}

package ws

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/inkwell-dev/inkwell/internal/core"
	"github.com/inkwell-dev/inkwell/internal/domain"
)

const persistTimeout = 5 * time.Second

// session is one admitted connection's state machine. The connection is
// scoped to exactly one document for its whole lifetime and never
// migrates.
type session struct {
	ctl    *Controller
	docID  domain.DocumentID
	conn   *wsConn
	member domain.Member

	teardownOnce sync.Once
}

func newSession(ctl *Controller, docID domain.DocumentID, conn *wsConn, member domain.Member) *session {
	return &session{
		ctl:    ctl,
		docID:  docID,
		conn:   conn,
		member: member,
	}
}

var _ core.Handler = (*session)(nil)

// HandleContentUpdate persists the new content, then fans the update out
// to the rest of the group. A failed write is returned for logging and
// nothing is broadcast, so peers never see an update that did not land.
func (s *session) HandleContentUpdate(m core.ContentUpdate) error {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.ctl.docs.UpdateContent(ctx, s.docID, m.Content); err != nil {
		return fmt.Errorf("persist content: %w", err)
	}
	payload, err := core.EncodeContentUpdate(m.Content)
	if err != nil {
		return fmt.Errorf("encode content update: %w", err)
	}
	s.ctl.router.Broadcast(s.docID, payload, s.conn.ID())
	return nil
}

// HandleTitleUpdate mirrors HandleContentUpdate for the title field.
func (s *session) HandleTitleUpdate(m core.TitleUpdate) error {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.ctl.docs.UpdateTitle(ctx, s.docID, m.Title); err != nil {
		return fmt.Errorf("persist title: %w", err)
	}
	payload, err := core.EncodeTitleUpdate(m.Title)
	if err != nil {
		return fmt.Errorf("encode title update: %w", err)
	}
	s.ctl.router.Broadcast(s.docID, payload, s.conn.ID())
	return nil
}

// readPump owns the socket's read side. It exits on any read error and
// always runs teardown exactly once.
func (s *session) readPump() {
	defer s.teardown()

	s.conn.conn.SetReadLimit(s.ctl.cfg.ReadLimit)
	_ = s.conn.conn.SetReadDeadline(time.Now().Add(s.ctl.cfg.PongWait))
	s.conn.conn.SetPongHandler(func(string) error {
		return s.conn.conn.SetReadDeadline(time.Now().Add(s.ctl.cfg.PongWait))
	})

	for {
		_, data, err := s.conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("module", "ws").
					Str("conn", string(s.conn.ID())).
					Msg("read error")
			}
			return
		}
		if err := core.Dispatch(data, s); err != nil {
			// Malformed frames and unknown tags are dropped, the
			// connection stays open. Same for a failed persist.
			switch {
			case errors.Is(err, core.ErrBadPayload), errors.Is(err, core.ErrUnknownType):
				log.Warn().Err(err).Str("module", "ws").
					Str("conn", string(s.conn.ID())).
					Msg("message dropped")
			default:
				log.Error().Err(err).Str("module", "ws").
					Str("doc", string(s.docID)).
					Str("conn", string(s.conn.ID())).
					Msg("update failed")
			}
		}
	}
}

// writePump owns the socket's write side: it drains the send queue and
// keeps the peer alive with pings. It exits when the queue closes or a
// write fails.
func (s *session) writePump() {
	ticker := time.NewTicker(s.ctl.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-s.conn.send:
			_ = s.conn.conn.SetWriteDeadline(time.Now().Add(s.ctl.cfg.WriteTimeout))
			if !ok {
				_ = s.conn.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Debug().Err(err).Str("module", "ws").
					Str("conn", string(s.conn.ID())).
					Msg("write error")
				return
			}
		case <-ticker.C:
			_ = s.conn.conn.SetWriteDeadline(time.Now().Add(s.ctl.cfg.WriteTimeout))
			if err := s.conn.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// teardown detaches the connection and re-publishes presence to whoever
// remains. Idempotent; an emptying detach already removed the group so
// there is nobody left to notify.
func (s *session) teardown() {
	s.teardownOnce.Do(func() {
		s.conn.Close()
		remaining, ok := s.ctl.registry.Detach(s.docID, s.conn.ID())
		if ok && remaining > 0 {
			s.ctl.presence.Publish(s.docID)
		}
		log.Info().Str("module", "ws").
			Str("doc", string(s.docID)).
			Str("conn", string(s.conn.ID())).
			Msg("connection closed")
	})
}

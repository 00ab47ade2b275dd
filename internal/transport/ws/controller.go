// Package ws attaches WebSocket clients to document groups: admission,
// inbound dispatch, fanout, teardown.
package ws

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/inkwell-dev/inkwell/internal/auth"
	"github.com/inkwell-dev/inkwell/internal/config"
	"github.com/inkwell-dev/inkwell/internal/core"
	"github.com/inkwell-dev/inkwell/internal/domain"
	"github.com/inkwell-dev/inkwell/internal/metrics"
	"github.com/inkwell-dev/inkwell/internal/store"
)

// Close reasons sent with a policy-violation close frame. Clients branch
// on these to decide whether to re-authenticate or give up.
const (
	reasonTokenRequired    = "Token required"
	reasonInvalidToken     = "Invalid token"
	reasonUserNotFound     = "User not found"
	reasonDocumentNotFound = "Document not found"
	reasonInternalError    = "Internal server error"
)

const admissionTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Controller owns the session layer's moving parts for the ws endpoint.
type Controller struct {
	cfg      *config.Config
	registry *core.Registry
	router   *core.Router
	presence *core.Publisher
	verifier *auth.Verifier
	docs     store.DocumentStore
	users    store.UserStore
}

func NewController(
	cfg *config.Config,
	registry *core.Registry,
	router *core.Router,
	presence *core.Publisher,
	verifier *auth.Verifier,
	docs store.DocumentStore,
	users store.UserStore,
) *Controller {
	return &Controller{
		cfg:      cfg,
		registry: registry,
		router:   router,
		presence: presence,
		verifier: verifier,
		docs:     docs,
		users:    users,
	}
}

// HandleDocument upgrades the connection and runs the admission gates in
// order. Each gate failure closes the socket with a distinguishing
// reason before any session state exists; only after the last gate does
// the connection join the group.
func (ctl *Controller) HandleDocument(c *gin.Context) {
	docID := domain.DocumentID(c.Param("id"))
	token := c.Query("token")

	wsocket, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("upgrade failed")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), admissionTimeout)
	defer cancel()

	userID, reason := ctl.admit(ctx, docID, token)
	if reason != "" {
		rejectConn(wsocket, reason)
		return
	}

	user, err := domain.NewUser(string(userID))
	if err != nil {
		rejectConn(wsocket, reasonInternalError)
		return
	}

	conn := newWsConn(core.ConnID(uuid.NewString()), wsocket, ctl.cfg.SendBuffer)
	sess := newSession(ctl, docID, conn, domain.NewMember(user))

	ctl.registry.Attach(docID, conn, sess.member)
	ctl.presence.Publish(docID)

	log.Info().Str("module", "ws").
		Str("doc", string(docID)).
		Str("conn", string(conn.ID())).
		Str("user", string(userID)).
		Msg("connection admitted")

	go sess.writePump()
	go sess.readPump()
}

// admit runs gates 1-4 and returns the resolved identity, or the close
// reason when a gate fails.
func (ctl *Controller) admit(ctx context.Context, docID domain.DocumentID, token string) (domain.UserID, string) {
	if token == "" {
		metrics.AdmissionRejects.WithLabelValues("token_required").Inc()
		return "", reasonTokenRequired
	}

	userID, err := ctl.verifier.Verify(token)
	if err != nil {
		metrics.AdmissionRejects.WithLabelValues("invalid_token").Inc()
		log.Warn().Err(err).Str("module", "ws").Msg("credential rejected")
		return "", reasonInvalidToken
	}

	known, err := ctl.users.Exists(ctx, userID)
	if err != nil {
		metrics.AdmissionRejects.WithLabelValues("internal").Inc()
		log.Error().Err(err).Str("module", "ws").Msg("user lookup failed")
		return "", reasonInternalError
	}
	if !known {
		metrics.AdmissionRejects.WithLabelValues("user_not_found").Inc()
		return "", reasonUserNotFound
	}

	exists, err := ctl.docs.Exists(ctx, docID)
	if err != nil {
		metrics.AdmissionRejects.WithLabelValues("internal").Inc()
		log.Error().Err(err).Str("module", "ws").Str("doc", string(docID)).Msg("document lookup failed")
		return "", reasonInternalError
	}
	if !exists {
		metrics.AdmissionRejects.WithLabelValues("document_not_found").Inc()
		return "", reasonDocumentNotFound
	}

	return userID, ""
}

// rejectConn closes a never-admitted socket with a reasoned close frame.
func rejectConn(wsocket *websocket.Conn, reason string) {
	code := websocket.ClosePolicyViolation
	if reason == reasonInternalError {
		code = websocket.CloseInternalServerErr
	}
	deadline := time.Now().Add(time.Second)
	msg := websocket.FormatCloseMessage(code, reason)
	if err := wsocket.WriteControl(websocket.CloseMessage, msg, deadline); err != nil &&
		!errors.Is(err, websocket.ErrCloseSent) {
		log.Debug().Err(err).Str("module", "ws").Msg("close frame write failed")
	}
	_ = wsocket.Close()
	log.Info().Str("module", "ws").Str("reason", reason).Msg("connection rejected")
}

package core

import (
	"github.com/rs/zerolog/log"

	"github.com/inkwell-dev/inkwell/internal/domain"
	"github.com/inkwell-dev/inkwell/internal/metrics"
)

// Router fans a frame out to a document's group. Delivery is best
// effort: a peer whose queue is full or whose socket just died is
// logged and skipped, never allowed to stall or fail the others.
type Router struct {
	reg *Registry
}

func NewRouter(reg *Registry) *Router {
	return &Router{reg: reg}
}

// Broadcast sends payload to every connection attached to docID except
// exclude (pass "" to reach everyone). Returns the number of
// connections the frame was queued to.
func (r *Router) Broadcast(docID domain.DocumentID, payload Payload, exclude ConnID) int {
	sent := 0
	dropped := 0
	for _, e := range r.reg.Snapshot(docID) {
		if e.Conn.ID() == exclude {
			continue
		}
		if err := e.Conn.TrySend(payload); err != nil {
			dropped++
			metrics.DroppedSends.Inc()
			log.Warn().Err(err).Str("module", "core.router").
				Str("doc", string(docID)).
				Str("conn", string(e.Conn.ID())).
				Msg("send failed, peer skipped")
			continue
		}
		sent++
	}
	metrics.Broadcasts.Inc()
	log.Debug().Str("module", "core.router").
		Str("doc", string(docID)).
		Int("sent_to", sent).
		Int("dropped", dropped).
		Msg("broadcast result")
	return sent
}

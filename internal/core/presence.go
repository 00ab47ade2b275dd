package core

import (
	"github.com/rs/zerolog/log"

	"github.com/inkwell-dev/inkwell/internal/domain"
)

// Publisher pushes the current roster to a document's group whenever
// membership changes. Every member receives it, the triggering
// connection included, so all clients converge on the same view.
type Publisher struct {
	reg    *Registry
	router *Router
}

func NewPublisher(reg *Registry, router *Router) *Publisher {
	return &Publisher{reg: reg, router: router}
}

// Publish computes the roster and broadcasts an active_users frame.
// A detach that emptied the group leaves no recipients; Publish is then
// a harmless no-op.
func (p *Publisher) Publish(docID domain.DocumentID) {
	members := p.reg.Members(docID)
	if len(members) == 0 {
		return
	}
	users := make([]ActiveUser, 0, len(members))
	for _, m := range members {
		users = append(users, ActiveUser{Email: m.Email})
	}
	payload, err := EncodeActiveUsers(users)
	if err != nil {
		log.Error().Err(err).Str("module", "core.presence").
			Str("doc", string(docID)).
			Msg("encode roster")
		return
	}
	p.router.Broadcast(docID, payload, "")
}

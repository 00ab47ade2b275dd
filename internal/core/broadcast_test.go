package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-dev/inkwell/internal/domain"
)

func TestBroadcastExcludesSender(t *testing.T) {
	reg := NewRegistry()
	router := NewRouter(reg)
	doc := domain.DocumentID("d1")

	a := newFakeConn("a")
	b := newFakeConn("b")
	c := newFakeConn("c")
	reg.Attach(doc, a, member("a@example.com"))
	reg.Attach(doc, b, member("b@example.com"))
	reg.Attach(doc, c, member("c@example.com"))

	sent := router.Broadcast(doc, Payload(`{"type":"content_update","content":"x"}`), a.ID())
	assert.Equal(t, 2, sent)
	assert.Empty(t, a.received(), "sender must not be echoed")
	assert.Len(t, b.received(), 1)
	assert.Len(t, c.received(), 1)
}

func TestBroadcastNoExclusion(t *testing.T) {
	reg := NewRegistry()
	router := NewRouter(reg)
	doc := domain.DocumentID("d1")

	a := newFakeConn("a")
	b := newFakeConn("b")
	reg.Attach(doc, a, member("a@example.com"))
	reg.Attach(doc, b, member("b@example.com"))

	sent := router.Broadcast(doc, Payload(`x`), "")
	assert.Equal(t, 2, sent)
	assert.Len(t, a.received(), 1)
	assert.Len(t, b.received(), 1)
}

func TestBroadcastSkipsFailedPeer(t *testing.T) {
	reg := NewRegistry()
	router := NewRouter(reg)
	doc := domain.DocumentID("d1")

	dead := newFakeConn("dead")
	dead.fail = true
	alive := newFakeConn("alive")
	reg.Attach(doc, dead, member("dead@example.com"))
	reg.Attach(doc, alive, member("alive@example.com"))

	sent := router.Broadcast(doc, Payload(`x`), "")
	assert.Equal(t, 1, sent, "failure to one peer must not abort the rest")
	assert.Len(t, alive.received(), 1)
}

func TestBroadcastUnknownDocument(t *testing.T) {
	router := NewRouter(NewRegistry())
	assert.Equal(t, 0, router.Broadcast("nope", Payload(`x`), ""))
}

func TestBroadcastPreservesSenderOrder(t *testing.T) {
	reg := NewRegistry()
	router := NewRouter(reg)
	doc := domain.DocumentID("d1")

	sender := newFakeConn("s")
	peer := newFakeConn("p")
	reg.Attach(doc, sender, member("s@example.com"))
	reg.Attach(doc, peer, member("p@example.com"))

	router.Broadcast(doc, Payload("first"), sender.ID())
	router.Broadcast(doc, Payload("second"), sender.ID())
	router.Broadcast(doc, Payload("third"), sender.ID())

	got := peer.received()
	require.Len(t, got, 3)
	assert.Equal(t, Payload("first"), got[0])
	assert.Equal(t, Payload("second"), got[1])
	assert.Equal(t, Payload("third"), got[2])
}

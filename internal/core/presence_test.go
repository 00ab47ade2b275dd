package core

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-dev/inkwell/internal/domain"
)

func decodeRoster(t *testing.T, p Payload) []string {
	t.Helper()
	var msg struct {
		Type  string       `json:"type"`
		Users []ActiveUser `json:"users"`
	}
	require.NoError(t, json.Unmarshal(p, &msg))
	require.Equal(t, TypeActiveUsers, msg.Type)
	emails := make([]string, 0, len(msg.Users))
	for _, u := range msg.Users {
		emails = append(emails, u.Email)
	}
	sort.Strings(emails)
	return emails
}

func TestPublishReachesEveryMember(t *testing.T) {
	reg := NewRegistry()
	pub := NewPublisher(reg, NewRouter(reg))
	doc := domain.DocumentID("d1")

	a := newFakeConn("a")
	b := newFakeConn("b")
	reg.Attach(doc, a, member("a@example.com"))
	reg.Attach(doc, b, member("b@example.com"))

	pub.Publish(doc)

	// No exclusion: the triggering side sees the roster too.
	require.Len(t, a.received(), 1)
	require.Len(t, b.received(), 1)
	want := []string{"a@example.com", "b@example.com"}
	assert.Equal(t, want, decodeRoster(t, a.received()[0]))
	assert.Equal(t, want, decodeRoster(t, b.received()[0]))
}

func TestPublishAfterDetach(t *testing.T) {
	reg := NewRegistry()
	pub := NewPublisher(reg, NewRouter(reg))
	doc := domain.DocumentID("d1")

	a := newFakeConn("a")
	b := newFakeConn("b")
	reg.Attach(doc, a, member("a@example.com"))
	reg.Attach(doc, b, member("b@example.com"))
	reg.Detach(doc, b.ID())

	pub.Publish(doc)

	require.Len(t, a.received(), 1)
	assert.Equal(t, []string{"a@example.com"}, decodeRoster(t, a.received()[0]))
	assert.Empty(t, b.received())
}

func TestPublishEmptyGroupIsNoop(t *testing.T) {
	reg := NewRegistry()
	pub := NewPublisher(reg, NewRouter(reg))

	// Must not panic or create state for an unknown document.
	pub.Publish("nothing-here")
	assert.Equal(t, 0, reg.GroupCount())
}

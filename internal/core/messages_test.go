package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	contents []string
	titles   []string
}

func (h *recordingHandler) HandleContentUpdate(m ContentUpdate) error {
	h.contents = append(h.contents, m.Content)
	return nil
}

func (h *recordingHandler) HandleTitleUpdate(m TitleUpdate) error {
	h.titles = append(h.titles, m.Title)
	return nil
}

func TestDispatchContentUpdate(t *testing.T) {
	h := &recordingHandler{}
	err := Dispatch([]byte(`{"type":"content_update","content":"Hello"}`), h)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello"}, h.contents)
	assert.Empty(t, h.titles)
}

func TestDispatchTitleUpdate(t *testing.T) {
	h := &recordingHandler{}
	err := Dispatch([]byte(`{"type":"title_update","title":"Draft 2"}`), h)
	require.NoError(t, err)
	assert.Equal(t, []string{"Draft 2"}, h.titles)
}

func TestDispatchMalformed(t *testing.T) {
	h := &recordingHandler{}
	err := Dispatch([]byte(`not json at all`), h)
	assert.ErrorIs(t, err, ErrBadPayload)
	assert.Empty(t, h.contents)
	assert.Empty(t, h.titles)
}

func TestDispatchUnknownType(t *testing.T) {
	h := &recordingHandler{}
	err := Dispatch([]byte(`{"type":"bogus","content":"x"}`), h)
	assert.ErrorIs(t, err, ErrUnknownType)

	err = Dispatch([]byte(`{"content":"missing type"}`), h)
	assert.ErrorIs(t, err, ErrUnknownType)

	assert.Empty(t, h.contents)
	assert.Empty(t, h.titles)
}

func TestEncodeContentUpdateShape(t *testing.T) {
	payload, err := EncodeContentUpdate("")
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(payload, &raw))
	assert.Equal(t, TypeContentUpdate, raw["type"])
	// An empty content still appears on the wire.
	_, ok := raw["content"]
	assert.True(t, ok)
}

func TestEncodeActiveUsersShape(t *testing.T) {
	payload, err := EncodeActiveUsers([]ActiveUser{{Email: "a@example.com"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"active_users","users":[{"email":"a@example.com"}]}`, string(payload))

	payload, err = EncodeActiveUsers(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"active_users","users":[]}`, string(payload))
}

package core

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Wire message discriminators.
const (
	TypeContentUpdate = "content_update"
	TypeTitleUpdate   = "title_update"
	TypeActiveUsers   = "active_users"
)

var (
	ErrBadPayload  = errors.New("malformed message payload")
	ErrUnknownType = errors.New("unknown message type")
)

type ContentUpdate struct {
	Content string
}

type TitleUpdate struct {
	Title string
}

type ActiveUser struct {
	Email string `json:"email"`
}

// envelope is the inbound decode shape; exactly one tag is meaningful
// per message. active_users is server→client only and never decoded
// here. Outbound frames marshal per-type so an empty content or title
// field still appears on the wire.
type envelope struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	Title   string `json:"title"`
}

// Handler receives the client→server half of the tagged union. Adding a
// message type means adding a method here, so every dispatcher is forced
// to handle it at compile time.
type Handler interface {
	HandleContentUpdate(ContentUpdate) error
	HandleTitleUpdate(TitleUpdate) error
}

// Dispatch decodes one inbound frame and routes it to the handler.
// Unparseable frames return ErrBadPayload, unrecognized tags
// ErrUnknownType; both are for the caller to log and drop, never to
// terminate the connection over.
func Dispatch(data []byte, h Handler) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	switch env.Type {
	case TypeContentUpdate:
		return h.HandleContentUpdate(ContentUpdate{Content: env.Content})
	case TypeTitleUpdate:
		return h.HandleTitleUpdate(TitleUpdate{Title: env.Title})
	default:
		return fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
}

func EncodeContentUpdate(content string) (Payload, error) {
	b, err := json.Marshal(struct {
		Type    string `json:"type"`
		Content string `json:"content"`
	}{TypeContentUpdate, content})
	return Payload(b), err
}

func EncodeTitleUpdate(title string) (Payload, error) {
	b, err := json.Marshal(struct {
		Type  string `json:"type"`
		Title string `json:"title"`
	}{TypeTitleUpdate, title})
	return Payload(b), err
}

func EncodeActiveUsers(users []ActiveUser) (Payload, error) {
	if users == nil {
		users = []ActiveUser{}
	}
	b, err := json.Marshal(struct {
		Type  string       `json:"type"`
		Users []ActiveUser `json:"users"`
	}{TypeActiveUsers, users})
	return Payload(b), err
}

package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/chirpkit/chirp/internal/param"
)

// DirectMessage is a private message between two users.
type DirectMessage struct {
	ID                  int64  `json:"id" validate:"required"`
	Text                string `json:"text" validate:"required"`
	SenderID            int64  `json:"sender_id"`
	RecipientID         int64  `json:"recipient_id"`
	SenderScreenName    string `json:"sender_screen_name"`
	RecipientScreenName string `json:"recipient_screen_name"`
	CreatedAt           Time   `json:"created_at"`
	Sender              *User  `json:"sender,omitempty"`
	Recipient           *User  `json:"recipient,omitempty"`
}

func (s DirectMessagesService) messages(ctx context.Context, path string, paging Paging) ([]DirectMessage, error) {
	if err := s.requireAuthorization(http.MethodGet, path); err != nil {
		return nil, err
	}
	pp, err := paging.params()
	if err != nil {
		return nil, err
	}
	return list[DirectMessage](s.get(ctx, path, s.withEntities(pp)))
}

// Received returns messages sent to the authenticated user.
func (s DirectMessagesService) Received(ctx context.Context, paging Paging) ([]DirectMessage, error) {
	return s.messages(ctx, "direct_messages.json", paging)
}

// Sent returns messages sent by the authenticated user.
func (s DirectMessagesService) Sent(ctx context.Context, paging Paging) ([]DirectMessage, error) {
	return s.messages(ctx, "direct_messages/sent.json", paging)
}

// Send delivers a message to a user who follows the authenticated user.
func (s DirectMessagesService) Send(ctx context.Context, to UserRef, text string) (*DirectMessage, error) {
	const path = "direct_messages/new.json"
	if err := s.requireAuthorization(http.MethodPost, path); err != nil {
		return nil, err
	}
	params, err := to.params()
	if err != nil {
		return nil, err
	}
	params = param.MergeOne(params, param.String("text", text))
	return one[DirectMessage](s.post(ctx, path, s.withEntities(params)))
}

// Destroy deletes a message and returns it.
func (s DirectMessagesService) Destroy(ctx context.Context, id int64) (*DirectMessage, error) {
	path := fmt.Sprintf("direct_messages/destroy/%d.json", id)
	if err := s.requireAuthorization(http.MethodPost, path); err != nil {
		return nil, err
	}
	return one[DirectMessage](s.post(ctx, path, s.withEntities(nil)))
}

// Show returns one message.
func (s DirectMessagesService) Show(ctx context.Context, id int64) (*DirectMessage, error) {
	path := fmt.Sprintf("direct_messages/show/%d.json", id)
	if err := s.requireAuthorization(http.MethodGet, path); err != nil {
		return nil, err
	}
	return one[DirectMessage](s.get(ctx, path, s.withEntities(nil)))
}

package models

import (
	"encoding/json"
	"fmt"
)

// UserID is a user identifier on the wire. The API backend sends ids as
// either JSON numbers or strings; both normalize to the string form used
// everywhere inside the relay.
type UserID string

func (u *UserID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*u = UserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*u = UserID(n.String())
		return nil
	}
	return fmt.Errorf("invalid user id: %s", string(data))
}

func (u UserID) String() string {
	return string(u)
}

// SendMessageRequest carries a message destined for a channel or, with a
// dm- channel id, for a list of users. The message object is forwarded to
// clients verbatim, so it stays raw here.
type SendMessageRequest struct {
	SecretKey string          `json:"secretKey" binding:"required"`
	Message   json.RawMessage `json:"message" binding:"required"`
}

// MessagePayload is the subset of the message object the router needs.
type MessagePayload struct {
	ChannelID string `json:"channelId"`
}

// UserMessagePayload is the addressing for the deprecated user-message
// endpoint.
type UserMessagePayload struct {
	FromUserID UserID `json:"fromUserId"`
	ToUserID   UserID `json:"toUserId"`
}

type SendUserUpdateRequest struct {
	SecretKey string          `json:"secretKey" binding:"required"`
	UserID    UserID          `json:"userId" binding:"required"`
	Type      string          `json:"type" binding:"required"`
	Body      json.RawMessage `json:"body" binding:"required"`
}

type SendGlobalUpdateRequest struct {
	SecretKey string          `json:"secretKey" binding:"required"`
	Type      string          `json:"type" binding:"required"`
	Body      json.RawMessage `json:"body" binding:"required"`
	Options   *UpdateOptions  `json:"options"`
}

type UpdateOptions struct {
	IsSticky bool `json:"isSticky"`
}

func (r *SendGlobalUpdateRequest) IsSticky() bool {
	return r.Options != nil && r.Options.IsSticky
}

type GetPresenceRequest struct {
	SecretKey string `json:"secretKey" binding:"required"`
	UserID    UserID `json:"userId" binding:"required"`
}

// GetPresenceResponse reports whether a user has any live connection and
// the union of channels across those connections.
type GetPresenceResponse struct {
	Status   string   `json:"status"`
	Channels []string `json:"channels"`
}

const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

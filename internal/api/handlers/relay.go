package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/castle-games/chat-server/internal/models"
	"github.com/castle-games/chat-server/internal/relay"
)

// RelayHandler serves the server-to-server surface the API backend
// pushes messages and updates through. Every request carries the shared
// secret key; every failure, bad secret and bad payload alike, is a 401
// with a "failure <reason>" body. That conflation is long-standing
// observed behavior and callers depend on it.
type RelayHandler struct {
	relay     *relay.Relay
	secretKey string
}

func NewRelayHandler(r *relay.Relay, secretKey string) *RelayHandler {
	return &RelayHandler{relay: r, secretKey: secretKey}
}

func fail(c *gin.Context, reason string) {
	c.String(http.StatusUnauthorized, "failure %s", reason)
}

func success(c *gin.Context) {
	c.String(http.StatusOK, "success")
}

// SendMessage godoc
// @Summary Send a message to a channel or dm recipients
// @Description Routes message.channelId of the form dm-<id>,<id>,... to each listed user, anything else to the channel
// @Tags relay
// @Accept json
// @Produce plain
// @Param request body models.SendMessageRequest true "Message envelope"
// @Success 200 {string} string "success"
// @Failure 401 {string} string "failure <reason>"
// @Router /send-message [post]
func (h *RelayHandler) SendMessage(c *gin.Context) {
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err.Error())
		return
	}
	if req.SecretKey != h.secretKey {
		fail(c, "incorrect secret key")
		return
	}

	var payload models.MessagePayload
	if err := json.Unmarshal(req.Message, &payload); err != nil || payload.ChannelID == "" {
		fail(c, "no channel id")
		return
	}

	h.relay.RouteMessage(payload.ChannelID, req.Message)
	success(c)
}

// SendUserUpdate godoc
// @Summary Send an update event to one user's connections
// @Tags relay
// @Accept json
// @Produce plain
// @Param request body models.SendUserUpdateRequest true "Update"
// @Success 200 {string} string "success"
// @Failure 401 {string} string "failure <reason>"
// @Router /send-user-update [post]
func (h *RelayHandler) SendUserUpdate(c *gin.Context) {
	var req models.SendUserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err.Error())
		return
	}
	if req.SecretKey != h.secretKey {
		fail(c, "incorrect secret key")
		return
	}

	if err := h.relay.SendUserUpdate(req.UserID.String(), req.Type, req.Body); err != nil {
		fail(c, err.Error())
		return
	}
	success(c)
}

// SendGlobalUpdate godoc
// @Summary Broadcast an update event to every connection
// @Description With options.isSticky the payload is retained and replayed to future connections
// @Tags relay
// @Accept json
// @Produce plain
// @Param request body models.SendGlobalUpdateRequest true "Update"
// @Success 200 {string} string "success"
// @Failure 401 {string} string "failure <reason>"
// @Router /send-global-update [post]
func (h *RelayHandler) SendGlobalUpdate(c *gin.Context) {
	var req models.SendGlobalUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err.Error())
		return
	}
	if req.SecretKey != h.secretKey {
		fail(c, "incorrect secret key")
		return
	}

	if err := h.relay.SendGlobalUpdate(req.Type, req.Body, req.IsSticky()); err != nil {
		fail(c, err.Error())
		return
	}
	success(c)
}

// GetPresence godoc
// @Summary Report whether a user is online and which channels they are in
// @Tags relay
// @Accept json
// @Produce json
// @Param request body models.GetPresenceRequest true "User to look up"
// @Success 200 {object} models.GetPresenceResponse
// @Failure 401 {string} string "failure <reason>"
// @Router /get-presence [post]
func (h *RelayHandler) GetPresence(c *gin.Context) {
	var req models.GetPresenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err.Error())
		return
	}
	if req.SecretKey != h.secretKey {
		fail(c, "incorrect secret key")
		return
	}

	online, channels := h.relay.Presence(req.UserID.String())
	status := models.StatusOffline
	if online {
		status = models.StatusOnline
	}
	c.JSON(http.StatusOK, models.GetPresenceResponse{Status: status, Channels: channels})
}

// SendChannelMessage godoc
// @Summary Send a message to a channel
// @Description Deprecated: use /send-message, which also understands dm- channel ids
// @Tags relay
// @Accept json
// @Produce plain
// @Param request body models.SendMessageRequest true "Message envelope"
// @Success 200 {string} string "success"
// @Failure 401 {string} string "failure <reason>"
// @Deprecated
// @Router /send-channel-message [post]
func (h *RelayHandler) SendChannelMessage(c *gin.Context) {
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err.Error())
		return
	}
	if req.SecretKey != h.secretKey {
		fail(c, "incorrect secret key")
		return
	}

	var payload models.MessagePayload
	if err := json.Unmarshal(req.Message, &payload); err != nil || payload.ChannelID == "" {
		fail(c, "no channel id")
		return
	}

	h.relay.SendChannelMessage(payload.ChannelID, req.Message)
	success(c)
}

// SendUserMessage godoc
// @Summary Send a message to both ends of a user-to-user conversation
// @Description Deprecated: use /send-message with a dm- channel id
// @Tags relay
// @Accept json
// @Produce plain
// @Param request body models.SendMessageRequest true "Message envelope"
// @Success 200 {string} string "success"
// @Failure 401 {string} string "failure <reason>"
// @Deprecated
// @Router /send-user-message [post]
func (h *RelayHandler) SendUserMessage(c *gin.Context) {
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err.Error())
		return
	}
	if req.SecretKey != h.secretKey {
		fail(c, "incorrect secret key")
		return
	}

	var payload models.UserMessagePayload
	if err := json.Unmarshal(req.Message, &payload); err != nil || payload.ToUserID == "" {
		fail(c, "no to user id")
		return
	}

	h.relay.SendUserMessage(payload.FromUserID.String(), payload.ToUserID.String(), req.Message)
	success(c)
}

package controllers

import (
	"munaybol/dto"
	"munaybol/errors"
	"munaybol/middleware"
	"munaybol/response"
	"munaybol/services"
	"munaybol/services/notification"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	notifications *notification.Service
	hub           *notification.Hub
	tokens        *services.TokenService
}

func NewNotificationController(n *notification.Service, hub *notification.Hub, tokens *services.TokenService) *NotificationController {
	return &NotificationController{notifications: n, hub: hub, tokens: tokens}
}

func (n *NotificationController) List(c *gin.Context) {
	var page dto.PageQuery
	if !bindQuery(c, &page) {
		return
	}
	unread := dto.QueryBool(c, "unread")
	items, total, err := n.notifications.List(c.Request.Context(), middleware.Actor(c), unread != nil && *unread, page.Page, page.Limit)
	if err != nil {
		fail(c, err)
		return
	}
	paginated(c, items, page, total)
}

func (n *NotificationController) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	item, err := n.notifications.Get(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, item)
}

func (n *NotificationController) SetRead(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in dto.NotificationReadInput
	if !bindJSON(c, &in) {
		return
	}
	item, err := n.notifications.SetRead(c.Request.Context(), middleware.Actor(c), id, *in.Read)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, item)
}

func (n *NotificationController) MarkAllRead(c *gin.Context) {
	updated, err := n.notifications.MarkAllRead(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, dto.MarkAllReadResponse{Updated: updated})
}

func (n *NotificationController) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := n.notifications.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		fail(c, err)
		return
	}
	response.SuccessMessage(c, "Notificación eliminada", nil)
}

// Subscribe upgrades to a websocket. Browsers cannot set headers on the
// handshake, so the access token travels as ?token=.
func (n *NotificationController) Subscribe(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = c.GetHeader("Authorization")
	}
	userID, _, err := n.tokens.GetUserIDFromToken(token)
	if err != nil {
		fail(c, err)
		return
	}
	if err := n.hub.HandleRequest(c.Writer, c.Request, userID); err != nil {
		if !c.Writer.Written() {
			fail(c, errors.Validation("No se pudo abrir el websocket."))
		}
	}
}

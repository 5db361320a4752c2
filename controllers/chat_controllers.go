package controllers

import (
	"munaybol/dto"
	"munaybol/middleware"
	"munaybol/response"
	"munaybol/services"

	"github.com/gin-gonic/gin"
)

type ChatController struct {
	chat *services.ChatService
}

func NewChatController(chat *services.ChatService) *ChatController {
	return &ChatController{chat: chat}
}

// Generate godoc
// @Summary  Pregunta al asistente turístico
// @Tags     llm
// @Param    body body dto.GenerateInput true "Prompt"
// @Success  200 {object} response.Response{data=services.ChatReply}
// @Failure  400 {object} response.Response
// @Router   /llm/generate/ [post]
func (h *ChatController) Generate(c *gin.Context) {
	var in dto.GenerateInput
	if !bindJSON(c, &in) {
		return
	}
	chatID := in.ChatID
	if chatID == "" {
		chatID = middleware.SessionID(c)
	}
	reply, err := h.chat.Generate(c.Request.Context(), middleware.Actor(c), in.Prompt, chatID, in.Format)
	if err != nil {
		fail(c, err)
		return
	}
	c.Writer.Header().Set("X-Session-ID", reply.ChatID)
	response.Success(c, reply)
}

func (h *ChatController) ListSessions(c *gin.Context) {
	var page dto.PageQuery
	if !bindQuery(c, &page) {
		return
	}
	sessions, total, err := h.chat.ListSessions(c.Request.Context(), middleware.Actor(c), services.SessionFilter{
		Archived: dto.QueryBool(c, "archived"),
		Page:     page.Page,
		Limit:    page.Limit,
	})
	if err != nil {
		fail(c, err)
		return
	}
	paginated(c, sessions, page, total)
}

func (h *ChatController) CreateSession(c *gin.Context) {
	var in dto.SessionInput
	if c.Request.ContentLength > 0 && !bindJSON(c, &in) {
		return
	}
	title := ""
	if in.Title != nil {
		title = *in.Title
	}
	session, err := h.chat.CreateSession(c.Request.Context(), middleware.Actor(c), title)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, session)
}

func (h *ChatController) GetSession(c *gin.Context) {
	session, err := h.chat.GetSession(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, session)
}

func (h *ChatController) UpdateSession(c *gin.Context) {
	var in dto.SessionInput
	if !bindJSON(c, &in) {
		return
	}
	session, err := h.chat.UpdateSession(c.Request.Context(), middleware.Actor(c), c.Param("id"), in.Title, in.Archived)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, session)
}

func (h *ChatController) DeleteSession(c *gin.Context) {
	if err := h.chat.DeleteSession(c.Request.Context(), middleware.Actor(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	response.SuccessMessage(c, "Sesión eliminada correctamente", nil)
}

// Messages godoc
// @Summary  Historial de una sesión
// @Tags     chat
// @Param    id     path  string true  "ID de la sesión"
// @Param    format query string false "text | html"
// @Success  200 {object} response.Response{data=services.MessagesPage}
// @Router   /chat/sessions/{id}/messages/ [get]
func (h *ChatController) Messages(c *gin.Context) {
	var page dto.PageQuery
	if !bindQuery(c, &page) {
		return
	}
	out, err := h.chat.Messages(c.Request.Context(), middleware.Actor(c), c.Param("id"), page.Page, page.Limit, c.Query("format"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, out)
}

func (h *ChatController) SendMessage(c *gin.Context) {
	var in dto.MessageInput
	if !bindJSON(c, &in) {
		return
	}
	reply, err := h.chat.SendMessage(c.Request.Context(), middleware.Actor(c), c.Param("id"), in.Prompt, in.Format)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, reply)
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/healthywell/telemedicine-api/internal/core/ports"
)

// SupportHandler handles the stateless health-support chat.
type SupportHandler struct {
	service ports.SupportService
}

func NewSupportHandler(service ports.SupportService) *SupportHandler {
	return &SupportHandler{service: service}
}

// Chat answers a general health question. The conversation history is held
// by the client and replayed on every call; nothing is persisted.
//
// @Summary      Health support chat
// @Tags         health-support
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      supportChatRequest  true  "Message and client-held history"
// @Success      200   {object}  ports.SupportChatResult
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /health-support/chat [post]
func (h *SupportHandler) Chat(c echo.Context) error {
	if _, err := ctxUserID(c); err != nil {
		return err
	}

	var req supportChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	history := make([]ports.ChatMessage, 0, len(req.History))
	for _, m := range req.History {
		history = append(history, ports.ChatMessage{Role: m.Role, Content: m.Content})
	}

	result, err := h.service.Chat(c.Request().Context(), ports.SupportChatInput{
		Message: req.Message,
		History: history,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nqanh/vku-student-manager/internal/app/models/dto"
	"github.com/nqanh/vku-student-manager/internal/app/services"
	"github.com/nqanh/vku-student-manager/internal/middleware"
	"github.com/nqanh/vku-student-manager/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

// ChatController handles assistant conversations
type ChatController struct {
	chatService *services.ChatService
	logger      zerolog.Logger
}

// NewChatController creates a new ChatController
func NewChatController(chatService *services.ChatService, logger zerolog.Logger) *ChatController {
	return &ChatController{chatService: chatService, logger: logger}
}

// Send forwards a conversation and returns the assistant reply
// @Summary Chat with the assistant
// @Tags chat
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "Conversation so far"
// @Success 200 {object} dto.APIResponse{data=dto.ChatResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid conversation payload"
// @Failure 502 {object} dto.ErrorResponse "Upstream model unavailable"
// @Security BearerAuth
// @Router /chat [post]
func (c *ChatController) Send(ctx *gin.Context) {
	var req dto.ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid chat payload")
		middleware.HandleAPIError(ctx, apperrors.ErrBadRequest)
		return
	}

	resp, err := c.chatService.Send(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

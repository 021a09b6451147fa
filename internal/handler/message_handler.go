package handler

import (
	"context"
	"net/http"

	"sentinal-delivery/internal/domain/message"
	"sentinal-delivery/internal/services"
	"sentinal-delivery/internal/transport/httpdto"
	sentinal_errors "sentinal-delivery/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MessageHandler struct {
	service *services.MessageStateService
}

func NewMessageHandler(service *services.MessageStateService) *MessageHandler {
	return &MessageHandler{service: service}
}

func (h *MessageHandler) Create(c *gin.Context) {
	var req httpdto.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}
	m, err := req.ToDomain()
	if err != nil {
		_ = c.Error(err)
		return
	}
	created, err := h.service.Create(c.Request.Context(), m)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.NewMessageResponse(created)))
}

func (h *MessageHandler) GetByID(c *gin.Context) {
	messageID, ok := messageIDParam(c)
	if !ok {
		return
	}
	m, err := h.service.GetByID(c.Request.Context(), messageID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.NewMessageResponse(m)))
}

func (h *MessageHandler) Capabilities(c *gin.Context) {
	messageID, ok := messageIDParam(c)
	if !ok {
		return
	}
	caps, err := h.service.Capabilities(c.Request.Context(), messageID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(caps))
}

func (h *MessageHandler) ApplyReceipt(c *gin.Context) {
	messageID, ok := messageIDParam(c)
	if !ok {
		return
	}
	var req httpdto.ReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}
	h.respond(c, func(ctx context.Context) (message.Message, error) {
		return h.service.ApplyReceipt(ctx, messageID, message.ReceiptCode(req.Code))
	})
}

func (h *MessageHandler) AdvanceState(c *gin.Context) {
	messageID, ok := messageIDParam(c)
	if !ok {
		return
	}
	var req httpdto.StateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}
	state, err := message.ParseState(req.State)
	if err != nil {
		_ = c.Error(sentinal_errors.ErrInvalidInput)
		return
	}
	h.respond(c, func(ctx context.Context) (message.Message, error) {
		return h.service.AdvanceState(ctx, messageID, state)
	})
}

func (h *MessageHandler) Acknowledge(c *gin.Context) {
	h.action(c, h.service.Acknowledge)
}

func (h *MessageHandler) Decline(c *gin.Context) {
	h.action(c, h.service.Decline)
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	h.action(c, h.service.MarkRead)
}

func (h *MessageHandler) MarkConsumed(c *gin.Context) {
	h.action(c, h.service.MarkConsumed)
}

func (h *MessageHandler) DeleteRemotely(c *gin.Context) {
	h.action(c, h.service.DeleteRemotely)
}

func (h *MessageHandler) action(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (message.Message, error)) {
	messageID, ok := messageIDParam(c)
	if !ok {
		return
	}
	h.respond(c, func(ctx context.Context) (message.Message, error) {
		return fn(ctx, messageID)
	})
}

func (h *MessageHandler) respond(c *gin.Context, fn func(ctx context.Context) (message.Message, error)) {
	m, err := fn(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.NewMessageResponse(m)))
}

func messageIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid message id", "INVALID_REQUEST"))
		return uuid.Nil, false
	}
	return id, true
}

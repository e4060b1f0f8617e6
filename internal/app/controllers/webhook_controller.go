package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/schoolconnector/internal/app/events"
	"github.com/yigit/schoolconnector/internal/app/models/dto"
	"github.com/yigit/schoolconnector/internal/middleware"
	"github.com/yigit/schoolconnector/internal/pkg/apperrors"
)

// EventTimeout bounds the handling of one webhook event
const EventTimeout = 30 * time.Second

// WebhookController receives connector webhooks
type WebhookController struct {
	handler events.Handler
	timeout time.Duration
}

// NewWebhookController creates a new WebhookController
func NewWebhookController(handler events.Handler) *WebhookController {
	return &WebhookController{handler: handler, timeout: EventTimeout}
}

// HandleConnectorEvent applies a connector event
// @Summary Connector webhook
// @Description Receives {trigger, data} payloads from the connector. Unsupported triggers are acknowledged and ignored.
// @Tags webhooks
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.APIResponse "Event handled"
// @Success 202 {object} dto.APIResponse "Event ignored"
// @Failure 400 {object} dto.ErrorResponse "Malformed event"
// @Router /webhooks/connector [post]
func (wc *WebhookController) HandleConnectorEvent(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	ev, err := events.Decode(raw)
	switch {
	case errors.Is(err, events.ErrUnsupportedEvent):
		c.JSON(http.StatusAccepted, dto.NewSuccessResponse(nil, "Event ignored"))
		return
	case err != nil:
		middleware.HandleAPIError(c, apperrors.NewBadRequestError(err.Error()))
		return
	}

	// a caller hanging up must not interrupt a half-applied event
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), wc.timeout)
	defer cancel()

	if err := wc.handler.Handle(ctx, ev); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Event handled"))
}

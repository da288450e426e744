package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/nblog/service"
	"github.com/ncobase/nblog/structs"
	"github.com/ncobase/ncore/logging/logger"
	"github.com/ncobase/ncore/net/resp"
	svix "github.com/svix/svix-webhooks/go"
)

// WebhookHandler receives signed identity-provider events.
type WebhookHandler struct {
	svc    *service.WebhookService
	verify func(payload []byte, header http.Header) error
	logger *logger.Logger
}

// NewWebhookHandler creates a new webhook handler. Events are authenticated
// with the provider's svix signing secret before dispatch.
func NewWebhookHandler(svc *service.WebhookService, signingSecret string, log *logger.Logger) *WebhookHandler {
	h := &WebhookHandler{
		svc:    svc,
		logger: log,
	}

	wh, err := svix.NewWebhook(signingSecret)
	if err != nil {
		log.Error(context.Background(), "webhook signing secret rejected", "error", err)
		h.verify = func([]byte, http.Header) error { return service.ErrUpstreamVerification }
		return h
	}
	h.verify = wh.Verify

	return h
}

// Receive verifies, parses, and dispatches one event. A signature failure
// affects only the current event; an applied event is always acknowledged
// so the provider does not redeliver and replay delete cascades.
func (h *WebhookHandler) Receive(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		resp.Fail(c.Writer, resp.BadRequest("unreadable payload"))
		return
	}

	if err := h.verify(payload, c.Request.Header); err != nil {
		h.logger.Warn(c.Request.Context(), "webhook verification failed", "error", err)
		fail(c, h.logger, service.ErrUpstreamVerification)
		return
	}

	var evt structs.WebhookEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		resp.Fail(c.Writer, resp.BadRequest("malformed event payload"))
		return
	}

	if err := h.svc.Dispatch(c.Request.Context(), &evt); err != nil {
		fail(c, h.logger, err)
		return
	}
	resp.Success(c.Writer, "Webhook received")
}

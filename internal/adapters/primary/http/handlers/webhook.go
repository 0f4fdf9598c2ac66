package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go/twiml"

	"curumim-backend/internal/adapters/primary/http/dto"
	"curumim-backend/internal/core/domain"
)

const contentTypeXML = "text/xml; charset=utf-8"

// WhatsAppWebhook receives an inbound message from Twilio and answers with
// TwiML carrying the bot replies.
func (h *Handler) WhatsAppWebhook(c *gin.Context) {
	var req dto.WhatsAppWebhookRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingSender.Error()})
		return
	}

	msg, err := req.ToInboundMessage()
	if err != nil {
		mapDomainError(c, err)
		return
	}

	logger := log.WithFields(log.Fields{
		"request_id":         c.GetString("request_id"),
		"sender":             msg.From,
		"message_sid":        msg.MessageSID,
		"num_media":          msg.NumMedia,
		"media_content_type": msg.MediaContentType,
	})
	logger.WithField("body", msg.Body).Debug("inbound message")

	replies, err := h.convSvc.Handle(c.Request.Context(), msg)
	if err != nil {
		logger.WithError(err).Error("handle inbound message failed")
		mapDomainError(c, err)
		return
	}

	body, err := renderTwiML(replies)
	if err != nil {
		logger.WithError(err).Error("render twiml failed")
		mapDomainError(c, err)
		return
	}

	logger.WithField("replies", len(replies)).Debug("twiml response generated")
	c.Data(http.StatusOK, contentTypeXML, []byte(body))
}

func renderTwiML(replies []string) (string, error) {
	verbs := make([]twiml.Element, 0, len(replies))
	for _, r := range replies {
		verbs = append(verbs, &twiml.MessagingMessage{Body: r})
	}
	return twiml.Messages(verbs)
}

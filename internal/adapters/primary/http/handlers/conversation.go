package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"curumim-backend/internal/adapters/primary/http/dto"
)

func (h *Handler) GetConversation(c *gin.Context) {
	conv, err := h.convSvc.Get(c.Request.Context(), c.Param("sender"))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToConversationResponse(conv))
}

func (h *Handler) ResetConversation(c *gin.Context) {
	sender := c.Param("sender")
	if err := h.convSvc.Reset(c.Request.Context(), sender); err != nil {
		mapDomainError(c, err)
		return
	}

	log.WithField("sender", sender).Info("conversation reset by operator")
	c.Status(http.StatusNoContent)
}

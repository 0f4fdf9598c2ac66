package handlers

import (
	"net/http"

	"curumim-backend/internal/core/services"

	"github.com/gin-gonic/gin"
)

const rootMessage = "Curumim WhatsApp Bot is running!"

type Handler struct {
	convSvc    *services.ConversationService
	contribSvc *services.ContributionService
}

func New(
	convSvc *services.ConversationService,
	contribSvc *services.ContributionService,
) *Handler {
	return &Handler{
		convSvc:    convSvc,
		contribSvc: contribSvc,
	}
}

// RegisterWebhook mounts the public endpoints. Middlewares apply to the
// Twilio webhook only.
func (h *Handler) RegisterWebhook(r gin.IRoutes, middlewares ...gin.HandlerFunc) {
	r.GET("/", h.Root)

	chain := append(append([]gin.HandlerFunc{}, middlewares...), h.WhatsAppWebhook)
	r.POST("/whatsapp", chain...)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Conversations
	r.GET("/conversations/:sender", h.GetConversation)
	r.DELETE("/conversations/:sender", h.ResetConversation)

	// Contributions
	r.GET("/contributions", h.ListContributions)
	r.GET("/contributions/:id", h.GetContribution)
}

func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": rootMessage})
}

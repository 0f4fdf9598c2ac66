package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"curumim-backend/internal/adapters/primary/http/dto"
	"curumim-backend/internal/core/domain"
	output "curumim-backend/internal/core/ports/output"
)

func (h *Handler) ListContributions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := output.ContributionFilter{
		SenderID: c.Query("sender"),
		Limit:    limit,
		Offset:   offset,
	}

	items, total, err := h.contribSvc.List(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list contributions failed")
		mapDomainError(c, err)
		return
	}

	resp := make([]dto.ContributionResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, dto.ToContributionResponse(item))
	}

	if offset < 0 {
		offset = 0
	}
	c.JSON(http.StatusOK, dto.ListContributionsResponse{
		Items:      resp,
		Total:      total,
		PageSize:   len(resp),
		NextOffset: offset + len(resp),
	})
}

func (h *Handler) GetContribution(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		mapDomainError(c, domain.ErrInvalidContribID)
		return
	}

	item, err := h.contribSvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToContributionResponse(item))
}

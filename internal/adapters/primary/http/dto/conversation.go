package dto

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"curumim-backend/internal/core/domain"
)

// WhatsAppWebhookRequest mirrors the form fields Twilio posts for an inbound
// message. Only the first attachment is used.
type WhatsAppWebhookRequest struct {
	MessageSID        string `form:"MessageSid"`
	From              string `form:"From" binding:"required"`
	Body              string `form:"Body"`
	NumMedia          string `form:"NumMedia"`
	MediaURL0         string `form:"MediaUrl0"`
	MediaContentType0 string `form:"MediaContentType0"`
}

// ToInboundMessage validates NumMedia and builds the domain message
func (r WhatsAppWebhookRequest) ToInboundMessage() (domain.InboundMessage, error) {
	numMedia := 0
	if s := strings.TrimSpace(r.NumMedia); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return domain.InboundMessage{}, domain.ErrInvalidNumMedia
		}
		numMedia = n
	}

	return domain.InboundMessage{
		MessageSID:       r.MessageSID,
		From:             r.From,
		Body:             r.Body,
		NumMedia:         numMedia,
		MediaURL:         r.MediaURL0,
		MediaContentType: r.MediaContentType0,
	}, nil
}

type MetadataDTO struct {
	TaskType string `json:"task_type,omitempty"`
	Age      *int   `json:"age,omitempty"`
	Gender   string `json:"gender,omitempty"`
	AudioKey string `json:"audio_key,omitempty"`
	AudioURL string `json:"audio_url,omitempty"`
}

type ConversationResponse struct {
	SenderID  string      `json:"sender_id"`
	Stage     string      `json:"stage"`
	Metadata  MetadataDTO `json:"metadata"`
	CreatedAt string      `json:"created_at"`
	UpdatedAt string      `json:"updated_at"`
}

func ToConversationResponse(c *domain.Conversation) ConversationResponse {
	return ConversationResponse{
		SenderID: c.SenderID,
		Stage:    string(c.Stage),
		Metadata: MetadataDTO{
			TaskType: c.Metadata.TaskType,
			Age:      c.Metadata.Age,
			Gender:   c.Metadata.Gender,
			AudioKey: c.Metadata.AudioKey,
			AudioURL: c.Metadata.AudioURL,
		},
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}

type ContributionResponse struct {
	ID        uuid.UUID `json:"id"`
	SenderID  string    `json:"sender_id"`
	TaskType  string    `json:"task_type"`
	AudioKey  string    `json:"audio_key"`
	AudioURL  string    `json:"audio_url"`
	Age       *int      `json:"age"`
	Gender    string    `json:"gender"`
	CreatedAt string    `json:"created_at"`
}

func ToContributionResponse(c *domain.Contribution) ContributionResponse {
	return ContributionResponse{
		ID:        c.ID,
		SenderID:  c.SenderID,
		TaskType:  c.TaskType,
		AudioKey:  c.AudioKey,
		AudioURL:  c.AudioURL,
		Age:       c.Age,
		Gender:    c.Gender,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

type ListContributionsResponse struct {
	Items      []ContributionResponse `json:"items"`
	Total      int                    `json:"total"`
	PageSize   int                    `json:"page_size"`
	NextOffset int                    `json:"next_offset"`
}

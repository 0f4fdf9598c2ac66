package domain

import (
	"time"

	"github.com/google/uuid"
)

// Contribution is a completed voice sample with its survey answers
type Contribution struct {
	ID        uuid.UUID `json:"id"`
	SenderID  string    `json:"sender_id"`
	TaskType  string    `json:"task_type"`
	AudioKey  string    `json:"audio_key"`
	AudioURL  string    `json:"audio_url"`
	Age       *int      `json:"age"`
	Gender    string    `json:"gender"`
	CreatedAt time.Time `json:"created_at"`
}

// NewContribution snapshots a finished conversation
func NewContribution(conv *Conversation, now time.Time) *Contribution {
	var age *int
	if conv.Metadata.Age != nil {
		a := *conv.Metadata.Age
		age = &a
	}
	return &Contribution{
		ID:        uuid.New(),
		SenderID:  conv.SenderID,
		TaskType:  conv.Metadata.TaskType,
		AudioKey:  conv.Metadata.AudioKey,
		AudioURL:  conv.Metadata.AudioURL,
		Age:       age,
		Gender:    conv.Metadata.Gender,
		CreatedAt: now,
	}
}

package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// Value Objects
// ============================================================================

// Stage is the position of a sender in the contribution flow
type Stage string

const (
	StageInitial       Stage = "initial"
	StageWaitingStart  Stage = "waiting_start"
	StageWaitingAudioA Stage = "waiting_audio_a"
	StageWaitingAge    Stage = "waiting_age"
	StageWaitingGender Stage = "waiting_gender"
	StageFinished      Stage = "finished"
)

// IsValid checks if the stage is known
func (s Stage) IsValid() bool {
	switch s {
	case StageInitial, StageWaitingStart, StageWaitingAudioA,
		StageWaitingAge, StageWaitingGender, StageFinished:
		return true
	}
	return false
}

const (
	TaskTypeSustainedVowelA = "vogal_a_sustentada"
	unknownTaskType         = "unknown_task"
	whatsappPrefix          = "whatsapp:"
	audioKeyPrefix          = "curumim_audios"
	defaultAudioExt         = "ogg"
)

// Metadata is what has been collected from a sender so far
type Metadata struct {
	TaskType string `json:"task_type,omitempty"`
	Age      *int   `json:"age,omitempty"`
	Gender   string `json:"gender,omitempty"`
	AudioKey string `json:"audio_key,omitempty"`
	AudioURL string `json:"audio_url,omitempty"`
}

// Summary renders the collected fields for the closing message
func (m Metadata) Summary() string {
	parts := make([]string, 0, 4)
	if m.TaskType != "" {
		parts = append(parts, "tarefa: "+m.TaskType)
	}
	if m.Age != nil {
		parts = append(parts, fmt.Sprintf("idade: %d", *m.Age))
	}
	if m.Gender != "" {
		parts = append(parts, "gênero: "+m.Gender)
	}
	if m.AudioURL != "" {
		parts = append(parts, "áudio: "+m.AudioURL)
	}
	return strings.Join(parts, ", ")
}

// ============================================================================
// Entities
// ============================================================================

// Conversation is the per-sender chatbot state
type Conversation struct {
	SenderID  string    `json:"sender_id"`
	Stage     Stage     `json:"stage"`
	Metadata  Metadata  `json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewConversation starts a sender at the initial stage
func NewConversation(senderID string, now time.Time) *Conversation {
	return &Conversation{
		SenderID:  senderID,
		Stage:     StageInitial,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Reset clears collected data and returns to the initial stage
func (c *Conversation) Reset() {
	c.Stage = StageInitial
	c.Metadata = Metadata{}
}

// Clone returns a deep copy
func (c *Conversation) Clone() *Conversation {
	cp := *c
	if c.Metadata.Age != nil {
		age := *c.Metadata.Age
		cp.Metadata.Age = &age
	}
	return &cp
}

// InboundMessage is one webhook delivery from Twilio
type InboundMessage struct {
	MessageSID       string
	From             string
	Body             string
	NumMedia         int
	MediaURL         string
	MediaContentType string
}

// HasAudio reports whether the first attachment is an audio file
func (m InboundMessage) HasAudio() bool {
	return m.NumMedia > 0 && m.MediaURL != "" && strings.HasPrefix(strings.ToLower(m.MediaContentType), "audio/")
}

// NormalizedBody is the trimmed lower-case body used for keyword matching
func (m InboundMessage) NormalizedBody() string {
	return strings.ToLower(strings.TrimSpace(m.Body))
}

// SenderPhone strips the channel prefix from a Twilio address
func SenderPhone(senderID string) string {
	return strings.TrimPrefix(senderID, whatsappPrefix)
}

// AudioExtension derives a file extension from a media content type
func AudioExtension(contentType string) string {
	ct := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	_, sub, ok := strings.Cut(ct, "/")
	if !ok || sub == "" {
		return defaultAudioExt
	}
	return strings.ToLower(sub)
}

// AudioObjectKey is the storage key for a contributed recording
func AudioObjectKey(senderID, taskType, contentType string, id uuid.UUID) string {
	if taskType == "" {
		taskType = unknownTaskType
	}
	return fmt.Sprintf("%s/%s/%s_%s.%s",
		audioKeyPrefix,
		SenderPhone(senderID),
		taskType,
		strings.ReplaceAll(id.String(), "-", ""),
		AudioExtension(contentType),
	)
}

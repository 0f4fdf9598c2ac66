package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/moby/locker"
	log "github.com/sirupsen/logrus"

	"curumim-backend/internal/core/domain"
	"curumim-backend/internal/core/ports/output"
)

// Bot copy
const (
	msgGreeting         = "Olá! Eu sou Curumim, seu assistente para o projeto Angelia AI. Posso te ajudar a contribuir com sua voz para a pesquisa de saúde."
	msgTypeStart        = "Para começar, digite 'COMEÇAR'."
	msgStartReprompt    = "Entendi. Por favor, digite 'COMEÇAR' para iniciarmos."
	msgAudioInstruction = "Ótimo! Vamos começar. Para contribuir, por favor, grave e envie um áudio com uma *vogal 'A' sustentada* por 3 a 5 segundos (ex: Aaaaaa...)."
	msgNextSteps        = "Em seguida, vou pedir algumas informações."
	msgAudioSaved       = "Áudio recebido e salvo! Obrigado pela sua contribuição."
	msgAudioSaveFailed  = "Áudio recebido, mas houve um problema ao salvá-lo. Por favor, tente novamente."
	msgAudioDownloadErr = "Desculpe, tive um problema ao baixar seu áudio. Poderia tentar novamente?"
	msgNoAudio          = "Não recebi um áudio. Por favor, grave e envie o áudio da vogal 'A' sustentada."
	msgAskAge           = "Para complementar sua contribuição, por favor, me diga sua *idade* (apenas números)."
	msgAgeReprompt      = "Por favor, digite sua idade em números."
	msgAskGender        = "Idade registrada! Agora, qual é o seu *gênero*? (Ex: Masculino, Feminino, Outro)"
	msgGenderReprompt   = "Por favor, digite seu gênero."
	msgCompleted        = "Gênero registrado! Sua contribuição está completa. Muito obrigado por ajudar a Angelia AI!"
	msgSummaryPrefix    = "Seus dados coletados: "
	msgRestarting       = "Reiniciando a conversa. "
	msgAlreadyCollected = "Já coletamos sua contribuição! Se quiser começar de novo, digite 'REINICIAR'."
)

const (
	keywordStart      = "começar"
	keywordStartASCII = "comecar"
	keywordRestart    = "reiniciar"
	maxAge            = 150
)

type ConversationService struct {
	convRepo ports.ConversationRepository
	media    ports.MediaFetcher
	store    ports.AudioStore
	locks    *locker.Locker
	now      func() time.Time
	newID    func() uuid.UUID
}

func NewConversationService(
	convRepo ports.ConversationRepository,
	media ports.MediaFetcher,
	store ports.AudioStore,
) *ConversationService {
	return &ConversationService{
		convRepo: convRepo,
		media:    media,
		store:    store,
		locks:    locker.New(),
		now:      time.Now,
		newID:    uuid.New,
	}
}

// Handle advances the sender's conversation by one inbound message and
// returns the replies in the order they should be sent.
func (s *ConversationService) Handle(ctx context.Context, msg domain.InboundMessage) ([]string, error) {
	sender := strings.TrimSpace(msg.From)
	if sender == "" {
		return nil, domain.ErrMissingSender
	}
	msg.From = sender

	s.locks.Lock(sender)
	defer s.locks.Unlock(sender)

	conv, err := s.load(ctx, sender)
	if err != nil {
		return nil, err
	}

	logger := log.WithFields(log.Fields{
		"sender":      sender,
		"message_sid": msg.MessageSID,
	})
	from := conv.Stage

	var (
		replies  []string
		finished bool
	)
	switch conv.Stage {
	case domain.StageWaitingStart:
		replies = s.onWaitingStart(conv, msg)
	case domain.StageWaitingAudioA:
		replies = s.onWaitingAudio(ctx, logger, conv, msg)
	case domain.StageWaitingAge:
		replies = s.onWaitingAge(conv, msg)
	case domain.StageWaitingGender:
		replies, finished = s.onWaitingGender(conv, msg)
	case domain.StageFinished:
		replies = s.onFinished(conv, msg)
	default:
		if conv.Stage != domain.StageInitial {
			logger.WithField("stage", conv.Stage).Warn("unknown stored stage, restarting conversation")
			conv.Reset()
		}
		replies = s.onInitial(conv)
	}

	conv.UpdatedAt = s.now()
	if finished {
		contrib := domain.NewContribution(conv, conv.UpdatedAt)
		if err := s.convRepo.Complete(ctx, conv, contrib); err != nil {
			return nil, fmt.Errorf("complete conversation: %w", err)
		}
		logger.WithField("contribution_id", contrib.ID).Info("contribution recorded")
	} else if err := s.convRepo.Save(ctx, conv); err != nil {
		return nil, fmt.Errorf("save conversation: %w", err)
	}

	if from != conv.Stage {
		logger.WithFields(log.Fields{
			"from_stage": from,
			"to_stage":   conv.Stage,
		}).Info("conversation advanced")
	}

	return replies, nil
}

// Get returns the stored state for a sender
func (s *ConversationService) Get(ctx context.Context, senderID string) (*domain.Conversation, error) {
	if strings.TrimSpace(senderID) == "" {
		return nil, domain.ErrInvalidSender
	}
	return s.convRepo.Get(ctx, senderID)
}

// Reset forgets a sender; the next message starts from the greeting
func (s *ConversationService) Reset(ctx context.Context, senderID string) error {
	if strings.TrimSpace(senderID) == "" {
		return domain.ErrInvalidSender
	}

	senderID = strings.TrimSpace(senderID)
	s.locks.Lock(senderID)
	defer s.locks.Unlock(senderID)

	return s.convRepo.Delete(ctx, senderID)
}

func (s *ConversationService) load(ctx context.Context, sender string) (*domain.Conversation, error) {
	conv, err := s.convRepo.Get(ctx, sender)
	if err == nil {
		return conv, nil
	}
	if errors.Is(err, domain.ErrConversationNotFound) {
		log.WithField("sender", sender).Info("new sender, conversation initialized")
		return domain.NewConversation(sender, s.now()), nil
	}
	return nil, fmt.Errorf("load conversation: %w", err)
}

func (s *ConversationService) onInitial(conv *domain.Conversation) []string {
	conv.Stage = domain.StageWaitingStart
	return []string{msgGreeting, msgTypeStart}
}

func (s *ConversationService) onWaitingStart(conv *domain.Conversation, msg domain.InboundMessage) []string {
	body := msg.NormalizedBody()
	if body != keywordStart && body != keywordStartASCII {
		return []string{msgStartReprompt}
	}

	conv.Metadata.TaskType = domain.TaskTypeSustainedVowelA
	conv.Stage = domain.StageWaitingAudioA
	return []string{msgAudioInstruction, msgNextSteps}
}

func (s *ConversationService) onWaitingAudio(ctx context.Context, logger *log.Entry, conv *domain.Conversation, msg domain.InboundMessage) []string {
	if !msg.HasAudio() {
		return []string{msgNoAudio}
	}

	media, err := s.media.Fetch(ctx, msg.MediaURL, msg.MediaContentType)
	if err != nil {
		logger.WithError(err).WithField("media_url", msg.MediaURL).Error("audio download failed")
		return []string{msgAudioDownloadErr}
	}

	// The webhook declared an audio type; the CDN may answer with a generic one.
	contentType := msg.MediaContentType
	if contentType == "" {
		contentType = media.ContentType
	}

	key := domain.AudioObjectKey(conv.SenderID, conv.Metadata.TaskType, contentType, s.newID())
	url, err := s.store.Put(ctx, key, contentType, media.Data)
	if err != nil {
		logger.WithError(err).WithField("key", key).Error("audio upload failed")
		return []string{msgAudioSaveFailed}
	}

	logger.WithFields(log.Fields{"key": key, "url": url, "bytes": len(media.Data)}).Info("audio stored")
	conv.Metadata.AudioKey = key
	conv.Metadata.AudioURL = url
	conv.Stage = domain.StageWaitingAge
	return []string{msgAudioSaved, msgAskAge}
}

func (s *ConversationService) onWaitingAge(conv *domain.Conversation, msg domain.InboundMessage) []string {
	age, ok := parseAge(msg.Body)
	if !ok {
		return []string{msgAgeReprompt}
	}

	conv.Metadata.Age = &age
	conv.Stage = domain.StageWaitingGender
	return []string{msgAskGender}
}

func (s *ConversationService) onWaitingGender(conv *domain.Conversation, msg domain.InboundMessage) ([]string, bool) {
	gender := msg.NormalizedBody()
	if gender == "" {
		return []string{msgGenderReprompt}, false
	}

	conv.Metadata.Gender = gender
	conv.Stage = domain.StageFinished
	return []string{msgCompleted, msgSummaryPrefix + conv.Metadata.Summary()}, true
}

func (s *ConversationService) onFinished(conv *domain.Conversation, msg domain.InboundMessage) []string {
	if msg.NormalizedBody() != keywordRestart {
		return []string{msgAlreadyCollected}
	}

	conv.Reset()
	conv.Stage = domain.StageWaitingStart
	return []string{msgRestarting + msgGreeting + " " + msgTypeStart}
}

// parseAge accepts ASCII digits only, within a plausible human range
func parseAge(body string) (int, bool) {
	body = strings.TrimSpace(body)
	if body == "" {
		return 0, false
	}
	for _, r := range body {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	age, err := strconv.Atoi(body)
	if err != nil || age < 1 || age > maxAge {
		return 0, false
	}
	return age, true
}

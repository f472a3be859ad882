package message

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/internal/config"
	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/internal/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Service interface {
	Send(ctx context.Context, senderID, receiverID, content, replyTo string) (*View, error)
	Unsend(ctx context.Context, requesterID, messageID string) (*Message, error)
	History(ctx context.Context, userID, peerID string, limit, offset int) ([]View, error)
	MarkRead(ctx context.Context, readerID, peerID string) (int64, error)
}

type messageService struct {
	repository Repository
	cfg        *config.Configuration
}

func NewMessageService(repository Repository, cfg *config.Configuration) Service {
	return &messageService{
		repository: repository,
		cfg:        cfg,
	}
}

// Send validates and persists a new message and returns its delivery view.
// Delivery to the receiver's connection is the routing layer's job; this
// service only owns the record.
func (s *messageService) Send(ctx context.Context, senderID, receiverID, content, replyTo string) (*View, error) {
	if senderID == "" || receiverID == "" {
		return nil, models.ErrMissingParticipant
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.ErrEmptyMessageContent
	}
	if max := s.cfg.Messages.MaxContentLength; max > 0 && len(content) > max {
		return nil, models.ErrMessageTooLong
	}

	var replied *Message
	var replyRef *primitive.ObjectID
	if replyTo != "" {
		oid, err := primitive.ObjectIDFromHex(replyTo)
		if err != nil {
			return nil, models.ErrInvalidMessageID
		}

		replied, err = s.repository.FindByID(ctx, oid)
		if err != nil {
			if errors.Is(err, models.ErrMessageNotFound) {
				return nil, models.ErrReplyNotFound
			}
			return nil, err
		}
		replyRef = &oid
	}

	msg := &Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		ReplyTo:    replyRef,
		IsRead:     false,
		CreatedAt:  time.Now(),
	}

	msg, err := s.repository.Create(ctx, msg)
	if err != nil {
		return nil, err
	}

	view := &View{Message: *msg}
	if replied != nil {
		view.Reply = s.preview(replied)
	}

	logrus.WithFields(logrus.Fields{
		"message_id":  msg.ID.Hex(),
		"sender_id":   senderID,
		"receiver_id": receiverID,
	}).Debug("Message sent")

	return view, nil
}

// Unsend soft-removes a message on behalf of its sender. No realtime
// notification goes out; peers see the change on their next history load.
func (s *messageService) Unsend(ctx context.Context, requesterID, messageID string) (*Message, error) {
	oid, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		return nil, models.ErrInvalidMessageID
	}

	msg, err := s.repository.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	if msg.SenderID != requesterID {
		return nil, models.ErrNotMessageSender
	}
	if msg.IsUnsent {
		return nil, models.ErrMessageUnsent
	}

	if err := s.repository.MarkUnsent(ctx, oid); err != nil {
		return nil, err
	}

	msg.IsUnsent = true
	msg.Content = ""

	logrus.WithFields(logrus.Fields{
		"message_id": messageID,
		"sender_id":  requesterID,
	}).Info("Message unsent")

	return msg, nil
}

// History returns one page of a conversation in chronological order, with
// reply previews resolved.
func (s *messageService) History(ctx context.Context, userID, peerID string, limit, offset int) ([]View, error) {
	if userID == "" || peerID == "" {
		return nil, models.ErrMissingParticipant
	}

	if limit <= 0 {
		limit = s.cfg.Messages.HistoryDefaultLimit
	}
	if max := s.cfg.Messages.HistoryMaxLimit; max > 0 && limit > max {
		limit = max
	}
	if offset < 0 {
		offset = 0
	}

	page, err := s.repository.FindConversation(ctx, userID, peerID, limit, offset)
	if err != nil {
		return nil, err
	}

	// Page comes back newest first; flip it for display.
	for i, j := 0, len(page)-1; i < j; i, j = i+1, j-1 {
		page[i], page[j] = page[j], page[i]
	}

	replies, err := s.resolveReplies(ctx, page)
	if err != nil {
		logrus.WithError(err).Warn("Failed to resolve reply previews, returning history without them")
		replies = nil
	}

	views := make([]View, 0, len(page))
	for _, msg := range page {
		view := View{Message: msg}
		if msg.ReplyTo != nil {
			if replied, ok := replies[*msg.ReplyTo]; ok {
				view.Reply = s.preview(&replied)
			}
		}
		views = append(views, view)
	}

	return views, nil
}

func (s *messageService) MarkRead(ctx context.Context, readerID, peerID string) (int64, error) {
	if readerID == "" || peerID == "" {
		return 0, models.ErrMissingParticipant
	}

	return s.repository.MarkConversationRead(ctx, readerID, peerID)
}

// resolveReplies batch-loads every message referenced by the page.
func (s *messageService) resolveReplies(ctx context.Context, page []Message) (map[primitive.ObjectID]Message, error) {
	seen := make(map[primitive.ObjectID]bool)
	var ids []primitive.ObjectID
	for _, msg := range page {
		if msg.ReplyTo != nil && !seen[*msg.ReplyTo] {
			seen[*msg.ReplyTo] = true
			ids = append(ids, *msg.ReplyTo)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	found, err := s.repository.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	replies := make(map[primitive.ObjectID]Message, len(found))
	for _, msg := range found {
		replies[msg.ID] = msg
	}
	return replies, nil
}

func (s *messageService) preview(msg *Message) *ReplyPreview {
	content := msg.Content
	if max := s.cfg.Messages.ReplyPreviewLength; max > 0 {
		if runes := []rune(content); len(runes) > max {
			content = string(runes[:max])
		}
	}

	return &ReplyPreview{
		ID:       msg.ID,
		SenderID: msg.SenderID,
		Content:  content,
	}
}

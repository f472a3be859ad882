package message

import (
	"context"
	"errors"

	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/internal/config"
	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/internal/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, msg *Message) (*Message, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*Message, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]Message, error)
	FindConversation(ctx context.Context, userID, peerID string, limit, offset int) ([]Message, error)
	MarkUnsent(ctx context.Context, id primitive.ObjectID) error
	MarkConversationRead(ctx context.Context, readerID, peerID string) (int64, error)
}

type messageRepository struct {
	collection *mongo.Collection
	cfg        *config.Configuration
}

func NewMessageRepository(db *mongo.Database, cfg *config.Configuration) Repository {
	return &messageRepository{
		collection: db.Collection(cfg.Database.MessageCollection),
		cfg:        cfg,
	}
}

func (r *messageRepository) Create(ctx context.Context, msg *Message) (*Message, error) {
	result, err := r.collection.InsertOne(ctx, msg)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"sender_id":   msg.SenderID,
			"receiver_id": msg.ReceiverID,
		}).Error("Failed to insert message")
		return nil, models.ErrDatabaseInsert
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		msg.ID = oid
	}

	logrus.WithField("message_id", msg.ID.Hex()).Debug("Message persisted")
	return msg, nil
}

func (r *messageRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Message, error) {
	var msg Message

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&msg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrMessageNotFound
		}
		logrus.WithError(err).WithField("message_id", id.Hex()).Error("Failed to find message")
		return nil, models.ErrDatabaseQuery
	}

	return &msg, nil
}

func (r *messageRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]Message, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		logrus.WithError(err).Error("Failed to query messages by ids")
		return nil, models.ErrDatabaseQuery
	}
	defer cursor.Close(ctx)

	var messages []Message
	if err := cursor.All(ctx, &messages); err != nil {
		logrus.WithError(err).Error("Failed to decode messages")
		return nil, models.ErrDatabaseQuery
	}

	return messages, nil
}

// FindConversation returns one page of the two users' conversation, newest
// first. Callers wanting chronological order reverse the page.
func (r *messageRepository) FindConversation(ctx context.Context, userID, peerID string, limit, offset int) ([]Message, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"sender_id": userID, "receiver_id": peerID},
			{"sender_id": peerID, "receiver_id": userID},
		},
	}

	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"peer_id": peerID,
		}).Error("Failed to query conversation")
		return nil, models.ErrDatabaseQuery
	}
	defer cursor.Close(ctx)

	var messages []Message
	if err := cursor.All(ctx, &messages); err != nil {
		logrus.WithError(err).Error("Failed to decode conversation")
		return nil, models.ErrDatabaseQuery
	}

	return messages, nil
}

// MarkUnsent soft-deletes a message: the unsend marker is set and the stored
// content blanked. The record itself stays so reply references keep resolving.
func (r *messageRepository) MarkUnsent(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"is_unsent": true, "content": ""}}

	result, err := r.collection.UpdateByID(ctx, id, update)
	if err != nil {
		logrus.WithError(err).WithField("message_id", id.Hex()).Error("Failed to mark message unsent")
		return models.ErrDatabaseUpdate
	}
	if result.MatchedCount == 0 {
		return models.ErrMessageNotFound
	}

	return nil
}

func (r *messageRepository) MarkConversationRead(ctx context.Context, readerID, peerID string) (int64, error) {
	filter := bson.M{
		"sender_id":   peerID,
		"receiver_id": readerID,
		"is_read":     false,
	}

	result, err := r.collection.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"reader_id": readerID,
			"peer_id":   peerID,
		}).Error("Failed to mark conversation read")
		return 0, models.ErrDatabaseUpdate
	}

	return result.ModifiedCount, nil
}

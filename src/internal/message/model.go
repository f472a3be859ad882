package message

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is the persisted chat message. Immutable once created except for
// IsRead and the unsend marker.
type Message struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	SenderID   string              `bson:"sender_id" json:"senderId"`
	ReceiverID string              `bson:"receiver_id" json:"receiverId"`
	Content    string              `bson:"content" json:"content"`
	ReplyTo    *primitive.ObjectID `bson:"reply_to,omitempty" json:"replyTo,omitempty"`
	IsRead     bool                `bson:"is_read" json:"isRead"`
	IsUnsent   bool                `bson:"is_unsent" json:"isUnsent"`
	CreatedAt  time.Time           `bson:"created_at" json:"createdAt"`
}

// View is the delivery shape of a message: the stored record plus, when the
// message replies to another, a rendered preview of the referenced message.
// Storage only keeps the reference id; the preview is resolved on read.
type View struct {
	Message
	Reply *ReplyPreview `json:"reply,omitempty"`
}

// ReplyPreview carries just enough of the referenced message to render a
// quote header: its sender and truncated content.
type ReplyPreview struct {
	ID       primitive.ObjectID `json:"id"`
	SenderID string             `json:"senderId"`
	Content  string             `json:"content"`
}

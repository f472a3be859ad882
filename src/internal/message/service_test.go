package message

import (
	"context"
	"testing"
	"time"

	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/internal/config"
	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeRepository struct {
	store        map[primitive.ObjectID]Message
	conversation []Message

	createErr    error
	findByIDsErr error

	lastLimit  int
	lastOffset int
	readPairs  [][2]string
	modified   int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{store: make(map[primitive.ObjectID]Message)}
}

func (f *fakeRepository) Create(ctx context.Context, msg *Message) (*Message, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	msg.ID = primitive.NewObjectID()
	f.store[msg.ID] = *msg
	return msg, nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Message, error) {
	msg, ok := f.store[id]
	if !ok {
		return nil, models.ErrMessageNotFound
	}
	return &msg, nil
}

func (f *fakeRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]Message, error) {
	if f.findByIDsErr != nil {
		return nil, f.findByIDsErr
	}
	var out []Message
	for _, id := range ids {
		if msg, ok := f.store[id]; ok {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (f *fakeRepository) FindConversation(ctx context.Context, userID, peerID string, limit, offset int) ([]Message, error) {
	f.lastLimit, f.lastOffset = limit, offset
	return f.conversation, nil
}

func (f *fakeRepository) MarkUnsent(ctx context.Context, id primitive.ObjectID) error {
	msg, ok := f.store[id]
	if !ok {
		return models.ErrMessageNotFound
	}
	msg.IsUnsent = true
	msg.Content = ""
	f.store[id] = msg
	return nil
}

func (f *fakeRepository) MarkConversationRead(ctx context.Context, readerID, peerID string) (int64, error) {
	f.readPairs = append(f.readPairs, [2]string{readerID, peerID})
	return f.modified, nil
}

func testConfig() *config.Configuration {
	cfg := &config.Configuration{}
	cfg.Messages.MaxContentLength = 500
	cfg.Messages.HistoryDefaultLimit = 50
	cfg.Messages.HistoryMaxLimit = 100
	cfg.Messages.ReplyPreviewLength = 12
	return cfg
}

func TestSendValidation(t *testing.T) {
	svc := NewMessageService(newFakeRepository(), testConfig())
	ctx := context.Background()

	cases := []struct {
		name     string
		sender   string
		receiver string
		content  string
		replyTo  string
		wantErr  error
	}{
		{"missing sender", "", "bob", "hi", "", models.ErrMissingParticipant},
		{"missing receiver", "alice", "", "hi", "", models.ErrMissingParticipant},
		{"blank content", "alice", "bob", "   ", "", models.ErrEmptyMessageContent},
		{"invalid reply id", "alice", "bob", "hi", "nonsense", models.ErrInvalidMessageID},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Send(ctx, tc.sender, tc.receiver, tc.content, tc.replyTo)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestSendRejectsOversizedContent(t *testing.T) {
	cfg := testConfig()
	cfg.Messages.MaxContentLength = 5
	svc := NewMessageService(newFakeRepository(), cfg)

	_, err := svc.Send(context.Background(), "alice", "bob", "too long here", "")
	assert.ErrorIs(t, err, models.ErrMessageTooLong)
}

func TestSendPersistsTrimmedMessage(t *testing.T) {
	repo := newFakeRepository()
	svc := NewMessageService(repo, testConfig())

	view, err := svc.Send(context.Background(), "alice", "bob", "  hello  ", "")
	require.NoError(t, err)

	assert.False(t, view.ID.IsZero())
	assert.Equal(t, "hello", view.Content)
	assert.False(t, view.IsRead)
	assert.False(t, view.CreatedAt.IsZero())
	assert.Nil(t, view.Reply)

	stored := repo.store[view.ID]
	assert.Equal(t, "hello", stored.Content)
}

func TestSendResolvesReplyPreview(t *testing.T) {
	repo := newFakeRepository()
	svc := NewMessageService(repo, testConfig())
	ctx := context.Background()

	original, err := svc.Send(ctx, "bob", "alice", "a rather long original message", "")
	require.NoError(t, err)

	view, err := svc.Send(ctx, "alice", "bob", "replying", original.ID.Hex())
	require.NoError(t, err)

	require.NotNil(t, view.ReplyTo)
	assert.Equal(t, original.ID, *view.ReplyTo)
	require.NotNil(t, view.Reply)
	assert.Equal(t, original.ID, view.Reply.ID)
	assert.Equal(t, "bob", view.Reply.SenderID)
	assert.Equal(t, "a rather lon", view.Reply.Content)
}

func TestSendUnknownReplyFails(t *testing.T) {
	svc := NewMessageService(newFakeRepository(), testConfig())

	_, err := svc.Send(context.Background(), "alice", "bob", "hi", primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, models.ErrReplyNotFound)
}

func TestSendSurfacesPersistenceFailure(t *testing.T) {
	repo := newFakeRepository()
	repo.createErr = models.ErrDatabaseInsert
	svc := NewMessageService(repo, testConfig())

	_, err := svc.Send(context.Background(), "alice", "bob", "hi", "")
	assert.ErrorIs(t, err, models.ErrDatabaseInsert)
}

func TestUnsendGuards(t *testing.T) {
	repo := newFakeRepository()
	svc := NewMessageService(repo, testConfig())
	ctx := context.Background()

	sent, err := svc.Send(ctx, "alice", "bob", "delete me", "")
	require.NoError(t, err)

	_, err = svc.Unsend(ctx, "alice", "not-an-id")
	assert.ErrorIs(t, err, models.ErrInvalidMessageID)

	_, err = svc.Unsend(ctx, "alice", primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, models.ErrMessageNotFound)

	_, err = svc.Unsend(ctx, "bob", sent.ID.Hex())
	assert.ErrorIs(t, err, models.ErrNotMessageSender)
}

func TestUnsendMarksAndBlanksMessage(t *testing.T) {
	repo := newFakeRepository()
	svc := NewMessageService(repo, testConfig())
	ctx := context.Background()

	sent, err := svc.Send(ctx, "alice", "bob", "delete me", "")
	require.NoError(t, err)

	msg, err := svc.Unsend(ctx, "alice", sent.ID.Hex())
	require.NoError(t, err)
	assert.True(t, msg.IsUnsent)
	assert.Empty(t, msg.Content)

	stored := repo.store[sent.ID]
	assert.True(t, stored.IsUnsent)
	assert.Empty(t, stored.Content)

	_, err = svc.Unsend(ctx, "alice", sent.ID.Hex())
	assert.ErrorIs(t, err, models.ErrMessageUnsent)
}

func TestHistoryRequiresBothParticipants(t *testing.T) {
	svc := NewMessageService(newFakeRepository(), testConfig())

	_, err := svc.History(context.Background(), "", "bob", 10, 0)
	assert.ErrorIs(t, err, models.ErrMissingParticipant)
}

func TestHistoryClampsPaging(t *testing.T) {
	repo := newFakeRepository()
	cfg := testConfig()
	svc := NewMessageService(repo, cfg)
	ctx := context.Background()

	_, err := svc.History(ctx, "alice", "bob", 0, -3)
	require.NoError(t, err)
	assert.Equal(t, cfg.Messages.HistoryDefaultLimit, repo.lastLimit)
	assert.Zero(t, repo.lastOffset)

	_, err = svc.History(ctx, "alice", "bob", 10000, 20)
	require.NoError(t, err)
	assert.Equal(t, cfg.Messages.HistoryMaxLimit, repo.lastLimit)
	assert.Equal(t, 20, repo.lastOffset)
}

func TestHistoryReturnsChronologicalOrder(t *testing.T) {
	repo := newFakeRepository()
	svc := NewMessageService(repo, testConfig())

	now := time.Now()
	repo.conversation = []Message{
		{ID: primitive.NewObjectID(), SenderID: "alice", ReceiverID: "bob", Content: "third", CreatedAt: now},
		{ID: primitive.NewObjectID(), SenderID: "bob", ReceiverID: "alice", Content: "second", CreatedAt: now.Add(-time.Minute)},
		{ID: primitive.NewObjectID(), SenderID: "alice", ReceiverID: "bob", Content: "first", CreatedAt: now.Add(-2 * time.Minute)},
	}

	views, err := svc.History(context.Background(), "alice", "bob", 10, 0)
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, "first", views[0].Content)
	assert.Equal(t, "second", views[1].Content)
	assert.Equal(t, "third", views[2].Content)
}

func TestHistoryExpandsReplyPreviews(t *testing.T) {
	repo := newFakeRepository()
	svc := NewMessageService(repo, testConfig())

	original := Message{
		ID:         primitive.NewObjectID(),
		SenderID:   "bob",
		ReceiverID: "alice",
		Content:    "original",
		CreatedAt:  time.Now().Add(-time.Hour),
	}
	repo.store[original.ID] = original
	repo.conversation = []Message{{
		ID:         primitive.NewObjectID(),
		SenderID:   "alice",
		ReceiverID: "bob",
		Content:    "reply",
		ReplyTo:    &original.ID,
		CreatedAt:  time.Now(),
	}}

	views, err := svc.History(context.Background(), "alice", "bob", 10, 0)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.NotNil(t, views[0].Reply)
	assert.Equal(t, "original", views[0].Reply.Content)
	assert.Equal(t, "bob", views[0].Reply.SenderID)
}

func TestHistorySurvivesPreviewLookupFailure(t *testing.T) {
	repo := newFakeRepository()
	svc := NewMessageService(repo, testConfig())

	oid := primitive.NewObjectID()
	repo.conversation = []Message{{
		ID:         primitive.NewObjectID(),
		SenderID:   "alice",
		ReceiverID: "bob",
		Content:    "reply",
		ReplyTo:    &oid,
	}}
	repo.findByIDsErr = models.ErrDatabaseQuery

	views, err := svc.History(context.Background(), "alice", "bob", 10, 0)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Nil(t, views[0].Reply)
}

func TestMarkRead(t *testing.T) {
	repo := newFakeRepository()
	repo.modified = 3
	svc := NewMessageService(repo, testConfig())

	updated, err := svc.MarkRead(context.Background(), "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated)
	require.Len(t, repo.readPairs, 1)
	assert.Equal(t, [2]string{"alice", "bob"}, repo.readPairs[0])

	_, err = svc.MarkRead(context.Background(), "", "bob")
	assert.ErrorIs(t, err, models.ErrMissingParticipant)
}

package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/internal/cache"
	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/internal/config"
	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/internal/message"
	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/internal/models"

	"github.com/sirupsen/logrus"
)

// PresencePublisher pushes presence telemetry to the message broker. Delivery
// to clients never depends on it.
type PresencePublisher interface {
	PublishPresence(userID, action, activity, serviceName string) error
}

// Router receives every inbound event, resolves target connections through
// the registry and emits outbound events. Directed delivery is best-effort:
// an offline target drops the event silently. A handler failure never
// terminates the connection; where user-facing it is reported only to the
// originating connection.
type Router struct {
	mu       sync.Mutex
	registry *Registry
	tracker  *Tracker
	messages message.Service
	cache    cache.Service
	queue    PresencePublisher
	cfg      *config.Configuration
}

func NewRouter(registry *Registry, tracker *Tracker, messages message.Service, cacheService cache.Service, queue PresencePublisher, cfg *config.Configuration) *Router {
	return &Router{
		registry: registry,
		tracker:  tracker,
		messages: messages,
		cache:    cacheService,
		queue:    queue,
		cfg:      cfg,
	}
}

// HandleInbound dispatches one raw frame from a connection. Malformed frames
// and unknown events are logged and dropped.
func (r *Router) HandleInbound(conn Conn, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logrus.WithError(err).WithField("connection_id", conn.ID()).Warn("Dropping malformed frame")
		return
	}

	switch env.Event {
	case EventUserConnected:
		r.handleBind(conn, env.Data)
	case EventUpdateActivity:
		r.handleUpdateActivity(conn, env.Data)
	case EventProfileUpdated:
		r.handleProfileUpdated(conn, env.Data)
	case EventFollowRequest:
		r.handleFollowEvent(conn, EventFollowRequest, env.Data)
	case EventFollowBackRequest:
		r.handleFollowEvent(conn, EventFollowBackRequest, env.Data)
	case EventFollowAccepted:
		r.handleFollowAccepted(conn, env.Data)
	case EventFollowBackAvailable:
		r.handleFollowBackAvailable(conn, env.Data)
	case EventSendMessage:
		r.handleSendMessage(conn, env.Data)
	default:
		logrus.WithFields(logrus.Fields{
			"event":         env.Event,
			"connection_id": conn.ID(),
		}).Debug("Ignoring unknown event")
	}
}

// Disconnect releases whatever a closing connection held. Safe for
// connections that never bound and for connections already replaced by a
// fast reconnect; neither case broadcasts.
func (r *Router) Disconnect(conn Conn) {
	r.mu.Lock()
	identity, ok := r.registry.Unbind(conn)
	if ok {
		r.tracker.Remove(identity)
		r.broadcast(EventUserDisconnected, identity)
	}
	r.mu.Unlock()

	if !ok {
		return
	}

	logrus.WithFields(logrus.Fields{
		"user_id":       identity,
		"connection_id": conn.ID(),
	}).Info("User disconnected")

	ctx, cancel := r.opContext()
	defer cancel()
	if err := r.cache.SaveLastSeen(ctx, identity, time.Now()); err != nil {
		logrus.WithError(err).WithField("user_id", identity).Warn("Failed to record last-seen timestamp")
	}

	r.publishPresence(identity, models.ActionDisconnected, "", models.ServiceRealtimeLifecycle)
}

// handleBind records the identity behind a connection and announces it: every
// connection learns about the new user and the current activity snapshot, the
// binding connection additionally receives the full online list.
func (r *Router) handleBind(conn Conn, data json.RawMessage) {
	var identity string
	if err := json.Unmarshal(data, &identity); err != nil || identity == "" {
		logrus.WithField("connection_id", conn.ID()).Warn("Dropping user_connected event without identity")
		return
	}

	r.mu.Lock()
	r.registry.Bind(identity, conn)
	r.tracker.Reset(identity)
	r.broadcast(EventUserConnected, identity)
	r.sendTo(conn, EventUsersOnline, r.registry.Online())
	r.broadcast(EventActivities, r.tracker.Snapshot())
	r.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"user_id":       identity,
		"connection_id": conn.ID(),
	}).Info("User connected")

	r.publishPresence(identity, models.ActionConnected, r.cfg.Realtime.DefaultActivity, models.ServiceRealtimeLifecycle)
}

func (r *Router) handleUpdateActivity(conn Conn, data json.RawMessage) {
	var payload ActivityEntry
	if err := json.Unmarshal(data, &payload); err != nil || payload.UserID == "" {
		logrus.WithField("connection_id", conn.ID()).Warn("Dropping update_activity event without user id")
		return
	}

	r.mu.Lock()
	r.tracker.Set(payload.UserID, payload.Activity)
	r.broadcast(EventActivityUpdated, payload)
	r.mu.Unlock()

	r.publishPresence(payload.UserID, models.ActionActivityChanged, payload.Activity, models.ServiceRealtimeActivity)
}

// handleProfileUpdated relays the updated user object to every connection
// unchanged. The router does not inspect it.
func (r *Router) handleProfileUpdated(conn Conn, data json.RawMessage) {
	if len(data) == 0 {
		logrus.WithField("connection_id", conn.ID()).Warn("Dropping profile_updated event without payload")
		return
	}

	r.broadcast(EventProfileUpdated, data)
}

// handleFollowEvent covers follow_request and follow_back_request: both carry
// an explicit target, and the target id is stripped before delivery.
func (r *Router) handleFollowEvent(conn Conn, event string, data json.RawMessage) {
	var payload FollowRequestPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.TargetUserID == "" || payload.RequesterID == "" {
		logrus.WithFields(logrus.Fields{
			"event":         event,
			"connection_id": conn.ID(),
		}).Warn("Dropping follow event with missing fields")
		return
	}

	target, ok := r.registry.Lookup(payload.TargetUserID)
	if !ok {
		logrus.WithFields(logrus.Fields{
			"event":     event,
			"target_id": payload.TargetUserID,
		}).Debug("Target offline, dropping event")
		return
	}

	payload.TargetUserID = ""
	r.sendTo(target, event, payload)
}

func (r *Router) handleFollowAccepted(conn Conn, data json.RawMessage) {
	var payload FollowAcceptedPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.RequesterID == "" || payload.AccepterID == "" {
		logrus.WithField("connection_id", conn.ID()).Warn("Dropping follow_accepted event with missing fields")
		return
	}

	target, ok := r.registry.Lookup(payload.RequesterID)
	if !ok {
		logrus.WithField("target_id", payload.RequesterID).Debug("Requester offline, dropping follow_accepted")
		return
	}

	payload.RequesterID = ""
	r.sendTo(target, EventFollowAccepted, payload)
}

// handleFollowBackAvailable routes back to the sender's own identity: the
// payload carries no target, so the target is whichever connection currently
// holds the sending connection's bound identity. After a fast reconnect that
// may be a newer connection than the one this event arrived on.
func (r *Router) handleFollowBackAvailable(conn Conn, data json.RawMessage) {
	var payload FollowBackAvailablePayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.UserID == "" {
		logrus.WithField("connection_id", conn.ID()).Warn("Dropping follow_back_available event with missing fields")
		return
	}

	identity, ok := r.registry.IdentityOf(conn)
	if !ok {
		logrus.WithField("connection_id", conn.ID()).Debug("Sender not bound, dropping follow_back_available")
		return
	}

	target, ok := r.registry.Lookup(identity)
	if !ok {
		return
	}

	r.sendTo(target, EventFollowBackAvailable, payload)
}

// handleSendMessage persists through the message service, pushes the message
// to the receiver when online and always acknowledges to the sender's own
// connection. Persistence failures surface to the sender only.
func (r *Router) handleSendMessage(conn Conn, data json.RawMessage) {
	var payload SendMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		logrus.WithField("connection_id", conn.ID()).Warn("Dropping malformed send_message event")
		return
	}

	ctx, cancel := r.opContext()
	defer cancel()

	view, err := r.messages.Send(ctx, payload.SenderID, payload.ReceiverID, payload.Content, payload.ReplyTo)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"sender_id":   payload.SenderID,
			"receiver_id": payload.ReceiverID,
		}).Warn("Failed to send message")
		r.sendTo(conn, EventMessageError, MessageErrorPayload{Error: describeSendError(err)})
		return
	}

	if target, ok := r.registry.Lookup(payload.ReceiverID); ok {
		r.sendTo(target, EventReceiveMessage, view)
	}
	r.sendTo(conn, EventMessageSent, view)
}

func (r *Router) broadcast(event string, data interface{}) {
	for _, conn := range r.registry.Connections() {
		r.sendTo(conn, event, data)
	}
}

func (r *Router) sendTo(conn Conn, event string, data interface{}) {
	if err := conn.Send(event, data); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"event":         event,
			"connection_id": conn.ID(),
		}).Debug("Dropping event for connection")
	}
}

func (r *Router) publishPresence(userID, action, activity, serviceName string) {
	if r.queue == nil {
		return
	}
	if err := r.queue.PublishPresence(userID, action, activity, serviceName); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"action":  action,
		}).Warn("Failed to publish presence event")
	}
}

func (r *Router) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(r.cfg.App.Timeout)*time.Second)
}

func describeSendError(err error) string {
	switch {
	case errors.Is(err, models.ErrEmptyMessageContent):
		return "Message content is empty"
	case errors.Is(err, models.ErrMessageTooLong):
		return "Message content exceeds limit"
	case errors.Is(err, models.ErrMissingParticipant):
		return "Sender and receiver are required"
	case errors.Is(err, models.ErrInvalidMessageID):
		return "Invalid reply reference"
	case errors.Is(err, models.ErrReplyNotFound):
		return "Replied-to message not found"
	default:
		return "Failed to send message"
	}
}

package realtime

import "encoding/json"

// Inbound event names accepted from clients.
const (
	EventUserConnected       = "user_connected"
	EventUpdateActivity      = "update_activity"
	EventProfileUpdated      = "profile_updated"
	EventFollowRequest       = "follow_request"
	EventFollowAccepted      = "follow_accepted"
	EventFollowBackRequest   = "follow_back_request"
	EventFollowBackAvailable = "follow_back_available"
	EventSendMessage         = "send_message"
)

// Outbound event names emitted to clients.
const (
	EventUsersOnline      = "users_online"
	EventActivities       = "activities"
	EventActivityUpdated  = "activity_updated"
	EventReceiveMessage   = "receive_message"
	EventMessageSent      = "message_sent"
	EventMessageError     = "message_error"
	EventUserDisconnected = "user_disconnected"
)

// Envelope is the wire frame for every event in both directions. Data is kept
// raw so each handler decodes only the payload it expects.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// ActivityEntry pairs a user with their current activity label. Used both for
// the activity_updated broadcast and as the element of the activities snapshot.
type ActivityEntry struct {
	UserID   string `json:"userId"`
	Activity string `json:"activity"`
}

// FollowRequestPayload is shared by follow_request and follow_back_request.
// TargetUserID only routes the event; it is cleared before delivery.
type FollowRequestPayload struct {
	TargetUserID      string `json:"targetUserId,omitempty"`
	RequesterID       string `json:"requesterId"`
	RequesterName     string `json:"requesterName"`
	RequesterImageURL string `json:"requesterImageUrl"`
}

// FollowAcceptedPayload routes to the original requester. RequesterID only
// routes the event; it is cleared before delivery.
type FollowAcceptedPayload struct {
	RequesterID      string `json:"requesterId,omitempty"`
	AccepterID       string `json:"accepterId"`
	AccepterName     string `json:"accepterName"`
	AccepterImageURL string `json:"accepterImageUrl"`
}

// FollowBackAvailablePayload is delivered back to the sender's own identity.
// No routing field: the target is whichever connection the sender's identity
// is currently bound to.
type FollowBackAvailablePayload struct {
	UserID       string `json:"userId"`
	UserName     string `json:"userName"`
	UserImageURL string `json:"userImageUrl"`
}

type SendMessagePayload struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
	ReplyTo    string `json:"replyTo,omitempty"`
}

type MessageErrorPayload struct {
	Error string `json:"error"`
}

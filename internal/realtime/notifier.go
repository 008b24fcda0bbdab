package realtime

import (
	"log/slog"

	"wakili/internal/ws"

	"github.com/google/uuid"
)

// RelationshipEvent is the wire payload for a state change. MyRole is
// filled per recipient at delivery time: "sender" on the actor's own
// sockets, "receiver" on the counterpart's.
type RelationshipEvent struct {
	EventID    string `json:"event_id"`
	Type       string `json:"type"`
	SenderID   uint   `json:"sender_id"`
	ReceiverID uint   `json:"receiver_id"`
	State      string `json:"relationship_state"`
	MyRole     string `json:"my_role,omitempty"`
}

// Notifier fans out state-change events to the connected sessions of the
// affected users. All methods are fire-and-forget: delivery failure is
// never a request error, and a user without a live session is skipped.
type Notifier interface {
	RelationshipChanged(senderID, receiverID uint, state string)
	Stats(payload map[string]interface{})
}

// HubNotifier delivers through the local websocket hub, optionally
// routing events through a pub/sub bridge first so other instances see
// them too.
type HubNotifier struct {
	hub    *ws.Hub
	bridge *RedisBridge
	log    *slog.Logger
}

func NewHubNotifier(hub *ws.Hub, bridge *RedisBridge, log *slog.Logger) *HubNotifier {
	return &HubNotifier{hub: hub, bridge: bridge, log: log}
}

func (n *HubNotifier) RelationshipChanged(senderID, receiverID uint, state string) {
	ev := RelationshipEvent{
		EventID:    uuid.New().String(),
		Type:       "relationship_state",
		SenderID:   senderID,
		ReceiverID: receiverID,
		State:      state,
	}
	if n.bridge != nil {
		if err := n.bridge.Publish(ev); err == nil {
			// The subscription loop delivers locally on every instance,
			// this one included.
			return
		}
		n.log.Warn("event publish failed, delivering locally", "event_id", ev.EventID)
	}
	n.Deliver(ev)
}

// Deliver pushes the event to both affected users' local sessions with
// the per-recipient role computed.
func (n *HubNotifier) Deliver(ev RelationshipEvent) {
	for _, userID := range []uint{ev.SenderID, ev.ReceiverID} {
		out := ev
		if userID == ev.SenderID {
			out.MyRole = "sender"
		} else {
			out.MyRole = "receiver"
		}
		n.hub.SendToUser(userID, out)
	}
}

func (n *HubNotifier) Stats(payload map[string]interface{}) {
	n.hub.Broadcast(payload)
}

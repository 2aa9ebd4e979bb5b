package realtime

// Wire-level event names. Clients key their handlers on these, so they
// are fixed for compatibility.
const (
	EventNewNotification    = "newNotification"
	EventUnreadTotalUpdated = "unreadTotalUpdated"
)

// Event is a realtime payload pushed to connected clients. Type is the
// wire event name, Data an arbitrary JSON-serialisable body.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Channel is the capability the delivery pipeline holds for pushing to
// live clients. Pushes are best-effort hints: the pull API remains the
// source of truth, so implementations must never block the caller.
type Channel interface {
	PushToUser(userID uint, ev Event)
	PushToAdmin(ev Event)
}

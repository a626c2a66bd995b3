package models

// QueueItem is one pending local mutation. At most one item exists per
// (Type, ID): queuing a new change replaces the previous one, so the
// queue tracks "needs sync", not a change log.
//
// Dead marks items that exhausted their retry budget; they are never
// processed automatically and must be resurrected explicitly.
// Resurrections counts how many times that has happened.
type QueueItem struct {
	Type          EntityType
	ID            string
	Op            Operation
	Attempts      int
	LastError     string
	Dead          bool
	Resurrections int
}

// QueueCounts summarizes the queue for status reporting.
type QueueCounts struct {
	Pending int
	Dead    int
}

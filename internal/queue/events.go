package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the activity stream
const (
	EventActivityCreated = "activity_created"
	EventUserFollowed    = "user_followed"
	EventUserUnfollowed  = "user_unfollowed"
)

// Stream names
const (
	StreamActivity = "stream:activity"
)

// Consumer group name for feed workers
const (
	ConsumerGroupFeed = "feed_workers"
)

// ActivityEvent is an event published to the activity stream after a
// mutating operation commits. It only carries ids: the worker reads current
// state from the database, so a delayed event can never resurrect state the
// request path already replaced.
type ActivityEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix timestamp when event occurred

	// ActivityCreated
	ActivityID int64 `json:"activity_id,omitempty"`
	ActorID    int64 `json:"actor_id,omitempty"`

	// UserFollowed / UserUnfollowed (user-kind targets only)
	FollowerID int64 `json:"follower_id,omitempty"`
	FolloweeID int64 `json:"followee_id,omitempty"`
}

// NewActivityCreatedEvent signals a fresh activity entry. The worker fans it
// out to the actor's followers' feed caches.
func NewActivityCreatedEvent(activityID, actorID int64) ActivityEvent {
	return ActivityEvent{
		Type:       EventActivityCreated,
		Timestamp:  time.Now().Unix(),
		ActivityID: activityID,
		ActorID:    actorID,
	}
}

// NewUserFollowedEvent signals a new user-to-user edge. The worker backfills
// the followee's recent activity into the follower's feed cache.
func NewUserFollowedEvent(followerID, followeeID int64) ActivityEvent {
	return ActivityEvent{
		Type:       EventUserFollowed,
		Timestamp:  time.Now().Unix(),
		FollowerID: followerID,
		FolloweeID: followeeID,
	}
}

// NewUserUnfollowedEvent signals a removed user-to-user edge. The worker
// prunes the followee's activity from the follower's feed cache.
func NewUserUnfollowedEvent(followerID, followeeID int64) ActivityEvent {
	return ActivityEvent{
		Type:       EventUserUnfollowed,
		Timestamp:  time.Now().Unix(),
		FollowerID: followerID,
		FolloweeID: followeeID,
	}
}

// ToMap converts the event to a map for Redis XADD. Streams store
// field-value pairs, so the event is serialized to JSON in a "data" field.
func (e ActivityEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseActivityEvent parses an ActivityEvent from Redis stream message values.
func ParseActivityEvent(values map[string]interface{}) (ActivityEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return ActivityEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event ActivityEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return ActivityEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}

package model

import "time"

// Activity kinds. Each mutating operation appends exactly one entry of the
// matching kind; entries are immutable once written.
const (
	ActivityFollow    = "follow"
	ActivityWatchlist = "watchlist"
	ActivitySeen      = "seen"
)

// Activity is one append-only entry in a user's activity log, denormalized
// to render without further lookups ("started following Greta Gerwig",
// "watched The Matrix", ...).
type Activity struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Kind      string    `db:"kind" json:"kind"`
	Content   string    `db:"content" json:"content"`
	TargetID  string    `db:"target_id" json:"target_id"`
	Image     string    `db:"image" json:"image"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ActivityScore pairs an activity id with its creation time as a unix
// timestamp, the shape the feed cache stores.
type ActivityScore struct {
	ActivityID int64 `db:"id"`
	Timestamp  int64 `db:"ts"`
}

// FeedItem is an activity entry enriched with its author for the follower feed.
type FeedItem struct {
	Activity
	ActorUsername string  `db:"actor_username" json:"actor_username"`
	ActorPicture  *string `db:"actor_picture" json:"actor_picture"`
}

// FeedResponse is the cursor-paginated follower feed.
type FeedResponse struct {
	Items      []FeedItem `json:"items"`
	NextCursor *string    `json:"next_cursor,omitempty"`
	HasMore    bool       `json:"has_more"`
}

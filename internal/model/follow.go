package model

import (
	"errors"
	"time"
)

// Follow target kinds. A target is either another user in this system or an
// external catalog person (actor/director) with no record of its own.
const (
	TargetKindUser   = "user"
	TargetKindPerson = "person"
)

// FollowingEntry is one outgoing edge as seen from the follower's side.
// Name and image are denormalized at follow time so person targets can be
// rendered without a catalog round trip.
type FollowingEntry struct {
	TargetID    string    `db:"target_id" json:"target_id"`
	TargetKind  string    `db:"target_kind" json:"target_kind"`
	TargetName  string    `db:"target_name" json:"target_name"`
	TargetImage string    `db:"target_image" json:"target_image"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// FollowerEntry is one incoming edge as seen from the followed user's side.
// It only ever exists for user targets; person targets have no record to
// carry a followers list.
type FollowerEntry struct {
	FollowerID      int64     `db:"follower_id" json:"follower_id"`
	FollowerName    string    `db:"follower_username" json:"follower_username"`
	FollowerPicture *string   `db:"follower_picture" json:"follower_picture"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// FollowRequest is the request body for POST /users/follow
type FollowRequest struct {
	TargetID string `json:"target_id"`
	Name     string `json:"name"`
	Image    string `json:"image"`
	Kind     string `json:"kind"`
}

// UnfollowRequest is the request body for POST /users/unfollow
type UnfollowRequest struct {
	TargetID string `json:"target_id"`
	Kind     string `json:"kind"`
}

var (
	ErrAlreadyFollowing  = errors.New("already following this target")
	ErrCannotFollowSelf  = errors.New("cannot follow yourself")
	ErrInvalidTargetKind = errors.New("target kind must be 'user' or 'person'")
)

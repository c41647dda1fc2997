package service

import (
	"context"
	"log"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/Rtvk-001/FilmHive/internal/database"
	"github.com/Rtvk-001/FilmHive/internal/model"
	"github.com/Rtvk-001/FilmHive/internal/queue"
	"github.com/Rtvk-001/FilmHive/internal/repository"
)

// FollowService owns the follow graph. An edge targets either another user
// or an external catalog person; user edges also feed the target's followers
// view and counter. Because the edge, both counters, and the activity entry
// are written in one transaction, the graph can never end up one-sided.
type FollowService struct {
	txRunner     database.TxRunner
	followRepo   repository.FollowRepository
	userRepo     repository.UserRepository
	activityRepo repository.ActivityRepository
	publisher    queue.Publisher
}

func NewFollowService(
	txRunner database.TxRunner,
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	activityRepo repository.ActivityRepository,
	publisher queue.Publisher,
) *FollowService {
	return &FollowService{
		txRunner:     txRunner,
		followRepo:   followRepo,
		userRepo:     userRepo,
		activityRepo: activityRepo,
		publisher:    publisher,
	}
}

// Follow adds an edge from the actor to the target and returns the actor's
// updated following list.
func (s *FollowService) Follow(ctx context.Context, actorID int64, req *model.FollowRequest) ([]model.FollowingEntry, error) {
	if req.Kind != model.TargetKindUser && req.Kind != model.TargetKindPerson {
		return nil, model.ErrInvalidTargetKind
	}

	// User targets are validated before anything is written, so a missing
	// target can never leave a half-applied edge behind.
	var targetUserID int64
	if req.Kind == model.TargetKindUser {
		id, err := strconv.ParseInt(req.TargetID, 10, 64)
		if err != nil {
			return nil, model.ErrUserNotFound
		}
		if id == actorID {
			return nil, model.ErrCannotFollowSelf
		}
		if _, err := s.userRepo.GetByID(ctx, id); err != nil {
			return nil, err
		}
		targetUserID = id
	}

	activity := &model.Activity{
		UserID:   actorID,
		Kind:     model.ActivityFollow,
		Content:  "started following " + req.Name,
		TargetID: req.TargetID,
		Image:    req.Image,
	}

	err := s.txRunner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		inserted, err := s.followRepo.Create(ctx, tx, actorID, req)
		if err != nil {
			return err
		}
		if !inserted {
			return model.ErrAlreadyFollowing
		}

		if err := s.userRepo.IncrementFollowingCount(ctx, tx, actorID, 1); err != nil {
			return err
		}

		// Person targets have no record of their own; only user targets
		// carry a follower count and followers view.
		if req.Kind == model.TargetKindUser {
			if err := s.userRepo.IncrementFollowerCount(ctx, tx, targetUserID, 1); err != nil {
				return err
			}
		}

		return s.activityRepo.Create(ctx, tx, activity)
	})
	if err != nil {
		return nil, err
	}

	// Feed fan-out happens after commit; a queue failure degrades the feed
	// cache, never the follow itself.
	if s.publisher != nil {
		if _, err := s.publisher.Publish(ctx, queue.StreamActivity, queue.NewActivityCreatedEvent(activity.ID, actorID)); err != nil {
			log.Printf("[FollowService] Failed to publish ActivityCreated: actor=%d activity=%d err=%v",
				actorID, activity.ID, err)
		}
		if req.Kind == model.TargetKindUser {
			if _, err := s.publisher.Publish(ctx, queue.StreamActivity, queue.NewUserFollowedEvent(actorID, targetUserID)); err != nil {
				log.Printf("[FollowService] Failed to publish UserFollowed: follower=%d followee=%d err=%v",
					actorID, targetUserID, err)
			}
		}
	}

	return s.followRepo.ListFollowing(ctx, actorID)
}

// Unfollow removes the edge if present and returns the actor's updated
// following list. Removing an absent edge is a no-op, not an error, so
// concurrent unfollows of the same edge both succeed and neither decrements
// a counter twice.
func (s *FollowService) Unfollow(ctx context.Context, actorID int64, req *model.UnfollowRequest) ([]model.FollowingEntry, error) {
	if req.Kind != model.TargetKindUser && req.Kind != model.TargetKindPerson {
		return nil, model.ErrInvalidTargetKind
	}

	var targetUserID int64
	if req.Kind == model.TargetKindUser {
		id, err := strconv.ParseInt(req.TargetID, 10, 64)
		if err != nil {
			// Nothing to unfollow under an id users can't have.
			return s.followRepo.ListFollowing(ctx, actorID)
		}
		targetUserID = id
	}

	var deleted bool
	err := s.txRunner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		deleted, err = s.followRepo.Delete(ctx, tx, actorID, req.TargetID, req.Kind)
		if err != nil {
			return err
		}
		if !deleted {
			return nil
		}

		if err := s.userRepo.IncrementFollowingCount(ctx, tx, actorID, -1); err != nil {
			return err
		}
		if req.Kind == model.TargetKindUser {
			if err := s.userRepo.IncrementFollowerCount(ctx, tx, targetUserID, -1); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if deleted && req.Kind == model.TargetKindUser && s.publisher != nil {
		if _, err := s.publisher.Publish(ctx, queue.StreamActivity, queue.NewUserUnfollowedEvent(actorID, targetUserID)); err != nil {
			log.Printf("[FollowService] Failed to publish UserUnfollowed: follower=%d followee=%d err=%v",
				actorID, targetUserID, err)
		}
	}

	return s.followRepo.ListFollowing(ctx, actorID)
}

// GetFollowers returns the mirrored view of the edge table for a user.
func (s *FollowService) GetFollowers(ctx context.Context, userID int64) ([]model.FollowerEntry, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.ListFollowers(ctx, userID)
}

// GetFollowing returns a user's outgoing edges.
func (s *FollowService) GetFollowing(ctx context.Context, userID int64) ([]model.FollowingEntry, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.ListFollowing(ctx, userID)
}

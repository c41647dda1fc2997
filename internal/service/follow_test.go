package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Rtvk-001/FilmHive/internal/model"
	"github.com/Rtvk-001/FilmHive/internal/queue"
)

func newFollowServiceForTest(userRepo *mockUserRepository, followRepo *mockFollowRepository, activityRepo *mockActivityRepository, pub *mockPublisher) (*FollowService, *mockTxRunner) {
	tx := &mockTxRunner{}
	return NewFollowService(tx, followRepo, userRepo, activityRepo, pub), tx
}

func existingUser(id int64, username string) func(ctx context.Context, userID int64) (*model.User, error) {
	return func(ctx context.Context, userID int64) (*model.User, error) {
		if userID == id {
			return &model.User{ID: id, Username: username}, nil
		}
		return nil, model.ErrUserNotFound
	}
}

func TestFollowService_Follow_UserTarget(t *testing.T) {
	userRepo := &mockUserRepository{getByIDFn: existingUser(2, "bob")}
	followRepo := &mockFollowRepository{}
	activityRepo := &mockActivityRepository{}
	pub := &mockPublisher{}
	svc, tx := newFollowServiceForTest(userRepo, followRepo, activityRepo, pub)

	_, err := svc.Follow(context.Background(), 1, &model.FollowRequest{
		TargetID: "2",
		Name:     "bob",
		Kind:     model.TargetKindUser,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if tx.commits != 1 {
		t.Errorf("commits = %d, want 1", tx.commits)
	}

	// Both counters move, each by exactly +1.
	if len(userRepo.followingDeltas) != 1 || userRepo.followingDeltas[0] != (counterDelta{UserID: 1, Delta: 1}) {
		t.Errorf("following deltas = %v, want one +1 for user 1", userRepo.followingDeltas)
	}
	if len(userRepo.followerDeltas) != 1 || userRepo.followerDeltas[0] != (counterDelta{UserID: 2, Delta: 1}) {
		t.Errorf("follower deltas = %v, want one +1 for user 2", userRepo.followerDeltas)
	}

	// Exactly one activity entry, in the follow shape.
	if len(activityRepo.createCalls) != 1 {
		t.Fatalf("activity creates = %d, want 1", len(activityRepo.createCalls))
	}
	activity := activityRepo.createCalls[0]
	if activity.Kind != model.ActivityFollow {
		t.Errorf("activity kind = %q, want %q", activity.Kind, model.ActivityFollow)
	}
	if activity.Content != "started following bob" {
		t.Errorf("activity content = %q", activity.Content)
	}

	// Commit is followed by both fan-out events.
	if len(pub.published) != 2 {
		t.Fatalf("published events = %d, want 2", len(pub.published))
	}
	if pub.published[0].Event.Type != queue.EventActivityCreated {
		t.Errorf("first event = %q, want %q", pub.published[0].Event.Type, queue.EventActivityCreated)
	}
	if pub.published[1].Event.Type != queue.EventUserFollowed {
		t.Errorf("second event = %q, want %q", pub.published[1].Event.Type, queue.EventUserFollowed)
	}
}

func TestFollowService_Follow_PersonTargetSkipsFollowerState(t *testing.T) {
	userRepo := &mockUserRepository{}
	followRepo := &mockFollowRepository{}
	activityRepo := &mockActivityRepository{}
	pub := &mockPublisher{}
	svc, _ := newFollowServiceForTest(userRepo, followRepo, activityRepo, pub)

	_, err := svc.Follow(context.Background(), 1, &model.FollowRequest{
		TargetID: "500",
		Name:     "Greta Gerwig",
		Kind:     model.TargetKindPerson,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	// A person has no account: only the actor's following count moves.
	if len(userRepo.followerDeltas) != 0 {
		t.Errorf("follower deltas = %v, want none for person target", userRepo.followerDeltas)
	}
	if len(userRepo.followingDeltas) != 1 {
		t.Errorf("following deltas = %v, want one", userRepo.followingDeltas)
	}

	// No follow backfill event for person targets.
	for _, p := range pub.published {
		if p.Event.Type == queue.EventUserFollowed {
			t.Error("UserFollowed event published for person target")
		}
	}
}

func TestFollowService_Follow_Self(t *testing.T) {
	userRepo := &mockUserRepository{getByIDFn: existingUser(1, "alice")}
	followRepo := &mockFollowRepository{}
	svc, tx := newFollowServiceForTest(userRepo, followRepo, &mockActivityRepository{}, &mockPublisher{})

	_, err := svc.Follow(context.Background(), 1, &model.FollowRequest{
		TargetID: "1",
		Name:     "alice",
		Kind:     model.TargetKindUser,
	})
	if !errors.Is(err, model.ErrCannotFollowSelf) {
		t.Fatalf("error = %v, want ErrCannotFollowSelf", err)
	}
	if followRepo.createCalls != 0 {
		t.Error("edge insert attempted for self-follow")
	}
	if tx.commits != 0 || tx.rollbacks != 0 {
		t.Error("transaction started for self-follow")
	}
}

func TestFollowService_Follow_TargetNotFound(t *testing.T) {
	userRepo := &mockUserRepository{} // GetByID defaults to not found
	followRepo := &mockFollowRepository{}
	svc, tx := newFollowServiceForTest(userRepo, followRepo, &mockActivityRepository{}, &mockPublisher{})

	_, err := svc.Follow(context.Background(), 1, &model.FollowRequest{
		TargetID: "999",
		Name:     "ghost",
		Kind:     model.TargetKindUser,
	})
	if !errors.Is(err, model.ErrUserNotFound) {
		t.Fatalf("error = %v, want ErrUserNotFound", err)
	}

	// Target resolution happens before any write.
	if followRepo.createCalls != 0 || tx.commits != 0 {
		t.Error("writes attempted for missing target")
	}
}

func TestFollowService_Follow_Duplicate(t *testing.T) {
	userRepo := &mockUserRepository{getByIDFn: existingUser(2, "bob")}
	followRepo := &mockFollowRepository{
		createFn: func(ctx context.Context, followerID int64, req *model.FollowRequest) (bool, error) {
			return false, nil // edge already exists
		},
	}
	activityRepo := &mockActivityRepository{}
	pub := &mockPublisher{}
	svc, tx := newFollowServiceForTest(userRepo, followRepo, activityRepo, pub)

	_, err := svc.Follow(context.Background(), 1, &model.FollowRequest{
		TargetID: "2",
		Name:     "bob",
		Kind:     model.TargetKindUser,
	})
	if !errors.Is(err, model.ErrAlreadyFollowing) {
		t.Fatalf("error = %v, want ErrAlreadyFollowing", err)
	}

	// The duplicate rolls everything back: no counters, no activity, no events.
	if tx.rollbacks != 1 {
		t.Errorf("rollbacks = %d, want 1", tx.rollbacks)
	}
	if len(userRepo.followingDeltas) != 0 && tx.commits > 0 {
		t.Error("counter bump survived a rolled-back follow")
	}
	if len(activityRepo.createCalls) != 0 {
		t.Error("activity recorded for duplicate follow")
	}
	if len(pub.published) != 0 {
		t.Error("events published for duplicate follow")
	}
}

func TestFollowService_Follow_InvalidKind(t *testing.T) {
	svc, _ := newFollowServiceForTest(&mockUserRepository{}, &mockFollowRepository{}, &mockActivityRepository{}, &mockPublisher{})

	_, err := svc.Follow(context.Background(), 1, &model.FollowRequest{
		TargetID: "2",
		Name:     "bob",
		Kind:     "band",
	})
	if !errors.Is(err, model.ErrInvalidTargetKind) {
		t.Fatalf("error = %v, want ErrInvalidTargetKind", err)
	}
}

func TestFollowService_Unfollow_UserTarget(t *testing.T) {
	userRepo := &mockUserRepository{}
	followRepo := &mockFollowRepository{}
	pub := &mockPublisher{}
	svc, tx := newFollowServiceForTest(userRepo, followRepo, &mockActivityRepository{}, pub)

	_, err := svc.Unfollow(context.Background(), 1, &model.UnfollowRequest{
		TargetID: "2",
		Kind:     model.TargetKindUser,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if tx.commits != 1 {
		t.Errorf("commits = %d, want 1", tx.commits)
	}
	if len(userRepo.followingDeltas) != 1 || userRepo.followingDeltas[0] != (counterDelta{UserID: 1, Delta: -1}) {
		t.Errorf("following deltas = %v, want one -1 for user 1", userRepo.followingDeltas)
	}
	if len(userRepo.followerDeltas) != 1 || userRepo.followerDeltas[0] != (counterDelta{UserID: 2, Delta: -1}) {
		t.Errorf("follower deltas = %v, want one -1 for user 2", userRepo.followerDeltas)
	}

	if len(pub.published) != 1 || pub.published[0].Event.Type != queue.EventUserUnfollowed {
		t.Errorf("published = %v, want one UserUnfollowed", pub.published)
	}
}

func TestFollowService_Unfollow_AbsentEdgeIsNoOp(t *testing.T) {
	userRepo := &mockUserRepository{}
	followRepo := &mockFollowRepository{
		deleteFn: func(ctx context.Context, followerID int64, targetID, targetKind string) (bool, error) {
			return false, nil // nothing to delete
		},
	}
	pub := &mockPublisher{}
	svc, _ := newFollowServiceForTest(userRepo, followRepo, &mockActivityRepository{}, pub)

	_, err := svc.Unfollow(context.Background(), 1, &model.UnfollowRequest{
		TargetID: "2",
		Kind:     model.TargetKindUser,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	// Nothing was removed, so no counter moves and no event fires.
	if len(userRepo.followingDeltas) != 0 || len(userRepo.followerDeltas) != 0 {
		t.Error("counters decremented for absent edge")
	}
	if len(pub.published) != 0 {
		t.Error("event published for absent edge")
	}
}

func TestFollowService_Unfollow_KindMismatchLeavesCounters(t *testing.T) {
	userRepo := &mockUserRepository{}
	// The stored edge is kind=user; the delete only matches when the request
	// names the same kind, like the kind-qualified DELETE does.
	followRepo := &mockFollowRepository{
		deleteFn: func(ctx context.Context, followerID int64, targetID, targetKind string) (bool, error) {
			return targetID == "2" && targetKind == model.TargetKindUser, nil
		},
	}
	pub := &mockPublisher{}
	svc, tx := newFollowServiceForTest(userRepo, followRepo, &mockActivityRepository{}, pub)

	// Unfollowing the user edge under kind=person must not remove it, so the
	// target's follower count stays aligned with the followers view.
	_, err := svc.Unfollow(context.Background(), 1, &model.UnfollowRequest{
		TargetID: "2",
		Kind:     model.TargetKindPerson,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if followRepo.deleteCalls != 1 {
		t.Errorf("delete calls = %d, want 1", followRepo.deleteCalls)
	}
	if len(userRepo.followingDeltas) != 0 || len(userRepo.followerDeltas) != 0 {
		t.Errorf("counters moved on kind mismatch: following=%v follower=%v",
			userRepo.followingDeltas, userRepo.followerDeltas)
	}
	if len(pub.published) != 0 {
		t.Error("event published on kind mismatch")
	}

	// A matching request still removes the edge and decrements both sides.
	_, err = svc.Unfollow(context.Background(), 1, &model.UnfollowRequest{
		TargetID: "2",
		Kind:     model.TargetKindUser,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if tx.commits != 2 {
		t.Errorf("commits = %d, want 2", tx.commits)
	}
	if len(userRepo.followerDeltas) != 1 || userRepo.followerDeltas[0] != (counterDelta{UserID: 2, Delta: -1}) {
		t.Errorf("follower deltas = %v, want one -1 for user 2", userRepo.followerDeltas)
	}
}

func TestFollowService_Unfollow_NoActivityRecorded(t *testing.T) {
	activityRepo := &mockActivityRepository{}
	svc, _ := newFollowServiceForTest(&mockUserRepository{}, &mockFollowRepository{}, activityRepo, &mockPublisher{})

	_, err := svc.Unfollow(context.Background(), 1, &model.UnfollowRequest{
		TargetID: "2",
		Kind:     model.TargetKindUser,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(activityRepo.createCalls) != 0 {
		t.Error("unfollow recorded an activity entry")
	}
}

func TestFollowService_Unfollow_PersonTarget(t *testing.T) {
	userRepo := &mockUserRepository{}
	pub := &mockPublisher{}
	svc, _ := newFollowServiceForTest(userRepo, &mockFollowRepository{}, &mockActivityRepository{}, pub)

	_, err := svc.Unfollow(context.Background(), 1, &model.UnfollowRequest{
		TargetID: "500",
		Kind:     model.TargetKindPerson,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(userRepo.followerDeltas) != 0 {
		t.Error("follower count touched for person target")
	}
	if len(pub.published) != 0 {
		t.Error("feed event published for person unfollow")
	}
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ncobase/nblog/structs"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestWebhookUserCreated verifies provisioning from a user.created event.
func TestWebhookUserCreated(t *testing.T) {
	users := &fakeUserRepo{}
	svc := NewWebhookService(newTestData(users, nil, nil), testLogger())

	err := svc.Dispatch(context.Background(), &structs.WebhookEvent{
		Type: EventUserCreated,
		Data: structs.WebhookEventData{
			ID:             "clerk_1",
			Username:       "ana",
			EmailAddresses: []structs.EmailAddress{{EmailAddress: "ana@example.com"}},
			ProfileImgURL:  "avatar.png",
		},
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(users.users) != 1 {
		t.Fatalf("len(users) = %d, want 1", len(users.users))
	}
	u := users.users[0]
	if u.ClerkUserID != "clerk_1" || u.Username != "ana" || u.Email != "ana@example.com" {
		t.Errorf("provisioned user = %+v", u)
	}
}

// TestWebhookUserCreatedEmailFallback verifies the username falls back to
// the primary email when the provider sends none.
func TestWebhookUserCreatedEmailFallback(t *testing.T) {
	users := &fakeUserRepo{}
	svc := NewWebhookService(newTestData(users, nil, nil), testLogger())

	err := svc.Dispatch(context.Background(), &structs.WebhookEvent{
		Type: EventUserCreated,
		Data: structs.WebhookEventData{
			ID:             "clerk_1",
			EmailAddresses: []structs.EmailAddress{{EmailAddress: "ana@example.com"}},
		},
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got := users.users[0].Username; got != "ana@example.com" {
		t.Errorf("username = %q, want email fallback", got)
	}
}

// TestWebhookUserUpdated verifies profile fields are rewritten in place.
func TestWebhookUserUpdated(t *testing.T) {
	users := &fakeUserRepo{users: []*structs.User{
		{ID: primitive.NewObjectID(), ClerkUserID: "clerk_1", Username: "old", Email: "old@example.com"},
	}}
	svc := NewWebhookService(newTestData(users, nil, nil), testLogger())

	err := svc.Dispatch(context.Background(), &structs.WebhookEvent{
		Type: EventUserUpdated,
		Data: structs.WebhookEventData{
			ID:             "clerk_1",
			Username:       "new",
			EmailAddresses: []structs.EmailAddress{{EmailAddress: "new@example.com"}},
		},
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if users.users[0].Username != "new" || users.users[0].Email != "new@example.com" {
		t.Errorf("user after update = %+v", users.users[0])
	}
}

// TestWebhookUserUpdatedMissing verifies updating an unprovisioned user is
// reported, unlike every other delivery outcome.
func TestWebhookUserUpdatedMissing(t *testing.T) {
	svc := NewWebhookService(newTestData(nil, nil, nil), testLogger())

	err := svc.Dispatch(context.Background(), &structs.WebhookEvent{
		Type: EventUserUpdated,
		Data: structs.WebhookEventData{ID: "clerk_ghost"},
	})
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Dispatch err = %v, want ErrUserNotFound", err)
	}
}

// TestWebhookUserDeletedCascades verifies the profile delete cascades to
// every owned post and comment while leaving other users' content alone.
func TestWebhookUserDeletedCascades(t *testing.T) {
	uid := primitive.NewObjectID()
	other := primitive.NewObjectID()
	users := &fakeUserRepo{users: []*structs.User{{ID: uid, ClerkUserID: "clerk_1"}}}

	posts := &fakePostRepo{}
	for i := 0; i < 3; i++ {
		posts.posts = append(posts.posts, &structs.Post{ID: primitive.NewObjectID(), User: uid})
	}
	posts.posts = append(posts.posts, &structs.Post{ID: primitive.NewObjectID(), User: other})

	comments := &fakeCommentRepo{}
	for i := 0; i < 5; i++ {
		comments.comments = append(comments.comments, &structs.Comment{ID: primitive.NewObjectID(), User: uid})
	}
	svc := NewWebhookService(newTestData(users, posts, comments), testLogger())

	err := svc.Dispatch(context.Background(), &structs.WebhookEvent{
		Type: EventUserDeleted,
		Data: structs.WebhookEventData{ID: "clerk_1"},
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(users.users) != 0 {
		t.Error("user record not deleted")
	}
	if len(posts.posts) != 1 {
		t.Errorf("len(posts) = %d after cascade, want 1 survivor", len(posts.posts))
	}
	if len(comments.comments) != 0 {
		t.Errorf("len(comments) = %d after cascade, want 0", len(comments.comments))
	}
}

// TestWebhookUserDeletedPartialFailure verifies a failing post cascade does
// not stop the comment cascade and never surfaces to the acknowledgment.
func TestWebhookUserDeletedPartialFailure(t *testing.T) {
	uid := primitive.NewObjectID()
	users := &fakeUserRepo{users: []*structs.User{{ID: uid, ClerkUserID: "clerk_1"}}}
	posts := &fakePostRepo{cascadeErr: errors.New("bulk delete interrupted")}
	comments := &fakeCommentRepo{comments: []*structs.Comment{{ID: primitive.NewObjectID(), User: uid}}}
	svc := NewWebhookService(newTestData(users, posts, comments), testLogger())

	err := svc.Dispatch(context.Background(), &structs.WebhookEvent{
		Type: EventUserDeleted,
		Data: structs.WebhookEventData{ID: "clerk_1"},
	})
	if err != nil {
		t.Fatalf("Dispatch err = %v, want nil despite cascade failure", err)
	}
	if len(comments.cascaded) != 1 {
		t.Error("comment cascade skipped after post cascade failure")
	}
	if len(comments.comments) != 0 {
		t.Error("comments not cascaded")
	}
}

// TestWebhookUserDeletedAbsent verifies deleting an unknown user is a no-op
// that never reaches the cascades.
func TestWebhookUserDeletedAbsent(t *testing.T) {
	posts := &fakePostRepo{}
	comments := &fakeCommentRepo{}
	svc := NewWebhookService(newTestData(nil, posts, comments), testLogger())

	err := svc.Dispatch(context.Background(), &structs.WebhookEvent{
		Type: EventUserDeleted,
		Data: structs.WebhookEventData{ID: "clerk_ghost"},
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(posts.cascaded) != 0 || len(comments.cascaded) != 0 {
		t.Error("cascades ran for an absent user")
	}
}

// TestWebhookUnknownEventType verifies unrecognized event types are
// acknowledged as no-ops.
func TestWebhookUnknownEventType(t *testing.T) {
	users := &fakeUserRepo{}
	svc := NewWebhookService(newTestData(users, nil, nil), testLogger())

	err := svc.Dispatch(context.Background(), &structs.WebhookEvent{Type: "session.created"})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(users.users) != 0 {
		t.Error("unknown event type mutated state")
	}
}

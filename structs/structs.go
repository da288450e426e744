// Package structs defines the blog domain models shared across layers.
package structs

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the caller role carried in identity-provider session claims.
// The set is closed: everything that is not an admin is a member.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "user"
)

// RoleFromClaim maps a raw role claim to a Role, defaulting to member.
func RoleFromClaim(claim string) Role {
	if claim == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleMember
}

// IsAdmin reports whether the role grants unconditional mutation rights.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// User is a local profile provisioned from identity-provider webhook events.
// ClerkUserID is the provider subject id and is immutable once set.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClerkUserID string             `bson:"clerk_user_id" json:"clerkUserId"`
	Username    string             `bson:"username" json:"username"`
	Email       string             `bson:"email" json:"email"`
	Img         string             `bson:"img,omitempty" json:"img,omitempty"`
	SavedPosts  []string           `bson:"saved_posts" json:"savedPosts"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Post is a blog entry owned by a user.
type Post struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User       primitive.ObjectID `bson:"user" json:"user"`
	Title      string             `bson:"title" json:"title"`
	Slug       string             `bson:"slug" json:"slug"`
	Desc       string             `bson:"desc,omitempty" json:"desc,omitempty"`
	Content    string             `bson:"content" json:"content"`
	Img        string             `bson:"img,omitempty" json:"img,omitempty"`
	Category   string             `bson:"category" json:"category"`
	Visit      int64              `bson:"visit" json:"visit"`
	IsFeatured bool               `bson:"is_featured" json:"isFeatured"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Comment belongs to a post and a user.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Post      primitive.ObjectID `bson:"post" json:"post"`
	Desc      string             `bson:"desc" json:"desc"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Owner is the minimal author projection attached to listed entities.
type Owner struct {
	Username string `json:"username"`
	Img      string `json:"img,omitempty"`
}

// PostView is a post with its owner projection resolved.
type PostView struct {
	Post
	Owner Owner `json:"owner"`
}

// CommentView is a comment with its owner projection resolved.
type CommentView struct {
	Comment
	Owner Owner `json:"owner"`
}

// Sort modes accepted by the post listing.
const (
	SortNewest   = "newest"
	SortOldest   = "oldest"
	SortPopular  = "popular"
	SortTrending = "trending"
)

// TrendingWindow restricts the trending sort to recently created posts.
const TrendingWindow = 7 * 24 * time.Hour

// PostQuery carries the listing parameters after request parsing.
// AuthorID is filled by the service once Author has been resolved.
type PostQuery struct {
	Page     int
	Limit    int
	Category string
	Author   string
	AuthorID primitive.ObjectID
	Search   string
	Sort     string
	Featured bool
}

// WebhookEvent is a verified identity-provider event envelope.
type WebhookEvent struct {
	Type string           `json:"type"`
	Data WebhookEventData `json:"data"`
}

// WebhookEventData is the provider user payload carried by an event.
type WebhookEventData struct {
	ID             string         `json:"id"`
	Username       string         `json:"username"`
	EmailAddresses []EmailAddress `json:"email_addresses"`
	ProfileImgURL  string         `json:"profile_img_url"`
}

// EmailAddress is a provider email entry.
type EmailAddress struct {
	EmailAddress string `json:"email_address"`
}

// PrimaryEmail returns the first listed address, or "" when none exists.
func (d WebhookEventData) PrimaryEmail() string {
	if len(d.EmailAddresses) == 0 {
		return ""
	}
	return d.EmailAddresses[0].EmailAddress
}

// DisplayName applies the provider fallback rule: username, else email.
func (d WebhookEventData) DisplayName() string {
	if d.Username != "" {
		return d.Username
	}
	return d.PrimaryEmail()
}

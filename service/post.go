package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ncobase/nblog/data"
	"github.com/ncobase/nblog/data/repository"
	"github.com/ncobase/nblog/structs"
	"github.com/ncobase/ncore/logging/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostService handles post-related business logic.
type PostService struct {
	data   *data.Data
	logger *logger.Logger
}

// NewPostService creates a new post service.
func NewPostService(d *data.Data, log *logger.Logger) *PostService {
	return &PostService{
		data:   d,
		logger: log,
	}
}

// CreatePostRequest represents the request to create a post.
type CreatePostRequest struct {
	Title    string `json:"title" binding:"required"`
	Desc     string `json:"desc"`
	Content  string `json:"content" binding:"required"`
	Img      string `json:"img"`
	Category string `json:"category"`
}

// FeaturePostRequest represents the request to toggle the featured flag.
type FeaturePostRequest struct {
	PostID string `json:"postId" binding:"required"`
}

// PostPage is one page of the post listing.
type PostPage struct {
	Posts   []*structs.PostView `json:"posts"`
	HasMore bool                `json:"hasMore"`
}

// slugify derives a URL identifier from a title: lowercase, spaces become
// hyphens. Other punctuation passes through verbatim; the frontend relies
// on that exact shape for already-published URLs.
func slugify(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", "-")
}

// uniqueSlug probes the store for a free slug, extending the candidate with
// -2, -3, … on collision. The check is advisory: two concurrent creations
// with the same title can both pass it, and the loser then fails on the
// unique slug index as a plain write failure.
func (s *PostService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := slugify(title)
	candidate := base

	for counter := 2; ; counter++ {
		exists, err := s.data.PostRepo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
}

// ListPosts returns one page of posts with owner projections and the
// hasMore flag.
//
// hasMore is computed against the unfiltered total post count, not the
// filtered result set, faithfully reproducing the upstream contract the
// frontend was built against. See the pinned regression test before
// changing this.
func (s *PostService) ListPosts(ctx context.Context, q structs.PostQuery) (*PostPage, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 2
	}

	if q.Author != "" {
		author, err := s.data.UserRepo.FindByUsername(ctx, q.Author)
		if err != nil {
			return nil, asUserLookupErr(err)
		}
		q.AuthorID = author.ID
	}

	posts, err := s.data.PostRepo.List(ctx, q, time.Now())
	if err != nil {
		return nil, err
	}

	views, err := s.attachOwners(ctx, posts, false)
	if err != nil {
		return nil, err
	}

	total, err := s.data.PostRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &PostPage{
		Posts:   views,
		HasMore: int64(q.Page*q.Limit) < total,
	}, nil
}

// attachOwners resolves the author projection for a batch of posts in a
// single user query. withImg controls whether the avatar is included.
func (s *PostService) attachOwners(ctx context.Context, posts []*structs.Post, withImg bool) ([]*structs.PostView, error) {
	ids := make([]primitive.ObjectID, 0, len(posts))
	seen := make(map[primitive.ObjectID]bool, len(posts))
	for _, p := range posts {
		if !seen[p.User] {
			seen[p.User] = true
			ids = append(ids, p.User)
		}
	}

	owners, err := s.data.UserRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]*structs.User, len(owners))
	for _, u := range owners {
		byID[u.ID] = u
	}

	views := make([]*structs.PostView, 0, len(posts))
	for _, p := range posts {
		view := &structs.PostView{Post: *p}
		if owner, ok := byID[p.User]; ok {
			view.Owner.Username = owner.Username
			if withImg {
				view.Owner.Img = owner.Img
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// GetPostBySlug retrieves a single post, counting the visit.
func (s *PostService) GetPostBySlug(ctx context.Context, slug string) (*structs.PostView, error) {
	post, err := s.data.PostRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}

	// A failed visit bump must not hide the post itself.
	if err := s.data.PostRepo.IncrementVisit(ctx, post.ID); err != nil {
		s.logger.Warn(ctx, "visit counter not incremented", "slug", slug, "error", err)
	} else {
		post.Visit++
	}

	views, err := s.attachOwners(ctx, []*structs.Post{post}, true)
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// CreatePost creates a post owned by the caller.
func (s *PostService) CreatePost(ctx context.Context, req *CreatePostRequest) (*structs.Post, error) {
	user, err := resolveCaller(ctx, s.data.UserRepo)
	if err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(ctx, req.Title)
	if err != nil {
		return nil, err
	}

	post := &structs.Post{
		User:     user.ID,
		Title:    req.Title,
		Slug:     slug,
		Desc:     req.Desc,
		Content:  req.Content,
		Img:      req.Img,
		Category: req.Category,
	}
	return s.data.PostRepo.Create(ctx, post)
}

// DeletePost removes a post. Admins delete by id unconditionally; everyone
// else deletes through an ownership-filtered mutation, and a zero match is
// reported as Forbidden whether the post is missing or simply not theirs.
func (s *PostService) DeletePost(ctx context.Context, id string) error {
	if _, err := callerSubject(ctx); err != nil {
		return err
	}

	postID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrValidation
	}

	if callerIsAdmin(ctx) {
		if _, err := s.data.PostRepo.DeleteByID(ctx, postID); err != nil {
			return err
		}
		s.logger.Info(ctx, "post deleted by admin", "id", id)
		return nil
	}

	user, err := resolveCaller(ctx, s.data.UserRepo)
	if err != nil {
		return err
	}

	deleted, err := s.data.PostRepo.DeleteOwned(ctx, postID, user.ID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrForbidden
	}
	return nil
}

// FeaturePost flips the featured flag on a post. Admin only; there is no
// ownership fallback.
func (s *PostService) FeaturePost(ctx context.Context, req *FeaturePostRequest) (*structs.Post, error) {
	if _, err := callerSubject(ctx); err != nil {
		return nil, err
	}
	if !callerIsAdmin(ctx) {
		return nil, ErrForbidden
	}

	postID, err := primitive.ObjectIDFromHex(req.PostID)
	if err != nil {
		return nil, ErrValidation
	}

	post, err := s.data.PostRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}

	updated, err := s.data.PostRepo.SetFeatured(ctx, postID, !post.IsFeatured)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	return updated, nil
}

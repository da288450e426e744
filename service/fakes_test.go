package service

import (
	"context"
	"time"

	"github.com/ncobase/nblog/data"
	"github.com/ncobase/nblog/data/repository"
	"github.com/ncobase/nblog/structs"
	"github.com/ncobase/ncore/logging/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. Only the behavior the tests drive is
// implemented; everything else returns zero values.

type fakeUserRepo struct {
	users []*structs.User

	addSaved    []string
	removeSaved []string
}

func (f *fakeUserRepo) Create(_ context.Context, user *structs.User) (*structs.User, error) {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users = append(f.users, user)
	return user, nil
}

func (f *fakeUserRepo) FindByClerkID(_ context.Context, clerkID string) (*structs.User, error) {
	for _, u := range f.users {
		if u.ClerkUserID == clerkID {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*structs.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]*structs.User, error) {
	var out []*structs.User
	for _, u := range f.users {
		for _, id := range ids {
			if u.ID == id {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateByClerkID(ctx context.Context, clerkID, username, email, img string) (*structs.User, error) {
	u, err := f.FindByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}
	u.Username = username
	u.Email = email
	u.Img = img
	return u, nil
}

func (f *fakeUserRepo) DeleteByClerkID(ctx context.Context, clerkID string) (*structs.User, error) {
	u, err := f.FindByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}
	for i, cand := range f.users {
		if cand == u {
			f.users = append(f.users[:i], f.users[i+1:]...)
			break
		}
	}
	return u, nil
}

func (f *fakeUserRepo) AddSavedPost(_ context.Context, id primitive.ObjectID, postID string) error {
	f.addSaved = append(f.addSaved, postID)
	for _, u := range f.users {
		if u.ID == id {
			u.SavedPosts = append(u.SavedPosts, postID)
		}
	}
	return nil
}

func (f *fakeUserRepo) RemoveSavedPost(_ context.Context, id primitive.ObjectID, postID string) error {
	f.removeSaved = append(f.removeSaved, postID)
	for _, u := range f.users {
		if u.ID == id {
			kept := u.SavedPosts[:0]
			for _, p := range u.SavedPosts {
				if p != postID {
					kept = append(kept, p)
				}
			}
			u.SavedPosts = kept
		}
	}
	return nil
}

type fakePostRepo struct {
	posts []*structs.Post
	total int64

	lastQuery structs.PostQuery

	deletedByID    []primitive.ObjectID
	deleteOwnedHit int64

	featured *structs.Post

	cascadeErr error
	cascaded   []primitive.ObjectID
}

func (f *fakePostRepo) Create(_ context.Context, post *structs.Post) (*structs.Post, error) {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	f.posts = append(f.posts, post)
	return post, nil
}

func (f *fakePostRepo) FindBySlug(_ context.Context, slug string) (*structs.Post, error) {
	for _, p := range f.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakePostRepo) FindByID(_ context.Context, id primitive.ObjectID) (*structs.Post, error) {
	for _, p := range f.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakePostRepo) IncrementVisit(_ context.Context, id primitive.ObjectID) error {
	for _, p := range f.posts {
		if p.ID == id {
			p.Visit++
		}
	}
	return nil
}

func (f *fakePostRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	for _, p := range f.posts {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePostRepo) List(_ context.Context, q structs.PostQuery, _ time.Time) ([]*structs.Post, error) {
	f.lastQuery = q
	return f.posts, nil
}

func (f *fakePostRepo) Count(_ context.Context) (int64, error) {
	return f.total, nil
}

func (f *fakePostRepo) DeleteByID(_ context.Context, id primitive.ObjectID) (int64, error) {
	f.deletedByID = append(f.deletedByID, id)
	for i, p := range f.posts {
		if p.ID == id {
			f.posts = append(f.posts[:i], f.posts[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakePostRepo) DeleteOwned(_ context.Context, id, owner primitive.ObjectID) (int64, error) {
	for i, p := range f.posts {
		if p.ID == id && p.User == owner {
			f.posts = append(f.posts[:i], f.posts[i+1:]...)
			f.deleteOwnedHit++
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakePostRepo) SetFeatured(_ context.Context, id primitive.ObjectID, featured bool) (*structs.Post, error) {
	for _, p := range f.posts {
		if p.ID == id {
			p.IsFeatured = featured
			f.featured = p
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakePostRepo) DeleteManyByUser(_ context.Context, owner primitive.ObjectID) (int64, error) {
	f.cascaded = append(f.cascaded, owner)
	if f.cascadeErr != nil {
		return 0, f.cascadeErr
	}
	kept := f.posts[:0]
	var deleted int64
	for _, p := range f.posts {
		if p.User == owner {
			deleted++
		} else {
			kept = append(kept, p)
		}
	}
	f.posts = kept
	return deleted, nil
}

type fakeCommentRepo struct {
	comments []*structs.Comment

	deletedByID    []primitive.ObjectID
	deleteOwnedHit int64

	cascadeErr error
	cascaded   []primitive.ObjectID
}

func (f *fakeCommentRepo) Create(_ context.Context, comment *structs.Comment) (*structs.Comment, error) {
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	f.comments = append(f.comments, comment)
	return comment, nil
}

func (f *fakeCommentRepo) ListByPost(_ context.Context, post primitive.ObjectID) ([]*structs.Comment, error) {
	var out []*structs.Comment
	for _, c := range f.comments {
		if c.Post == post {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCommentRepo) DeleteByID(_ context.Context, id primitive.ObjectID) (int64, error) {
	f.deletedByID = append(f.deletedByID, id)
	for i, c := range f.comments {
		if c.ID == id {
			f.comments = append(f.comments[:i], f.comments[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeCommentRepo) DeleteOwned(_ context.Context, id, owner primitive.ObjectID) (int64, error) {
	for i, c := range f.comments {
		if c.ID == id && c.User == owner {
			f.comments = append(f.comments[:i], f.comments[i+1:]...)
			f.deleteOwnedHit++
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeCommentRepo) DeleteManyByUser(_ context.Context, owner primitive.ObjectID) (int64, error) {
	f.cascaded = append(f.cascaded, owner)
	if f.cascadeErr != nil {
		return 0, f.cascadeErr
	}
	kept := f.comments[:0]
	var deleted int64
	for _, c := range f.comments {
		if c.User == owner {
			deleted++
		} else {
			kept = append(kept, c)
		}
	}
	f.comments = kept
	return deleted, nil
}

// newTestData wires fakes into a data layer.
func newTestData(users *fakeUserRepo, posts *fakePostRepo, comments *fakeCommentRepo) *data.Data {
	if users == nil {
		users = &fakeUserRepo{}
	}
	if posts == nil {
		posts = &fakePostRepo{}
	}
	if comments == nil {
		comments = &fakeCommentRepo{}
	}
	return &data.Data{
		UserRepo:    users,
		PostRepo:    posts,
		CommentRepo: comments,
	}
}

func testLogger() *logger.Logger {
	return logger.StdLogger()
}

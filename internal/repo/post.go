package repo

import (
	"context"

	"github.com/mickamy/blogly/internal/model"
	"github.com/mickamy/blogly/internal/query"
	"github.com/mickamy/blogly/orm"
	"github.com/mickamy/blogly/scope"
)

type PostRepository struct {
	db *orm.DB
}

func NewPostRepository(db *orm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) List(ctx context.Context) ([]model.Post, error) {
	posts, err := query.Posts(r.db).OrderBy("id").All(ctx)
	return posts, wrap(err, "list posts")
}

// Posts sharing a timestamp fall back to insertion order.
var newestFirst = scope.Desc("created_at", "id")

// Recent returns at most limit posts, newest first, with their authors.
func (r *PostRepository) Recent(ctx context.Context, limit int) ([]model.Post, error) {
	posts, err := query.Posts(r.db).
		Scopes(newestFirst, scope.Limit(limit)).
		Preload("User").
		All(ctx)
	return posts, wrap(err, "recent posts")
}

// Get returns the post with its author and tags.
func (r *PostRepository) Get(ctx context.Context, id int) (model.Post, error) {
	p, err := query.Posts(r.db).Where("id = ?", id).Preload("User", "Tags").First(ctx)
	return p, wrap(err, "get post %d", id)
}

func (r *PostRepository) GetByIDs(ctx context.Context, ids []int) ([]model.Post, error) {
	posts, err := byIDs(ctx, query.Posts(r.db), ids)
	return posts, wrap(err, "get posts %v", ids)
}

// Create inserts p and links it to the existing tags in tagIDs.
func (r *PostRepository) Create(ctx context.Context, p *model.Post, tagIDs []int) error {
	err := r.db.Transaction(ctx, func(tx *orm.Tx) error {
		if err := query.Posts(tx).Create(ctx, p); err != nil {
			return err
		}
		var err error
		p.Tags, err = linkTags(ctx, tx, p.ID, tagIDs)
		return err
	})
	return wrap(err, "create post")
}

// Update overwrites title, content and owner of the post with p.ID and
// replaces its tag set with tagIDs. An empty tagIDs clears every tag.
func (r *PostRepository) Update(ctx context.Context, p *model.Post, tagIDs []int) error {
	err := r.db.Transaction(ctx, func(tx *orm.Tx) error {
		if err := mustExist(ctx, query.Posts(tx), p.ID); err != nil {
			return err
		}
		if err := query.Posts(tx).Update(ctx, p); err != nil {
			return err
		}
		if _, err := query.PostsTags(tx).Where("post_id = ?", p.ID).Delete(ctx); err != nil {
			return err
		}
		var err error
		p.Tags, err = linkTags(ctx, tx, p.ID, tagIDs)
		return err
	})
	return wrap(err, "update post %d", p.ID)
}

// Delete removes the post and its tag links. Tags are kept.
// The deleted post is returned with its author so callers can redirect to it.
func (r *PostRepository) Delete(ctx context.Context, id int) (model.Post, error) {
	var p model.Post
	err := r.db.Transaction(ctx, func(tx *orm.Tx) error {
		var err error
		p, err = query.Posts(tx).Where("id = ?", id).Preload("User").First(ctx)
		if err != nil {
			return err
		}
		if _, err := query.PostsTags(tx).Where("post_id = ?", id).Delete(ctx); err != nil {
			return err
		}
		_, err = query.Posts(tx).Where("id = ?", id).Delete(ctx)
		return err
	})
	if err != nil {
		return model.Post{}, wrap(err, "delete post %d", id)
	}
	return p, nil
}

// linkTags inserts posts_tags rows from postID to each existing tag in tagIDs
// and returns those tags.
func linkTags(ctx context.Context, tx orm.Querier, postID int, tagIDs []int) ([]model.Tag, error) {
	tags, err := byIDs(ctx, query.Tags(tx), tagIDs)
	if err != nil {
		return nil, err
	}
	links := make([]*model.PostTag, len(tags))
	for i, t := range tags {
		links[i] = &model.PostTag{PostID: postID, TagID: t.ID}
	}
	return tags, query.PostsTags(tx).CreateAll(ctx, links)
}

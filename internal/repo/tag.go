package repo

import (
	"context"

	"github.com/mickamy/blogly/internal/model"
	"github.com/mickamy/blogly/internal/query"
	"github.com/mickamy/blogly/orm"
)

type TagRepository struct {
	db *orm.DB
}

func NewTagRepository(db *orm.DB) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) List(ctx context.Context) ([]model.Tag, error) {
	tags, err := query.Tags(r.db).OrderBy("id").All(ctx)
	return tags, wrap(err, "list tags")
}

// Get returns the tag with its posts.
func (r *TagRepository) Get(ctx context.Context, id int) (model.Tag, error) {
	t, err := query.Tags(r.db).Where("id = ?", id).Preload("Posts").First(ctx)
	return t, wrap(err, "get tag %d", id)
}

func (r *TagRepository) GetByIDs(ctx context.Context, ids []int) ([]model.Tag, error) {
	tags, err := byIDs(ctx, query.Tags(r.db), ids)
	return tags, wrap(err, "get tags %v", ids)
}

// Create inserts t and links it to the existing posts in postIDs.
// A name already in use fails with ErrConstraint.
func (r *TagRepository) Create(ctx context.Context, t *model.Tag, postIDs []int) error {
	err := r.db.Transaction(ctx, func(tx *orm.Tx) error {
		if err := query.Tags(tx).Create(ctx, t); err != nil {
			return err
		}
		var err error
		t.Posts, err = linkPosts(ctx, tx, t.ID, postIDs)
		return err
	})
	return wrap(err, "create tag %q", t.Name)
}

// Update renames the tag with t.ID and replaces its post set with postIDs.
func (r *TagRepository) Update(ctx context.Context, t *model.Tag, postIDs []int) error {
	err := r.db.Transaction(ctx, func(tx *orm.Tx) error {
		if err := mustExist(ctx, query.Tags(tx), t.ID); err != nil {
			return err
		}
		if err := query.Tags(tx).Update(ctx, t); err != nil {
			return err
		}
		if _, err := query.PostsTags(tx).Where("tag_id = ?", t.ID).Delete(ctx); err != nil {
			return err
		}
		var err error
		t.Posts, err = linkPosts(ctx, tx, t.ID, postIDs)
		return err
	})
	return wrap(err, "update tag %d", t.ID)
}

// Delete removes the tag and its post links. Posts are kept.
func (r *TagRepository) Delete(ctx context.Context, id int) (model.Tag, error) {
	var t model.Tag
	err := r.db.Transaction(ctx, func(tx *orm.Tx) error {
		var err error
		t, err = query.Tags(tx).Where("id = ?", id).First(ctx)
		if err != nil {
			return err
		}
		if _, err := query.PostsTags(tx).Where("tag_id = ?", id).Delete(ctx); err != nil {
			return err
		}
		_, err = query.Tags(tx).Where("id = ?", id).Delete(ctx)
		return err
	})
	if err != nil {
		return model.Tag{}, wrap(err, "delete tag %d", id)
	}
	return t, nil
}

func linkPosts(ctx context.Context, tx orm.Querier, tagID int, postIDs []int) ([]model.Post, error) {
	posts, err := byIDs(ctx, query.Posts(tx), postIDs)
	if err != nil {
		return nil, err
	}
	links := make([]*model.PostTag, len(posts))
	for i, p := range posts {
		links[i] = &model.PostTag{PostID: p.ID, TagID: tagID}
	}
	return posts, query.PostsTags(tx).CreateAll(ctx, links)
}

package query

import (
	"context"
	"database/sql"
	"time"

	"github.com/mickamy/blogly/internal/model"
	"github.com/mickamy/blogly/orm"
	"github.com/mickamy/blogly/scope"
)

// Posts queries the posts table. Preloads: "User", "Tags".
// created_at is stamped on insert and never rewritten.
func Posts(db orm.Querier) *orm.Query[model.Post] {
	return orm.NewQuery(db, orm.Schema[model.Post]{
		Table:     orm.TableOf[model.Post](),
		Columns:   postsColumns,
		PK:        "id",
		Scan:      scanPost,
		Values:    postValues,
		SetPK:     func(v *model.Post, id int64) { v.ID = int(id) },
		OnCreate:  setPostCreatedAt,
		CreatedAt: []string{"created_at"},
		Preloaders: map[string]orm.PreloaderFunc[model.Post]{
			"User": preloadPostUser,
			"Tags": preloadPostTags,
		},
	})
}

var postsColumns = []string{"id", "title", "content", "created_at", "user_id"}

// scanPost normalizes created_at to UTC; MySQL and SQLite hand back local
// or zone-less times depending on the driver settings.
func scanPost(rows *sql.Rows) (model.Post, error) {
	var v model.Post
	err := scanInto(rows, func(col string) any {
		switch col {
		case "id":
			return &v.ID
		case "title":
			return &v.Title
		case "content":
			return &v.Content
		case "created_at":
			return &v.CreatedAt
		case "user_id":
			return &v.UserID
		}
		return nil
	})
	v.CreatedAt = v.CreatedAt.UTC()
	return v, err
}

func postValues(v *model.Post, includesPK bool) ([]string, []any) {
	return columnValues(postsColumns, []any{v.ID, v.Title, v.Content, v.CreatedAt, v.UserID}, includesPK)
}

func setPostCreatedAt(v *model.Post, now time.Time) {
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
}

func preloadPostUser(ctx context.Context, db orm.Querier, results []model.Post) error {
	if len(results) == 0 {
		return nil
	}
	ids := make([]int, 0, len(results))
	for i := range results {
		if results[i].UserID != nil {
			ids = append(ids, *results[i].UserID)
		}
	}
	related, err := Users(db).Scopes(scope.In("id", ids)).All(ctx)
	if err != nil {
		return err
	}
	byPK := make(map[int]*model.User)
	for i := range related {
		byPK[related[i].ID] = &related[i]
	}
	for i := range results {
		if results[i].UserID != nil {
			results[i].User = byPK[*results[i].UserID]
		}
	}
	return nil
}

// postsTags links posts to tags; Reverse walks it from the tag side.
var postsTags = orm.JoinTable{Name: orm.TableOf[model.PostTag](), Source: "post_id", Target: "tag_id"}

func preloadPostTags(ctx context.Context, db orm.Querier, results []model.Post) error {
	return orm.PreloadLinked(ctx, db, results, orm.Related[model.Post, model.Tag, int]{
		Table:      postsTags,
		OwnerKey:   func(p *model.Post) int { return p.ID },
		RelatedKey: func(t *model.Tag) int { return t.ID },
		Load: func(ctx context.Context, db orm.Querier, ids []int) ([]model.Tag, error) {
			return Tags(db).Scopes(scope.In("id", ids)).All(ctx)
		},
		Set: func(p *model.Post, tags []model.Tag) { p.Tags = tags },
	})
}

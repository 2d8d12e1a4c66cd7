package query

import (
	"context"
	"database/sql"

	"github.com/mickamy/blogly/internal/model"
	"github.com/mickamy/blogly/orm"
	"github.com/mickamy/blogly/scope"
)

// Tags queries the tags table. Preloads: "Posts".
func Tags(db orm.Querier) *orm.Query[model.Tag] {
	return orm.NewQuery(db, orm.Schema[model.Tag]{
		Table:   orm.TableOf[model.Tag](),
		Columns: tagsColumns,
		PK:      "id",
		Scan:    scanTag,
		Values:  tagValues,
		SetPK:   func(v *model.Tag, id int64) { v.ID = int(id) },
		Preloaders: map[string]orm.PreloaderFunc[model.Tag]{
			"Posts": preloadTagPosts,
		},
	})
}

var tagsColumns = []string{"id", "name"}

func scanTag(rows *sql.Rows) (model.Tag, error) {
	var v model.Tag
	err := scanInto(rows, func(col string) any {
		switch col {
		case "id":
			return &v.ID
		case "name":
			return &v.Name
		}
		return nil
	})
	return v, err
}

func tagValues(v *model.Tag, includesPK bool) ([]string, []any) {
	return columnValues(tagsColumns, []any{v.ID, v.Name}, includesPK)
}

func preloadTagPosts(ctx context.Context, db orm.Querier, results []model.Tag) error {
	return orm.PreloadLinked(ctx, db, results, orm.Related[model.Tag, model.Post, int]{
		Table:      postsTags.Reverse(),
		OwnerKey:   func(t *model.Tag) int { return t.ID },
		RelatedKey: func(p *model.Post) int { return p.ID },
		Load: func(ctx context.Context, db orm.Querier, ids []int) ([]model.Post, error) {
			return Posts(db).OrderBy("id").Scopes(scope.In("id", ids)).All(ctx)
		},
		Set: func(t *model.Tag, posts []model.Post) { t.Posts = posts },
	})
}

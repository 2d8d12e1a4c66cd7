package query

import (
	"database/sql"

	"github.com/mickamy/blogly/internal/model"
	"github.com/mickamy/blogly/orm"
)

// PostsTags queries the posts/tags association. Its key is the pair of
// columns, so nothing is read back after an insert.
func PostsTags(db orm.Querier) *orm.Query[model.PostTag] {
	return orm.NewQuery(db, orm.Schema[model.PostTag]{
		Table:   orm.TableOf[model.PostTag](),
		Columns: postsTagsColumns,
		PK:      "post_id",
		Scan:    scanPostTag,
		Values:  postTagValues,
	})
}

var postsTagsColumns = []string{"post_id", "tag_id"}

func scanPostTag(rows *sql.Rows) (model.PostTag, error) {
	var v model.PostTag
	err := scanInto(rows, func(col string) any {
		switch col {
		case "post_id":
			return &v.PostID
		case "tag_id":
			return &v.TagID
		}
		return nil
	})
	return v, err
}

// The composite key is always written, whatever includesPK says.
func postTagValues(v *model.PostTag, _ bool) ([]string, []any) {
	return columnValues(postsTagsColumns, []any{v.PostID, v.TagID}, true)
}

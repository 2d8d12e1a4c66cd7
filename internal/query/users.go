package query

import (
	"context"
	"database/sql"

	"github.com/mickamy/blogly/internal/model"
	"github.com/mickamy/blogly/orm"
	"github.com/mickamy/blogly/scope"
)

// Users queries the users table. Preloads: "Posts".
func Users(db orm.Querier) *orm.Query[model.User] {
	return orm.NewQuery(db, orm.Schema[model.User]{
		Table:   orm.TableOf[model.User](),
		Columns: usersColumns,
		PK:      "id",
		Scan:    scanUser,
		Values:  userValues,
		SetPK:   func(v *model.User, id int64) { v.ID = int(id) },
		Preloaders: map[string]orm.PreloaderFunc[model.User]{
			"Posts": preloadUserPosts,
		},
	})
}

var usersColumns = []string{"id", "first_name", "last_name", "image_url"}

func scanUser(rows *sql.Rows) (model.User, error) {
	var v model.User
	err := scanInto(rows, func(col string) any {
		switch col {
		case "id":
			return &v.ID
		case "first_name":
			return &v.FirstName
		case "last_name":
			return &v.LastName
		case "image_url":
			return &v.ImageURL
		}
		return nil
	})
	return v, err
}

func userValues(v *model.User, includesPK bool) ([]string, []any) {
	return columnValues(usersColumns, []any{v.ID, v.FirstName, v.LastName, v.ImageURL}, includesPK)
}

// Posts without an owner never match a user, so nil foreign keys are skipped.
func preloadUserPosts(ctx context.Context, db orm.Querier, results []model.User) error {
	if len(results) == 0 {
		return nil
	}
	ids := make([]int, len(results))
	for i := range results {
		ids[i] = results[i].ID
	}
	related, err := Posts(db).Scopes(scope.In("user_id", ids)).OrderBy("id").All(ctx)
	if err != nil {
		return err
	}
	byFK := make(map[int][]model.Post)
	for _, r := range related {
		if r.UserID != nil {
			byFK[*r.UserID] = append(byFK[*r.UserID], r)
		}
	}
	for i := range results {
		results[i].Posts = byFK[results[i].ID]
	}
	return nil
}

package repo

import (
	"context"
	"log"

	"github.com/mickamy/blogly/internal/model"
	"github.com/mickamy/blogly/internal/query"
	"github.com/mickamy/blogly/orm"
	"github.com/mickamy/blogly/scope"
)

type UserRepository struct {
	db *orm.DB
}

func NewUserRepository(db *orm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// List returns every user ordered by last name, then first name.
func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	users, err := query.Users(r.db).Scopes(scope.Asc("last_name", "first_name", "id")).All(ctx)
	return users, wrap(err, "list users")
}

// Get returns the user with its posts.
func (r *UserRepository) Get(ctx context.Context, id int) (model.User, error) {
	u, err := query.Users(r.db).Where("id = ?", id).Preload("Posts").First(ctx)
	return u, wrap(err, "get user %d", id)
}

// Create inserts u and sets its id. A blank image URL is stored as the default.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	u.ImageURL = u.ImageOrDefault()
	err := r.db.Transaction(ctx, func(tx *orm.Tx) error {
		return query.Users(tx).Create(ctx, u)
	})
	return wrap(err, "create user")
}

// Update overwrites the names and image of the user with u.ID.
func (r *UserRepository) Update(ctx context.Context, u *model.User) error {
	u.ImageURL = u.ImageOrDefault()
	err := r.db.Transaction(ctx, func(tx *orm.Tx) error {
		if err := mustExist(ctx, query.Users(tx), u.ID); err != nil {
			return err
		}
		return query.Users(tx).Update(ctx, u)
	})
	return wrap(err, "update user %d", u.ID)
}

// Delete removes the user together with its posts and their tag links.
// The deleted user is returned with the posts it had.
func (r *UserRepository) Delete(ctx context.Context, id int) (model.User, error) {
	var u model.User
	err := r.db.Transaction(ctx, func(tx *orm.Tx) error {
		var err error
		u, err = query.Users(tx).Where("id = ?", id).Preload("Posts").First(ctx)
		if err != nil {
			return err
		}
		postIDs := make([]int, len(u.Posts))
		for i, p := range u.Posts {
			postIDs[i] = p.ID
		}
		if _, err := query.PostsTags(tx).Scopes(scope.In("post_id", postIDs)).Delete(ctx); err != nil {
			return err
		}
		if _, err := query.Posts(tx).Where("user_id = ?", id).Delete(ctx); err != nil {
			return err
		}
		_, err = query.Users(tx).Where("id = ?", id).Delete(ctx)
		return err
	})
	if err != nil {
		return model.User{}, wrap(err, "delete user %d", id)
	}
	log.Printf("[Users] deleted user %d and %d posts", id, len(u.Posts))
	return u, nil
}

// CreatePost inserts p owned by userID and links it to the existing tags in tagIDs.
func (r *UserRepository) CreatePost(ctx context.Context, userID int, p *model.Post, tagIDs []int) error {
	err := r.db.Transaction(ctx, func(tx *orm.Tx) error {
		u, err := query.Users(tx).Where("id = ?", userID).First(ctx)
		if err != nil {
			return err
		}
		p.UserID = &u.ID
		p.User = &u
		if err := query.Posts(tx).Create(ctx, p); err != nil {
			return err
		}
		p.Tags, err = linkTags(ctx, tx, p.ID, tagIDs)
		return err
	})
	return wrap(err, "create post for user %d", userID)
}

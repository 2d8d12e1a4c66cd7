package model

import "github.com/mickamy/blogly/internal/naming"

type Tag struct {
	ID    int
	Name  string
	Posts []Post
}

func (t Tag) HasPost(id int) bool {
	for _, p := range t.Posts {
		if p.ID == id {
			return true
		}
	}
	return false
}

// PostTag is one row of the posts/tags association.
type PostTag struct {
	PostID int
	TagID  int
}

func (PostTag) TableName() string { return naming.JoinTable("Post", "Tag") }

package model

import "time"

// DateLayout renders like "Sat Mar 09  2024, 02:05 PM".
const DateLayout = "Mon Jan 02  2006, 03:04 PM"

type Post struct {
	ID        int
	Title     string
	Content   string
	CreatedAt time.Time
	UserID    *int
	User      *User
	Tags      []Tag
}

func (p Post) FormattedDate() string {
	return p.CreatedAt.Format(DateLayout)
}

// TagIDs lists the ids of the loaded tags, for pre-selecting form options.
func (p Post) TagIDs() []int {
	ids := make([]int, len(p.Tags))
	for i, t := range p.Tags {
		ids[i] = t.ID
	}
	return ids
}

// HasTag reports whether a tag with the given id is loaded on the post.
func (p Post) HasTag(id int) bool {
	for _, t := range p.Tags {
		if t.ID == id {
			return true
		}
	}
	return false
}

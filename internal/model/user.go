package model

import "strings"

// DefaultImageURL is stored for users created or edited without an image.
const DefaultImageURL = "https://encrypted-tbn0.gstatic.com/images?q=tbn:ANd9GcS8Pe2gx8Z68Cs0vGplXvVBmSSKiA7yfijA4A&usqp=CAU"

type User struct {
	ID        int
	FirstName string
	LastName  string
	ImageURL  string
	Posts     []Post
}

// FullName joins first and last name with a single space.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// ImageOrDefault returns ImageURL, or DefaultImageURL when it is blank.
func (u User) ImageOrDefault() string {
	if strings.TrimSpace(u.ImageURL) == "" {
		return DefaultImageURL
	}
	return u.ImageURL
}

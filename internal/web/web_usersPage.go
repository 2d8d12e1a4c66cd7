package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mickamy/blogly/internal/model"
)

func (s *WebServer) usersPage(c *gin.Context) {
	users, err := s.users.List(c.Request.Context())
	if err != nil {
		s.handleError(c, err, "list users")
		return
	}
	s.renderTemplate(c, http.StatusOK, PageUsers, UsersPageData{
		TemplateData: s.getBaseTemplateData(c, "Users"),
		Users:        users,
	})
}

func (s *WebServer) newUserPage(c *gin.Context) {
	s.renderTemplate(c, http.StatusOK, PageUserNew, UserPageData{
		TemplateData: s.getBaseTemplateData(c, "Create a user"),
	})
}

func (s *WebServer) createUser(c *gin.Context) {
	u, err := userFromForm(c)
	if err != nil {
		s.handleError(c, err, "create user")
		return
	}
	if err := s.users.Create(c.Request.Context(), &u); err != nil {
		s.handleError(c, err, "create user")
		return
	}
	s.redirectWithNotice(c, "/users", "User "+clip(u.FullName())+" added.")
}

func (s *WebServer) userPage(c *gin.Context) {
	s.renderUser(c, PageUserDetail)
}

func (s *WebServer) editUserPage(c *gin.Context) {
	s.renderUser(c, PageUserEdit)
}

func (s *WebServer) renderUser(c *gin.Context, page string) {
	id, ok := pathID(c)
	if !ok {
		s.renderNotFound(c)
		return
	}
	u, err := s.users.Get(c.Request.Context(), id)
	if err != nil {
		s.handleError(c, err, "load user")
		return
	}
	s.renderTemplate(c, http.StatusOK, page, UserPageData{
		TemplateData: s.getBaseTemplateData(c, u.FullName()),
		User:         u,
	})
}

func (s *WebServer) updateUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		s.renderNotFound(c)
		return
	}
	ctx := c.Request.Context()
	if _, err := s.users.Get(ctx, id); err != nil {
		s.handleError(c, err, "edit user")
		return
	}
	u, err := userFromForm(c)
	if err != nil {
		s.handleError(c, err, "edit user")
		return
	}
	u.ID = id
	if err := s.users.Update(ctx, &u); err != nil {
		s.handleError(c, err, "edit user")
		return
	}
	s.redirectWithNotice(c, "/users", "User "+clip(u.FullName())+" edited.")
}

func (s *WebServer) deleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		s.renderNotFound(c)
		return
	}
	u, err := s.users.Delete(c.Request.Context(), id)
	if err != nil {
		s.handleError(c, err, "delete user")
		return
	}
	s.redirectWithNotice(c, "/users", "User "+clip(u.FullName())+" deleted.")
}

// userFromForm reads first_name and last_name (required) and image_url.
func userFromForm(c *gin.Context) (model.User, error) {
	first, err := requiredField(c, "first_name")
	if err != nil {
		return model.User{}, err
	}
	last, err := requiredField(c, "last_name")
	if err != nil {
		return model.User{}, err
	}
	return model.User{
		FirstName: first,
		LastName:  last,
		ImageURL:  strings.TrimSpace(c.PostForm("image_url")),
	}, nil
}

func userURL(id int) string {
	return "/users/" + strconv.Itoa(id)
}

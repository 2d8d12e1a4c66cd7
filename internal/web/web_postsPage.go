package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mickamy/blogly/internal/model"
)

func (s *WebServer) newPostPage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		s.renderNotFound(c)
		return
	}
	ctx := c.Request.Context()
	u, err := s.users.Get(ctx, id)
	if err != nil {
		s.handleError(c, err, "load user")
		return
	}
	tags, err := s.tags.List(ctx)
	if err != nil {
		s.handleError(c, err, "list tags")
		return
	}
	s.renderTemplate(c, http.StatusOK, PagePostNew, PostFormPageData{
		TemplateData: s.getBaseTemplateData(c, "Add post for "+u.FullName()),
		User:         u,
		Tags:         tags,
	})
}

func (s *WebServer) createPost(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		s.renderNotFound(c)
		return
	}
	p, tagIDs, err := postFromForm(c)
	if err != nil {
		s.handleError(c, err, "create post")
		return
	}
	if err := s.users.CreatePost(c.Request.Context(), userID, &p, tagIDs); err != nil {
		s.handleError(c, err, "create post")
		return
	}
	s.redirectWithNotice(c, userURL(userID), "Post '"+clip(p.Title)+"' added.")
}

func (s *WebServer) postPage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		s.renderNotFound(c)
		return
	}
	p, err := s.posts.Get(c.Request.Context(), id)
	if err != nil {
		s.handleError(c, err, "load post")
		return
	}
	s.renderTemplate(c, http.StatusOK, PagePostDetail, PostPageData{
		TemplateData: s.getBaseTemplateData(c, p.Title),
		Post:         p,
	})
}

func (s *WebServer) editPostPage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		s.renderNotFound(c)
		return
	}
	ctx := c.Request.Context()
	p, err := s.posts.Get(ctx, id)
	if err != nil {
		s.handleError(c, err, "load post")
		return
	}
	tags, err := s.tags.List(ctx)
	if err != nil {
		s.handleError(c, err, "list tags")
		return
	}
	data := PostFormPageData{
		TemplateData: s.getBaseTemplateData(c, "Edit post"),
		Post:         p,
		Tags:         tags,
	}
	if p.User != nil {
		data.User = *p.User
	}
	s.renderTemplate(c, http.StatusOK, PagePostEdit, data)
}

func (s *WebServer) updatePost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		s.renderNotFound(c)
		return
	}
	ctx := c.Request.Context()
	p, err := s.posts.Get(ctx, id)
	if err != nil {
		s.handleError(c, err, "edit post")
		return
	}
	edited, tagIDs, err := postFromForm(c)
	if err != nil {
		s.handleError(c, err, "edit post")
		return
	}
	p.Title, p.Content = edited.Title, edited.Content
	if err := s.posts.Update(ctx, &p, tagIDs); err != nil {
		s.handleError(c, err, "edit post")
		return
	}
	s.redirectWithNotice(c, ownerURL(p), "Post '"+clip(p.Title)+"' edited.")
}

func (s *WebServer) deletePost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		s.renderNotFound(c)
		return
	}
	p, err := s.posts.Delete(c.Request.Context(), id)
	if err != nil {
		s.handleError(c, err, "delete post")
		return
	}
	s.redirectWithNotice(c, ownerURL(p), "Post '"+clip(p.Title)+"' deleted.")
}

// postFromForm reads title and content (required) and the tags multi-select.
func postFromForm(c *gin.Context) (model.Post, []int, error) {
	title, err := requiredField(c, "title")
	if err != nil {
		return model.Post{}, nil, err
	}
	content, err := requiredField(c, "content")
	if err != nil {
		return model.Post{}, nil, err
	}
	tagIDs, err := formIDs(c, "tags")
	if err != nil {
		return model.Post{}, nil, err
	}
	return model.Post{Title: title, Content: content}, tagIDs, nil
}

// ownerURL is the page of the post's user, or the home page for an orphan post.
func ownerURL(p model.Post) string {
	if p.UserID == nil {
		return "/"
	}
	return userURL(*p.UserID)
}

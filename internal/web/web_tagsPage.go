package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mickamy/blogly/internal/model"
)

func (s *WebServer) tagsPage(c *gin.Context) {
	tags, err := s.tags.List(c.Request.Context())
	if err != nil {
		s.handleError(c, err, "list tags")
		return
	}
	s.renderTemplate(c, http.StatusOK, PageTags, TagsPageData{
		TemplateData: s.getBaseTemplateData(c, "Tags"),
		Tags:         tags,
	})
}

func (s *WebServer) tagPage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		s.renderNotFound(c)
		return
	}
	t, err := s.tags.Get(c.Request.Context(), id)
	if err != nil {
		s.handleError(c, err, "load tag")
		return
	}
	s.renderTemplate(c, http.StatusOK, PageTagDetail, TagPageData{
		TemplateData: s.getBaseTemplateData(c, t.Name),
		Tag:          t,
	})
}

func (s *WebServer) newTagPage(c *gin.Context) {
	posts, err := s.posts.List(c.Request.Context())
	if err != nil {
		s.handleError(c, err, "list posts")
		return
	}
	s.renderTemplate(c, http.StatusOK, PageTagNew, TagFormPageData{
		TemplateData: s.getBaseTemplateData(c, "Create a tag"),
		Posts:        posts,
	})
}

func (s *WebServer) createTag(c *gin.Context) {
	t, postIDs, err := tagFromForm(c)
	if err != nil {
		s.handleError(c, err, "create tag")
		return
	}
	if err := s.tags.Create(c.Request.Context(), &t, postIDs); err != nil {
		s.handleError(c, err, "create tag")
		return
	}
	s.redirectWithNotice(c, "/tags", "Tag '"+clip(t.Name)+"' added.")
}

func (s *WebServer) editTagPage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		s.renderNotFound(c)
		return
	}
	ctx := c.Request.Context()
	t, err := s.tags.Get(ctx, id)
	if err != nil {
		s.handleError(c, err, "load tag")
		return
	}
	posts, err := s.posts.List(ctx)
	if err != nil {
		s.handleError(c, err, "list posts")
		return
	}
	s.renderTemplate(c, http.StatusOK, PageTagEdit, TagFormPageData{
		TemplateData: s.getBaseTemplateData(c, "Edit tag"),
		Tag:          t,
		Posts:        posts,
	})
}

func (s *WebServer) updateTag(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		s.renderNotFound(c)
		return
	}
	ctx := c.Request.Context()
	if _, err := s.tags.Get(ctx, id); err != nil {
		s.handleError(c, err, "edit tag")
		return
	}
	t, postIDs, err := tagFromForm(c)
	if err != nil {
		s.handleError(c, err, "edit tag")
		return
	}
	t.ID = id
	if err := s.tags.Update(ctx, &t, postIDs); err != nil {
		s.handleError(c, err, "edit tag")
		return
	}
	s.redirectWithNotice(c, "/tags", "Tag '"+clip(t.Name)+"' edited.")
}

func (s *WebServer) deleteTag(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		s.renderNotFound(c)
		return
	}
	t, err := s.tags.Delete(c.Request.Context(), id)
	if err != nil {
		s.handleError(c, err, "delete tag")
		return
	}
	s.redirectWithNotice(c, "/tags", "Tag '"+clip(t.Name)+"' deleted.")
}

// tagFromForm reads name (required) and the posts multi-select.
func tagFromForm(c *gin.Context) (model.Tag, []int, error) {
	name, err := requiredField(c, "name")
	if err != nil {
		return model.Tag{}, nil, err
	}
	postIDs, err := formIDs(c, "posts")
	if err != nil {
		return model.Tag{}, nil, err
	}
	return model.Tag{Name: name}, postIDs, nil
}

package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// homePage lists the most recent posts, newest first.
func (s *WebServer) homePage(c *gin.Context) {
	posts, err := s.posts.Recent(c.Request.Context(), s.Config.RecentPosts)
	if err != nil {
		s.handleError(c, err, "load recent posts")
		return
	}
	s.renderTemplate(c, http.StatusOK, PageHome, HomePageData{
		TemplateData: s.getBaseTemplateData(c, "Blogly"),
		Posts:        posts,
	})
}

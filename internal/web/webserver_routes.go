package web

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *WebServer) setupRoutes() {
	s.Router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	s.Router.GET("/", s.homePage)

	users := s.Router.Group("/users")
	{
		users.GET("", s.usersPage)
		users.GET("/new", s.newUserPage)
		users.POST("/new", s.createUser)
		users.GET("/:id", s.userPage)
		users.GET("/:id/edit", s.editUserPage)
		users.POST("/:id/edit", s.updateUser)
		users.POST("/:id/delete", s.deleteUser)
		users.GET("/:id/posts/new", s.newPostPage)
		users.POST("/:id/posts/new", s.createPost)
	}

	posts := s.Router.Group("/posts")
	{
		posts.GET("/:id", s.postPage)
		posts.GET("/:id/edit", s.editPostPage)
		posts.POST("/:id/edit", s.updatePost)
		posts.POST("/:id/delete", s.deletePost)
	}

	tags := s.Router.Group("/tags")
	{
		tags.GET("", s.tagsPage)
		tags.GET("/new", s.newTagPage)
		tags.POST("/new", s.createTag)
		tags.GET("/:id", s.tagPage)
		tags.GET("/:id/edit", s.editTagPage)
		tags.POST("/:id/edit", s.updateTag)
		tags.POST("/:id/delete", s.deleteTag)
	}

	s.Router.NoRoute(s.renderNotFound)
}

// apacheLogger writes access lines in Apache combined log format.
func apacheLogger() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf(`%s - - [%s] "%s %s %s" %d %d "%s" "%s"`+"\n",
			param.ClientIP,
			param.TimeStamp.Format("02/Jan/2006:15:04:05 -0700"),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.BodySize,
			param.Request.Referer(),
			param.Request.UserAgent(),
		)
	})
}

// Package web serves the blogly HTML interface.
package web

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"

	"github.com/mickamy/blogly/internal/config"
	"github.com/mickamy/blogly/internal/model"
	"github.com/mickamy/blogly/internal/repo"
	"github.com/mickamy/blogly/orm"
)

// WebServer routes requests to the repositories and renders the results.
type WebServer struct {
	Router    *gin.Engine
	Config    *config.WebConfig
	Renderer  Renderer
	StartTime time.Time

	users *repo.UserRepository
	posts *repo.PostRepository
	tags  *repo.TagRepository
	http  *http.Server
}

// TemplateData is embedded in every page's data.
type TemplateData struct {
	Title      string
	Notice     string // one-shot confirmation from the previous request
	AppVersion string
}

type HomePageData struct {
	TemplateData
	Posts []model.Post
}

type UsersPageData struct {
	TemplateData
	Users []model.User
}

type UserPageData struct {
	TemplateData
	User model.User
}

// PostFormPageData backs the new and edit post forms. Tags lists every
// tag for the multi-select.
type PostFormPageData struct {
	TemplateData
	User model.User
	Post model.Post
	Tags []model.Tag
}

type PostPageData struct {
	TemplateData
	Post model.Post
}

type TagsPageData struct {
	TemplateData
	Tags []model.Tag
}

type TagPageData struct {
	TemplateData
	Tag model.Tag
}

// TagFormPageData backs the new and edit tag forms. Posts lists every
// post for the multi-select.
type TagFormPageData struct {
	TemplateData
	Tag   model.Tag
	Posts []model.Post
}

type ErrorPageData struct {
	TemplateData
	Error      string
	StatusCode int
}

// NewServer builds the router over db. A nil renderer uses the embedded templates.
func NewServer(db *orm.DB, webconfig *config.WebConfig, renderer Renderer) (*WebServer, error) {
	gin.SetMode(gin.ReleaseMode)

	if renderer == nil {
		var err error
		if renderer, err = NewHTMLRenderer(); err != nil {
			return nil, err
		}
	}

	router := gin.New()
	if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
		return nil, err //nolint:wrapcheck // static list
	}
	router.Use(apacheLogger(), gin.Recovery())

	secureConfig := secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}
	if webconfig.SSL {
		secureConfig.SSLRedirect = true
		secureConfig.STSSeconds = 31536000
		secureConfig.STSIncludeSubdomains = true
	}
	router.Use(secure.New(secureConfig))

	s := &WebServer{
		Router:    router,
		Config:    webconfig,
		Renderer:  renderer,
		StartTime: time.Now(),
		users:     repo.NewUserRepository(db),
		posts:     repo.NewPostRepository(db),
		tags:      repo.NewTagRepository(db),
	}
	s.setupRoutes()
	s.http = &http.Server{
		Addr:              webconfig.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Start serves until Shutdown is called. It returns http.ErrServerClosed
// after a clean shutdown.
func (s *WebServer) Start() error {
	log.Printf("[Web] listening on %s (ssl=%t)", s.Config.ListenAddr, s.Config.SSL)
	if s.Config.SSL {
		return s.http.ListenAndServeTLS(s.Config.CertFile, s.Config.KeyFile) //nolint:wrapcheck // caller logs
	}
	return s.http.ListenAndServe() //nolint:wrapcheck // caller logs
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx expires.
func (s *WebServer) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx) //nolint:wrapcheck // caller logs
}

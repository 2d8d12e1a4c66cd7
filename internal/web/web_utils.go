package web

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/mickamy/blogly/internal/config"
	"github.com/mickamy/blogly/internal/repo"
)

const noticeCookie = "blogly_notice"

// noticeSubjectLen caps the user-supplied part of a notice so the cookie
// stays well under the browser size limit.
const noticeSubjectLen = 100

// errMalformed marks a request whose form or path cannot be used.
var errMalformed = errors.New("malformed request")

// getBaseTemplateData fills the shared page fields and consumes the pending notice.
func (s *WebServer) getBaseTemplateData(c *gin.Context, title string) TemplateData {
	data := TemplateData{
		Title:      title,
		AppVersion: config.AppVersion,
	}
	if notice, err := c.Cookie(noticeCookie); err == nil && notice != "" {
		data.Notice = notice
		s.setNoticeCookie(c, "", -1)
	}
	return data
}

// setNotice stores msg for the next rendered page.
func (s *WebServer) setNotice(c *gin.Context, msg string) {
	s.setNoticeCookie(c, msg, 60)
}

func (s *WebServer) setNoticeCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(noticeCookie, value, maxAge, "/", "", s.Config.SSL, true)
}

// redirectWithNotice answers a successful form post.
func (s *WebServer) redirectWithNotice(c *gin.Context, location, notice string) {
	s.setNotice(c, notice)
	c.Redirect(http.StatusFound, location)
}

// clip shortens a user-supplied name or title for use in a notice.
func clip(v string) string {
	r := []rune(v)
	if len(r) <= noticeSubjectLen {
		return v
	}
	return string(r[:noticeSubjectLen-3]) + "..."
}

func (s *WebServer) renderTemplate(c *gin.Context, status int, page string, data any) {
	if err := s.Renderer.Render(c.Writer, status, page, data); err != nil {
		log.Printf("[Web] rendering %s: %v", page, err)
		s.renderError(c, http.StatusInternalServerError, "Template error", err.Error())
	}
}

// renderError renders the generic error page.
func (s *WebServer) renderError(c *gin.Context, statusCode int, message string, errstring string) {
	log.Printf("[Web] %d %s %s: %s - %s", statusCode, c.Request.Method, c.Request.URL.Path, message, errstring)
	if c.Writer.Written() {
		return
	}
	data := ErrorPageData{
		TemplateData: s.getBaseTemplateData(c, "Error"),
		Error:        message,
		StatusCode:   statusCode,
	}
	if err := s.Renderer.Render(c.Writer, statusCode, PageError, data); err != nil {
		log.Printf("[Web] rendering error page: %v", err)
		c.String(statusCode, "Error: %s", message)
	}
}

func (s *WebServer) renderNotFound(c *gin.Context) {
	data := s.getBaseTemplateData(c, "Page Not Found")
	if err := s.Renderer.Render(c.Writer, http.StatusNotFound, PageNotFound, data); err != nil {
		log.Printf("[Web] rendering not found page: %v", err)
		c.String(http.StatusNotFound, "404 page not found")
	}
}

// handleError maps a failed operation to a response.
func (s *WebServer) handleError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		s.renderNotFound(c)
	case errors.Is(err, errMalformed):
		s.renderError(c, http.StatusBadRequest, err.Error(), action)
	case errors.Is(err, repo.ErrConstraint):
		s.renderError(c, http.StatusInternalServerError, "Could not "+action, "constraint violation: "+err.Error())
	default:
		s.renderError(c, http.StatusInternalServerError, "Could not "+action, err.Error())
	}
}

// parseID accepts unsigned decimal ids that fit the 32-bit key columns.
// Out of range values fail with strconv.ErrRange.
func parseID(v string) (int, error) {
	if v == "" || v[0] == '+' || v[0] == '-' {
		return 0, strconv.ErrSyntax
	}
	id, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return 0, err //nolint:wrapcheck // callers inspect ErrRange
	}
	return int(id), nil
}

// pathID reads the :id segment. Anything but a valid id matches no row.
func pathID(c *gin.Context) (int, bool) {
	id, err := parseID(c.Param("id"))
	return id, err == nil
}

// requiredField returns the trimmed form value, or errMalformed when it is
// absent or blank.
func requiredField(c *gin.Context, name string) (string, error) {
	v, ok := c.GetPostForm(name)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return "", errors.Wrapf(errMalformed, "missing field %q", name)
	}
	return v, nil
}

// formIDs converts every value of a multi-value field to an id. Values too
// large to be a key are dropped, the same as ids with no row.
func formIDs(c *gin.Context, name string) ([]int, error) {
	values := c.PostFormArray(name)
	ids := make([]int, 0, len(values))
	for _, v := range values {
		id, err := parseID(strings.TrimSpace(v))
		switch {
		case errors.Is(err, strconv.ErrRange):
			continue
		case err != nil:
			return nil, errors.Wrapf(errMalformed, "field %q: %q is not an id", name, v)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

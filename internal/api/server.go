package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/david/youth-hub/internal/ai"
	"github.com/david/youth-hub/internal/auth"
	"github.com/david/youth-hub/internal/catalog"
	"github.com/david/youth-hub/internal/finder"
	"github.com/david/youth-hub/internal/i18n"
	"github.com/david/youth-hub/internal/session"
)

// Deps are the components the handlers call into.
type Deps struct {
	Catalog     *catalog.Catalog
	Geography   *catalog.Geography
	Finder      *finder.Engine
	Sessions    *session.Manager
	Issuer      *auth.Issuer
	Assistant   *ai.Assistant
	Translator  *i18n.Translator
	Log         *zap.Logger
	CORSOrigins []string
}

type Server struct {
	Deps
	Echo *echo.Echo
}

func NewServer(d Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	allowedOrigins := d.CORSOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:4200"}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	s := &Server{Deps: d, Echo: e}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)
	api := s.Echo.Group("/api/v1")
	api.GET("/options", s.handleOptions)
	api.GET("/opportunities", s.handleListOpportunities)
	api.GET("/opportunities/:id", s.handleGetOpportunity)
	api.GET("/jobs/latest", s.handleLatestJobs)

	// Auth Routes
	api.POST("/auth/signup", s.handleSignup)
	api.POST("/auth/login", s.handleLogin)
	api.POST("/auth/social", s.handleSocialLogin)

	// Session Routes
	user := api.Group("")
	user.Use(auth.Middleware(s.Issuer, s.Sessions))
	user.POST("/auth/logout", s.handleLogout)
	user.GET("/session", s.handleSession)
	user.GET("/profile", s.handleGetProfile)
	user.PUT("/profile", s.handleSaveProfile)
	user.POST("/profile/setup", s.handleProfileSetup)
	user.PATCH("/profile/bio", s.handleUpdateBio)
	user.GET("/preferences/language", s.handleGetLanguage)
	user.PUT("/preferences/language", s.handleSetLanguage)
	user.POST("/matches", s.handleMatches)
	user.POST("/opportunities/:id/assist", s.handleAssist)

	// Admin Routes
	admin := api.Group("/admin")
	admin.Use(auth.Middleware(s.Issuer, s.Sessions), auth.RequireAdmin)
	admin.GET("/opportunities", s.handleAdminList)
	admin.POST("/opportunities", s.handleCreateOpportunity)
	admin.PUT("/opportunities/:id", s.handleUpdateOpportunity)
	admin.DELETE("/opportunities/:id", s.handleDeleteOpportunity)
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// language is the session's preference, else the lang query parameter.
func (s *Server) language(c echo.Context) string {
	if sess, err := auth.SessionFromContext(c); err == nil {
		if lang, err := sess.Language(c.Request().Context()); err == nil {
			return lang
		}
	}
	if lang := c.QueryParam("lang"); lang != "" {
		return lang
	}
	return i18n.DefaultLanguage
}

func (s *Server) t(c echo.Context, key string, replacements map[string]string) string {
	return s.Translator.T(s.language(c), key, replacements)
}

func (s *Server) fail(c echo.Context, status int, key string, replacements map[string]string) error {
	return c.JSON(status, map[string]string{"error": s.t(c, key, replacements)})
}

func parseID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil
}

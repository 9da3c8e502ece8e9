package handlers

import (
	"net/http"
	"strings"

	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type RouterOptions struct {
	// AllowOrigins is a comma separated list; "*" allows every origin.
	AllowOrigins string
	// BodyLimit uses echo's size syntax, e.g. "10M". Empty disables it.
	BodyLimit string
}

func NewRouter(h *Handler, opts RouterOptions) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.Secure())
	e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	e.Use(h.metrics.Middleware())

	origins := []string{"*"}
	if opts.AllowOrigins != "" {
		origins = strings.Split(opts.AllowOrigins, ",")
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))

	if opts.BodyLimit != "" {
		e.Use(middleware.BodyLimit(opts.BodyLimit))
	}

	h.RegisterRoutes(e)

	return e
}

package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	themeCookie = "theme"
	themeLight  = "light"
	themeDark   = "dark"

	themeMaxAge = 365 * 24 * 60 * 60
)

func themeFromRequest(c *gin.Context, fallback string) string {
	v, err := c.Cookie(themeCookie)
	if err != nil {
		return fallback
	}
	switch v {
	case themeLight, themeDark:
		return v
	default:
		return fallback
	}
}

func (s *site) handleTheme(c *gin.Context) {
	next := themeDark
	if themeFromRequest(c, s.cfg.DefaultTheme) == themeDark {
		next = themeLight
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(themeCookie, next, themeMaxAge, s.cfg.BasePath+"/", "", false, false)
	c.JSON(http.StatusOK, gin.H{"theme": next})
}

package main

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spahuja/portfolio/internal/boot"
	"github.com/spahuja/portfolio/internal/contact"
	"github.com/spahuja/portfolio/internal/metrics"
	"github.com/spahuja/portfolio/internal/pages"
)

const sseHeartbeat = 15 * time.Second

// pageData is shared by every full-page and fragment template.
func (s *site) pageData(c *gin.Context, extra gin.H) gin.H {
	p := s.profile
	data := gin.H{
		"base":        s.cfg.BasePath,
		"theme":       themeFromRequest(c, s.cfg.DefaultTheme),
		"profile":     p,
		"skillGroups": p.SkillsByCategory(),
		"title":       p.Name + " | ECE Portfolio",
		"description": strings.TrimSpace(p.Title + " at " + p.School + ". " + p.Hero.Subtext),
		"keywords":    strings.Join(p.Keywords, ", "),
		"steps":       boot.Steps(),
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

// handleIndex opens a new page session for every page view; a reload is the
// only way to see the boot console again.
func (s *site) handleIndex(c *gin.Context) {
	frame, err := s.pages.Open(c.Request.Context())
	if err != nil {
		s.log.Error("opening page session", "err", err)
		c.HTML(http.StatusServiceUnavailable, "error.html", s.pageData(c, gin.H{
			"error": "The site is restarting. Please try again in a moment.",
		}))
		return
	}
	c.Header("Cache-Control", "no-store")
	c.HTML(http.StatusOK, "index.html", s.pageData(c, gin.H{"frame": frame}))
}

func (s *site) handleBoot(c *gin.Context) {
	frame, started, err := s.pages.Start(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.pageError(c, err)
		return
	}
	status := http.StatusOK
	if started {
		status = http.StatusAccepted
	}
	c.JSON(status, frame)
}

func (s *site) handleState(c *gin.Context) {
	frame, err := s.pages.State(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.pageError(c, err)
		return
	}
	c.JSON(http.StatusOK, frame)
}

// handleEvents streams frames until the content is revealed or the client
// goes away.
func (s *site) handleEvents(c *gin.Context) {
	ctx := c.Request.Context()
	frames, cancel, err := s.pages.Subscribe(ctx, c.Param("id"))
	if err != nil {
		s.pageError(c, err)
		return
	}
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	heartbeat := time.NewTicker(sseHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			if _, err := c.Writer.WriteString(": ping\n\n"); err != nil {
				return
			}
			c.Writer.Flush()
		case f, ok := <-frames:
			if !ok {
				c.SSEvent("closed", gin.H{"page": c.Param("id")})
				c.Writer.Flush()
				return
			}
			c.SSEvent("frame", f)
			c.Writer.Flush()
			if f.Booted {
				return
			}
		}
	}
}

func (s *site) handleContent(c *gin.Context) {
	if err := s.pages.RequireContent(c.Request.Context(), c.Param("id")); err != nil {
		s.pageError(c, err)
		return
	}
	c.HTML(http.StatusOK, "content.html", s.pageData(c, gin.H{
		"form":   contact.Form{},
		"errors": contact.Errors{},
	}))
}

func (s *site) handleClose(c *gin.Context) {
	if err := s.pages.Close(c.Request.Context(), c.Param("id")); err != nil {
		s.pageError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *site) pageError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, pages.ErrPageNotFound):
		status = http.StatusNotFound
	case errors.Is(err, pages.ErrNotBooted):
		status = http.StatusConflict
	case errors.Is(err, pages.ErrClosed), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	default:
		s.log.Error("page request failed", "path", c.Request.URL.Path, "err", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// handleContact validates the form and re-renders it. Nothing is sent.
func (s *site) handleContact(c *gin.Context) {
	var form contact.Form
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "contact-form.html", s.pageData(c, gin.H{
			"form":   form,
			"errors": contact.Errors{"form": "Invalid submission"},
		}))
		return
	}

	if errs := s.validator.Validate(form); errs != nil {
		metrics.ContactSubmissions.WithLabelValues("invalid").Inc()
		c.HTML(http.StatusUnprocessableEntity, "contact-form.html", s.pageData(c, gin.H{
			"form":   form,
			"errors": errs,
		}))
		return
	}

	metrics.ContactSubmissions.WithLabelValues("valid").Inc()
	c.HTML(http.StatusOK, "contact-form.html", s.pageData(c, gin.H{
		"form":    contact.Form{},
		"errors":  contact.Errors{},
		"success": "Thank you! Your message has been sent successfully.",
	}))
}

package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Learning-is-key/LegalLite/session"
)

const sessionKey = "legallite_session"

// RequireSession resolves the bearer token to a live session and aborts with
// 401 otherwise.
func (h *Handlers) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing session token"})
			return
		}
		sess, ok := h.Sessions.Get(token)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

// RequireLogin aborts unless the session is authenticated.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentSession(c).LoggedIn() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Login required"})
			return
		}
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}

func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if after, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return ""
}

type ModeInput struct {
	Mode string `json:"mode" binding:"required"`
}

type KeyInput struct {
	APIKey string `json:"api_key"`
}

// SelectMode picks the summarization backend for the session.
func (h *Handlers) SelectMode(c *gin.Context) {
	var input ModeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := currentSession(c)
	sess.Fire(session.ActionSelectMode)
	if err := h.Flow.SelectMode(sess, session.Mode(input.Mode)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.sessionView(c, sess)
}

// SubmitKey stores the own-key API key. An empty key re-prompts with a
// warning and the session stays pending.
func (h *Handlers) SubmitKey(c *gin.Context) {
	var input KeyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := currentSession(c)
	sess.Fire(session.ActionSubmitKey)
	if err := h.Flow.SubmitKey(sess, input.APIKey); err != nil {
		if errors.Is(err, session.ErrEmptyKey) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter your API key."})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	h.sessionView(c, sess)
}

// Back returns to mode selection and clears all mode-related state.
func (h *Handlers) Back(c *gin.Context) {
	sess := currentSession(c)
	sess.Fire(session.ActionBack)
	if err := h.Flow.Back(sess); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	h.sessionView(c, sess)
}

// SessionState reports the workflow position. Rendering it has no side
// effects, so clients may poll it freely.
func (h *Handlers) SessionState(c *gin.Context) {
	h.sessionView(c, currentSession(c))
}

func (h *Handlers) sessionView(c *gin.Context, sess *session.Session) {
	c.JSON(http.StatusOK, gin.H{
		"state":          sess.State(),
		"email":          sess.Email(),
		"mode":           sess.Mode(),
		"mode_confirmed": sess.ModeConfirmed(),
	})
}

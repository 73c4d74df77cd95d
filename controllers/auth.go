package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Learning-is-key/LegalLite/session"
	"github.com/Learning-is-key/LegalLite/store"
)

// Handlers binds the HTTP surface to the workflow controller.
type Handlers struct {
	Sessions *session.Store
	Flow     *session.Workflow
}

type SignupInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handlers) Signup(c *gin.Context) {
	var input SignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Signup never logs the caller in, so a session created just for this
	// request is discarded either way.
	sess, created := h.sessionForRequest(c)
	if created {
		defer h.Sessions.Delete(sess.Token)
	}
	sess.Fire(session.ActionSignup)
	if err := h.Flow.Signup(c.Request.Context(), sess, input.Email, input.Password); err != nil {
		if errors.Is(err, store.ErrUserExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "User already exists."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account created! You can now login."})
}

func (h *Handlers) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, created := h.sessionForRequest(c)
	sess.Fire(session.ActionLogin)
	if err := h.Flow.Login(c.Request.Context(), sess, input.Email, input.Password); err != nil {
		if created {
			h.Sessions.Delete(sess.Token)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   sess.Token,
		"message": fmt.Sprintf("Welcome back, %s!", sess.Email()),
	})
}

func (h *Handlers) Logout(c *gin.Context) {
	sess := currentSession(c)
	sess.Fire(session.ActionLogout)
	if err := h.Flow.Logout(sess); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out."})
}

// sessionForRequest reuses the caller's session when a valid token is
// presented, otherwise starts a fresh one. Signup and login happen before
// authentication, so they cannot require an existing session. The created
// flag lets the caller discard the fresh session unless the request ends up
// establishing a login, so anonymous attempts do not accumulate sessions.
func (h *Handlers) sessionForRequest(c *gin.Context) (*session.Session, bool) {
	if token := bearerToken(c); token != "" {
		if sess, ok := h.Sessions.Get(token); ok {
			return sess, false
		}
	}
	return h.Sessions.Create(), true
}

package controllers

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Learning-is-key/LegalLite/services"
	"github.com/Learning-is-key/LegalLite/session"
)

// RequireReady gates the workspace screens on a confirmed mode.
func RequireReady() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentSession(c).State() != session.StateReady {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Choose a mode before using the workspace."})
			return
		}
		c.Next()
	}
}

// Simplify handles Upload & Simplify: a single PDF under 3MB in, a summary
// plus risky-term list out. History is written only for genuine summaries.
func (h *Handlers) Simplify(c *gin.Context) {
	filename, data, ok := h.readUpload(c)
	if !ok {
		return
	}

	sess := currentSession(c)
	sess.Fire(session.ActionSimplify)
	result, err := h.Flow.Simplify(c.Request.Context(), sess, filename, data)
	if err != nil {
		writeWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"filename":    result.Filename,
		"summary":     result.Summary,
		"risky_terms": result.RiskyTerms,
		"pdf_url":     "/workspace/summary.pdf",
		"audio_url":   "/workspace/summary.mp3",
	})
}

// RiskyTerms handles the Risky Terms Detector screen. With analyze=true an
// own-key session also gets an AI clause analysis; its failure degrades to a
// warning and does not void the term list.
func (h *Handlers) RiskyTerms(c *gin.Context) {
	_, data, ok := h.readUpload(c)
	if !ok {
		return
	}
	analyze := c.PostForm("analyze") == "true"

	sess := currentSession(c)
	sess.Fire(session.ActionRiskScan)
	result, err := h.Flow.RiskScan(c.Request.Context(), sess, data, analyze)
	if err != nil {
		writeWorkflowError(c, err)
		return
	}

	resp := gin.H{"risky_terms": result.Terms}
	if result.Analysis != "" {
		resp["analysis"] = result.Analysis
	}
	if result.AnalysisErr != nil {
		resp["analysis_error"] = services.UserMessage(result.AnalysisErr)
	}
	c.JSON(http.StatusOK, resp)
}

// SummaryPDF streams the session's last summary as a PDF download.
func (h *Handlers) SummaryPDF(c *gin.Context) {
	sess := currentSession(c)
	data, name, err := h.Flow.SummaryPDF(c.Request.Context(), sess)
	if err != nil {
		if errors.Is(err, session.ErrNoSummary) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No summary available yet."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// SummaryVoice streams the synthesized speech clip of the last summary.
// Synthesis failure is non-fatal for the workflow; the summary and PDF remain
// available.
func (h *Handlers) SummaryVoice(c *gin.Context) {
	sess := currentSession(c)
	audio, err := h.Flow.SummaryVoice(c.Request.Context(), sess)
	if err != nil {
		if errors.Is(err, session.ErrNoSummary) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No summary available yet."})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": services.UserMessage(err)})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="summary_audio.mp3"`)
	c.Data(http.StatusOK, "audio/mpeg", audio)
}

// History lists the user's upload records, oldest first.
func (h *Handlers) History(c *gin.Context) {
	sess := currentSession(c)
	uploads, err := h.Flow.History(sess)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	entries := make([]gin.H, 0, len(uploads))
	for _, u := range uploads {
		entries = append(entries, gin.H{
			"filename":   u.Filename,
			"summary":    u.Summary,
			"created_at": u.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}

// Profile shows who is logged in, the active mode and, when an archive is
// configured, the artifacts stored for the user.
func (h *Handlers) Profile(c *gin.Context) {
	sess := currentSession(c)
	resp := gin.H{
		"email": sess.Email(),
		"mode":  sess.Mode(),
	}
	if artifacts, err := h.Flow.Artifacts(c.Request.Context(), sess); err == nil && artifacts != nil {
		resp["artifacts"] = artifacts
	}
	c.JSON(http.StatusOK, resp)
}

// readUpload pulls the multipart PDF out of the request. It enforces the
// PDF-only rule and the 3MB cap before reading the file into memory, so an
// oversized upload never reaches the extractor.
func (h *Handlers) readUpload(c *gin.Context) (string, []byte, bool) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded (key 'file' missing or empty)"})
		return "", nil, false
	}

	filename := filepath.Base(file.Filename)
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF uploads are accepted."})
		return "", nil, false
	}
	if file.Size > services.MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "⚠️ File too large. Please upload PDFs under 3MB."})
		return "", nil, false
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not open file"})
		return "", nil, false
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read file"})
		return "", nil, false
	}
	return filename, data, true
}

// writeWorkflowError maps workflow and provider failures to user-visible
// JSON. Provider errors keep the original app's message prefixes.
func writeWorkflowError(c *gin.Context, err error) {
	var extraction *services.ExtractionError
	switch {
	case errors.Is(err, services.ErrFileTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "⚠️ File too large. Please upload PDFs under 3MB."})
	case errors.As(err, &extraction):
		c.JSON(http.StatusBadRequest, gin.H{"error": "❌ " + err.Error()})
	case errors.Is(err, session.ErrModeNotReady):
		c.JSON(http.StatusConflict, gin.H{"error": "Choose a mode before using the workspace."})
	case errors.Is(err, session.ErrNotFired):
		c.JSON(http.StatusConflict, gin.H{"error": "Action already handled."})
	case errors.Is(err, services.ErrMissingKey):
		c.JSON(http.StatusBadRequest, gin.H{"error": "❌ API key not found. Please go back and enter your key."})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": services.UserMessage(err)})
	}
}

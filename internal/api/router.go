// Package api exposes the project QA endpoints and the health surfaces over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/apperr"
	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/llm"
	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/logging"
	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/project"
	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/store"
)

type Provisioner interface {
	Provision(ctx context.Context, up project.Upload) (project.Provisioned, error)
}

type Asker interface {
	ProjectInfo(ctx context.Context, assistantID string) (string, error)
	UserScenarios(ctx context.Context, assistantID, name, description string) (string, error)
}

// Provider is the part of the LLM gateway used directly by handlers.
type Provider interface {
	DeleteAssistant(ctx context.Context, assistantID string) error
	ListFiles(ctx context.Context) ([]llm.FileInfo, error)
}

// Ledger is the optional assistant audit trail.
type Ledger interface {
	MarkAssistantDeleted(ctx context.Context, assistantID string) error
	FindAssistantsByProject(ctx context.Context, userID, projectID string) ([]store.Assistant, error)
}

// Deps are the collaborators of the router. Ledger, Healthy and ConsumerRunning may be nil.
type Deps struct {
	Projects        Provisioner
	Scenarios       Asker
	Provider        Provider
	Ledger          Ledger
	Healthy         func() bool
	ConsumerRunning func() bool
	MaxUploadBytes  int64
	Logger          *zap.Logger
}

type handler struct {
	Deps
	logger *zap.Logger
}

// NewRouter returns the gin engine serving every route.
func NewRouter(d Deps) *gin.Engine {
	h := &handler{Deps: d, logger: logging.Component(d.Logger, "api")}

	r := gin.New()
	r.Use(requestID(), accessLog(h.logger), recovery(h.logger))
	if d.MaxUploadBytes > 0 {
		r.MaxMultipartMemory = d.MaxUploadBytes
	}

	r.GET("/", h.hostname)
	r.GET("/health", h.health)

	projects := r.Group("/api/v1/ai/project")
	projects.POST("/information", h.projectInformation)
	projects.POST("/character/create", h.createCharacter)
	projects.GET("/assistants", h.listAssistants)

	r.POST("/delete", h.deleteAssistant)
	r.GET("/file", h.listFiles)
	return r
}

func (h *handler) hostname(c *gin.Context) {
	host, _ := os.Hostname()
	c.JSON(http.StatusOK, gin.H{"hostname": host})
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"healthy":          call(h.Healthy),
		"consumer_running": call(h.ConsumerRunning),
	})
}

func call(fn func() bool) bool {
	return fn != nil && fn()
}

func (h *handler) projectInformation(c *gin.Context) {
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}
	header, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, MsgFailure, apperr.E(apperr.BadRequest, "project information", errors.New("file is required")))
		return
	}
	f, err := header.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, MsgFailure, apperr.E(apperr.BadRequest, "project information", err))
		return
	}
	defer f.Close()

	provisioned, err := h.Projects.Provision(c.Request.Context(), project.Upload{
		UserID:    c.PostForm("user_id"),
		ProjectID: c.PostForm("project_id"),
		Filename:  header.Filename,
		Archive:   f,
	})
	if err != nil {
		failErr(c, err)
		return
	}

	response, err := h.Scenarios.ProjectInfo(c.Request.Context(), provisioned.AssistantID)
	if err != nil {
		h.logger.Warn("project information failed", zap.String(logging.FieldAssistantID, provisioned.AssistantID), zap.Error(err))
		failErr(c, err)
		return
	}
	ok(c, gin.H{"response": response, "assistant_id": provisioned.AssistantID})
}

type characterRequest struct {
	AssistantID string `json:"assistant_id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
}

func (h *handler) createCharacter(c *gin.Context) {
	var req characterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, MsgFailure, err)
		return
	}
	response, err := h.Scenarios.UserScenarios(c.Request.Context(), req.AssistantID, req.Name, req.Description)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, response)
}

type deleteRequest struct {
	AssistantID string `json:"assistant_id"`
}

func (h *handler) deleteAssistant(c *gin.Context) {
	var req deleteRequest
	// A malformed body is treated like a missing id.
	_ = c.ShouldBindJSON(&req)
	if req.AssistantID == "" {
		fail(c, http.StatusBadRequest, "File ID is required", apperr.Errorf(apperr.BadRequest, "delete", "assistant_id is required"))
		return
	}

	if err := h.Provider.DeleteAssistant(c.Request.Context(), req.AssistantID); err != nil {
		failErr(c, err)
		return
	}
	if h.Ledger != nil {
		err := h.Ledger.MarkAssistantDeleted(c.Request.Context(), req.AssistantID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			h.logger.Warn("failed to mark assistant deleted", zap.String(logging.FieldAssistantID, req.AssistantID), zap.Error(err))
		}
	}
	ok(c, nil)
}

func (h *handler) listFiles(c *gin.Context) {
	files, err := h.Provider.ListFiles(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"files": files})
}

func (h *handler) listAssistants(c *gin.Context) {
	if h.Ledger == nil {
		fail(c, http.StatusNotFound, MsgFailure, errors.New("assistant ledger is not enabled"))
		return
	}
	userID, projectID := c.Query("user_id"), c.Query("project_id")
	if userID == "" || projectID == "" {
		fail(c, http.StatusBadRequest, MsgFailure, apperr.Errorf(apperr.BadRequest, "list assistants", "user_id and project_id are required"))
		return
	}
	assistants, err := h.Ledger.FindAssistantsByProject(c.Request.Context(), userID, projectID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"assistants": assistants})
}

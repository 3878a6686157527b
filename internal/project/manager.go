// Package project stores uploaded project archives and provisions a code-interpreter assistant
// over each of them.
package project

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/apperr"
	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/llm"
	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/logging"
)

// AssistantInstructions is given to every project assistant.
const AssistantInstructions = "You are a tool to help QA by analyzing projects and writing multiple user-specific scenarios."

// Provider is the part of the LLM gateway used for provisioning.
type Provider interface {
	UploadFile(ctx context.Context, path string) (string, error)
	CreateAssistant(ctx context.Context, spec llm.AssistantSpec) (string, error)
}

// Ledger records provisioned assistants. It is optional.
type Ledger interface {
	RecordAssistant(ctx context.Context, p Provisioned) error
}

// Upload is one project archive sent by a client.
type Upload struct {
	UserID    string
	ProjectID string
	Filename  string
	Archive   io.Reader
}

// Provisioned describes the result of a successful Provision.
type Provisioned struct {
	UserID      string
	ProjectID   string
	Filename    string
	Path        string
	FileID      string
	AssistantID string
}

// Manager owns the project files directory.
type Manager struct {
	dir      string
	provider Provider
	ledger   Ledger
	logger   *zap.Logger
}

// NewManager returns a manager storing archives under dir. ledger may be nil.
func NewManager(dir string, provider Provider, ledger Ledger, logger *zap.Logger) *Manager {
	return &Manager{
		dir:      dir,
		provider: provider,
		ledger:   ledger,
		logger:   logging.Component(logger, "project"),
	}
}

// AssistantName is the display name of the assistant for a project.
func AssistantName(userID, projectID string) string {
	return fmt.Sprintf("%s's assistant %s", userID, projectID)
}

// Provision stores the archive, uploads it and creates an assistant bound to it. Earlier
// assistants for the same project are left untouched, and so is the archive on failure.
func (m *Manager) Provision(ctx context.Context, up Upload) (Provisioned, error) {
	const op = "provision"
	name, err := ArchiveName(up.UserID, up.ProjectID, up.Filename)
	if err != nil {
		return Provisioned{}, err
	}
	if up.Archive == nil {
		return Provisioned{}, apperr.Errorf(apperr.BadRequest, op, "archive is required")
	}

	logger := m.logger.With(zap.String(logging.FieldUserID, up.UserID), zap.String(logging.FieldProjectID, up.ProjectID))

	path, err := saveArchive(m.dir, name, up.Archive)
	if err != nil {
		return Provisioned{}, apperr.E(apperr.Provisioning, op, err)
	}
	logger.Info("archive stored", zap.String("path", path))

	fileID, err := m.provider.UploadFile(ctx, path)
	if err != nil {
		return Provisioned{}, apperr.E(apperr.Provisioning, op, err)
	}

	assistantID, err := m.provider.CreateAssistant(ctx, llm.AssistantSpec{
		Name:         AssistantName(up.UserID, up.ProjectID),
		Instructions: AssistantInstructions,
		FileIDs:      []string{fileID},
	})
	if err != nil {
		return Provisioned{}, apperr.E(apperr.Provisioning, op, err)
	}

	p := Provisioned{
		UserID:      up.UserID,
		ProjectID:   up.ProjectID,
		Filename:    up.Filename,
		Path:        path,
		FileID:      fileID,
		AssistantID: assistantID,
	}
	if m.ledger != nil {
		if err := m.ledger.RecordAssistant(ctx, p); err != nil {
			logger.Warn("failed to record assistant", zap.String(logging.FieldAssistantID, assistantID), zap.Error(err))
		}
	}

	logger.Info("assistant provisioned", zap.String(logging.FieldAssistantID, assistantID), zap.String("file_id", fileID))
	return p, nil
}

package llm

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/apperr"
	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/logging"
)

// FunctionTool describes a strict function the model must call. Parameters is a JSON schema.
type FunctionTool struct {
	Name        string
	Description string
	Parameters  any
}

// AssistantSpec configures a code-interpreter assistant bound to uploaded files.
type AssistantSpec struct {
	Name         string
	Instructions string
	FileIDs      []string
}

// FileInfo is an uploaded file as listed by the provider.
type FileInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UploadFile uploads the file at path with purpose "assistants" and returns its id.
func (g *Gateway) UploadFile(ctx context.Context, path string) (string, error) {
	const op = "upload file"
	if err := g.wait(ctx, op); err != nil {
		return "", err
	}

	file, err := g.client.CreateFile(ctx, openai.FileRequest{
		FileName: filepath.Base(path),
		FilePath: path,
		Purpose:  string(openai.PurposeAssistants),
	})
	if err != nil {
		return "", upstream(op, err)
	}
	g.logger.Info("file uploaded", zap.String("file_id", file.ID), zap.String("file_name", file.FileName))
	return file.ID, nil
}

// ListFiles returns every file known to the provider.
func (g *Gateway) ListFiles(ctx context.Context) ([]FileInfo, error) {
	const op = "list files"
	if err := g.wait(ctx, op); err != nil {
		return nil, err
	}

	list, err := g.client.ListFiles(ctx)
	if err != nil {
		return nil, upstream(op, err)
	}
	files := make([]FileInfo, 0, len(list.Files))
	for _, f := range list.Files {
		files = append(files, FileInfo{ID: f.ID, Name: f.FileName})
	}
	return files, nil
}

// CreateAssistant creates an assistant with the code interpreter tool over spec.FileIDs.
func (g *Gateway) CreateAssistant(ctx context.Context, spec AssistantSpec) (string, error) {
	const op = "create assistant"
	if err := g.wait(ctx, op); err != nil {
		return "", err
	}

	name, instructions := spec.Name, spec.Instructions
	assistant, err := g.client.CreateAssistant(ctx, openai.AssistantRequest{
		Model:        g.cfg.AssistantModel,
		Name:         &name,
		Instructions: &instructions,
		Tools: []openai.AssistantTool{
			{Type: openai.AssistantToolTypeCodeInterpreter},
		},
		ToolResources: &openai.AssistantToolResource{
			CodeInterpreter: &openai.AssistantToolCodeInterpreter{FileIDs: spec.FileIDs},
		},
	})
	if err != nil {
		return "", upstream(op, err)
	}
	g.logger.Info("assistant created", zap.String(logging.FieldAssistantID, assistant.ID), zap.String("name", name))
	return assistant.ID, nil
}

// DeleteAssistant deletes the assistant upstream.
func (g *Gateway) DeleteAssistant(ctx context.Context, assistantID string) error {
	const op = "delete assistant"
	if err := g.wait(ctx, op); err != nil {
		return err
	}

	if _, err := g.client.DeleteAssistant(ctx, assistantID); err != nil {
		return upstream(op, err)
	}
	g.logger.Info("assistant deleted", zap.String(logging.FieldAssistantID, assistantID))
	return nil
}

// CreateThread starts a new empty conversation thread.
func (g *Gateway) CreateThread(ctx context.Context) (string, error) {
	const op = "create thread"
	if err := g.wait(ctx, op); err != nil {
		return "", err
	}

	thread, err := g.client.CreateThread(ctx, openai.ThreadRequest{})
	if err != nil {
		return "", upstream(op, err)
	}
	return thread.ID, nil
}

// RunFunction posts userMessage on the thread, runs the assistant with tool as its only tool and
// waits for the run to leave the queued/in_progress states. It returns the first tool call's
// arguments verbatim.
func (g *Gateway) RunFunction(ctx context.Context, assistantID, threadID string, tool FunctionTool, userMessage string) (string, error) {
	const op = "run function"
	logger := g.logger.With(
		zap.String(logging.FieldAssistantID, assistantID),
		zap.String(logging.FieldThreadID, threadID),
		zap.String("function", tool.Name))

	if err := g.wait(ctx, op); err != nil {
		return "", err
	}
	if _, err := g.client.CreateMessage(ctx, threadID, openai.MessageRequest{
		Role:    openai.ChatMessageRoleUser,
		Content: userMessage,
	}); err != nil {
		return "", upstream(op, err)
	}

	if err := g.wait(ctx, op); err != nil {
		return "", err
	}
	run, err := g.client.CreateRun(ctx, threadID, openai.RunRequest{
		AssistantID: assistantID,
		Tools: []openai.Tool{{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Name,
				Description: tool.Description,
				Strict:      true,
				Parameters:  tool.Parameters,
			},
		}},
	})
	if err != nil {
		return "", upstream(op, err)
	}
	logger = logger.With(zap.String(logging.FieldRunID, run.ID))
	logger.Debug("run created", zap.String("status", string(run.Status)))

	for pending(run.Status) {
		if err := g.sleep(ctx, g.cfg.RunPollInterval); err != nil {
			return "", apperr.E(apperr.Upstream, op, err)
		}
		if err := g.wait(ctx, op); err != nil {
			return "", err
		}
		run, err = g.client.RetrieveRun(ctx, threadID, run.ID)
		if err != nil {
			return "", upstream(op, err)
		}
	}

	if run.Status != openai.RunStatusRequiresAction {
		detail := ""
		if run.LastError != nil {
			detail = ": " + run.LastError.Message
		}
		logger.Warn("run ended without a function call", zap.String("status", string(run.Status)))
		return "", apperr.E(apperr.Upstream, op, fmt.Errorf("run %s ended with status %q%s", run.ID, run.Status, detail))
	}
	if run.RequiredAction == nil || run.RequiredAction.SubmitToolOutputs == nil ||
		len(run.RequiredAction.SubmitToolOutputs.ToolCalls) == 0 {
		return "", apperr.E(apperr.Upstream, op, errors.New("run requires action but has no tool calls"))
	}

	logger.Info("function call returned")
	return run.RequiredAction.SubmitToolOutputs.ToolCalls[0].Function.Arguments, nil
}

func pending(status openai.RunStatus) bool {
	return status == openai.RunStatusQueued || status == openai.RunStatusInProgress
}

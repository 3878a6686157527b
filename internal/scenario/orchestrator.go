// Package scenario asks a project assistant for page information or user scenarios through a
// strict function call and hands back the raw arguments.
package scenario

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/apperr"
	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/llm"
	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/logging"
)

// InfoPrompt asks for the page inventory of the uploaded project.
const InfoPrompt = "Learn the registered project .zip file and return the full page information that exists when the project file is distributed to the actual url (as in ex. \"/login\"). The full page information should be about the file I uploaded."

// ScenarioPrompt asks for the representative actions of one kind of user.
func ScenarioPrompt(name, description string) string {
	return fmt.Sprintf("Scenario the representative action of user %s with %s in this project. Scenario should be about the file I uploaded. Scenario should work perfectly when converted to selenium code.", name, description)
}

// Runner is the part of the LLM gateway the orchestrator drives.
type Runner interface {
	CreateThread(ctx context.Context) (string, error)
	RunFunction(ctx context.Context, assistantID, threadID string, tool llm.FunctionTool, userMessage string) (string, error)
}

type Orchestrator struct {
	runner Runner
	logger *zap.Logger
}

func NewOrchestrator(runner Runner, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{runner: runner, logger: logging.Component(logger, "scenario")}
}

// Ask runs functionName against the assistant on a fresh thread and returns the function
// arguments unchanged.
func (o *Orchestrator) Ask(ctx context.Context, assistantID, functionName, userMessage string) (string, error) {
	const op = "ask"
	if strings.TrimSpace(assistantID) == "" {
		return "", apperr.Errorf(apperr.BadRequest, op, "assistant_id is required")
	}
	tool, ok := Tool(functionName)
	if !ok {
		return "", apperr.Errorf(apperr.BadRequest, op, "unknown function: %s", functionName)
	}

	threadID, err := o.runner.CreateThread(ctx)
	if err != nil {
		return "", err
	}
	o.logger.Info("asking assistant",
		zap.String(logging.FieldAssistantID, assistantID),
		zap.String(logging.FieldThreadID, threadID),
		zap.String("function", functionName))

	return o.runner.RunFunction(ctx, assistantID, threadID, tool, userMessage)
}

// ProjectInfo asks for the page information of the project bound to the assistant.
func (o *Orchestrator) ProjectInfo(ctx context.Context, assistantID string) (string, error) {
	return o.Ask(ctx, assistantID, FunctionProjectInfo, InfoPrompt)
}

// UserScenarios asks for scenarios for the user persona described by name and description.
func (o *Orchestrator) UserScenarios(ctx context.Context, assistantID, name, description string) (string, error) {
	return o.Ask(ctx, assistantID, FunctionUserScenarios, ScenarioPrompt(name, description))
}

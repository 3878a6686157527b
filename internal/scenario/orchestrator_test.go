package scenario

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/apperr"
	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/llm"
)

type call struct {
	assistantID string
	threadID    string
	tool        llm.FunctionTool
	message     string
}

type fakeRunner struct {
	threads   int
	threadErr error
	calls     []call
	reply     string
	runErr    error
}

func (f *fakeRunner) CreateThread(context.Context) (string, error) {
	if f.threadErr != nil {
		return "", f.threadErr
	}
	f.threads++
	return "th_" + string(rune('0'+f.threads)), nil
}

func (f *fakeRunner) RunFunction(_ context.Context, assistantID, threadID string, tool llm.FunctionTool, msg string) (string, error) {
	f.calls = append(f.calls, call{assistantID, threadID, tool, msg})
	return f.reply, f.runErr
}

const scenarioReply = `{"title":"Shop","description":"A shop","scenarios":[{"step":1,"description":"Open login","elements":[{"name":"login","type":"button","locator":{"strategy":"id","value":"login"},"action":{"type":"click","value":""}}]}]}`

func TestUserScenarios(t *testing.T) {
	runner := &fakeRunner{reply: scenarioReply}
	o := NewOrchestrator(runner, zap.NewNop())

	got, err := o.UserScenarios(context.Background(), "asst_1", "general user", "a user who wants to log in")
	require.NoError(t, err)
	assert.Equal(t, scenarioReply, got)

	require.Len(t, runner.calls, 1)
	c := runner.calls[0]
	assert.Equal(t, "asst_1", c.assistantID)
	assert.Equal(t, "th_1", c.threadID)
	assert.Equal(t, FunctionUserScenarios, c.tool.Name)
	assert.Equal(t, "Scenario the representative action of user general user with a user who wants to log in in this project. Scenario should be about the file I uploaded. Scenario should work perfectly when converted to selenium code.", c.message)

	var set ScenarioSet
	require.NoError(t, json.Unmarshal([]byte(got), &set))
	assert.Equal(t, "Shop", set.Title)
	require.Len(t, set.Scenarios, 1)
	assert.Equal(t, 1, set.Scenarios[0].Step)
	assert.Equal(t, "id", set.Scenarios[0].Elements[0].Locator.Strategy)
}

func TestProjectInfoUsesFreshThreads(t *testing.T) {
	runner := &fakeRunner{reply: `{"project":{},"pages":[]}`}
	o := NewOrchestrator(runner, zap.NewNop())

	for range 2 {
		_, err := o.ProjectInfo(context.Background(), "asst_1")
		require.NoError(t, err)
	}
	require.Len(t, runner.calls, 2)
	assert.Equal(t, "th_1", runner.calls[0].threadID)
	assert.Equal(t, "th_2", runner.calls[1].threadID)
	assert.Equal(t, InfoPrompt, runner.calls[0].message)
	assert.Equal(t, FunctionProjectInfo, runner.calls[0].tool.Name)
}

func TestAskRejectsBadInput(t *testing.T) {
	runner := &fakeRunner{}
	o := NewOrchestrator(runner, zap.NewNop())

	_, err := o.Ask(context.Background(), "asst_1", "write_poem", "hi")
	assert.ErrorIs(t, err, apperr.BadRequest)
	assert.Contains(t, err.Error(), "unknown function: write_poem")

	_, err = o.Ask(context.Background(), " ", FunctionProjectInfo, "hi")
	assert.ErrorIs(t, err, apperr.BadRequest)

	assert.Zero(t, runner.threads)
	assert.Empty(t, runner.calls)
}

func TestAskPropagatesUpstreamErrors(t *testing.T) {
	upstream := apperr.E(apperr.Upstream, "create thread", errors.New("status 401: bad key"))
	o := NewOrchestrator(&fakeRunner{threadErr: upstream}, zap.NewNop())
	_, err := o.ProjectInfo(context.Background(), "asst_1")
	assert.ErrorIs(t, err, apperr.Upstream)

	runErr := apperr.E(apperr.Upstream, "run function", errors.New(`run run_1 ended with status "failed"`))
	o = NewOrchestrator(&fakeRunner{runErr: runErr}, zap.NewNop())
	_, err = o.ProjectInfo(context.Background(), "asst_1")
	assert.ErrorIs(t, err, apperr.Upstream)
}

// strictEverywhere walks a marshalled schema and checks every object forbids extra properties
// and requires all of its properties.
func strictEverywhere(t *testing.T, path string, node map[string]any) {
	t.Helper()
	if node["type"] == string(jsonschema.Object) {
		assert.Equal(t, false, node["additionalProperties"], path)
		props, _ := node["properties"].(map[string]any)
		required, _ := node["required"].([]any)
		assert.Len(t, required, len(props), path)
		for name, p := range props {
			strictEverywhere(t, path+"."+name, p.(map[string]any))
		}
	}
	if items, ok := node["items"].(map[string]any); ok {
		strictEverywhere(t, path+"[]", items)
	}
}

func TestSchemasAreStrict(t *testing.T) {
	for _, name := range []string{FunctionProjectInfo, FunctionUserScenarios} {
		tool, ok := Tool(name)
		require.True(t, ok)
		assert.NotEmpty(t, tool.Description)

		raw, err := json.Marshal(tool.Parameters)
		require.NoError(t, err)
		var node map[string]any
		require.NoError(t, json.Unmarshal(raw, &node))
		strictEverywhere(t, name, node)
	}
}

func TestSchemaFields(t *testing.T) {
	info := ProjectInfoSchema()
	page := info.Properties["pages"].Items
	require.NotNil(t, page)
	assert.Contains(t, page.Properties, "senario")
	assert.Equal(t, []string{"name", "path", "description", "senario"}, page.Required)
	assert.Equal(t, jsonschema.String, page.Properties["senario"].Properties["steps"].Items.Type)

	scenarios := UserScenariosSchema()
	step := scenarios.Properties["scenarios"].Items
	require.NotNil(t, step)
	assert.Equal(t, jsonschema.Integer, step.Properties["step"].Type)
	element := step.Properties["elements"].Items
	assert.Equal(t, []string{"strategy", "value"}, element.Properties["locator"].Required)
	assert.Equal(t, []string{"type", "value"}, element.Properties["action"].Required)

	_, ok := Tool("nope")
	assert.False(t, ok)
}

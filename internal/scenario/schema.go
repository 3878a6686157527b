package scenario

import (
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/llm"
)

// Function names understood by Ask.
const (
	FunctionProjectInfo   = "generate_project_info"
	FunctionUserScenarios = "define_user_scenarios"
)

// object builds a strict object schema: every property is required and nothing else is allowed.
func object(description string, props map[string]jsonschema.Definition, order ...string) jsonschema.Definition {
	return jsonschema.Definition{
		Type:                 jsonschema.Object,
		Description:          description,
		Properties:           props,
		Required:             order,
		AdditionalProperties: false,
	}
}

func str(description string) jsonschema.Definition {
	return jsonschema.Definition{Type: jsonschema.String, Description: description}
}

func array(description string, items jsonschema.Definition) jsonschema.Definition {
	return jsonschema.Definition{Type: jsonschema.Array, Description: description, Items: &items}
}

// ProjectInfoSchema describes the arguments of generate_project_info.
func ProjectInfoSchema() jsonschema.Definition {
	project := object("", map[string]jsonschema.Definition{
		"description":       str("Description of the project"),
		"view_type":         str("view_type (pc or mobile)"),
		"development_skill": str("development_skill (next or react or vanilla)"),
	}, "description", "view_type", "development_skill")

	// "senario" is the field name clients already parse.
	page := object("", map[string]jsonschema.Definition{
		"name":        str("Name of the page"),
		"path":        str("Path of the page"),
		"description": str("Description of the page"),
		"senario": object("", map[string]jsonschema.Definition{
			"steps": array("List of Scenario Steps", str("Description of each step")),
		}, "steps"),
	}, "name", "path", "description", "senario")

	return object("", map[string]jsonschema.Definition{
		"project": project,
		"pages":   array("List of Project Pages", page),
	}, "project", "pages")
}

// UserScenariosSchema describes the arguments of define_user_scenarios.
func UserScenariosSchema() jsonschema.Definition {
	locator := object("", map[string]jsonschema.Definition{
		"strategy": str("The locator strategy (e.g., id, class name)"),
		"value":    str("The locator value to find the element"),
	}, "strategy", "value")
	action := object("", map[string]jsonschema.Definition{
		"type":  str("The type of action (e.g., click, type)"),
		"value": str("The value associated with the action (e.g., text to input)"),
	}, "type", "value")
	element := object("", map[string]jsonschema.Definition{
		"name":    str("The name of the UI element"),
		"type":    str("The type of the UI element (e.g., button, input)"),
		"locator": locator,
		"action":  action,
	}, "name", "type", "locator", "action")
	step := object("", map[string]jsonschema.Definition{
		"step":        {Type: jsonschema.Integer, Description: "The order step of the scenario"},
		"description": str("Description of the scenario step"),
		"elements":    array("Elements involved in the scenario step", element),
	}, "step", "description", "elements")

	return object("", map[string]jsonschema.Definition{
		"title":       str("The title of the project"),
		"description": str("A description of the project"),
		"scenarios":   array("List of scenarios that define the user actions", step),
	}, "title", "description", "scenarios")
}

var tools = map[string]llm.FunctionTool{
	FunctionProjectInfo: {
		Name:        FunctionProjectInfo,
		Description: "Learn the registered project .zip file and return the full page information that exists when this project file is deployed as the actual url",
		Parameters:  ProjectInfoSchema(),
	},
	FunctionUserScenarios: {
		Name:        FunctionUserScenarios,
		Description: "Define user scenarios for a project based on the target user's actions in a service.",
		Parameters:  UserScenariosSchema(),
	},
}

// Tool returns the function tool registered under name.
func Tool(name string) (llm.FunctionTool, bool) {
	t, ok := tools[name]
	return t, ok
}

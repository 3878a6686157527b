package scenario

// ProjectInfo is the decoded form of generate_project_info arguments.
type ProjectInfo struct {
	Project struct {
		Description      string `json:"description"`
		ViewType         string `json:"view_type"`
		DevelopmentSkill string `json:"development_skill"`
	} `json:"project"`
	Pages []Page `json:"pages"`
}

type Page struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Description string `json:"description"`
	Senario     struct {
		Steps []string `json:"steps"`
	} `json:"senario"`
}

// ScenarioSet is the decoded form of define_user_scenarios arguments.
type ScenarioSet struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Scenarios   []Step `json:"scenarios"`
}

type Step struct {
	Step        int       `json:"step"`
	Description string    `json:"description"`
	Elements    []Element `json:"elements"`
}

type Element struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Locator struct {
		Strategy string `json:"strategy"`
		Value    string `json:"value"`
	} `json:"locator"`
	Action struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"action"`
}

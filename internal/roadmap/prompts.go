package roadmap

import "fmt"

// Prompts and token caps for each summarization call. The wording is what the model was tuned
// against; keep it stable.
const (
	promptTitle        = "Extract the title of this document."
	promptOverall      = "Summarize the main purpose of this document."
	promptSectionTitle = "Identify a concise title for main topic #%d."
	promptSectionDesc  = "Summarize the topic '%s'."
	promptSubtopic     = "Provide a concise title for subtopic #%d under '%s'."
	promptDetail       = "Describe '%s'."
	promptObjectives   = "Summarize objectives for '%s'."

	capTitle        = 20
	capOverall      = 50
	capSectionTitle = 20
	capSectionDesc  = 30
	capSubtopic     = 20
	capDetail       = 30
	capObjectives   = 100
)

// TitleNotFound replaces an empty document title.
const TitleNotFound = "Document Title Not Found"

func sectionTitlePrompt(i int) string {
	return fmt.Sprintf(promptSectionTitle, i)
}

func sectionDescriptionPrompt(title string) string {
	return fmt.Sprintf(promptSectionDesc, title)
}

func subtopicTitlePrompt(j int, sectionTitle string) string {
	return fmt.Sprintf(promptSubtopic, j, sectionTitle)
}

func detailPrompt(subtopicTitle string) string {
	return fmt.Sprintf(promptDetail, subtopicTitle)
}

func objectivesPrompt(subtopicTitle string) string {
	return fmt.Sprintf(promptObjectives, subtopicTitle)
}

package roadmap

// Roadmap is the hierarchical learning plan built from one lecture document.
type Roadmap struct {
	Title          string    `json:"title"`
	OverallSummary string    `json:"overall_summary"`
	Sections       []Section `json:"sections"`
}

type Section struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Subtopics   []Subtopic `json:"subtopics"`
}

type Subtopic struct {
	Title       string   `json:"title"`
	Detail      string   `json:"detail"`
	Checkpoints []string `json:"checkpoints"`
}

// Structure is the number of sections and subtopics per section requested from the model.
type Structure struct {
	Sections  int
	Subtopics int
}

// Package roadmap builds a learning roadmap from a lecture PDF through a fixed sequence of
// summarization calls.
package roadmap

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/logging"
	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/pdf"
)

// Summarizer issues one single-shot completion.
type Summarizer interface {
	Summarize(ctx context.Context, text, prompt string, maxTokens int) (string, error)
}

// Extractor turns PDF bytes into page texts.
type Extractor interface {
	Extract(data []byte) (pdf.ExtractedDocument, error)
}

// Builder produces roadmaps. Calls are sequential: later prompts quote earlier replies.
type Builder struct {
	summarizer Summarizer
	extractor  Extractor
	logger     *zap.Logger
}

// NewBuilder returns a builder using summarizer for every model call.
func NewBuilder(summarizer Summarizer, extractor Extractor, logger *zap.Logger) *Builder {
	if extractor == nil {
		extractor = pdf.Extractor{}
	}
	return &Builder{
		summarizer: summarizer,
		extractor:  extractor,
		logger:     logging.Component(logger, "roadmap"),
	}
}

// Build extracts data as a PDF and builds its roadmap.
func (b *Builder) Build(ctx context.Context, data []byte) (Roadmap, error) {
	doc, err := b.extractor.Extract(data)
	if err != nil {
		return Roadmap{}, err
	}
	return b.BuildDocument(ctx, doc)
}

// BuildDocument builds the roadmap of an already extracted document.
func (b *Builder) BuildDocument(ctx context.Context, doc pdf.ExtractedDocument) (Roadmap, error) {
	structure := DetermineStructure(doc.PageCount(), utf8.RuneCountInString(doc.MainText))
	b.logger.Info("building roadmap",
		zap.Int("pages", doc.PageCount()),
		zap.Int("sections", structure.Sections),
		zap.Int("subtopics", structure.Subtopics))

	title, err := b.summarize(ctx, doc.TitlePage, promptTitle, capTitle)
	if err != nil {
		return Roadmap{}, err
	}
	if title == "" {
		title = TitleNotFound
	}

	overall, err := b.summarize(ctx, doc.MainText, promptOverall, capOverall)
	if err != nil {
		return Roadmap{}, err
	}

	sections := make([]Section, 0, structure.Sections)
	for i := 1; i <= structure.Sections; i++ {
		section, ok, err := b.buildSection(ctx, doc.MainText, i, structure.Subtopics)
		if err != nil {
			return Roadmap{}, fmt.Errorf("section %d: %w", i, err)
		}
		if !ok {
			b.logger.Debug("skipping section with empty title", zap.Int("section", i))
			continue
		}
		sections = append(sections, section)
	}

	return Roadmap{Title: title, OverallSummary: overall, Sections: sections}, nil
}

// buildSection returns ok=false when the model gives no title for topic #i.
func (b *Builder) buildSection(ctx context.Context, text string, i, subtopicCount int) (Section, bool, error) {
	title, err := b.summarize(ctx, text, sectionTitlePrompt(i), capSectionTitle)
	if err != nil || title == "" {
		return Section{}, false, err
	}

	description, err := b.summarize(ctx, text, sectionDescriptionPrompt(title), capSectionDesc)
	if err != nil {
		return Section{}, false, err
	}

	subtopics := make([]Subtopic, 0, subtopicCount)
	for j := 1; j <= subtopicCount; j++ {
		subtopic, err := b.buildSubtopic(ctx, text, j, title)
		if err != nil {
			return Section{}, false, fmt.Errorf("subtopic %d: %w", j, err)
		}
		subtopics = append(subtopics, subtopic)
	}

	return Section{Title: title, Description: description, Subtopics: subtopics}, true, nil
}

func (b *Builder) buildSubtopic(ctx context.Context, text string, j int, sectionTitle string) (Subtopic, error) {
	title, err := b.summarize(ctx, text, subtopicTitlePrompt(j, sectionTitle), capSubtopic)
	if err != nil {
		return Subtopic{}, err
	}
	detail, err := b.summarize(ctx, text, detailPrompt(title), capDetail)
	if err != nil {
		return Subtopic{}, err
	}
	objectives, err := b.summarize(ctx, text, objectivesPrompt(title), capObjectives)
	if err != nil {
		return Subtopic{}, err
	}

	return Subtopic{Title: title, Detail: detail, Checkpoints: SplitCheckpoints(objectives)}, nil
}

func (b *Builder) summarize(ctx context.Context, text, prompt string, maxTokens int) (string, error) {
	reply, err := b.summarizer.Summarize(ctx, text, prompt, maxTokens)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

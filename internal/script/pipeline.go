package script

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/falacast/falacast/internal/ai"
	"github.com/falacast/falacast/internal/search"
	"github.com/falacast/falacast/podcast"
)

// Searcher is the web-search collaborator the research stage consumes.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) (search.Response, error)
}

// PageFetcher pulls readable text out of a search-result page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

const (
	searchResultCount   = 5
	enrichedPageCount   = 2    // top result pages fetched for extra context
	enrichedPageMaxLen  = 2500 // per-page cap inside the research prompt
	metadataScriptLimit = 2000 // script prefix handed to the metadata call
)

var (
	titleLineRe = regexp.MustCompile(`TÍTULO:\s*(.+)`)
	descLineRe  = regexp.MustCompile(`DESCRIÇÃO:\s*(.+)`)
)

// Generator runs the five-stage script pipeline, publishing progress to the
// status store after every step.
type Generator struct {
	llm        ai.Completer // main model, all stages but strategy
	strategist ai.Completer // online model for the strategy stage
	searcher   Searcher
	pages      PageFetcher
	status     *Status
}

// NewGenerator wires the pipeline's collaborators. pages may be nil, in
// which case research runs on search snippets alone.
func NewGenerator(llm, strategist ai.Completer, searcher Searcher, pages PageFetcher, status *Status) *Generator {
	return &Generator{llm: llm, strategist: strategist, searcher: searcher, pages: pages, status: status}
}

// Run turns a topic into a cleaned dialogue script with title and
// description. Stages execute strictly in sequence; any failure aborts the
// job, resets the status slot to idle and records the error message.
func (g *Generator) Run(ctx context.Context, topic string) (podcast.ScriptResult, error) {
	result, err := g.run(ctx, topic)
	if err != nil {
		slog.Error("script generation failed", "topic", topic, "error", err)
		g.status.Fail(err.Error())
		return podcast.ScriptResult{}, err
	}

	g.status.Complete(result)
	slog.Info("script generation complete", "topic", topic, "title", result.Title)
	return result, nil
}

func (g *Generator) run(ctx context.Context, topic string) (podcast.ScriptResult, error) {
	// stage 1: interpret the topic into a structured concept
	g.status.Advance(podcast.StageInterpreting, 10)
	p := interpreterPrompt(topic)
	interpretation, err := g.llm.Complete(ctx, p.system, p.user, ai.Options{Temperature: 0.7})
	if err != nil {
		return podcast.ScriptResult{}, fmt.Errorf("interpret stage: %w", err)
	}
	g.status.SetProgress(20)

	// stage 2: web research plus synthesis
	g.status.Advance(podcast.StageResearching, 25)
	researchInput := g.gatherResearch(ctx, topic)
	g.status.SetProgress(30)

	p = researcherPrompt(topic, interpretation, researchInput)
	research, err := g.llm.Complete(ctx, p.system, p.user, ai.Options{Temperature: 0.4})
	if err != nil {
		return podcast.ScriptResult{}, fmt.Errorf("research stage: %w", err)
	}
	g.status.SetProgress(40)

	// stage 3: content strategy, with a provider fallback
	g.status.Advance(podcast.StageStrategizing, 45)
	p = strategistPrompt(topic, interpretation, research)
	strategy, err := g.strategist.Complete(ctx, p.system, p.user, ai.Options{Temperature: 0.5})
	if err != nil {
		slog.Warn("strategy provider failed, retrying with main model", "error", err)
		strategy, err = g.llm.Complete(ctx, p.system, p.user, ai.Options{Temperature: 0.5})
		if err != nil {
			return podcast.ScriptResult{}, fmt.Errorf("strategy stage: %w", err)
		}
	}
	g.status.SetProgress(60)

	// stage 4: draft the dialogue
	g.status.Advance(podcast.StageWriting, 65)
	p = writerPrompt(topic, interpretation, research, strategy)
	draft, err := g.llm.Complete(ctx, p.system, p.user, ai.Options{Temperature: 0.8, MaxTokens: 4000})
	if err != nil {
		return podcast.ScriptResult{}, fmt.Errorf("write stage: %w", err)
	}
	g.status.SetProgress(80)

	// stage 5: edit pass tuned for TTS
	g.status.Advance(podcast.StageEditing, 85)
	p = editorPrompt(draft)
	finalScript, err := g.llm.Complete(ctx, p.system, p.user, ai.Options{Temperature: 0.4})
	if err != nil {
		return podcast.ScriptResult{}, fmt.Errorf("edit stage: %w", err)
	}
	g.status.SetProgress(95)

	// metadata extraction with layered fallbacks
	g.status.SetProgress(97)
	title, description := g.extractMetadata(ctx, finalScript, topic)

	script := cleanForTTS(normalizeScript(finalScript))

	return podcast.ScriptResult{Script: script, Title: title, Description: description}, nil
}

// gatherResearch runs the web search and enriches the top results with the
// extracted text of their pages. Every failure here is non-fatal: the
// researcher prompt degrades to whatever was collected.
func (g *Generator) gatherResearch(ctx context.Context, topic string) string {
	resp, err := g.searcher.Search(ctx, topic, searchResultCount)
	if err != nil {
		slog.Warn("web search failed, researching without sources", "topic", topic, "error", err)
		return "Não foi possível obter resultados da pesquisa."
	}

	formatted := search.FormatResults(resp)
	if g.pages == nil {
		return formatted
	}

	var sb strings.Builder
	sb.WriteString(formatted)
	for i, r := range resp.Results {
		if i >= enrichedPageCount {
			break
		}
		text, err := g.pages.Fetch(ctx, r.Link)
		if err != nil {
			slog.Debug("skipping unreadable source page", "url", r.Link, "error", err)
			continue
		}
		if len(text) > enrichedPageMaxLen {
			text = text[:enrichedPageMaxLen] + "..."
		}
		sb.WriteString(fmt.Sprintf("CONTEÚDO EXTRAÍDO DA FONTE #%d (%s):\n%s\n\n", i+1, r.Link, text))
	}

	return sb.String()
}

// extractMetadata asks the model for a JSON {title, description}; when the
// reply does not parse it falls back to labeled lines in the script, and
// finally to a default derived from the topic.
func (g *Generator) extractMetadata(ctx context.Context, script, topic string) (title, description string) {
	prefix := script
	if runes := []rune(prefix); len(runes) > metadataScriptLimit {
		prefix = string(runes[:metadataScriptLimit])
	}

	p := metadataPrompt(prefix)
	raw, err := g.llm.Complete(ctx, p.system, p.user, ai.Options{Temperature: 0.3, JSONResponse: true})
	if err == nil {
		var meta struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		}
		trimmed := strings.TrimSpace(raw)
		if strings.HasPrefix(trimmed, "{") && json.Unmarshal([]byte(trimmed), &meta) == nil {
			if meta.Title != "" || meta.Description != "" {
				return meta.Title, meta.Description
			}
		}
	} else {
		slog.Warn("metadata call failed, falling back to labeled lines", "error", err)
	}

	if m := titleLineRe.FindStringSubmatch(script); m != nil {
		title = strings.TrimSpace(m[1])
	} else {
		title = fmt.Sprintf("Podcast sobre %s", topic)
	}
	if m := descLineRe.FindStringSubmatch(script); m != nil {
		description = strings.TrimSpace(m[1])
	} else {
		description = topic
	}

	return title, description
}

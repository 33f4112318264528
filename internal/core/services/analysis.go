package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/archivist-cli/internal/core/domain"
	"github.com/custodia-labs/archivist-cli/internal/core/ports/driven"
	"github.com/custodia-labs/archivist-cli/internal/logger"
)

// Fixed prompt templates. The model runs locally; the templates are part of
// the tool's behaviour, not user configuration.
const (
	summarySystemPrompt = "You are a research analyst. Summarize the following text in 3 concise " +
		"bullet points. Be neutral and factual."

	tagsSystemPrompt = "You are a metadata specialist. Based on the following summary, generate " +
		"a list of 3-5 relevant topic tags in kebab-case. The tags should be specific and useful " +
		"for categorization. Return ONLY a comma-separated list of tags, with no other text."

	metadataSystemPrompt = "You are a document analysis engine. Identify the author(s), title, " +
		"publication date, and primary subject matter from the text. Return a JSON object with " +
		"keys 'authors', 'title', 'date', and 'subject'. Use YYYY-MM-DD for the date if possible."
)

// Retry policy: one retry on transport failure, none on parse failure.
const (
	maxAttempts      = 2
	baseRetryBackoff = time.Second
)

// maxSummaryBullets caps how many bullet lines survive parsing.
const maxSummaryBullets = 3

// maxTags caps how many tags survive parsing.
const maxTags = 5

// AnalysisConfig bounds the analysis service.
type AnalysisConfig struct {
	// MaxExcerptChars caps the document excerpt included in prompts.
	// Zero selects the default of 15000.
	MaxExcerptChars int

	// RatePerMinute caps inference calls. Zero disables rate limiting.
	RatePerMinute int
}

// AnalysisService turns extracted text into summaries, tags, and metadata by
// prompting the local model.
type AnalysisService struct {
	llm        driven.LLMService
	maxExcerpt int
	limiter    *rate.Limiter
}

// NewAnalysisService creates an analysis service over the LLM port.
func NewAnalysisService(llm driven.LLMService, cfg AnalysisConfig) *AnalysisService {
	if cfg.MaxExcerptChars <= 0 {
		cfg.MaxExcerptChars = 15000
	}
	var limiter *rate.Limiter
	if cfg.RatePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RatePerMinute)/60.0), 1)
	}
	return &AnalysisService{
		llm:        llm,
		maxExcerpt: cfg.MaxExcerptChars,
		limiter:    limiter,
	}
}

// Analyze produces the summary, tags, and metadata for the extracted text.
// The detected language is supplied by the caller; detection is heuristic
// and does not consult the model.
func (s *AnalysisService) Analyze(ctx context.Context, text string, lang domain.Language) (domain.Analysis, error) {
	if s.llm == nil {
		return domain.Analysis{}, domain.ErrInferenceUnavailable
	}
	excerpt := truncateChars(text, s.maxExcerpt)

	summary, err := s.summarize(ctx, excerpt)
	if err != nil {
		return domain.Analysis{}, err
	}

	tags, err := s.generateTags(ctx, summary)
	if err != nil {
		return domain.Analysis{}, err
	}

	// Metadata is a naming hint; an unparseable metadata response degrades
	// to a zero value instead of failing the document.
	meta, err := s.extractMetadata(ctx, excerpt)
	if err != nil {
		logger.Warn("metadata extraction degraded: %v", err)
		meta = domain.DocMetadata{}
	}

	return domain.Analysis{
		Summary:  summary,
		Tags:     tags,
		Language: lang,
		Metadata: meta,
	}, nil
}

// summarize asks for a three-bullet summary and parses the bullet lines.
func (s *AnalysisService) summarize(ctx context.Context, excerpt string) ([]string, error) {
	reply, err := s.chat(ctx, summarySystemPrompt, excerpt)
	if err != nil {
		return nil, err
	}

	bullets := parseBullets(reply)
	if len(bullets) == 0 {
		return nil, fmt.Errorf("%w: no summary bullets in %q", domain.ErrInferenceParse, clip(reply, 120))
	}
	return bullets, nil
}

// generateTags asks for kebab-case topic tags based on the summary.
func (s *AnalysisService) generateTags(ctx context.Context, summary []string) ([]string, error) {
	reply, err := s.chat(ctx, tagsSystemPrompt, "Summary:\n"+strings.Join(summary, "\n"))
	if err != nil {
		return nil, err
	}

	tags := parseTags(reply)
	if len(tags) == 0 {
		return nil, fmt.Errorf("%w: no tags in %q", domain.ErrInferenceParse, clip(reply, 120))
	}
	return tags, nil
}

// extractMetadata asks for structured metadata as JSON.
func (s *AnalysisService) extractMetadata(ctx context.Context, excerpt string) (domain.DocMetadata, error) {
	reply, err := s.chat(ctx, metadataSystemPrompt, excerpt)
	if err != nil {
		return domain.DocMetadata{}, err
	}

	meta, err := parseMetadataJSON(reply)
	if err != nil {
		return domain.DocMetadata{}, fmt.Errorf("%w: metadata: %v", domain.ErrInferenceParse, err)
	}
	return meta, nil
}

// chat sends one system+user exchange with the retry policy applied:
// transport failures get exactly one retry with backoff, then surface as
// domain.ErrInferenceUnavailable.
func (s *AnalysisService) chat(ctx context.Context, system, user string) (string, error) {
	messages := []driven.ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return "", fmt.Errorf("%w: %v", domain.ErrInferenceUnavailable, err)
			}
		}

		reply, err := s.llm.Chat(ctx, messages, driven.ChatOptions{Temperature: 0.3})
		if err == nil {
			return strings.TrimSpace(reply), nil
		}
		lastErr = err
		logger.Warn("inference attempt %d/%d failed: %v", attempt, maxAttempts, err)

		if attempt < maxAttempts {
			backoff := baseRetryBackoff << (attempt - 1)
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", domain.ErrInferenceUnavailable, ctx.Err())
			case <-time.After(backoff):
			}
		}
	}
	return "", fmt.Errorf("%w: %v", domain.ErrInferenceUnavailable, lastErr)
}

// parseBullets extracts up to three bullet lines from a model reply.
// Accepts "-", "*", "•", and "1." style markers; bare lines count too.
func parseBullets(reply string) []string {
	var bullets []string
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*•")
		line = trimOrdinal(line)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		bullets = append(bullets, line)
		if len(bullets) == maxSummaryBullets {
			break
		}
	}
	return bullets
}

// trimOrdinal strips a leading "1." / "2)" style marker.
func trimOrdinal(line string) string {
	for i, r := range line {
		if r >= '0' && r <= '9' {
			continue
		}
		if (r == '.' || r == ')') && i > 0 {
			return line[i+1:]
		}
		break
	}
	return line
}

// parseTags splits a comma-separated tag reply and normalises each entry to
// a kebab-case slug.
func parseTags(reply string) []string {
	// Models occasionally prefix the list; keep only the last line that
	// contains a comma, or the whole reply when it is a single line.
	line := reply
	if idx := strings.LastIndex(reply, "\n"); idx >= 0 {
		for _, candidate := range strings.Split(reply, "\n") {
			if strings.Contains(candidate, ",") {
				line = candidate
			}
		}
	}

	var tags []string
	for _, part := range strings.Split(line, ",") {
		tag := slugifyTag(part)
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
		if len(tags) == maxTags {
			break
		}
	}
	return tags
}

// slugifyTag lowercases and hyphenates one tag candidate.
func slugifyTag(part string) string {
	part = strings.TrimSpace(part)
	part = strings.Trim(part, `"'`+"`")
	fields := strings.FieldsFunc(strings.ToLower(part), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '-'
	})
	return strings.Trim(strings.Join(fields, "-"), "-")
}

// looseMetadata tolerates models returning arrays or odd types.
type looseMetadata struct {
	Authors any `json:"authors"`
	Title   any `json:"title"`
	Date    any `json:"date"`
	Subject any `json:"subject"`
}

// parseMetadataJSON extracts the first JSON object from a model reply,
// tolerating code fences and surrounding prose.
func parseMetadataJSON(reply string) (domain.DocMetadata, error) {
	raw := extractJSONObject(reply)
	if raw == "" {
		return domain.DocMetadata{}, fmt.Errorf("no JSON object in reply")
	}

	var loose looseMetadata
	if err := json.Unmarshal([]byte(raw), &loose); err != nil {
		return domain.DocMetadata{}, err
	}

	return domain.DocMetadata{
		Authors: coerceString(loose.Authors),
		Title:   coerceString(loose.Title),
		Date:    coerceString(loose.Date),
		Subject: coerceString(loose.Subject),
	}, nil
}

// extractJSONObject returns the outermost {...} span of the reply, after
// stripping Markdown code fences.
func extractJSONObject(reply string) string {
	reply = strings.ReplaceAll(reply, "```json", "")
	reply = strings.ReplaceAll(reply, "```", "")

	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return ""
	}
	return reply[start : end+1]
}

// coerceString renders string, array-of-string, and number values as a
// single display string; anything else becomes empty.
func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		return strings.Join(parts, ", ")
	case float64:
		return strings.TrimSuffix(fmt.Sprintf("%v", t), ".0")
	default:
		return ""
	}
}

// truncateChars cuts s to at most n runes.
func truncateChars(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// clip shortens a string for error messages.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

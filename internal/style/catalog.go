package style

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/benboulanger/agent-platform/internal/pkg/logger"
)

// DefaultLanguage is the fallback for unsupported languages. The reference
// behavior falls back to French, not English.
const DefaultLanguage = "fr"

// Guide is the per-language persona/style record as stored on disk.
type Guide struct {
	Title              string `json:"title"`
	NarrativeStructure struct {
		Title string   `json:"title"`
		Steps []string `json:"steps"`
	} `json:"narrative_structure"`
	CharacteristicExpressions struct {
		Title   string   `json:"title"`
		Phrases []string `json:"phrases"`
	} `json:"characteristic_expressions"`
	ToneAndVoice struct {
		Title           string   `json:"title"`
		Characteristics []string `json:"characteristics"`
	} `json:"tone_and_voice"`
	KeyMessages struct {
		Title    string   `json:"title"`
		Messages []string `json:"messages"`
	} `json:"key_messages"`
	NotFoundMessage string `json:"not_found_message"`
}

type systemPrompt struct {
	Content string `json:"content"`
}

// Catalog holds the loaded style guides and base system prompts, formatted
// once at load time. Read-only after Load.
type Catalog struct {
	log       *logger.Logger
	guides    map[string]Guide
	formatted map[string]string
	prompts   map[string]string
}

// Load reads style_guides.json and system_prompts.json from dir. Missing or
// malformed files are logged and yield an empty mapping so callers fall back
// to the default language; startup must not crash on bad data files.
func Load(log *logger.Logger, dir string) *Catalog {
	c := &Catalog{
		log:       log.With("component", "StyleCatalog"),
		guides:    map[string]Guide{},
		formatted: map[string]string{},
		prompts:   map[string]string{},
	}

	raw, err := os.ReadFile(filepath.Join(dir, "style_guides.json"))
	if err != nil {
		c.log.Warn("style guides not loaded", "error", err)
	} else if err := json.Unmarshal(raw, &c.guides); err != nil {
		c.log.Warn("style guides malformed", "error", err)
		c.guides = map[string]Guide{}
	}
	for lang, g := range c.guides {
		c.formatted[lang] = formatGuide(g)
	}

	raw, err = os.ReadFile(filepath.Join(dir, "system_prompts.json"))
	if err != nil {
		c.log.Warn("system prompts not loaded", "error", err)
	} else {
		var prompts map[string]systemPrompt
		if err := json.Unmarshal(raw, &prompts); err != nil {
			c.log.Warn("system prompts malformed", "error", err)
		} else {
			for lang, p := range prompts {
				c.prompts[lang] = p.Content
			}
		}
	}

	c.log.Info("style catalog loaded", "languages", c.Languages())
	return c
}

// formatGuide renders a guide into the prompt-ready markdown block.
func formatGuide(g Guide) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", g.Title)

	fmt.Fprintf(&b, "## %s\n", g.NarrativeStructure.Title)
	for i, step := range g.NarrativeStructure.Steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}

	fmt.Fprintf(&b, "\n## %s\n", g.CharacteristicExpressions.Title)
	for _, phrase := range g.CharacteristicExpressions.Phrases {
		fmt.Fprintf(&b, "- %q\n", phrase)
	}

	fmt.Fprintf(&b, "\n## %s\n", g.ToneAndVoice.Title)
	for _, ch := range g.ToneAndVoice.Characteristics {
		fmt.Fprintf(&b, "- %s\n", ch)
	}

	fmt.Fprintf(&b, "\n## %s\n", g.KeyMessages.Title)
	for _, msg := range g.KeyMessages.Messages {
		fmt.Fprintf(&b, "- %q\n", msg)
	}
	return b.String()
}

// StyleBlock returns the formatted style guide for lang, falling back to the
// default language, then to an empty string.
func (c *Catalog) StyleBlock(lang string) string {
	if s, ok := c.formatted[lang]; ok {
		return s
	}
	return c.formatted[DefaultLanguage]
}

// BasePrompt returns the base system prompt for lang with default-language
// fallback.
func (c *Catalog) BasePrompt(lang string) string {
	if s, ok := c.prompts[lang]; ok {
		return s
	}
	return c.prompts[DefaultLanguage]
}

// NotFoundMessage returns the language-specific "information not in context"
// message, falling back to the default language and then to a fixed default.
func (c *Catalog) NotFoundMessage(lang string) string {
	if g, ok := c.guides[lang]; ok && strings.TrimSpace(g.NotFoundMessage) != "" {
		return g.NotFoundMessage
	}
	if g, ok := c.guides[DefaultLanguage]; ok && strings.TrimSpace(g.NotFoundMessage) != "" {
		return g.NotFoundMessage
	}
	return "Information not found in current content."
}

// HasLanguage reports whether lang has a loaded style guide.
func (c *Catalog) HasLanguage(lang string) bool {
	_, ok := c.guides[lang]
	return ok
}

func (c *Catalog) Languages() []string {
	langs := make([]string, 0, len(c.guides))
	for lang := range c.guides {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

package style

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/benboulanger/agent-platform/internal/pkg/logger"
)

const testGuides = `{
  "fr": {
    "title": "TON STYLE",
    "narrative_structure": {"title": "Structure", "steps": ["Reformule la question", "Explique simplement"]},
    "characteristic_expressions": {"title": "Expressions", "phrases": ["On entend souvent dire"]},
    "tone_and_voice": {"title": "Ton", "characteristics": ["Tutoiement"]},
    "key_messages": {"title": "Messages", "messages": ["Tout est équilibre"]},
    "not_found_message": "Je n'ai pas cette information."
  },
  "en": {
    "title": "YOUR STYLE",
    "narrative_structure": {"title": "Structure", "steps": ["Rephrase"]},
    "characteristic_expressions": {"title": "Expressions", "phrases": ["People often say"]},
    "tone_and_voice": {"title": "Tone", "characteristics": ["Casual"]},
    "key_messages": {"title": "Messages", "messages": ["Balance"]},
    "not_found_message": ""
  }
}`

const testPrompts = `{
  "fr": {"content": "Tu es Ben."},
  "en": {"content": "You are Ben."}
}`

func writeCatalogDir(t *testing.T, guides, prompts string) string {
	t.Helper()
	dir := t.TempDir()
	if guides != "" {
		if err := os.WriteFile(filepath.Join(dir, "style_guides.json"), []byte(guides), 0o644); err != nil {
			t.Fatalf("write guides: %v", err)
		}
	}
	if prompts != "" {
		if err := os.WriteFile(filepath.Join(dir, "system_prompts.json"), []byte(prompts), 0o644); err != nil {
			t.Fatalf("write prompts: %v", err)
		}
	}
	return dir
}

func TestLoadFormatsGuides(t *testing.T) {
	c := Load(logger.NewNop(), writeCatalogDir(t, testGuides, testPrompts))

	block := c.StyleBlock("fr")
	if !strings.Contains(block, "# TON STYLE") {
		t.Fatalf("missing title:\n%s", block)
	}
	if !strings.Contains(block, "1. Reformule la question") {
		t.Fatalf("steps must be numbered:\n%s", block)
	}
	if !strings.Contains(block, `- "On entend souvent dire"`) {
		t.Fatalf("phrases must be quoted bullets:\n%s", block)
	}
	if got := c.BasePrompt("fr"); got != "Tu es Ben." {
		t.Fatalf("base prompt: want=%q got=%q", "Tu es Ben.", got)
	}
}

func TestUnsupportedLanguageFallsBackToFrench(t *testing.T) {
	c := Load(logger.NewNop(), writeCatalogDir(t, testGuides, testPrompts))

	if got := c.StyleBlock("es"); !strings.Contains(got, "# TON STYLE") {
		t.Fatalf("style block: want french fallback, got:\n%s", got)
	}
	if got := c.BasePrompt("de"); got != "Tu es Ben." {
		t.Fatalf("base prompt: want french fallback, got=%q", got)
	}
	if c.HasLanguage("es") {
		t.Fatalf("es must not be reported as loaded")
	}
}

func TestNotFoundMessageFallsBackPerLanguage(t *testing.T) {
	c := Load(logger.NewNop(), writeCatalogDir(t, testGuides, testPrompts))

	if got := c.NotFoundMessage("fr"); got != "Je n'ai pas cette information." {
		t.Fatalf("fr message: got=%q", got)
	}
	// The english guide exists but has an empty message; the french one wins.
	if got := c.NotFoundMessage("en"); got != "Je n'ai pas cette information." {
		t.Fatalf("en message: want french fallback, got=%q", got)
	}
}

func TestLoadMissingFilesYieldsEmptyCatalog(t *testing.T) {
	c := Load(logger.NewNop(), t.TempDir())

	if got := c.StyleBlock("fr"); got != "" {
		t.Fatalf("style block: want empty got=%q", got)
	}
	if got := c.BasePrompt("fr"); got != "" {
		t.Fatalf("base prompt: want empty got=%q", got)
	}
	if got := c.NotFoundMessage("fr"); got != "Information not found in current content." {
		t.Fatalf("not-found message: want fixed default got=%q", got)
	}
	if langs := c.Languages(); len(langs) != 0 {
		t.Fatalf("languages: want none got=%v", langs)
	}
}

func TestLoadMalformedGuidesDoesNotCrash(t *testing.T) {
	c := Load(logger.NewNop(), writeCatalogDir(t, "{not json", testPrompts))

	if got := c.StyleBlock("fr"); got != "" {
		t.Fatalf("style block: want empty got=%q", got)
	}
	if got := c.BasePrompt("fr"); got != "Tu es Ben." {
		t.Fatalf("prompts must still load: got=%q", got)
	}
}

func TestLanguagesAreSorted(t *testing.T) {
	c := Load(logger.NewNop(), writeCatalogDir(t, testGuides, testPrompts))

	langs := c.Languages()
	if len(langs) != 2 || langs[0] != "en" || langs[1] != "fr" {
		t.Fatalf("languages: want=[en fr] got=%v", langs)
	}
}

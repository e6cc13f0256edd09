package bundle

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

// PromptVersion names a prompt template together with the parser that
// reads replies to it.
type PromptVersion string

const (
	PromptNumbered PromptVersion = "numbered-v1"
	PromptJSON     PromptVersion = "json-v2"

	DefaultPromptVersion = PromptNumbered
)

// PromptKey identifies bundle generation calls in the LLM call log.
const PromptKey = "bundle.generate"

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Prompt pairs a template with its reply parser.
type Prompt struct {
	Version PromptVersion
	Parser  BundleTextParser
}

var jsonParser = mustJSONParser()

func mustJSONParser() *JSONParser {
	p, err := NewJSONParser()
	if err != nil {
		panic(err)
	}
	return p
}

// LookupPrompt returns the prompt for version. An empty version selects
// DefaultPromptVersion.
func LookupPrompt(version PromptVersion) (Prompt, error) {
	switch version {
	case "", PromptNumbered:
		return Prompt{Version: PromptNumbered, Parser: numberedParser}, nil
	case PromptJSON:
		return Prompt{Version: PromptJSON, Parser: jsonParser}, nil
	default:
		return Prompt{}, fmt.Errorf("unknown bundle prompt version: %q", version)
	}
}

// PromptVersions lists the supported versions.
func PromptVersions() []PromptVersion {
	return []PromptVersion{PromptNumbered, PromptJSON}
}

// Render builds the prompt text for products and theme.
func (p Prompt) Render(products []Product, theme string) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Products []Product
		Theme    string
	}{Products: products, Theme: theme}
	if err := templates.ExecuteTemplate(&buf, string(p.Version)+".tmpl", data); err != nil {
		return "", fmt.Errorf("failed to render bundle prompt: %w", err)
	}
	return buf.String(), nil
}

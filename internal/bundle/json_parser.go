package bundle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// bundleReplySchema describes the object the json-v2 prompt asks for.
const bundleReplySchema = `{
  "type": "object",
  "properties": {
    "name": {"type": "string"},
    "description": {"type": "string"},
    "rationale": {"type": "string"},
    "discount": {"type": "number", "minimum": 0}
  }
}`

// JSONParser parses replies to the json-v2 prompt. A reply that is not a
// JSON object matching the schema yields an empty Specification.
type JSONParser struct {
	schema *jsonschema.Schema
}

// NewJSONParser compiles the reply schema.
func NewJSONParser() (*JSONParser, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("bundle.json", bytes.NewReader([]byte(bundleReplySchema))); err != nil {
		return nil, fmt.Errorf("failed to load bundle schema: %w", err)
	}
	schema, err := compiler.Compile("bundle.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile bundle schema: %w", err)
	}
	return &JSONParser{schema: schema}, nil
}

type jsonReply struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Discount    *float64 `json:"discount"`
}

// Parse implements BundleTextParser.
func (p *JSONParser) Parse(text string) Specification {
	spec := emptySpecification()

	raw := jsonCandidate(text)
	if raw == "" {
		return spec
	}
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return spec
	}
	if err := p.schema.Validate(doc); err != nil {
		return spec
	}

	var reply jsonReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		return spec
	}
	if reply.Name != nil {
		v := strings.TrimSpace(*reply.Name)
		spec.Name = &v
	}
	if reply.Description != nil {
		v := strings.TrimSpace(*reply.Description)
		spec.Description = &v
	}
	spec.Discount = reply.Discount
	return spec
}

// jsonCandidate pulls the outermost object out of a reply that may be wrapped
// in a markdown code fence or surrounded by prose. A reply that is itself a
// JSON value is returned whole so the schema sees its real type, and an
// object nested inside an array is never extracted.
func jsonCandidate(content string) string {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "```") {
		lines := strings.Split(trimmed, "\n")
		if len(lines) >= 2 {
			lines = lines[1:]
			if strings.TrimSpace(lines[len(lines)-1]) == "```" {
				lines = lines[:len(lines)-1]
			}
			trimmed = strings.TrimSpace(strings.Join(lines, "\n"))
		}
	}

	if json.Valid([]byte(trimmed)) {
		return trimmed
	}
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end < start {
		return ""
	}
	if strings.Contains(trimmed[:start], "[") {
		return ""
	}
	return trimmed[start : end+1]
}

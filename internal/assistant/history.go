package assistant

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wowstore/storefront/internal/providers"
)

// Turn is one prior message in a conversation. Text may be given directly
// or as parts, matching the shape the storefront widget stores.
type Turn struct {
	Role  string `json:"role"`
	Text  string `json:"text,omitempty"`
	Parts []Part `json:"parts,omitempty"`
}

// Part is a text fragment of a Turn.
type Part struct {
	Text string `json:"text"`
}

// ParseHistory decodes conversation history. raw may be a JSON array of
// turns or a JSON string holding one. Empty input, null and "" mean no
// history. Anything else that is not an array of turns with a user or model
// role wraps ErrInvalidHistory.
func ParseHistory(raw json.RawMessage) ([]providers.Message, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidHistory, err)
		}
		encoded = strings.TrimSpace(encoded)
		if encoded == "" {
			return nil, nil
		}
		raw = json.RawMessage(encoded)
	}

	var turns []Turn
	if err := json.Unmarshal(raw, &turns); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHistory, err)
	}

	msgs := make([]providers.Message, 0, len(turns))
	for i, t := range turns {
		role, err := normalizeRole(t.Role)
		if err != nil {
			return nil, fmt.Errorf("%w: turn %d: %v", ErrInvalidHistory, i, err)
		}
		msgs = append(msgs, providers.Message{Role: role, Content: t.text()})
	}
	return msgs, nil
}

func (t Turn) text() string {
	if t.Text != "" || len(t.Parts) == 0 {
		return t.Text
	}
	parts := make([]string, 0, len(t.Parts))
	for _, p := range t.Parts {
		parts = append(parts, p.Text)
	}
	return strings.Join(parts, "")
}

// normalizeRole maps widget roles onto provider roles.
func normalizeRole(role string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "user":
		return providers.RoleUser, nil
	case "model", "assistant":
		return providers.RoleAssistant, nil
	default:
		return "", fmt.Errorf("unsupported role %q", role)
	}
}

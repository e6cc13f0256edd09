package assistant

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wowstore/storefront/internal/providers"
)

func TestParseHistory(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []providers.Message
		wantErr bool
	}{
		{name: "empty", raw: ``},
		{name: "null", raw: `null`},
		{name: "empty string", raw: `""`},
		{name: "empty array", raw: `[]`, want: []providers.Message{}},
		{
			name: "text turns",
			raw:  `[{"role":"user","text":"hi"},{"role":"model","text":"hello"}]`,
			want: []providers.Message{
				{Role: providers.RoleUser, Content: "hi"},
				{Role: providers.RoleAssistant, Content: "hello"},
			},
		},
		{
			name: "parts turns",
			raw:  `[{"role":"user","parts":[{"text":"do you ship "},{"text":"to Spain?"}]}]`,
			want: []providers.Message{
				{Role: providers.RoleUser, Content: "do you ship to Spain?"},
			},
		},
		{
			name: "json encoded string",
			raw:  `"[{\"role\":\"assistant\",\"text\":\"hey\"}]"`,
			want: []providers.Message{
				{Role: providers.RoleAssistant, Content: "hey"},
			},
		},
		{name: "object instead of array", raw: `{"role":"user"}`, wantErr: true},
		{name: "malformed string", raw: `"[{"`, wantErr: true},
		{name: "unknown role", raw: `[{"role":"system","text":"x"}]`, wantErr: true},
		{name: "missing role", raw: `[{"text":"x"}]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHistory(json.RawMessage(tt.raw))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidHistory) {
					t.Errorf("ParseHistory() error = %v, want ErrInvalidHistory", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHistory() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseHistory() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

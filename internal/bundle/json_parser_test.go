package bundle

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestJSONParser_Parse(t *testing.T) {
	p, err := NewJSONParser()
	if err != nil {
		t.Fatalf("NewJSONParser() error = %v", err)
	}

	tests := []struct {
		name string
		text string
		want Specification
	}{
		{
			name: "plain object",
			text: `{"name": " Beach Day ", "description": "Sun and sand.", "rationale": "summer", "discount": 10}`,
			want: Specification{
				Name:        strPtr("Beach Day"),
				Description: strPtr("Sun and sand."),
				Discount:    floatPtr(10),
				Products:    []Product{},
			},
		},
		{
			name: "fenced object",
			text: "```json\n{\"name\": \"Fenced\"}\n```",
			want: Specification{Name: strPtr("Fenced"), Products: []Product{}},
		},
		{
			name: "object surrounded by prose",
			text: "Sure! Here it is: {\"discount\": 12.5} Enjoy.",
			want: Specification{Discount: floatPtr(12.5), Products: []Product{}},
		},
		{
			name: "schema violation falls back to empty",
			text: `{"name": "Bad", "discount": "fifteen"}`,
			want: Specification{Products: []Product{}},
		},
		{
			name: "negative discount falls back to empty",
			text: `{"name": "Bad", "discount": -3}`,
			want: Specification{Products: []Product{}},
		},
		{
			name: "not json",
			text: "1. Bundle name: Numbered",
			want: Specification{Products: []Product{}},
		},
		{
			name: "array is rejected",
			text: `[{"name": "x"}]`,
			want: Specification{Products: []Product{}},
		},
		{
			name: "fenced array is rejected",
			text: "```json\n[{\"name\": \"x\"}]\n```",
			want: Specification{Products: []Product{}},
		},
		{
			name: "array surrounded by prose is rejected",
			text: "Here you go: [{\"name\": \"x\"}] Thanks!",
			want: Specification{Products: []Product{}},
		},
		{
			name: "json string is rejected",
			text: `"{\"name\": \"x\"}"`,
			want: Specification{Products: []Product{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Parse(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

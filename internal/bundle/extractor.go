package bundle

import (
	"iter"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// BundleTextParser turns a model reply into a Specification.
// Implementations never fail and never invent values.
type BundleTextParser interface {
	Parse(text string) Specification
}

// Field identifies the Specification field a rule fills.
type Field int

const (
	FieldName Field = iota + 1
	FieldDescription
	// FieldRationale marks the "why these items work together" section.
	// The header is recognized but its content is not captured.
	FieldRationale
	FieldDiscount
)

// Rule binds a line prefix to the field it fills.
type Rule struct {
	Prefix string
	Field  Field
}

// NumberedRules is the prefix table for replies to the numbered-v1 prompt,
// in priority order.
var NumberedRules = []Rule{
	{Prefix: "1. Bundle name:", Field: FieldName},
	{Prefix: "2. Bundle description:", Field: FieldDescription},
	{Prefix: "3. Why these items work together", Field: FieldRationale},
	{Prefix: "4. Suggested discount percentage:", Field: FieldDiscount},
}

// PrefixParser extracts fields from lines that start with a known prefix.
// Only the prefixed line is captured; continuation lines are ignored.
// When several lines match the same field the last one wins.
type PrefixParser struct {
	rules []Rule
}

// NewPrefixParser returns a parser over rules. The slice is copied.
func NewPrefixParser(rules []Rule) *PrefixParser {
	return &PrefixParser{rules: append([]Rule(nil), rules...)}
}

var numberedParser = NewPrefixParser(NumberedRules)

// Extract parses a reply to the numbered-v1 prompt.
func Extract(text string) Specification {
	return numberedParser.Parse(text)
}

// Parse implements BundleTextParser.
func (p *PrefixParser) Parse(text string) Specification {
	spec := emptySpecification()
	for line := range nonEmptyLines(text) {
		rule, rest, ok := p.match(line)
		if !ok {
			continue
		}
		switch rule.Field {
		case FieldName:
			v := strings.TrimSpace(rest)
			spec.Name = &v
		case FieldDescription:
			v := strings.TrimSpace(rest)
			spec.Description = &v
		case FieldRationale:
			// Recognized so it cannot shadow another rule; content not captured.
		case FieldDiscount:
			if d, ok := parseDiscount(rest); ok {
				spec.Discount = &d
			}
		}
	}
	return spec
}

// match returns the first rule whose prefix starts line, and the remainder.
func (p *PrefixParser) match(line string) (Rule, string, bool) {
	for _, r := range p.rules {
		if rest, ok := strings.CutPrefix(line, r.Prefix); ok {
			return r, rest, true
		}
	}
	return Rule{}, "", false
}

// nonEmptyLines yields the lines of text that are not blank after trimming.
// Lines are yielded untrimmed so prefixes must match at column zero.
func nonEmptyLines(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for line := range strings.SplitSeq(text, "\n") {
			line = strings.TrimSuffix(line, "\r")
			if strings.TrimSpace(line) == "" {
				continue
			}
			if !yield(line) {
				return
			}
		}
	}
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// parseDiscount reads the leading number of s after dropping surrounding
// whitespace and markdown emphasis, so "15%", "**20%**" and "12.5 % off"
// all parse. Text before the number ("about 15%") yields no value, as do
// negative and non-finite numbers.
func parseDiscount(s string) (float64, bool) {
	s = strings.TrimLeft(strings.TrimSpace(s), "*_ ")
	m := leadingNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}

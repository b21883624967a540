// Package fields derives the customizable field set of a template: explicit
// {token} placeholders in text content, keyword-inferred fields, and indexed
// fallbacks for token-less text and for image slots.
package fields

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/convitapp/convite-api/internal/models"
)

var tokenPattern = regexp.MustCompile(`\{([^{}]+)\}`)

// Rule maps content keywords to an inferred field name with a representative
// sample value. Rules are additive: they never suppress explicit {token}
// fields found in the same element.
type Rule struct {
	Field    string
	Keywords []string
	Sample   string
}

// DefaultRules is the built-in keyword table, matched case-insensitively.
func DefaultRules() []Rule {
	return []Rule{
		{Field: "nome", Keywords: []string{"nome", "name"}, Sample: "Maria Silva"},
		{Field: "evento", Keywords: []string{"evento", "event"}, Sample: "Festa de Aniversário"},
		{Field: "data", Keywords: []string{"data", "date"}, Sample: "25/12/2026"},
		{Field: "local", Keywords: []string{"local", "location"}, Sample: "Salão Primavera"},
	}
}

const (
	sampleImageURL = "https://exemplo.com/foto.jpg"
	sampleText     = "Texto de exemplo"
	sampleDefault  = "Valor de exemplo"
)

// Deriver scans documents with a fixed rule table.
type Deriver struct {
	rules []Rule
}

// NewDeriver builds a deriver; with no rules it uses DefaultRules.
func NewDeriver(rules ...Rule) *Deriver {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Deriver{rules: rules}
}

// Rules returns the deriver's rule table.
func (d *Deriver) Rules() []Rule { return d.rules }

// Tokens extracts the {token} names of a content string in order of
// appearance, duplicates included.
func Tokens(content string) []string {
	matches := tokenPattern.FindAllStringSubmatch(content, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// Derive produces the ordered field set of a template. Insertion order is
// scan order over the element list; duplicates collapse. Text elements
// contribute their explicit tokens plus any keyword-inferred fields, or a
// texto_{i+1} fallback when neither applies. Every image element contributes
// imagem_{i+1} regardless of whether a source is already set.
func (d *Deriver) Derive(t models.Template) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, name)
	}

	for i, el := range t.Elements {
		switch {
		case el.IsText():
			tokens := Tokens(el.Content)
			for _, tok := range tokens {
				add(tok)
			}
			matched := false
			lower := strings.ToLower(el.Content)
			for _, rule := range d.rules {
				for _, kw := range rule.Keywords {
					if strings.Contains(lower, kw) {
						add(rule.Field)
						matched = true
						break
					}
				}
			}
			if len(tokens) == 0 && !matched {
				add(fmt.Sprintf("texto_%d", i+1))
			}
		case el.IsImage():
			add(fmt.Sprintf("imagem_%d", i+1))
		}
	}
	return out
}

// ExamplePayload maps each derived field to a representative sample value by
// naming convention, suitable as documentation for generation callers.
func (d *Deriver) ExamplePayload(fieldNames []string) map[string]string {
	out := make(map[string]string, len(fieldNames))
	for _, name := range fieldNames {
		out[name] = d.sampleFor(name)
	}
	return out
}

func (d *Deriver) sampleFor(name string) string {
	if strings.HasPrefix(name, "imagem_") {
		return sampleImageURL
	}
	if strings.HasPrefix(name, "texto_") {
		return sampleText
	}
	for _, rule := range d.rules {
		if rule.Field == name && rule.Sample != "" {
			return rule.Sample
		}
	}
	return sampleDefault
}

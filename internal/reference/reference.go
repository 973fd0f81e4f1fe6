// Package reference holds the curated catalogue of medical references the
// client can point to when a reply cites no source of its own.
package reference

import (
	_ "embed"
	"fmt"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

//go:embed references.yaml
var catalogueYAML []byte

type Reference struct {
	Condition string `yaml:"condition" json:"condition"`
	Source    string `yaml:"source" json:"source"`
	Snippet   string `yaml:"snippet" json:"snippet"`
}

var catalogue = mustLoad(catalogueYAML)

func mustLoad(data []byte) []Reference {
	refs, err := Load(data)
	if err != nil {
		panic(fmt.Sprintf("reference catalogue: %v", err))
	}
	return refs
}

// Load decodes a YAML list of references.
func Load(data []byte) ([]Reference, error) {
	var refs []Reference
	if err := yaml.Unmarshal(data, &refs); err != nil {
		return nil, err
	}
	for i, r := range refs {
		if r.Condition == "" || r.Source == "" {
			return nil, fmt.Errorf("entry %d: condition and source are required", i)
		}
	}
	return refs, nil
}

// All returns a copy of the built-in catalogue.
func All() []Reference {
	out := make([]Reference, len(catalogue))
	copy(out, catalogue)
	return out
}

// Find returns the built-in references whose condition or snippet mentions
// any of the symptoms, case-insensitively.
func Find(symptoms ...string) []Reference {
	return Match(catalogue, symptoms...)
}

func Match(refs []Reference, symptoms ...string) []Reference {
	var needles []string
	for _, s := range symptoms {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			needles = append(needles, s)
		}
	}

	var out []Reference
	for _, ref := range refs {
		condition := strings.ToLower(ref.Condition)
		snippet := strings.ToLower(ref.Snippet)
		for _, n := range needles {
			if strings.Contains(snippet, n) || strings.Contains(condition, n) {
				out = append(out, ref)
				break
			}
		}
	}
	return out
}

// Words that appear in most snippets or carry no clinical meaning.
var stopWords = map[string]bool{
	"symptom": true, "symptoms": true, "about": true, "after": true,
	"since": true, "started": true, "there": true, "their": true,
	"which": true, "really": true, "feeling": true, "having": true,
	"typically": true, "common": true, "signs": true,
}

// Suggest returns up to limit built-in references related to free text,
// matching on its words of five letters or more.
func Suggest(text string, limit int) []Reference {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '-'
	})
	var symptoms []string
	for _, w := range words {
		if len([]rune(w)) >= 5 && !stopWords[w] {
			symptoms = append(symptoms, w)
		}
	}
	if len(symptoms) == 0 {
		return nil
	}
	refs := Find(symptoms...)
	if limit > 0 && len(refs) > limit {
		refs = refs[:limit]
	}
	return refs
}

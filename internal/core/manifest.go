package core

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ComponentManifest is the descriptor list the metadata compiler hands over.
type ComponentManifest struct {
	Components []ComponentDescriptor `json:"components"`
}

func ParseComponentManifest(data []byte) (*ComponentManifest, error) {
	var m ComponentManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

var tagNameRe = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)+$`)

func ValidateTagName(tag string) error {
	if tag == "" {
		return fmt.Errorf("tag name cannot be empty")
	}

	if strings.ToLower(tag) != tag {
		return fmt.Errorf("tag name %q must be lowercase", tag)
	}

	if !strings.Contains(tag, "-") {
		return fmt.Errorf("tag name %q must contain a dash", tag)
	}

	if !tagNameRe.MatchString(tag) {
		return fmt.Errorf("tag name %q is not a valid custom element name", tag)
	}

	return nil
}

// Validate checks the descriptor contract: valid unique tags and a class and
// source for every component.
func (m *ComponentManifest) Validate() error {
	seen := make(map[string]bool, len(m.Components))
	for i, cmp := range m.Components {
		if err := ValidateTagName(cmp.TagName); err != nil {
			return fmt.Errorf("component %d: %w", i, err)
		}
		if seen[cmp.TagName] {
			return fmt.Errorf("component %d: duplicate tag name %q", i, cmp.TagName)
		}
		seen[cmp.TagName] = true

		if cmp.ClassName == "" {
			return fmt.Errorf("component <%s>: missing class name", cmp.TagName)
		}
		if cmp.SourceFilePath == "" {
			return fmt.Errorf("component <%s>: missing source file path", cmp.TagName)
		}
	}
	return nil
}

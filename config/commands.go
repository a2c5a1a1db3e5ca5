package config

import (
	"fmt"
	"os"

	"github.com/wyg1997/ActionsBot/internal/domain"
	"gopkg.in/yaml.v3"
)

// LoadCommandTable returns the built-in table, or the table read from path when set.
//
// The file is a YAML mapping of command to image; its key order is the order used
// when commands are listed:
//
//	chrome: google-chrome
//	firefox: firefox
func LoadCommandTable(path string) (*domain.CommandTable, error) {
	if path == "" {
		return domain.DefaultCommandTable(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read commands file: %w", err)
	}

	return ParseCommandTable(data)
}

// ParseCommandTable decodes a YAML command -> image mapping, keeping key order
func ParseCommandTable(data []byte) (*domain.CommandTable, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse commands file: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("parse commands file: document is empty")
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse commands file: line %d: expected a mapping of command to image", root.Line)
	}

	entries := make([]domain.CommandEntry, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if key.Kind != yaml.ScalarNode || value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("parse commands file: line %d: command and image must be strings", key.Line)
		}
		entries = append(entries, domain.CommandEntry{Command: key.Value, Image: value.Value})
	}

	return domain.NewCommandTable(entries)
}

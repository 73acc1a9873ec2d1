package templates

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// RenderManifest renders the plugin descriptor (plugin.yml or bungee.yml).
// Name and version are Maven resource filtering placeholders so the built
// jar always matches the pom.
func RenderManifest(mainClass string) ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key, value string) {
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key},
			&yaml.Node{Kind: yaml.ScalarNode, Value: value, Style: yaml.SingleQuotedStyle},
		)
	}

	add("name", "@project.name@")
	add("version", "@project.version@")
	add("main", mainClass)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	return buf.Bytes(), nil
}

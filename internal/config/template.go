package config

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape written by RenderConfig.
type fileConfig struct {
	Server struct {
		Addr            string `yaml:"addr"`
		ShutdownTimeout string `yaml:"shutdownTimeout"`
		PublicURL       string `yaml:"publicURL"`
	} `yaml:"server"`
	Log struct {
		Timestamps bool `yaml:"timestamps"`
	} `yaml:"log"`
	Defaults struct {
		GroupID       string `yaml:"groupId"`
		Platform      string `yaml:"platform"`
		JavaVersion   int    `yaml:"javaVersion"`
		QuartzVersion string `yaml:"quartzVersion"`
	} `yaml:"defaults"`
}

var keyComments = map[string]string{
	KeyServerAddr:            "Listen address for 'qstart serve'.",
	KeyServerPublicURL:       "Base URL for share links in generated READMEs. Empty disables them.",
	KeyLogTimestamps:         "Show timestamps in log output.",
	KeyDefaultsGroupID:       "Used when --group is not given.",
	KeyDefaultsQuartzVersion: "Quartz framework version for new projects.",
}

// RenderConfig renders cfg as a commented YAML document.
func RenderConfig(cfg *Config) ([]byte, error) {
	var fc fileConfig
	fc.Server.Addr = cfg.Server.Addr
	fc.Server.ShutdownTimeout = cfg.Server.ShutdownTimeout.String()
	fc.Server.PublicURL = cfg.Server.PublicURL
	fc.Log.Timestamps = cfg.Log.Timestamps == nil || *cfg.Log.Timestamps
	fc.Defaults.GroupID = cfg.Defaults.GroupID
	fc.Defaults.Platform = cfg.Defaults.Platform
	fc.Defaults.JavaVersion = cfg.Defaults.JavaVersion
	fc.Defaults.QuartzVersion = cfg.Defaults.QuartzVersion

	var root yaml.Node
	if err := root.Encode(&fc); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	doc := yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{&root}}
	doc.HeadComment = "qstart configuration. Flags and QSTART_* environment variables take precedence."
	annotate(&doc, "")

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return buf.Bytes(), nil
}

// annotate attaches keyComments to mapping keys, walking nested mappings.
func annotate(n *yaml.Node, prefix string) {
	if n.Kind != yaml.MappingNode {
		for _, c := range n.Content {
			annotate(c, prefix)
		}
		return
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		path := key.Value
		if prefix != "" {
			path = prefix + "." + key.Value
		}
		if c, ok := keyComments[path]; ok {
			key.HeadComment = c
		}
		annotate(value, path)
	}
}

package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// expandEnv substitutes ${NAME} and ${NAME:-fallback} in scalar values of a YAML document.
// Unset variables without a fallback expand to "" and are reported in missing.
func expandEnv(raw []byte) (string, []string, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return "", nil, fmt.Errorf("parse config: %w", err)
	}
	if root.Kind == 0 {
		return "", nil, nil
	}

	missing := make(map[string]struct{})
	walk(&root, missing)

	expanded, err := yaml.Marshal(&root)
	if err != nil {
		return "", nil, fmt.Errorf("encode expanded config: %w", err)
	}
	return string(expanded), sortedKeys(missing), nil
}

func walk(node *yaml.Node, missing map[string]struct{}) {
	switch node.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, child := range node.Content {
			walk(child, missing)
		}
	case yaml.MappingNode:
		for i := 1; i < len(node.Content); i += 2 {
			walk(node.Content[i], missing)
		}
	case yaml.ScalarNode:
		if node.Tag != "" && node.Tag != "!!str" {
			return
		}
		if !strings.Contains(node.Value, "$") {
			return
		}
		expanded := os.Expand(node.Value, func(ref string) string {
			name, fallback, hasFallback := strings.Cut(ref, ":-")
			if value, ok := os.LookupEnv(name); ok && value != "" {
				return value
			}
			if hasFallback {
				return fallback
			}
			missing[name] = struct{}{}
			return ""
		})
		if expanded == node.Value {
			return
		}
		node.Value = expanded
		if node.Style == 0 {
			// Let plain scalars re-resolve so "${ENABLED}" can become a bool.
			node.Tag = ""
		}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

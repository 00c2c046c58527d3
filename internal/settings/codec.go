package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a settings document encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ParseFormat accepts json, yaml/yml and toml
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("unsupported format %q (json, yaml, toml)", s)
}

// FormatFromPath picks the format from a file extension, defaulting to JSON
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	}
	return FormatJSON
}

// Encode renders settings in the given format
func Encode(s *Settings, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatTOML:
		return toml.Marshal(toTOML(s))
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
}

// Decode parses a settings document and checks its invariants
func Decode(data []byte, format Format) (*Settings, error) {
	s := &Settings{}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, err
		}
	case FormatTOML:
		var doc tomlDocument
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		var err error
		if s, err = fromTOML(&doc); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, s); err != nil {
			return nil, err
		}
	}
	s.normalize()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// MarshalJSON writes entries in insertion order
func (g *ScriptGroup) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range g.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalJSONString(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		var value []byte
		switch n := g.nodes[k].(type) {
		case Template:
			value, err = marshalJSONString(string(n))
		case *ScriptGroup:
			value, err = n.MarshalJSON()
		default:
			err = fmt.Errorf("script %q has unknown node type %T", k, n)
		}
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalJSONString keeps && and > readable in a hand-edited file
func marshalJSONString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalJSON reads a nested object of strings, keeping key order
func (g *ScriptGroup) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("scripts must be an object")
	}
	parsed, err := decodeJSONGroup(dec, "")
	if err != nil {
		return err
	}
	*g = *parsed
	return nil
}

// decodeJSONGroup reads the members of an object whose '{' is already consumed
func decodeJSONGroup(dec *json.Decoder, path string) (*ScriptGroup, error) {
	g := NewScriptGroup()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v in scripts", tok)
		}
		full := joinPath(path, key)
		if _, dup := g.nodes[key]; dup {
			return nil, fmt.Errorf("duplicate script %q", full)
		}

		tok, err = dec.Token()
		if err != nil {
			return nil, err
		}
		switch v := tok.(type) {
		case string:
			g.Set(key, Template(v))
		case json.Delim:
			if v != '{' {
				return nil, fmt.Errorf("script %q must be a string or an object", full)
			}
			child, err := decodeJSONGroup(dec, full)
			if err != nil {
				return nil, err
			}
			g.Set(key, child)
		default:
			return nil, fmt.Errorf("script %q must be a string or an object", full)
		}
	}
	// closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return g, nil
}

// MarshalYAML emits an ordered mapping node
func (g *ScriptGroup) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range g.Keys() {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		switch n := g.nodes[k].(type) {
		case Template:
			node.Content = append(node.Content, key,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(n)})
		case *ScriptGroup:
			child, err := n.MarshalYAML()
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, key, child.(*yaml.Node))
		}
	}
	return node, nil
}

// UnmarshalYAML reads a nested mapping of strings, keeping key order
func (g *ScriptGroup) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := decodeYAMLGroup(value, "")
	if err != nil {
		return err
	}
	*g = *parsed
	return nil
}

func decodeYAMLGroup(value *yaml.Node, path string) (*ScriptGroup, error) {
	if value.Kind != yaml.MappingNode {
		if path == "" {
			return nil, fmt.Errorf("line %d: scripts must be a mapping", value.Line)
		}
		return nil, fmt.Errorf("line %d: script %q must be a string or a mapping", value.Line, path)
	}

	g := NewScriptGroup()
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i].Value
		v := value.Content[i+1]
		full := joinPath(path, key)
		if _, dup := g.nodes[key]; dup {
			return nil, fmt.Errorf("line %d: duplicate script %q", value.Content[i].Line, full)
		}

		switch {
		case v.Kind == yaml.ScalarNode && v.Tag != "!!null":
			g.Set(key, Template(v.Value))
		case v.Kind == yaml.MappingNode:
			child, err := decodeYAMLGroup(v, full)
			if err != nil {
				return nil, err
			}
			g.Set(key, child)
		default:
			return nil, fmt.Errorf("line %d: script %q must be a string or a mapping", v.Line, full)
		}
	}
	return g, nil
}

// TOML tables carry no key order, so groups are written and read sorted.
type tomlDocument struct {
	Projects []tomlProject     `toml:"projects"`
	Scripts  map[string]any    `toml:"scripts"`
	Options  map[string]Option `toml:"options,omitempty"`
	Language string            `toml:"language,omitempty"`
}

type tomlProject struct {
	Name    string         `toml:"name"`
	Path    string         `toml:"path"`
	Scripts map[string]any `toml:"scripts,omitempty"`
}

func toTOML(s *Settings) *tomlDocument {
	doc := &tomlDocument{
		Projects: make([]tomlProject, 0, len(s.Projects)),
		Scripts:  groupToMap(s.Scripts),
		Options:  s.Options,
		Language: s.Language,
	}
	for _, p := range s.Projects {
		tp := tomlProject{Name: p.Name, Path: p.Path}
		if p.Scripts.Len() > 0 {
			tp.Scripts = groupToMap(p.Scripts)
		}
		doc.Projects = append(doc.Projects, tp)
	}
	return doc
}

func fromTOML(doc *tomlDocument) (*Settings, error) {
	scripts, err := mapToGroup(doc.Scripts, "")
	if err != nil {
		return nil, err
	}
	s := &Settings{
		Projects: make([]Project, 0, len(doc.Projects)),
		Scripts:  scripts,
		Options:  doc.Options,
		Language: doc.Language,
	}
	for _, tp := range doc.Projects {
		p := Project{Name: tp.Name, Path: tp.Path}
		if len(tp.Scripts) > 0 {
			if p.Scripts, err = mapToGroup(tp.Scripts, tp.Name); err != nil {
				return nil, err
			}
		}
		s.Projects = append(s.Projects, p)
	}
	return s, nil
}

func groupToMap(g *ScriptGroup) map[string]any {
	out := make(map[string]any, g.Len())
	for _, k := range g.Keys() {
		switch n := g.nodes[k].(type) {
		case Template:
			out[k] = string(n)
		case *ScriptGroup:
			out[k] = groupToMap(n)
		}
	}
	return out
}

func mapToGroup(m map[string]any, path string) (*ScriptGroup, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	g := NewScriptGroup()
	for _, k := range keys {
		full := joinPath(path, k)
		switch v := m[k].(type) {
		case string:
			g.Set(k, Template(v))
		case map[string]any:
			child, err := mapToGroup(v, full)
			if err != nil {
				return nil, err
			}
			g.Set(k, child)
		default:
			return nil, fmt.Errorf("script %q must be a string or a table", full)
		}
	}
	return g, nil
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

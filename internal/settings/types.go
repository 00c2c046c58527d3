package settings

import (
	"fmt"
	"strings"
)

// ScriptNode is either a Template or a *ScriptGroup
type ScriptNode interface {
	scriptNode()
}

// Template is a shell command with ${n} and ${@} placeholders
type Template string

func (Template) scriptNode() {}

// ScriptGroup is an ordered name -> ScriptNode mapping (a nested menu).
// A nil *ScriptGroup reads as empty.
type ScriptGroup struct {
	keys  []string
	nodes map[string]ScriptNode
}

func (*ScriptGroup) scriptNode() {}

// NewScriptGroup creates an empty group
func NewScriptGroup() *ScriptGroup {
	return &ScriptGroup{nodes: make(map[string]ScriptNode)}
}

// Set adds name at the end, or replaces it in place when it already exists
func (g *ScriptGroup) Set(name string, node ScriptNode) {
	if g.nodes == nil {
		g.nodes = make(map[string]ScriptNode)
	}
	if _, ok := g.nodes[name]; !ok {
		g.keys = append(g.keys, name)
	}
	g.nodes[name] = node
}

// Get returns the node stored under name
func (g *ScriptGroup) Get(name string) (ScriptNode, bool) {
	if g == nil {
		return nil, false
	}
	node, ok := g.nodes[name]
	return node, ok
}

// Keys returns the names in insertion order
func (g *ScriptGroup) Keys() []string {
	if g == nil {
		return nil
	}
	out := make([]string, len(g.keys))
	copy(out, g.keys)
	return out
}

// Len returns the number of entries
func (g *ScriptGroup) Len() int {
	if g == nil {
		return 0
	}
	return len(g.keys)
}

// Clone deep-copies the group
func (g *ScriptGroup) Clone() *ScriptGroup {
	out := NewScriptGroup()
	for _, k := range g.Keys() {
		switch n := g.nodes[k].(type) {
		case Template:
			out.Set(k, n)
		case *ScriptGroup:
			out.Set(k, n.Clone())
		}
	}
	return out
}

// MergeScripts overlays project scripts on the global ones, one level deep.
// Shadowed global entries keep their position; project-only entries are appended.
func MergeScripts(global, project *ScriptGroup) *ScriptGroup {
	out := NewScriptGroup()
	for _, k := range global.Keys() {
		node, _ := global.Get(k)
		out.Set(k, node)
	}
	for _, k := range project.Keys() {
		node, _ := project.Get(k)
		out.Set(k, node)
	}
	return out
}

// Project is a named local directory or remote URL
type Project struct {
	Name    string       `json:"name" yaml:"name"`
	Path    string       `json:"path" yaml:"path"`
	Scripts *ScriptGroup `json:"scripts,omitempty" yaml:"scripts,omitempty"`
}

// Option is a flag that pipes the rendered script through another template
type Option struct {
	Alias   string `json:"alias,omitempty" yaml:"alias,omitempty" toml:"alias,omitempty"`
	Command string `json:"command" yaml:"command" toml:"command"`
}

// Settings is the whole persisted document
type Settings struct {
	Projects []Project         `json:"projects" yaml:"projects"`
	Scripts  *ScriptGroup      `json:"scripts" yaml:"scripts"`
	Options  map[string]Option `json:"options,omitempty" yaml:"options,omitempty"`
	Language string            `json:"language,omitempty" yaml:"language,omitempty"`
}

const defaultOpenScript = Template("open .")

// Default returns the settings written on first run
func Default() *Settings {
	scripts := NewScriptGroup()
	scripts.Set("code", Template("code ."))
	scripts.Set("open", defaultOpenScript)

	return &Settings{
		Projects: []Project{},
		Scripts:  scripts,
		Options: map[string]Option{
			"--grep": {Alias: "-d", Command: "${0} | grep ${1}"},
		},
	}
}

// FindProject returns the index of the project called name, ignoring case
func (s *Settings) FindProject(name string) (int, bool) {
	for i, p := range s.Projects {
		if strings.EqualFold(p.Name, name) {
			return i, true
		}
	}
	return -1, false
}

// RemoveProject drops the project called name, ignoring case
func (s *Settings) RemoveProject(name string) (Project, bool) {
	i, ok := s.FindProject(name)
	if !ok {
		return Project{}, false
	}
	removed := s.Projects[i]
	s.Projects = append(s.Projects[:i:i], s.Projects[i+1:]...)
	return removed, true
}

// Validate checks the invariants a hand-edited file can break
func (s *Settings) Validate() error {
	seen := make(map[string]string, len(s.Projects))
	for _, p := range s.Projects {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("project with path %q has no name", p.Path)
		}
		if strings.TrimSpace(p.Path) == "" {
			return fmt.Errorf("project %q has no path", p.Name)
		}
		key := strings.ToLower(p.Name)
		if prev, dup := seen[key]; dup {
			return fmt.Errorf("duplicate project name %q (also %q)", p.Name, prev)
		}
		seen[key] = p.Name
	}
	for flag, opt := range s.Options {
		if !strings.HasPrefix(flag, "-") {
			return fmt.Errorf("option %q must start with '-'", flag)
		}
		if opt.Alias != "" && !strings.HasPrefix(opt.Alias, "-") {
			return fmt.Errorf("alias %q of option %q must start with '-'", opt.Alias, flag)
		}
	}
	return nil
}

func (s *Settings) normalize() {
	if s.Projects == nil {
		s.Projects = []Project{}
	}
	if s.Scripts == nil {
		s.Scripts = NewScriptGroup()
	}
}

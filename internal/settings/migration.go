package settings

import (
	"encoding/json"
	"os"

	"github.com/rs/zerolog/log"
)

// legacySettings is the projectman settings.json layout
type legacySettings struct {
	CommandToOpen string `json:"commandToOpen"`
	Projects      []struct {
		Name string `json:"name"`
		Path string `json:"path"`
	} `json:"projects"`
}

// migrateLegacy copies projectman projects into s.
// Unreadable or malformed legacy files are skipped.
func migrateLegacy(s *Settings, legacyPath string) int {
	if legacyPath == "" {
		return 0
	}
	data, err := os.ReadFile(legacyPath)
	if err != nil {
		return 0
	}

	var legacy legacySettings
	if err := json.Unmarshal(data, &legacy); err != nil {
		log.Warn().Err(err).Str("path", legacyPath).Msg("skipping unreadable legacy settings")
		return 0
	}

	migrated := 0
	for _, p := range legacy.Projects {
		if p.Name == "" || p.Path == "" {
			continue
		}
		if _, dup := s.FindProject(p.Name); dup {
			continue
		}
		s.Projects = append(s.Projects, Project{Name: p.Name, Path: p.Path})
		migrated++
	}

	// only the built-in open script may be replaced, never one the user wrote
	if legacy.CommandToOpen != "" {
		if node, exists := s.Scripts.Get("open"); !exists || node == defaultOpenScript {
			s.Scripts.Set("open", Template(legacy.CommandToOpen+" ."))
		}
	}

	log.Info().Int("projects", migrated).Str("path", legacyPath).Msg("migrated legacy settings")
	return migrated
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// ErrUnsupportedProfile is returned for profile files that are neither YAML
// nor TOML.
var ErrUnsupportedProfile = errors.New("unsupported profile format")

// Profile is a startup profile read from a YAML or TOML file.
//
//	libraries:
//	  - libs/examples.xlib
//	  - https://example.com/tools.xlib
//	dir: plugins
//	pattern: "**/*.xlib"
//	globals:
//	  gGreeting: Hello
type Profile struct {
	Libraries []string          `yaml:"libraries" toml:"libraries"`
	Dir       string            `yaml:"dir" toml:"dir"`
	Pattern   string            `yaml:"pattern" toml:"pattern"`
	Globals   map[string]string `yaml:"globals" toml:"globals"`
}

// LoadProfile reads the profile at path. The format follows the extension
// (.yaml, .yml or .toml). Relative library paths and the scan directory are
// resolved against the profile's own directory.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var p Profile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &p)
	case ".toml":
		err = toml.Unmarshal(data, &p)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProfile, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}

	base := filepath.Dir(path)
	for i, lib := range p.Libraries {
		p.Libraries[i] = resolve(base, lib)
	}
	if p.Dir != "" {
		p.Dir = resolve(base, p.Dir)
	}
	return &p, nil
}

func resolve(base, p string) string {
	if strings.Contains(p, "://") || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

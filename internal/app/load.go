package app

import (
	"path/filepath"
	"strings"

	"github.com/vk/fitconf/internal/config"
	"github.com/vk/fitconf/internal/hcl_adapter"
	"github.com/vk/fitconf/internal/yaml_adapter"
)

// LoaderFor picks the configuration loader for path by its extension.
// Directories and anything that is not YAML go to the HCL loader.
func LoaderFor(path string) config.Loader {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml_adapter.NewLoader()
	}
	return hcl_adapter.NewLoader()
}

package config

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Mod kinds, matching the directories under mods/.
const (
	ModGlobal    = "global"
	ModCampaign  = "campaign"
	ModMultiplay = "multiplay"
)

// ValidateMods drops every mod that is not a regular file in
// <configDir>/mods/<kind>/ and returns the remaining set.
func ValidateMods(configDir string, mods ModsConfig, logger *log.Logger) ModsConfig {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return ModsConfig{
		Global:    validateKind(configDir, ModGlobal, mods.Global, logger),
		Campaign:  validateKind(configDir, ModCampaign, mods.Campaign, logger),
		Multiplay: validateKind(configDir, ModMultiplay, mods.Multiplay, logger),
	}
}

func validateKind(configDir, kind string, names []string, logger *log.Logger) []string {
	var kept []string
	for _, name := range names {
		// Mods are plain file names; anything with a path component is rejected.
		if name == "" || filepath.Base(name) != name {
			logger.Error("invalid mod name", "kind", kind, "mod", name)
			continue
		}
		fi, err := os.Stat(filepath.Join(configDir, "mods", kind, name))
		if err != nil || !fi.Mode().IsRegular() {
			logger.Error("mod does not exist", "kind", kind, "mod", name)
			continue
		}
		logger.Info("mod enabled", "kind", kind, "mod", name)
		kept = append(kept, name)
	}
	return kept
}

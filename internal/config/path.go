package config

import (
	"os"

	"github.com/adrg/xdg"
)

// DetermineConfigPath picks the config file: the explicit path, then
// CHESSROOMS_CONFIG, then the first candidate that exists. It returns ""
// when there is none; every setting has a default.
func DetermineConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}

	if p := os.Getenv(EnvPrefix + "CONFIG"); p != "" {
		return p
	}

	candidates := []string{
		"./chessrooms.yaml",
		"./config.yaml",
		"./config.yml",
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if p, err := xdg.SearchConfigFile("chessrooms/config.yaml"); err == nil {
		return p
	}

	if _, err := os.Stat("/etc/chessrooms/config.yaml"); err == nil {
		return "/etc/chessrooms/config.yaml"
	}

	return ""
}

// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package integration

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/juju/errors"
	"gopkg.in/ini.v1"
)

const (
	// DefaultConfigFile is the main StorPool configuration file.
	DefaultConfigFile = "/etc/storpool.conf"

	// DefaultConfigDir holds StorPool configuration snippets.
	DefaultConfigDir = "/etc/storpool.conf.d"
)

// RequiredSettings must be present in the StorPool configuration of the
// node before the integration can be installed.
var RequiredSettings = []string{"SP_OURID", "SP_API_HTTP_HOST", "SP_AUTH_TOKEN"}

// LoadConfig reads the StorPool configuration as seen by hostname: the
// settings outside any section, overridden by those in the [hostname]
// section. Snippets in dir are read after file, in lexical order. Missing
// files are ignored.
func LoadConfig(file, dir, hostname string) (map[string]string, error) {
	snippets, err := filepath.Glob(filepath.Join(dir, "*.conf"))
	if err != nil {
		return nil, errors.Trace(err)
	}
	sort.Strings(snippets)
	others := make([]interface{}, len(snippets))
	for i, name := range snippets {
		others[i] = name
	}
	cfg, err := ini.LoadSources(ini.LoadOptions{
		Loose:                   true,
		IgnoreInlineComment:     true,
		SkipUnrecognizableLines: true,
	}, file, others...)
	if err != nil {
		return nil, errors.Annotate(err, "reading the StorPool configuration")
	}

	result := make(map[string]string)
	for _, key := range cfg.Section(ini.DefaultSection).Keys() {
		result[key.Name()] = key.Value()
	}
	if section, err := cfg.GetSection(hostname); err == nil {
		for _, key := range section.Keys() {
			result[key.Name()] = key.Value()
		}
	}
	return result, nil
}

// Missing returns the required settings absent from config.
func Missing(config map[string]string) []string {
	var missing []string
	for _, name := range RequiredSettings {
		if config[name] == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

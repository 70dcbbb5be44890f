// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

const AppName = "chartview"
const configFileName = "chartview.yaml"
const configFileVersion = 1

// ConfigDirEnv overrides the platform configuration directory,
// mainly for tests and containerized runs.
const ConfigDirEnv = "CHARTVIEW_CONFIG_DIR"

type VersionConfig struct {
	FileVersion int
}

// GlobalConfig persists the application configuration as a single yaml file
// in the user configuration directory. The file is read lazily on first
// access and only written back when an Unlock changed the settings.
type GlobalConfig struct {
	mu        sync.Mutex
	loaded    bool
	version   VersionConfig
	appConfig AppConfig
}

func NewGlobalConfig() Config {
	return &GlobalConfig{
		version:   VersionConfig{FileVersion: configFileVersion},
		appConfig: NewAppConfig(),
	}
}

func (g *GlobalConfig) GetAppName() string {
	return AppName
}

// Locks access to the configuration and returns a copy which can be modified.
// Unlock needs to be called afterwards, if no error was returned.
func (g *GlobalConfig) Lock() (*AppConfig, error) {
	g.mu.Lock()
	if err := g.ensureLoaded(); err != nil {
		g.mu.Unlock()
		return nil, err
	}
	c := g.appConfig.deepCopy()
	return &c, nil
}

// Update the configuration and unlock access.
// The file is only rewritten when the returned copy differs.
func (g *GlobalConfig) Unlock(c *AppConfig) error {
	defer g.mu.Unlock()
	if cmp.Equal(g.appConfig, *c) {
		return nil
	}
	g.appConfig = *c
	return g.write()
}

func (g *GlobalConfig) Copy() (AppConfig, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.ensureLoaded(); err != nil {
		return AppConfig{}, err
	}
	return g.appConfig.deepCopy(), nil
}

func (g *GlobalConfig) ensureLoaded() error {
	if g.loaded {
		return nil
	}
	return g.read()
}

func (g *GlobalConfig) configFilePath() string {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return filepath.Join(dir, configFileName)
	}
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		// Operating systems without a config dir are not supported.
		log.Fatalf("unable to determine configuration path: %v", err)
	}
	return filepath.Join(userConfigDir, AppName, configFileName)
}

func (g *GlobalConfig) read() error {
	fileName := g.configFilePath()
	data, err := os.ReadFile(fileName)
	if os.IsNotExist(err) {
		// A missing file is fine, the defaults apply.
		g.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read configuration file: %v", err)
	}
	if err = yaml.Unmarshal(data, &g.version); err != nil {
		return fmt.Errorf("failed to parse configuration version: %v", err)
	}
	// A newer release may have written settings unknown to this one.
	// Refuse to load rather than silently dropping them on the next write.
	if g.version.FileVersion > configFileVersion {
		return fmt.Errorf("configuration file version %d is newer than supported version %d",
			g.version.FileVersion, configFileVersion)
	}
	if err = yaml.Unmarshal(data, &g.appConfig); err != nil {
		return fmt.Errorf("failed to parse app configuration: %v", err)
	}
	g.appConfig.Sanitize()
	g.loaded = true
	return nil
}

func (g *GlobalConfig) write() error {
	fileName := g.configFilePath()
	if err := os.MkdirAll(filepath.Dir(fileName), 0700); err != nil {
		return fmt.Errorf("failed to create configuration directory: %v", err)
	}
	g.appConfig.Sanitize()
	g.appConfig.RemoveDefaults()
	version, err := yaml.Marshal(&g.version)
	if err != nil {
		return fmt.Errorf("error generating configuration version: %v", err)
	}
	settings, err := yaml.Marshal(&g.appConfig)
	if err != nil {
		return fmt.Errorf("error generating app configuration: %v", err)
	}
	g.appConfig.RestoreDefaults()
	// Writing may fail, so write to a temporary file and rename afterwards.
	tmpFileName := fileName + ".tmp"
	if err = os.WriteFile(tmpFileName, append(version, settings...), 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %v", err)
	}
	if err = os.Rename(tmpFileName, fileName); err != nil {
		return fmt.Errorf("failed to replace configuration file: %v", err)
	}
	return nil
}

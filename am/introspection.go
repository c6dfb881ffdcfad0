package am

import (
	"os"
	"sort"
	"strings"

	"github.com/teranos/doctor/errors"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceSystem      ConfigSource = "system"      // /etc/doctor/config.toml
	SourceUser        ConfigSource = "user"        // ~/.doctor/am.toml
	SourceProject     ConfigSource = "project"     // project am.toml or doctor.toml
	SourceEnvironment ConfigSource = "environment" // DOCTOR_* env vars
)

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string       `json:"key" yaml:"key"`
	Value      interface{}  `json:"value" yaml:"value"`
	Source     ConfigSource `json:"source" yaml:"source"`
	SourcePath string       `json:"source_path,omitempty" yaml:"source_path,omitempty"` // File path or env var name
}

// ConfigIntrospection provides metadata about the active configuration
type ConfigIntrospection struct {
	Files    []string      `json:"files" yaml:"files"`       // Config files that were merged, lowest precedence first
	Settings []SettingInfo `json:"settings" yaml:"settings"` // All settings with sources
}

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource
	Path   string
}

// GetConfigIntrospection returns every effective setting with the source that supplied it
func GetConfigIntrospection() (*ConfigIntrospection, error) {
	if _, err := Load(); err != nil {
		return nil, errors.Wrap(err, "failed to load config for introspection")
	}

	v := GetViper()

	mu.Lock()
	sources := make(map[string]SourceInfo, len(ConfigSources))
	for k, si := range ConfigSources {
		sources[k] = si
	}
	mu.Unlock()

	introspection := &ConfigIntrospection{Settings: make([]SettingInfo, 0)}

	seen := map[string]bool{}
	for _, si := range sources {
		if !seen[si.Path] {
			seen[si.Path] = true
			introspection.Files = append(introspection.Files, si.Path)
		}
	}
	sort.Strings(introspection.Files)

	flattenSettingsWithSources(v.AllSettings(), "", introspection, sources)
	return introspection, nil
}

// flattenSettingsWithSources flattens settings and assigns sources from sourceMap
func flattenSettingsWithSources(settings map[string]interface{}, prefix string, introspection *ConfigIntrospection, sourceMap map[string]SourceInfo) {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := settings[key]
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nestedMap, ok := value.(map[string]interface{}); ok {
			flattenSettingsWithSources(nestedMap, fullKey, introspection, sourceMap)
			continue
		}

		sourceInfo := SourceInfo{Source: SourceDefault, Path: "built-in default"}
		if si, ok := sourceMap[fullKey]; ok {
			sourceInfo = si
		}

		if envKey := envOverride(fullKey); envKey != "" {
			sourceInfo = SourceInfo{Source: SourceEnvironment, Path: envKey}
		}

		introspection.Settings = append(introspection.Settings, SettingInfo{
			Key:        fullKey,
			Value:      value,
			Source:     sourceInfo.Source,
			SourcePath: sourceInfo.Path,
		})
	}
}

// envOverride returns the name of the environment variable overriding key, if any.
func envOverride(key string) string {
	candidates := []string{EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}
	candidates = append(candidates, envAliases[key]...)
	for _, name := range candidates {
		if os.Getenv(name) != "" {
			return name
		}
	}
	return ""
}

// GetConfigSummary counts effective settings by source
func GetConfigSummary() map[string]int {
	summary := map[string]int{
		string(SourceDefault):     0,
		string(SourceSystem):      0,
		string(SourceUser):        0,
		string(SourceProject):     0,
		string(SourceEnvironment): 0,
	}

	introspection, err := GetConfigIntrospection()
	if err != nil {
		return summary
	}
	for _, setting := range introspection.Settings {
		summary[string(setting.Source)]++
	}
	return summary
}

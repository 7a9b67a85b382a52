package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/ini.v1"
)

// PluginConfig stores plugin-specific configuration as key-value pairs.
type PluginConfig map[string]interface{}

// Config wraps viper and provides typed accessors.
type Config struct {
	v       *viper.Viper
	plugins map[string]PluginConfig
}

// Load reads a config file and prepares defaults. INI files get
// [plugins.<name>] sections; other formats are handed to viper as-is.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("HYMUSIC")
	v.AutomaticEnv()

	setDefaults(v)

	c := &Config{
		v:       v,
		plugins: make(map[string]PluginConfig),
	}
	if strings.TrimSpace(path) == "" {
		return c, nil
	}

	if strings.EqualFold(filepath.Ext(path), ".ini") {
		cfg, err := loadINI(v, path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		loadPlugins(cfg, c)
		return c, nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	for _, name := range pluginSectionNames(v) {
		c.plugins[name] = PluginConfig(v.GetStringMap("plugins." + name))
	}
	return c, nil
}

// Default returns a Config holding only the built-in defaults.
func Default() *Config {
	c, _ := Load("")
	return c
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFormat", "text")
	v.SetDefault("LogSource", false)
	v.SetDefault("DefaultPlatform", "netease")
	v.SetDefault("DefaultQuality", "high")
	v.SetDefault("SearchLimit", 10)
	v.SetDefault("WorkerPoolSize", 4)
	v.SetDefault("HTTPTimeout", 15)
	v.SetDefault("HTTPRetryMax", 0)
	v.SetDefault("HTTPRateLimit", 0)
	v.SetDefault("HTTPRateBurst", 1)
	v.SetDefault("HTTPBreakerFailures", 0)
	v.SetDefault("DownloadTimeout", 120)
	v.SetDefault("DownloadDir", "./downloads")
	v.SetDefault("HistoryDB", "")
}

// GetString returns a string value.
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt returns an int value.
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 returns a float value.
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool returns a bool value.
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// Set overrides a value, typically from a command-line flag.
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// GetPluginConfig retrieves plugin-specific configuration by plugin name.
// Returns the configuration map and true if found, or nil and false if not found.
func (c *Config) GetPluginConfig(name string) (PluginConfig, bool) {
	cfg, ok := c.plugins[name]
	return cfg, ok
}

// PluginNames returns the configured plugin names.
func (c *Config) PluginNames() []string {
	if len(c.plugins) == 0 {
		return nil
	}
	nameList := make([]string, 0, len(c.plugins))
	for name := range c.plugins {
		nameList = append(nameList, name)
	}
	sort.Strings(nameList)
	return nameList
}

// GetPluginString returns a string value from plugin configuration.
// Returns empty string if plugin or key not found.
func (c *Config) GetPluginString(plugin, key string) string {
	val, ok := c.pluginValue(plugin, key)
	if !ok {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return fmt.Sprintf("%v", val)
}

// GetPluginInt returns an int value from plugin configuration.
// Returns 0 if plugin or key not found, or value cannot be converted to int.
func (c *Config) GetPluginInt(plugin, key string) int {
	val, ok := c.pluginValue(plugin, key)
	if !ok {
		return 0
	}
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		num, _ := strconv.Atoi(strings.TrimSpace(v))
		return num
	default:
		return 0
	}
}

// GetPluginBool returns a bool value from plugin configuration.
// Returns false if plugin or key not found, or value cannot be converted to bool.
func (c *Config) GetPluginBool(plugin, key string) bool {
	val, ok := c.pluginValue(plugin, key)
	if !ok {
		return false
	}
	switch v := val.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true") || strings.TrimSpace(v) == "1"
	case int:
		return v != 0
	case int64:
		return v != 0
	default:
		return false
	}
}

// PluginEnabled reports whether a plugin is enabled. Plugins without an
// explicit "enabled" key are enabled.
func (c *Config) PluginEnabled(plugin string) bool {
	if _, ok := c.pluginValue(plugin, "enabled"); !ok {
		return true
	}
	return c.GetPluginBool(plugin, "enabled")
}

func (c *Config) pluginValue(plugin, key string) (interface{}, bool) {
	cfg, ok := c.plugins[plugin]
	if !ok {
		return nil, false
	}
	val, ok := cfg[key]
	return val, ok
}

func loadINI(v *viper.Viper, path string) (*ini.File, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}

	for _, key := range cfg.Section("").Keys() {
		v.Set(key.Name(), key.Value())
	}

	return cfg, nil
}

func loadPlugins(cfg *ini.File, c *Config) {
	const pluginPrefix = "plugins."

	for _, section := range cfg.Sections() {
		sectionName := section.Name()
		if sectionName == "" || sectionName == ini.DefaultSection {
			continue
		}

		if strings.HasPrefix(sectionName, pluginPrefix) {
			pluginName := strings.TrimPrefix(sectionName, pluginPrefix)
			pluginCfg := make(PluginConfig)

			for _, key := range section.Keys() {
				pluginCfg[key.Name()] = key.Value()
			}

			c.plugins[pluginName] = pluginCfg
		}
	}
}

func pluginSectionNames(v *viper.Viper) []string {
	raw := v.GetStringMap("plugins")
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadExampleINI(t *testing.T) {
	path := filepath.Join("..", "..", "config_example.ini")
	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "netease", conf.GetString("DefaultPlatform"))
	assert.Equal(t, "pretty", conf.GetString("LogFormat"))
	assert.Equal(t, 0, conf.GetInt("HTTPRetryMax"))
	assert.Equal(t, []string{"netease", "qqmusic"}, conf.PluginNames())
	assert.Equal(t, "https://c.y.qq.com", conf.GetPluginString("qqmusic", "base_url"))
}

func TestDefaults(t *testing.T) {
	conf := Default()
	assert.Equal(t, "info", conf.GetString("LogLevel"))
	assert.Equal(t, 10, conf.GetInt("SearchLimit"))
	assert.Equal(t, 4, conf.GetInt("WorkerPoolSize"))
	assert.False(t, conf.GetBool("LogSource"))
	assert.Zero(t, conf.GetFloat64("HTTPRateLimit"))
	assert.Zero(t, conf.GetInt("HTTPBreakerFailures"))
	assert.Empty(t, conf.GetString("HistoryDB"))
	assert.Nil(t, conf.PluginNames())
}

func TestPluginSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test_config.ini")
	content := `LogLevel = debug
SearchLimit = 3

[plugins.netease]
timeout = 30
enabled = true

[plugins.qqmusic]
enabled = false
user_agent = test-agent
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", conf.GetString("LogLevel"))
	assert.Equal(t, 3, conf.GetInt("SearchLimit"))

	assert.Equal(t, 30, conf.GetPluginInt("netease", "timeout"))
	assert.True(t, conf.PluginEnabled("netease"))
	assert.False(t, conf.PluginEnabled("qqmusic"))
	assert.True(t, conf.PluginEnabled("unknown"))
	assert.Equal(t, "test-agent", conf.GetPluginString("qqmusic", "user_agent"))

	assert.Equal(t, "", conf.GetPluginString("missing", "key"))
	assert.Equal(t, 0, conf.GetPluginInt("netease", "missing"))
	assert.False(t, conf.GetPluginBool("missing", "enabled"))

	_, ok := conf.GetPluginConfig("netease")
	assert.True(t, ok)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.ini"))
	assert.Error(t, err)
}

func TestSetOverrides(t *testing.T) {
	conf := Default()
	conf.Set("DefaultPlatform", "qqmusic")
	assert.Equal(t, "qqmusic", conf.GetString("DefaultPlatform"))
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	runner := NewRunner(&out)
	t.Cleanup(func() { _ = runner.Close(context.Background()) })
	cmd := &cli.Command{
		Name:     "hymusic",
		Flags:    globalFlags(),
		Commands: runner.register(),
	}
	err := cmd.Run(context.Background(), append([]string{"hymusic", "--config", "", "--log-level", "error"}, args...))
	return out.String(), err
}

func TestPlatformsListsBuiltinProviders(t *testing.T) {
	out, err := run(t, "platforms")
	require.NoError(t, err)

	var rows []struct {
		Name        string `json:"name"`
		DisplayName string `json:"display_name"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "netease", rows[0].Name)
	assert.Equal(t, "网易云音乐", rows[0].DisplayName)
	assert.Equal(t, "qqmusic", rows[1].Name)
}

func TestSearchRequiresQuery(t *testing.T) {
	_, err := run(t, "search")
	assert.ErrorIs(t, err, errUsage)
}

func TestUnrecognizedLinkIsUsageError(t *testing.T) {
	_, err := run(t, "song", "https://example.com/song/1")
	assert.ErrorIs(t, err, errUsage)
}

func TestLinkKindMismatch(t *testing.T) {
	_, err := run(t, "album", "https://y.qq.com/n/ryqq/songDetail/0039MnYb0qxYhV")
	assert.ErrorIs(t, err, errUsage)
}

func TestParseCriteria(t *testing.T) {
	got, err := parseCriteria([]string{"name=Sunny Day", " artist = Jay "})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": "Sunny Day", "artist": "Jay"}, got)

	got, err = parseCriteria(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = parseCriteria([]string{"novalue"})
	assert.ErrorIs(t, err, errUsage)
}

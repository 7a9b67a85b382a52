package qqmusic

import (
	"testing"

	"github.com/liuran001/hymusic/core/rawjson"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fastjson"
)

func mustParse(t *testing.T, raw string) *fastjson.Value {
	t.Helper()
	v, err := rawjson.Parse([]byte(raw))
	require.NoError(t, err)
	return v
}

package netease

import (
	"context"
	"testing"

	"github.com/liuran001/hymusic/core/model"
	"github.com/liuran001/hymusic/core/rawjson"
	"github.com/valyala/fastjson"
)

func mustParse(t *testing.T, raw string) *fastjson.Value {
	t.Helper()
	v, err := rawjson.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("parse %s: %v", raw, err)
	}
	return v
}

func mustCreator(t *testing.T, p *model.Playlist) *model.User {
	t.Helper()
	u, err := p.Creator(context.Background())
	if err != nil {
		t.Fatalf("Creator: %v", err)
	}
	return u
}

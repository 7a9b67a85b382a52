package registry

import (
	"strings"
	"testing"

	"github.com/liuran001/hymusic/core/model"
)

type prefixMatcher struct {
	name   string
	prefix string
	kind   model.Kind
}

func (m prefixMatcher) Name() string { return m.name }

func (m prefixMatcher) MatchURL(url string) (model.Kind, string, bool) {
	id, ok := strings.CutPrefix(url, m.prefix)
	return m.kind, id, ok
}

func TestRegisterRejectsInvalid(t *testing.T) {
	r := New()
	if err := r.Register(nil); err == nil {
		t.Error("expected error for nil matcher")
	}
	if err := r.Register(prefixMatcher{}); err == nil {
		t.Error("expected error for empty name")
	}
	if err := r.Register(prefixMatcher{name: "a", prefix: "a:"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(prefixMatcher{name: "a", prefix: "b:"}); err == nil {
		t.Error("expected duplicate error")
	}
}

func TestMatchURLUsesRegistrationOrder(t *testing.T) {
	r := New()
	_ = r.Register(prefixMatcher{name: "first", prefix: "x:", kind: model.KindSong})
	_ = r.Register(prefixMatcher{name: "second", prefix: "x:", kind: model.KindAlbum})

	m, ok := r.MatchURL("x:42")
	if !ok {
		t.Fatal("expected match")
	}
	want := Match{Provider: "first", Kind: model.KindSong, ID: "42"}
	if m != want {
		t.Errorf("MatchURL = %+v, want %+v", m, want)
	}
	if _, ok := r.MatchURL("y:1"); ok {
		t.Error("unexpected match")
	}
}

func TestNamesAndReset(t *testing.T) {
	r := New()
	_ = r.Register(prefixMatcher{name: "b", prefix: "b:"})
	_ = r.Register(prefixMatcher{name: "a", prefix: "a:"})
	if got := strings.Join(r.Names(), ","); got != "b,a" {
		t.Errorf("Names = %s", got)
	}
	if _, ok := r.Get("a"); !ok {
		t.Error("Get(a) missing")
	}
	r.Reset()
	if len(r.Names()) != 0 {
		t.Error("Reset left matchers")
	}
}

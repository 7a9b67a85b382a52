package model

import "fmt"

// Rebind copies every field stored on fresh onto target, keeping target's
// identity and any values fresh does not carry. Lazy slots touched by the
// copy become Resolved and target is treated as detail-loaded, so unset lazy
// attributes read as zero afterwards without another fetch.
func Rebind(target, fresh Entity) error {
	if target == nil || fresh == nil {
		return fmt.Errorf("model: rebind with nil entity")
	}
	if target.Kind() != fresh.Kind() {
		return fmt.Errorf("%w: %s onto %s", ErrKindMismatch, fresh.Kind(), target.Kind())
	}
	t, f := target.core(), fresh.core()
	if t == f {
		return nil
	}
	for name, v := range f.Fields() {
		t.Set(name, v)
	}
	t.detailLoaded.Store(true)
	return nil
}

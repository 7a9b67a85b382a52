package qqmusic

import (
	"context"
	"iter"

	"github.com/liuran001/hymusic/core/model"
	"github.com/liuran001/hymusic/core/platform"
	"github.com/liuran001/hymusic/core/rawjson"
)

// ListPlaylists walks the category hub in windows of hubPageSize. The
// category name is looked up once, before the first window.
func (q *QQMusicPlatform) ListPlaylists(ctx context.Context, opts platform.ListOptions) iter.Seq2[*model.Playlist, error] {
	return func(yield func(*model.Playlist, error) bool) {
		if err := ctx.Err(); err != nil {
			yield(nil, err)
			return
		}
		categoryID, err := q.categoryID(ctx, opts.Category)
		if err != nil {
			yield(nil, err)
			return
		}
		count := 0
		for sin := 0; ; sin += hubPageSize {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			root, err := q.client.playlistHub(ctx, categoryID, opts.Order, sin)
			if err != nil {
				yield(nil, err)
				return
			}
			data, err := rawjson.RequireObject(root, "data")
			if err != nil {
				yield(nil, platform.NewShapeError(providerName, "playlist hub", opts.Category, err))
				return
			}
			items := rawjson.Array(data.Get("list"))
			if len(items) == 0 {
				return
			}
			for _, item := range items {
				p, err := q.buildPlaylist(item)
				if err != nil {
					yield(nil, platform.NewShapeError(providerName, "playlist hub", opts.Category, err))
					return
				}
				if !yield(p, nil) {
					return
				}
				count++
				if opts.Max > 0 && count >= opts.Max {
					return
				}
			}
		}
	}
}

// categoryID maps a category name onto its hub id. An empty name selects
// the all-playlists category.
func (q *QQMusicPlatform) categoryID(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return defaultCategoryID, nil
	}
	root, err := q.client.categories(ctx)
	if err != nil {
		return 0, err
	}
	for _, group := range rawjson.Array(root.Get("data", "categories")) {
		for _, item := range rawjson.Array(group.Get("items")) {
			if label, _ := rawjson.OptString(item, "categoryName"); label != name {
				continue
			}
			id, err := rawjson.RequireInt64(item, "categoryId")
			if err != nil {
				return 0, platform.NewShapeError(providerName, "playlist category", name, err)
			}
			return id, nil
		}
	}
	if q.logger != nil {
		q.logger.Warn("qqmusic category not found", "category", name)
	}
	return 0, platform.NewCategoryNotFoundError(providerName, name)
}

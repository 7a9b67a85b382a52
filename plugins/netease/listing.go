package netease

import (
	"bytes"
	"context"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/liuran001/hymusic/core/model"
	"github.com/liuran001/hymusic/core/platform"
	"github.com/liuran001/hymusic/core/rawjson"
)

// ListPlaylists scrapes the playlist hub page by page.
func (n *NeteasePlatform) ListPlaylists(ctx context.Context, opts platform.ListOptions) iter.Seq2[*model.Playlist, error] {
	return func(yield func(*model.Playlist, error) bool) {
		count := 0
		for offset := 0; ; offset += hubPageSize {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			body, err := n.client.playlistHub(ctx, opts.Category, opts.Order, offset)
			if err != nil {
				yield(nil, err)
				return
			}
			page, err := n.parseHub(body)
			if err != nil {
				yield(nil, platform.NewShapeError(providerName, "playlist hub", opts.Category, err))
				return
			}
			if len(page) == 0 {
				return
			}
			for _, p := range page {
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

// parseHub extracts playlist cards from one hub page.
func (n *NeteasePlatform) parseHub(body []byte) ([]*model.Playlist, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	container := doc.Find("#m-pl-container")
	if container.Length() == 0 {
		return nil, fmt.Errorf("%w: #m-pl-container", rawjson.ErrMissingKey)
	}
	var (
		playlists []*model.Playlist
		parseErr  error
	)
	container.ChildrenFiltered("li").EachWithBreak(func(i int, li *goquery.Selection) bool {
		p, err := n.parseHubItem(li)
		if err != nil {
			parseErr = fmt.Errorf("item %d: %w", i, err)
			return false
		}
		playlists = append(playlists, p)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return playlists, nil
}

func (n *NeteasePlatform) parseHubItem(li *goquery.Selection) (*model.Playlist, error) {
	card := li.ChildrenFiltered("div").First()
	src, _ := card.Find("img").First().Attr("src")
	link := card.Find("a").First()
	title, _ := link.Attr("title")
	href, _ := link.Attr("href")
	id, err := idFromHref(href)
	if err != nil {
		return nil, fmt.Errorf("playlist link: %w", err)
	}

	fields := model.Fields{
		model.FieldID:   id,
		model.FieldName: title,
	}
	if cover, _, _ := strings.Cut(src, "?"); cover != "" {
		fields[model.FieldCoverURL] = cover
	}
	if creator := li.Find("a.nm").First(); creator.Length() > 0 {
		creatorHref, _ := creator.Attr("href")
		creatorID, err := idFromHref(creatorHref)
		if err != nil {
			return nil, fmt.Errorf("creator link: %w", err)
		}
		fields[model.FieldCreator] = model.NewUser(n, model.Fields{
			model.FieldID:   creatorID,
			model.FieldName: strings.TrimSpace(creator.Text()),
		})
	}
	return model.NewPlaylist(n, fields), nil
}

func idFromHref(href string) (int64, error) {
	_, raw, ok := strings.Cut(href, "id=")
	if !ok {
		return 0, fmt.Errorf("no id in %q", href)
	}
	raw, _, _ = strings.Cut(raw, "&")
	return strconv.ParseInt(raw, 10, 64)
}

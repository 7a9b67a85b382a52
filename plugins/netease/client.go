package netease

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/liuran001/hymusic/core"
	"github.com/liuran001/hymusic/core/platform"
	"github.com/liuran001/hymusic/core/rawjson"
	"github.com/liuran001/hymusic/core/transport"
	"github.com/valyala/fastjson"
)

const (
	providerName = "netease"

	// DefaultBaseURL is the web root every endpoint hangs off.
	DefaultBaseURL = "http://music.163.com"

	hubPageSize = 35
)

// Client issues the raw legacy API and web requests.
type Client struct {
	fetcher transport.Fetcher
	baseURL string
	logger  core.Logger
}

// NewClient creates a client. An empty baseURL selects DefaultBaseURL.
func NewClient(fetcher transport.Fetcher, baseURL string, logger core.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{fetcher: fetcher, baseURL: baseURL, logger: logger}
}

func (c *Client) search(ctx context.Context, query string, typeCode, limit int) (*fastjson.Value, error) {
	form := url.Values{}
	form.Set("s", query)
	form.Set("type", strconv.Itoa(typeCode))
	if limit > 0 {
		form.Set("limit", strconv.Itoa(limit))
	}
	body, err := c.fetcher.PostForm(ctx, c.baseURL+"/api/search/get/", form)
	if err != nil {
		return nil, platform.NewTransportError(providerName, "search", query, err)
	}
	return c.decode(body, "search", query)
}

func (c *Client) songDetail(ctx context.Context, id string) (*fastjson.Value, error) {
	query := url.Values{}
	query.Set("id", id)
	query.Set("ids", "["+id+"]")
	return c.getJSON(ctx, "song", id, "/api/song/detail/", query)
}

func (c *Client) playlistDetail(ctx context.Context, id string) (*fastjson.Value, error) {
	return c.getJSON(ctx, "playlist", id, "/api/playlist/detail", url.Values{"id": {id}})
}

func (c *Client) albumDetail(ctx context.Context, id string) (*fastjson.Value, error) {
	return c.getJSON(ctx, "album", id, "/api/album/"+url.PathEscape(id), nil)
}

func (c *Client) artistAlbums(ctx context.Context, id string) (*fastjson.Value, error) {
	return c.getJSON(ctx, "artist", id, "/api/artist/album/"+url.PathEscape(id), nil)
}

func (c *Client) lyric(ctx context.Context, id string) (*fastjson.Value, error) {
	query := url.Values{}
	query.Set("id", id)
	query.Set("lv", "-1")
	query.Set("kv", "-1")
	query.Set("tv", "-1")
	return c.getJSON(ctx, "lyric", id, "/api/song/lyric", query)
}

// playlistHub fetches one server-rendered page of the playlist hub.
func (c *Client) playlistHub(ctx context.Context, category string, order platform.Order, offset int) ([]byte, error) {
	query := url.Values{}
	if category != "" {
		query.Set("cat", category)
	}
	if order != "" {
		query.Set("order", string(order))
	}
	query.Set("limit", strconv.Itoa(hubPageSize))
	query.Set("offset", strconv.Itoa(offset))
	body, err := c.fetcher.Get(ctx, c.baseURL+"/discover/playlist/", query)
	if err != nil {
		return nil, platform.NewTransportError(providerName, "playlist hub", category, err)
	}
	return body, nil
}

func (c *Client) getJSON(ctx context.Context, resource, id, path string, query url.Values) (*fastjson.Value, error) {
	if c.logger != nil {
		c.logger.Debug("netease request", "resource", resource, "id", id)
	}
	body, err := c.fetcher.Get(ctx, c.baseURL+path, query)
	if err != nil {
		return nil, platform.NewTransportError(providerName, resource, id, err)
	}
	return c.decode(body, resource, id)
}

// decode parses body and maps the API's own status code onto errors.
func (c *Client) decode(body []byte, resource, id string) (*fastjson.Value, error) {
	root, err := rawjson.Parse(body)
	if err != nil {
		return nil, platform.NewShapeError(providerName, resource, id, err)
	}
	code, ok := rawjson.OptInt64(root, "code")
	switch {
	case !ok, code == 200:
		return root, nil
	case code == 404:
		return nil, platform.NewNotFoundError(providerName, resource, id)
	default:
		msg, _ := rawjson.OptString(root, "msg", "message")
		return nil, platform.NewShapeError(providerName, resource, id, fmt.Errorf("api code %d %s", code, msg))
	}
}

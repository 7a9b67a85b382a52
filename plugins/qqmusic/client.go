package qqmusic

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/url"
	"strconv"
	"strings"

	"github.com/liuran001/hymusic/core"
	"github.com/liuran001/hymusic/core/platform"
	"github.com/liuran001/hymusic/core/rawjson"
	"github.com/liuran001/hymusic/core/transport"
	"github.com/valyala/fastjson"
)

const (
	providerName = "qqmusic"

	// DefaultAPIURL is the root of the legacy web API.
	DefaultAPIURL = "https://c.y.qq.com"
	// DefaultMusicsURL is the signed request gateway used for stream URLs.
	DefaultMusicsURL = "https://u.y.qq.com/cgi-bin/musics.fcg"
	// DefaultStreamURL prefixes the relative purl the vkey service returns.
	DefaultStreamURL = "https://ws.stream.qqmusic.qq.com/"

	defaultReferer = "https://y.qq.com/portal/search.html"

	defaultCategoryID = 10000000
	hubPageSize       = 30
)

// Endpoints overrides the remote roots. Empty fields select the defaults.
type Endpoints struct {
	API    string
	Musics string
	Stream string
}

func (e Endpoints) withDefaults() Endpoints {
	if e.API == "" {
		e.API = DefaultAPIURL
	}
	if e.Musics == "" {
		e.Musics = DefaultMusicsURL
	}
	if e.Stream == "" {
		e.Stream = DefaultStreamURL
	}
	return e
}

// Client issues the raw QQ Music requests and unwraps JSONP bodies.
type Client struct {
	fetcher   transport.Fetcher
	endpoints Endpoints
	uin       string
	authst    string
	logger    core.Logger
}

// NewClient creates a client. cookie is optional; when it carries uin and
// qqmusic_key they are sent with vkey requests.
func NewClient(fetcher transport.Fetcher, endpoints Endpoints, cookie string, logger core.Logger) *Client {
	uin, authst := parseQQAuth(cookie)
	return &Client{
		fetcher:   fetcher,
		endpoints: endpoints.withDefaults(),
		uin:       uin,
		authst:    authst,
		logger:    logger,
	}
}

func (c *Client) searchSongs(ctx context.Context, query string, limit int) (*fastjson.Value, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("n", strconv.Itoa(limit))
	}
	params.Set("w", query)
	params.Set("aggr", "1")
	params.Set("lossless", "1")
	params.Set("cr", "1")
	return c.getJSON(ctx, "search song", query, "/soso/fcgi-bin/search_cp", params)
}

func (c *Client) searchAlbums(ctx context.Context, query string, limit int) (*fastjson.Value, error) {
	params := webParams()
	params.Set("remoteplace", "txt.yqq.album")
	params.Set("searchid", searchID())
	params.Set("lossless", "0")
	params.Set("n", strconv.Itoa(pageOrDefault(limit)))
	params.Set("w", query)
	params.Set("t", "8")
	return c.getJSON(ctx, "search album", query, "/soso/fcgi-bin/search_cp", params)
}

func (c *Client) searchPlaylists(ctx context.Context, query string, limit int) (*fastjson.Value, error) {
	params := webParams()
	params.Set("remoteplace", "txt.yqq.center")
	params.Set("searchid", searchID())
	params.Set("num_per_page", strconv.Itoa(pageOrDefault(limit)))
	params.Set("query", query)
	return c.getJSON(ctx, "search playlist", query, "/soso/fcgi-bin/client_music_search_songlist", params)
}

func (c *Client) songDetail(ctx context.Context, mid string) (*fastjson.Value, error) {
	params := url.Values{}
	params.Set("songmid", mid)
	params.Set("format", "json")
	return c.getJSON(ctx, "song", mid, "/v8/fcg-bin/fcg_play_single_song.fcg", params)
}

func (c *Client) albumDetail(ctx context.Context, mid string) (*fastjson.Value, error) {
	params := webParams()
	params.Set("albummid", mid)
	return c.getJSON(ctx, "album", mid, "/v8/fcg-bin/fcg_v8_album_info_cp.fcg", params)
}

func (c *Client) playlistDetail(ctx context.Context, id string) (*fastjson.Value, error) {
	params := webParams()
	params.Set("type", "1")
	params.Set("json", "1")
	params.Set("utf8", "1")
	params.Set("onlysong", "0")
	params.Set("disstid", id)
	return c.getJSON(ctx, "playlist", id, "/qzone/fcg-bin/fcg_ucc_getcdinfo_byids_cp.fcg", params)
}

func (c *Client) artistDetail(ctx context.Context, mid string) (*fastjson.Value, error) {
	params := webParams()
	params.Set("singermid", mid)
	params.Set("order", "time")
	return c.getJSON(ctx, "artist", mid, "/v8/fcg-bin/fcg_v8_singer_album.fcg", params)
}

func (c *Client) categories(ctx context.Context) (*fastjson.Value, error) {
	return c.getJSON(ctx, "playlist category", "", "/splcloud/fcgi-bin/fcg_get_diss_tag_conf.fcg", webParams())
}

// playlistHub fetches the window [sin, sin+hubPageSize) of a category.
func (c *Client) playlistHub(ctx context.Context, categoryID int64, order platform.Order, sin int) (*fastjson.Value, error) {
	sortID := "5"
	if order == platform.OrderNew {
		sortID = "2"
	}
	params := url.Values{}
	params.Set("rnd", strconv.FormatFloat(rand.Float64(), 'f', -1, 64))
	params.Set("format", "json")
	params.Set("platform", "yqq")
	params.Set("sortId", sortID)
	params.Set("categoryId", strconv.FormatInt(categoryID, 10))
	params.Set("sin", strconv.Itoa(sin))
	params.Set("ein", strconv.Itoa(sin+hubPageSize-1))
	return c.getJSON(ctx, "playlist hub", strconv.FormatInt(categoryID, 10), "/splcloud/fcgi-bin/fcg_get_diss_by_tag.fcg", params)
}

// lyric is not code-checked: a missing lyric is reported through retcode.
func (c *Client) lyric(ctx context.Context, mid string) (*fastjson.Value, error) {
	params := url.Values{}
	params.Set("songmid", mid)
	params.Set("g_tk", "5381")
	params.Set("format", "json")
	params.Set("inCharset", "utf8")
	params.Set("outCharset", "utf-8")
	params.Set("platform", "yqq")
	body, err := c.fetcher.Get(ctx, c.endpoints.API+"/lyric/fcgi-bin/fcg_query_lyric_new.fcg", params)
	if err != nil {
		return nil, platform.NewTransportError(providerName, "lyric", mid, err)
	}
	return c.parse(body, "lyric", mid)
}

// fileInfo returns the track_info.file record listing the renditions a song has.
func (c *Client) fileInfo(ctx context.Context, mid string) (*fastjson.Value, error) {
	payload := map[string]any{
		"comm": map[string]any{
			"ct":  "19",
			"cv":  "1859",
			"uin": "0",
		},
		"req": map[string]any{
			"module": "music.pf_song_detail_svr",
			"method": "get_song_detail_yqq",
			"param": map[string]any{
				"song_type": 0,
				"song_mid":  mid,
			},
		},
	}
	root, err := c.postSigned(ctx, "song file", mid, payload, false)
	if err != nil {
		return nil, err
	}
	file, err := rawjson.RequireObject(root.Get("req", "data", "track_info"), "file")
	if err != nil {
		return nil, platform.NewShapeError(providerName, "song file", mid, err)
	}
	return file, nil
}

// vkey asks for a playable path of one rendition. An empty purl means the
// rendition is refused.
func (c *Client) vkey(ctx context.Context, mid, mediaMid string, p qualityProfile) (string, error) {
	payload := map[string]any{
		"req": map[string]any{
			"module": "music.vkey.GetVkey",
			"method": "UrlGetVkey",
			"param": map[string]any{
				"filename":  []string{p.Code + mediaMid + "." + p.Ext},
				"guid":      "114514",
				"songmid":   []string{mid},
				"songtype":  []int{0},
				"uin":       c.uin,
				"loginflag": 1,
				"platform":  "20",
			},
		},
		"comm": map[string]any{
			"qq":     c.uin,
			"authst": c.authst,
			"ct":     "26",
			"cv":     "2010101",
			"v":      "2010101",
		},
	}
	root, err := c.postSigned(ctx, "song vkey", mid, payload, true)
	if err != nil {
		return "", err
	}
	info := rawjson.First(root.Get("req", "data", "midurlinfo"))
	purl, _ := rawjson.OptString(info, "purl")
	return strings.TrimSpace(purl), nil
}

func (c *Client) postSigned(ctx context.Context, resource, id string, payload any, clearPart1 bool) (*fastjson.Value, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("qqmusic: encode %s payload: %w", resource, err)
	}
	endpoint := c.endpoints.Musics + "?format=json&sign=" + url.QueryEscape(tencentSign(string(body), clearPart1))
	if c.logger != nil {
		c.logger.Debug("qqmusic request", "resource", resource, "id", id)
	}
	resp, err := c.fetcher.PostJSON(ctx, endpoint, body)
	if err != nil {
		return nil, platform.NewTransportError(providerName, resource, id, err)
	}
	return c.decode(resp, resource, id)
}

func (c *Client) getJSON(ctx context.Context, resource, id, path string, params url.Values) (*fastjson.Value, error) {
	if c.logger != nil {
		c.logger.Debug("qqmusic request", "resource", resource, "id", id)
	}
	body, err := c.fetcher.Get(ctx, c.endpoints.API+path, params)
	if err != nil {
		return nil, platform.NewTransportError(providerName, resource, id, err)
	}
	return c.decode(body, resource, id)
}

// decode parses body and rejects a non-zero API code.
func (c *Client) decode(body []byte, resource, id string) (*fastjson.Value, error) {
	root, err := c.parse(body, resource, id)
	if err != nil {
		return nil, err
	}
	if code, ok := rawjson.OptInt64(root, "code"); ok && code != 0 {
		msg, _ := rawjson.OptString(root, "msg", "message")
		return nil, platform.NewShapeError(providerName, resource, id, fmt.Errorf("api code %d %s", code, msg))
	}
	return root, nil
}

// parse accepts plain JSON and JSONP-wrapped JSON alike.
func (c *Client) parse(body []byte, resource, id string) (*fastjson.Value, error) {
	root, err := rawjson.Parse(body)
	if err == nil {
		return root, nil
	}
	inner, stripErr := rawjson.StripJSON(body)
	if stripErr != nil {
		return nil, platform.NewShapeError(providerName, resource, id, err)
	}
	root, err = rawjson.Parse(inner)
	if err != nil {
		return nil, platform.NewShapeError(providerName, resource, id, err)
	}
	return root, nil
}

func webParams() url.Values {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("inCharset", "utf-8")
	params.Set("outCharset", "utf-8")
	params.Set("platform", "yqq")
	return params
}

func searchID() string {
	return strconv.FormatInt(rand.Int64N(9655134513451), 10)
}

func pageOrDefault(limit int) int {
	if limit > 0 {
		return limit
	}
	return 5
}

func parseQQAuth(cookie string) (string, string) {
	uin := strings.TrimPrefix(parseCookieValue(cookie, "uin"), "o")
	authst := parseCookieValue(cookie, "qqmusic_key")
	if uin == "" {
		uin = "0"
	}
	return uin, authst
}

func parseCookieValue(cookie, key string) string {
	for _, part := range strings.Split(cookie, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if ok && strings.TrimSpace(k) == key {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

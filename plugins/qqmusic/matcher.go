package qqmusic

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/liuran001/hymusic/core/model"
)

type urlPattern struct {
	kind model.Kind
	re   *regexp.Regexp
}

var pathPatterns = []urlPattern{
	{model.KindSong, regexp.MustCompile(`^n/ryqq(?:_v2)?/songDetail/([0-9A-Za-z]+)$`)},
	{model.KindSong, regexp.MustCompile(`^n/(?:ryqq|yqq)/song/([0-9A-Za-z]+?)(?:\.html)?$`)},
	{model.KindSong, regexp.MustCompile(`^song/([0-9A-Za-z]+)$`)},
	{model.KindAlbum, regexp.MustCompile(`^n/ryqq(?:_v2)?/albumDetail/([0-9A-Za-z]+)$`)},
	{model.KindAlbum, regexp.MustCompile(`^n/yqq/album/([0-9A-Za-z]+?)(?:\.html)?$`)},
	{model.KindArtist, regexp.MustCompile(`^n/(?:ryqq|ryqq_v2|yqq)/singer/([0-9A-Za-z]+?)(?:\.html)?$`)},
	{model.KindPlaylist, regexp.MustCompile(`^n/(?:ryqq|ryqq_v2|yqq)/playlist/([0-9]+?)(?:\.html)?$`)},
	{model.KindPlaylist, regexp.MustCompile(`^playlist/([0-9]+)$`)},
}

// Share pages carry the playlist id in the query string.
var playlistSharePaths = map[string]bool{
	"n2/m/share/details/taoge.html":        true,
	"n3/other/pages/details/playlist.html": true,
}

// MatchURL implements platform.URLMatcher.
// Supported shapes include:
//   - https://y.qq.com/n/ryqq/songDetail/0039MnYb0qxYhV
//   - https://y.qq.com/n/yqq/album/002eFUFm2XYZ7z.html
//   - https://y.qq.com/n/ryqq/singer/0025NhlN2yWrP4
//   - https://y.qq.com/n/ryqq/playlist/7256912512
//   - https://i.y.qq.com/n2/m/share/details/taoge.html?id=7256912512
//   - https://i.y.qq.com/v8/playsong.html?songmid=0039MnYb0qxYhV
func (q *QQMusicPlatform) MatchURL(rawURL string) (model.Kind, string, bool) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return 0, "", false
	}
	host := strings.ToLower(parsed.Hostname())
	if host != "qq.com" && !strings.HasSuffix(host, ".qq.com") {
		return 0, "", false
	}
	path := strings.Trim(parsed.Path, "/")
	for _, p := range pathPatterns {
		if match := p.re.FindStringSubmatch(path); len(match) == 2 {
			return p.kind, match[1], true
		}
	}
	query := parsed.Query()
	if playlistSharePaths[path] {
		for _, key := range []string{"id", "disstid"} {
			if id := strings.TrimSpace(query.Get(key)); id != "" {
				return model.KindPlaylist, id, true
			}
		}
		return 0, "", false
	}
	if mid := strings.TrimSpace(query.Get("songmid")); mid != "" {
		return model.KindSong, mid, true
	}
	return 0, "", false
}

package netease

import (
	"context"
	"crypto/md5"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/liuran001/hymusic/core/platform"
	"github.com/liuran001/hymusic/core/rawjson"
)

var encryptKey = []byte("3go8&$8*3*3h0k(2)2")

var urlSafe = strings.NewReplacer("/", "_", "+", "-")

// EncryptedID derives the CDN path segment for a dfsId: XOR with the
// repeating key, MD5, base64, then the URL-safe substitutions.
func EncryptedID(dfsID string) string {
	data := []byte(dfsID)
	for i := range data {
		data[i] ^= encryptKey[i%len(encryptKey)]
	}
	sum := md5.Sum(data)
	return urlSafe.Replace(base64.StdEncoding.EncodeToString(sum[:]))
}

// streamURL builds the CDN URL for a dfsId on host m{host}.
func streamURL(host int, dfsID int64) string {
	id := fmt.Sprintf("%d", dfsID)
	return fmt.Sprintf("http://m%d.music.126.net/%s/%s.mp3", host, EncryptedID(id), id)
}

var tierKeys = map[platform.Quality]string{
	platform.QualityHigh:   "hMusic",
	platform.QualityMedium: "mMusic",
	platform.QualityLow:    "lMusic",
}

// GetSongURL walks down from quality to the plain mp3Url and returns the
// first tier the song carries.
func (n *NeteasePlatform) GetSongURL(ctx context.Context, id string, quality platform.Quality) (*platform.StreamURL, error) {
	record, err := n.songRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, tier := range quality.Fallbacks() {
		if tier == platform.QualityDefault {
			if u, ok := rawjson.OptString(record, "mp3Url"); ok && u != "" {
				n.logFallback(id, quality, tier)
				return &platform.StreamURL{URL: u, Quality: tier, Format: "mp3"}, nil
			}
			continue
		}
		music, ok := rawjson.Alt(record, tierKeys[tier])
		if !ok || rawjson.IsNull(music) {
			continue
		}
		dfsID, err := rawjson.RequireInt64(music, "dfsId")
		if err != nil {
			return nil, platform.NewShapeError(providerName, "song url", id, err)
		}
		if dfsID <= 0 {
			continue
		}
		stream := &platform.StreamURL{
			URL:     streamURL(n.pickHost(), dfsID),
			Quality: tier,
			Bitrate: tier.Bitrate(),
			Format:  "mp3",
		}
		if bitrate, ok := rawjson.OptInt64(music, "bitrate"); ok && bitrate > 0 {
			stream.Bitrate = int(bitrate / 1000)
		}
		if ext, ok := rawjson.OptString(music, "extension"); ok && ext != "" {
			stream.Format = ext
		}
		if size, ok := rawjson.OptInt64(music, "size"); ok {
			stream.Size = size
		}
		n.logFallback(id, quality, tier)
		return stream, nil
	}
	return nil, platform.NewUnavailableQualityError(providerName, id, quality)
}

func (n *NeteasePlatform) logFallback(id string, requested, served platform.Quality) {
	if n.logger != nil && requested != served {
		n.logger.Warn("netease quality fallback", "song_id", id, "requested", requested.String(), "served", served.String())
	}
}

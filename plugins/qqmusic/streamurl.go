package qqmusic

import (
	"context"
	"strings"

	"github.com/liuran001/hymusic/core/platform"
	"github.com/liuran001/hymusic/core/rawjson"
	"github.com/valyala/fastjson"
)

// qualityProfile is one downloadable rendition: the filename prefix and
// extension the vkey service expects and the file info key holding its size.
type qualityProfile struct {
	Code    string
	Ext     string
	SizeKey string
	Bitrate int
}

var qualityProfiles = map[platform.Quality]qualityProfile{
	platform.QualityHigh:   {Code: "M800", Ext: "mp3", SizeKey: "size_320mp3", Bitrate: 320},
	platform.QualityMedium: {Code: "M500", Ext: "mp3", SizeKey: "size_128mp3", Bitrate: 128},
	platform.QualityLow:    {Code: "C400", Ext: "m4a", SizeKey: "size_96aac", Bitrate: 96},
}

func (p qualityProfile) size(file *fastjson.Value) int64 {
	size, _ := rawjson.OptInt64(file, p.SizeKey)
	return size
}

// GetSongURL walks down from quality and signs a vkey request for the first
// rendition the song has. QQ has no plain default rendition.
func (q *QQMusicPlatform) GetSongURL(ctx context.Context, mid string, quality platform.Quality) (*platform.StreamURL, error) {
	file, err := q.client.fileInfo(ctx, mid)
	if err != nil {
		return nil, err
	}
	mediaMid, _ := rawjson.OptString(file, "media_mid")
	if mediaMid = strings.TrimSpace(mediaMid); mediaMid == "" {
		mediaMid = mid
	}
	for _, tier := range quality.Fallbacks() {
		profile, ok := qualityProfiles[tier]
		if !ok {
			continue
		}
		size := profile.size(file)
		if size <= 0 {
			continue
		}
		purl, err := q.client.vkey(ctx, mid, mediaMid, profile)
		if err != nil {
			return nil, err
		}
		if purl == "" {
			if q.logger != nil {
				q.logger.Debug("qqmusic vkey refused", "song_mid", mid, "quality", tier.String())
			}
			continue
		}
		if q.logger != nil && tier != quality {
			q.logger.Warn("qqmusic quality fallback", "song_mid", mid, "requested", quality.String(), "served", tier.String())
		}
		return &platform.StreamURL{
			URL:     buildStreamURL(q.client.endpoints.Stream, purl),
			Quality: tier,
			Bitrate: profile.Bitrate,
			Format:  profile.Ext,
			Size:    size,
		}, nil
	}
	return nil, platform.NewUnavailableQualityError(providerName, mid, quality)
}

func buildStreamURL(host, purl string) string {
	if strings.HasPrefix(purl, "http://") || strings.HasPrefix(purl, "https://") {
		return purl
	}
	return strings.TrimSuffix(host, "/") + "/" + strings.TrimPrefix(purl, "/")
}

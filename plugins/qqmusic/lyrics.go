package qqmusic

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/liuran001/hymusic/core/platform"
	"github.com/liuran001/hymusic/core/rawjson"
)

// GetSongLyric returns the original or translated lyric. QQ serves no
// karaoke variant.
func (q *QQMusicPlatform) GetSongLyric(ctx context.Context, mid string, variant platform.LyricVariant) (string, bool, error) {
	key := "lyric"
	switch variant {
	case platform.LyricKaraoke:
		return "", false, nil
	case platform.LyricTranslated:
		key = "trans"
	}
	root, err := q.client.lyric(ctx, mid)
	if err != nil {
		return "", false, err
	}
	if code, ok := rawjson.OptInt64(root, "retcode"); ok && code != 0 {
		return "", false, nil
	}
	raw, ok := rawjson.OptString(root, key)
	if !ok {
		return "", false, nil
	}
	text := decodeBase64Text(raw)
	if text == "" {
		return "", false, nil
	}
	return text, true, nil
}

// decodeBase64Text decodes raw, returning it unchanged when it is not base64.
func decodeBase64Text(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	decoded, err := base64.StdEncoding.DecodeString(trimmed)
	if err != nil {
		return trimmed
	}
	return string(decoded)
}

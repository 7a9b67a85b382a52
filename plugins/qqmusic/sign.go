package qqmusic

import (
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"strings"
)

var (
	signHeadIndexes = []int{23, 14, 6, 36, 16, 40, 7, 19}
	signTailIndexes = []int{16, 1, 32, 12, 19, 27, 8, 5}
	signScramble    = []byte{
		89, 39, 179, 150, 218, 82, 58, 252, 177, 52,
		186, 123, 120, 64, 242, 133, 143, 161, 121, 179,
	}
	signStrip = strings.NewReplacer("/", "", "\\", "", "+", "", "=", "")
)

// tencentSign computes the sign query parameter of a musics.fcg request
// body. The vkey endpoint expects the variant without the head part.
func tencentSign(payload string, dropHead bool) string {
	if payload == "" {
		return ""
	}
	sum := sha1.Sum([]byte(payload))
	hash := strings.ToUpper(hex.EncodeToString(sum[:]))

	var b strings.Builder
	b.WriteString("zzc")
	if !dropHead {
		for _, idx := range signHeadIndexes {
			if idx < len(hash) {
				b.WriteByte(hash[idx])
			}
		}
	}
	mixed := make([]byte, len(signScramble))
	for i := range signScramble {
		mixed[i] = signScramble[i] ^ sum[i]
	}
	b.WriteString(signStrip.Replace(base64.StdEncoding.EncodeToString(mixed)))
	for _, idx := range signTailIndexes {
		b.WriteByte(hash[idx])
	}
	return strings.ToLower(b.String())
}

package platform

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var lrcTimestampRe = regexp.MustCompile(`\[(\d+):(\d+)[.:](\d{1,3})\]`)
var lrcLineRe = regexp.MustCompile(`^\[(\d+):(\d+)[.:](\d+)\](.*)$`)

// LyricLine is one timestamped lyric line.
type LyricLine struct {
	Time time.Duration
	Text string
}

// NormalizeLRCTimestamps rewrites LRC timestamps to [mm:ss.xx].
func NormalizeLRCTimestamps(lyrics string) string {
	return lrcTimestampRe.ReplaceAllStringFunc(lyrics, func(match string) string {
		parts := lrcTimestampRe.FindStringSubmatch(match)
		if len(parts) != 4 {
			return match
		}
		minutes, err := strconv.Atoi(parts[1])
		if err != nil {
			return match
		}
		seconds, err := strconv.Atoi(parts[2])
		if err != nil {
			return match
		}
		return fmt.Sprintf("[%02d:%02d.%02d]", minutes, seconds, centiseconds(parts[3]))
	})
}

// ParseLRC parses LRC text into timestamped lines, skipping metadata tags
// and empty lines.
func ParseLRC(lrc string) []LyricLine {
	lines := strings.Split(lrc, "\n")
	result := make([]LyricLine, 0, len(lines))
	for _, line := range lines {
		matches := lrcLineRe.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if len(matches) != 5 {
			continue
		}
		minutes, err := strconv.Atoi(matches[1])
		if err != nil {
			continue
		}
		seconds, err := strconv.Atoi(matches[2])
		if err != nil {
			continue
		}
		text := strings.TrimSpace(matches[4])
		if text == "" {
			continue
		}
		at := time.Duration(minutes)*time.Minute +
			time.Duration(seconds)*time.Second +
			time.Duration(centiseconds(matches[3]))*10*time.Millisecond
		result = append(result, LyricLine{Time: at, Text: text})
	}
	return result
}

func centiseconds(frac string) int {
	if frac == "" {
		return 0
	}
	if len(frac) == 1 {
		n, _ := strconv.Atoi(frac)
		return n * 10
	}
	n, _ := strconv.Atoi(frac[:2])
	return n
}

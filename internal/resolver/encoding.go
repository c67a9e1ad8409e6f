package resolver

import "strconv"

// mediaFormat is one encoding offered by a mirror, either audio-only
// (adaptive) or combined audio+video. Mirrors report bitrate as a string.
type mediaFormat struct {
	Itag    string `json:"itag"`
	Bitrate string `json:"bitrate"`
	Type    string `json:"type"`
	URL     string `json:"url"`
}

// itagPriority ranks known audio itags best-quality-first: high-bitrate
// opus down through the AAC ladder. Anything not listed falls back to the
// bitrate comparison.
var itagPriority = []string{
	"251", // opus ~160k
	"141", // aac 256k
	"140", // aac 128k
	"171", // vorbis 128k
	"250", // opus ~70k
	"249", // opus ~50k
	"139", // aac 48k
}

func (f mediaFormat) bitrate() int {
	n, err := strconv.Atoi(f.Bitrate)
	if err != nil {
		return 0
	}
	return n
}

// selectEncoding picks the best format: first by the fixed itag priority
// list, then by highest reported bitrate, then by list position.
func selectEncoding(formats []mediaFormat) (mediaFormat, bool) {
	if len(formats) == 0 {
		return mediaFormat{}, false
	}

	for _, itag := range itagPriority {
		for _, f := range formats {
			if f.Itag == itag {
				return f, true
			}
		}
	}

	best := formats[0]
	for _, f := range formats[1:] {
		if f.bitrate() > best.bitrate() {
			best = f
		}
	}
	return best, true
}

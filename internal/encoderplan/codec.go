package encoderplan

import "strings"

// normalizeVideoCodec decides whether the video stream must be transcoded
// rather than copied, per spec.md §4.6's substring-family rules.
func normalizeVideoCodec(probedCodec, configuredEncoder string) (transcode bool) {
	probed := strings.ToLower(probedCodec)
	enc := strings.ToLower(configuredEncoder)
	switch {
	case strings.Contains(probed, "264"):
		return !strings.Contains(enc, "264")
	case strings.Contains(probed, "hevc") || strings.Contains(probed, "265"):
		return !(strings.Contains(enc, "265") || strings.Contains(enc, "hevc"))
	case strings.Contains(probed, "mpeg2"):
		return !strings.Contains(enc, "mpeg2")
	default:
		return true // unknown pairing: transcode
	}
}

// normalizeAudioCodec mirrors normalizeVideoCodec for audio families.
func normalizeAudioCodec(probedCodec, configuredEncoder string) (transcode bool) {
	probed := strings.ToLower(probedCodec)
	enc := strings.ToLower(configuredEncoder)
	switch {
	case strings.Contains(probed, "mp3") || strings.Contains(probed, "lame"):
		return !(strings.Contains(enc, "mp3") || strings.Contains(enc, "lame"))
	case strings.Contains(probed, "aac"):
		return !strings.Contains(enc, "aac")
	case strings.Contains(probed, "ac3"):
		return !strings.Contains(enc, "ac3")
	case strings.Contains(probed, "flac"):
		return !strings.Contains(enc, "flac")
	default:
		return true
	}
}

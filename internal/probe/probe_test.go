package probe

import "testing"

func TestSniff(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want StreamType
	}{
		{"m3u8 header", []byte("#EXTM3U\n#EXT-X-VERSION:3\n"), StreamHLS},
		{"ts sync byte", append([]byte{0x47}, make([]byte, 187)...), StreamTS},
		{"mp4 ftyp", []byte("\x00\x00\x00\x18ftypmp42"), StreamDirectMP4},
		{"unrecognized", []byte("not a media file"), StreamUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sniff(tt.in); got != tt.want {
				t.Errorf("sniff(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestProbe_RejectsNonHTTP(t *testing.T) {
	_, err := Probe("file:///etc/passwd", nil)
	if err == nil {
		t.Fatal("expected error for non-http scheme")
	}
}

package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_defaults(t *testing.T) {
	os.Clearenv()
	c := Load()
	if c.Addr != ":7734" {
		t.Errorf("Addr default: got %q", c.Addr)
	}
	if c.DBPath != "./channelcast.db" {
		t.Errorf("DBPath default: got %q", c.DBPath)
	}
	if c.EncoderPath != "/usr/bin/ffmpeg" {
		t.Errorf("EncoderPath default: got %q", c.EncoderPath)
	}
	if c.MountPoint != "" {
		t.Errorf("MountPoint default: got %q, want empty", c.MountPoint)
	}
	if c.DefaultVideoEncoder != "libx264" {
		t.Errorf("DefaultVideoEncoder default: got %q", c.DefaultVideoEncoder)
	}
	if c.DefaultMaxFPS != 60 {
		t.Errorf("DefaultMaxFPS default: got %d", c.DefaultMaxFPS)
	}
	if c.EncoderKillGrace != 3*time.Second {
		t.Errorf("EncoderKillGrace default: got %v", c.EncoderKillGrace)
	}
	if !c.MetricsEnabled {
		t.Error("MetricsEnabled should default true")
	}
}

func TestLoad_envOverrides(t *testing.T) {
	os.Clearenv()
	os.Setenv("CHANNELCAST_ADDR", ":9000")
	os.Setenv("CHANNELCAST_BASE_URL", "http://10.0.0.5:9000")
	os.Setenv("CHANNELCAST_DB_PATH", "/var/lib/channelcast/core.db")
	os.Setenv("CHANNELCAST_ENCODER_PATH", "/opt/ffmpeg/bin/ffmpeg")
	os.Setenv("CHANNELCAST_MOUNT", "/mnt/vod")
	os.Setenv("CHANNELCAST_DEFAULT_VIDEO_ENCODER", "h264_nvenc")
	os.Setenv("CHANNELCAST_DEFAULT_MAX_FPS", "30")
	os.Setenv("CHANNELCAST_ENCODER_KILL_GRACE", "5s")
	os.Setenv("CHANNELCAST_METRICS_ENABLED", "false")

	c := Load()
	if c.Addr != ":9000" {
		t.Errorf("Addr: got %q", c.Addr)
	}
	if c.BaseURL != "http://10.0.0.5:9000" {
		t.Errorf("BaseURL: got %q", c.BaseURL)
	}
	if c.DBPath != "/var/lib/channelcast/core.db" {
		t.Errorf("DBPath: got %q", c.DBPath)
	}
	if c.EncoderPath != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("EncoderPath: got %q", c.EncoderPath)
	}
	if c.MountPoint != "/mnt/vod" {
		t.Errorf("MountPoint: got %q", c.MountPoint)
	}
	if c.DefaultVideoEncoder != "h264_nvenc" {
		t.Errorf("DefaultVideoEncoder: got %q", c.DefaultVideoEncoder)
	}
	if c.DefaultMaxFPS != 30 {
		t.Errorf("DefaultMaxFPS: got %d", c.DefaultMaxFPS)
	}
	if c.EncoderKillGrace != 5*time.Second {
		t.Errorf("EncoderKillGrace: got %v", c.EncoderKillGrace)
	}
	if c.MetricsEnabled {
		t.Error("MetricsEnabled should be false")
	}
}

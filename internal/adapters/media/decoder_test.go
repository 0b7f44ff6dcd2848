package media

import (
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"mediagraph/internal/domain"
)

const videoReport = `{
  "streams": [
    {"codec_type": "video", "codec_name": "h264", "bit_rate": "1500000", "width": 1920, "height": 1080},
    {"codec_type": "audio", "codec_name": "aac", "bit_rate": "128000"}
  ],
  "format": {
    "duration": "120.500000",
    "bit_rate": "1650000",
    "tags": {"TITLE": "Holiday", "comment": "family trip"}
  }
}`

func fixedProbe(output string, err error) Option {
	return WithProbe(func(ctx context.Context, path string) ([]byte, error) {
		if err != nil {
			return nil, err
		}
		return []byte(output), nil
	})
}

func TestDecoder_ProbeReport(t *testing.T) {
	d := NewDecoder(fixedProbe(videoReport, nil))
	if err := d.Open("/videos/holiday.mp4"); err != nil {
		t.Fatalf("open: %v", err)
	}
	defer d.Close()

	if got := d.MetadataEntry("title", "x"); got != "Holiday" {
		t.Errorf("title = %q, want Holiday", got)
	}
	if got := d.MetadataEntry("copyright", "none"); got != "none" {
		t.Errorf("missing tag = %q, want default", got)
	}
	if d.Duration() != 120500 {
		t.Errorf("duration = %d, want 120500", d.Duration())
	}
	if d.Bitrate() != 1650000 {
		t.Errorf("bitrate = %d", d.Bitrate())
	}

	if !d.LoadCodec(domain.StreamVideo) {
		t.Fatal("video stream not found")
	}
	if d.CodecName() != "h264" || d.CodecBitrate() != 1500000 {
		t.Errorf("video codec = %s @ %d", d.CodecName(), d.CodecBitrate())
	}
	if d.Width() != 1920 || d.Height() != 1080 {
		t.Errorf("size = %dx%d", d.Width(), d.Height())
	}

	if !d.LoadCodec(domain.StreamAudio) {
		t.Fatal("audio stream not found")
	}
	if d.CodecName() != "aac" || d.CodecBitrate() != 128000 {
		t.Errorf("audio codec = %s @ %d", d.CodecName(), d.CodecBitrate())
	}
	// dimensions still come from the picture stream
	if d.Width() != 1920 {
		t.Errorf("width with audio selected = %d", d.Width())
	}
}

func TestDecoder_NoAudioStream(t *testing.T) {
	d := NewDecoder(fixedProbe(`{"streams":[{"codec_type":"video","codec_name":"mpeg4"}],"format":{}}`, nil))
	if err := d.Open("/videos/silent.mp4"); err != nil {
		t.Fatalf("open: %v", err)
	}
	if d.LoadCodec(domain.StreamAudio) {
		t.Error("found an audio stream in a silent file")
	}
	if d.CodecName() != "" || d.CodecBitrate() != 0 {
		t.Error("codec details reported without a selected stream")
	}
}

func TestDecoder_ImageWithoutProber(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dot.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 64, 48))); err != nil {
		t.Fatal(err)
	}
	f.Close()

	d := NewDecoder(fixedProbe("", errors.New("ffprobe not installed")))
	if err := d.Open(path); err != nil {
		t.Fatalf("open: %v", err)
	}
	if !d.LoadCodec(domain.StreamVideo) {
		t.Fatal("image stream not synthesized")
	}
	if d.CodecName() != "png" {
		t.Errorf("codec = %q, want png", d.CodecName())
	}
	if d.Width() != 64 || d.Height() != 48 {
		t.Errorf("size = %dx%d, want 64x48", d.Width(), d.Height())
	}
}

func TestDecoder_UnreadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.mp3")
	if err := os.WriteFile(path, []byte("not audio at all"), 0o644); err != nil {
		t.Fatal(err)
	}

	d := NewDecoder(fixedProbe("", errors.New("exit status 1")))
	if err := d.Open(path); err == nil {
		t.Fatal("expected an error for an undecodable file")
	}
	if got := d.MetadataEntry("title", "fallback"); got != "fallback" {
		t.Errorf("closed decoder returned %q", got)
	}
}

func TestDecoder_BadProbeJSON(t *testing.T) {
	d := NewDecoder(fixedProbe("{not json", nil))
	if err := d.Open("/missing/file.mp4"); err == nil {
		t.Fatal("expected an error when no source could read the file")
	}
}

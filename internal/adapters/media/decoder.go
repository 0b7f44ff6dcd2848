package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/dhowden/tag"

	"mediagraph/internal/domain"
	"mediagraph/internal/log"
)

// ProbeFunc runs a prober against path and returns its JSON report
type ProbeFunc func(ctx context.Context, path string) ([]byte, error)

// Decoder implements ports.MediaDecoder. Technical details come from
// ffprobe when it is installed, tags from the file's own tag block, and
// image dimensions from the image header.
type Decoder struct {
	ffprobe string
	probe   ProbeFunc
	timeout time.Duration
	log     *log.Logger

	cur    *report
	stream *probeStream
}

// Option configures the Decoder
type Option func(*Decoder)

// WithFFProbe sets the ffprobe binary
func WithFFProbe(path string) Option {
	return func(d *Decoder) {
		d.ffprobe = path
	}
}

// WithProbe replaces the ffprobe invocation
func WithProbe(fn ProbeFunc) Option {
	return func(d *Decoder) {
		d.probe = fn
	}
}

// WithLogger sets the logger
func WithLogger(l *log.Logger) Option {
	return func(d *Decoder) {
		d.log = l
	}
}

// NewDecoder creates a new Decoder
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{
		ffprobe: "ffprobe",
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.probe == nil {
		d.probe = d.runFFProbe
	}
	return d
}

// probeOutput is the subset of `ffprobe -print_format json` we read
type probeOutput struct {
	Format struct {
		Duration string            `json:"duration"`
		BitRate  string            `json:"bit_rate"`
		Tags     map[string]string `json:"tags"`
	} `json:"format"`
	Streams []probeStream `json:"streams"`
}

type probeStream struct {
	CodecType string            `json:"codec_type"`
	CodecName string            `json:"codec_name"`
	BitRate   string            `json:"bit_rate"`
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Tags      map[string]string `json:"tags"`
}

// report is the merged view of one opened file
type report struct {
	tags     map[string]string
	bitrate  int
	duration int64
	streams  []probeStream
}

// Open inspects path. It fails when no source could read anything from it.
func (d *Decoder) Open(path string) error {
	d.Close()

	r := &report{tags: make(map[string]string)}
	probed := d.probeFile(path, r)
	tagged := d.readTags(path, r)
	imaged := d.readImage(path, r)

	if !probed && !tagged && !imaged {
		return fmt.Errorf("cannot decode %s", path)
	}
	d.cur = r
	return nil
}

// Close releases the opened file
func (d *Decoder) Close() error {
	d.cur = nil
	d.stream = nil
	return nil
}

func (d *Decoder) runFFProbe(ctx context.Context, path string) ([]byte, error) {
	if _, err := exec.LookPath(d.ffprobe); err != nil {
		return nil, err
	}
	cmd := exec.CommandContext(ctx, d.ffprobe,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("ffprobe error: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("ffprobe error: %w", err)
	}
	return output, nil
}

func (d *Decoder) probeFile(path string, r *report) bool {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	output, err := d.probe(ctx, path)
	if err != nil {
		d.log.Debug("probe %s: %v", path, err)
		return false
	}

	var out probeOutput
	if err := json.Unmarshal(output, &out); err != nil {
		d.log.Warn("failed to parse probe output for %s: %v", path, err)
		return false
	}

	for k, v := range out.Format.Tags {
		r.tags[strings.ToLower(k)] = v
	}
	r.bitrate = atoi(out.Format.BitRate)
	if secs, err := strconv.ParseFloat(out.Format.Duration, 64); err == nil {
		r.duration = int64(secs * 1000)
	}
	r.streams = out.Streams
	return true
}

func (d *Decoder) readTags(path string, r *report) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return false
	}

	fill := func(key, value string) {
		if value != "" && r.tags[key] == "" {
			r.tags[key] = value
		}
	}
	fill("title", m.Title())
	fill("album", m.Album())
	fill("artist", m.Artist())
	fill("albumartist", m.AlbumArtist())
	fill("genre", m.Genre())
	fill("comment", m.Comment())
	if n, total := m.Track(); n > 0 {
		if total > 0 {
			fill("track", fmt.Sprintf("%d/%d", n, total))
		} else {
			fill("track", strconv.Itoa(n))
		}
	}
	return true
}

func (d *Decoder) readImage(path string, r *report) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return false
	}
	for _, s := range r.streams {
		if s.CodecType == "video" {
			return true
		}
	}
	r.streams = append(r.streams, probeStream{
		CodecType: "video",
		CodecName: format,
		Width:     cfg.Width,
		Height:    cfg.Height,
	})
	return true
}

// MetadataEntry returns the tag named key, or def
func (d *Decoder) MetadataEntry(key, def string) string {
	if d.cur == nil {
		return def
	}
	if v := strings.TrimSpace(d.cur.tags[strings.ToLower(key)]); v != "" {
		return v
	}
	return def
}

// Bitrate returns the container bitrate in bits per second
func (d *Decoder) Bitrate() int {
	if d.cur == nil {
		return 0
	}
	return d.cur.bitrate
}

// Duration returns the playing time in milliseconds
func (d *Decoder) Duration() int64 {
	if d.cur == nil {
		return 0
	}
	return d.cur.duration
}

// Width of the selected stream, or of the first video stream
func (d *Decoder) Width() int {
	if s := d.picture(); s != nil {
		return s.Width
	}
	return 0
}

// Height of the selected stream, or of the first video stream
func (d *Decoder) Height() int {
	if s := d.picture(); s != nil {
		return s.Height
	}
	return 0
}

func (d *Decoder) picture() *probeStream {
	if d.stream != nil && d.stream.CodecType == "video" {
		return d.stream
	}
	return d.find("video")
}

func (d *Decoder) find(codecType string) *probeStream {
	if d.cur == nil {
		return nil
	}
	for i := range d.cur.streams {
		if d.cur.streams[i].CodecType == codecType {
			return &d.cur.streams[i]
		}
	}
	return nil
}

// LoadCodec selects the first stream of kind
func (d *Decoder) LoadCodec(kind domain.StreamKind) bool {
	d.stream = d.find(kind.String())
	return d.stream != nil
}

// CodecName of the selected stream
func (d *Decoder) CodecName() string {
	if d.stream == nil {
		return ""
	}
	return d.stream.CodecName
}

// CodecBitrate of the selected stream in bits per second
func (d *Decoder) CodecBitrate() int {
	if d.stream == nil {
		return 0
	}
	return atoi(d.stream.BitRate)
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

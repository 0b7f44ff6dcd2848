package domain

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Category is one of the content categories with its own metadata table
type Category int

const (
	CategoryUnknown Category = iota
	CategoryMusic
	CategoryPhoto
	CategoryVideo
	CategorySaveData
)

func (c Category) String() string {
	switch c {
	case CategoryMusic:
		return "music"
	case CategoryPhoto:
		return "photo"
	case CategoryVideo:
		return "video"
	case CategorySaveData:
		return "savedata"
	default:
		return "unknown"
	}
}

// ParseCategory converts a category name into a Category
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "music", "audio":
		return CategoryMusic, nil
	case "photo", "photos", "image":
		return CategoryPhoto, nil
	case "video", "videos":
		return CategoryVideo, nil
	case "savedata", "save", "saves":
		return CategorySaveData, nil
	default:
		return CategoryUnknown, fmt.Errorf("unknown category: %q", s)
	}
}

// Root returns the well-known root the category's files hang under
func (c Category) Root() int64 {
	switch c {
	case CategoryMusic:
		return RootMusic
	case CategoryPhoto:
		return RootPhotos
	case CategoryVideo:
		return RootVideos
	case CategorySaveData:
		return RootSaveData
	default:
		return 0
	}
}

// TypeBit returns the object type bit of the category
func (c Category) TypeBit() ObjectType {
	switch c {
	case CategoryMusic:
		return TypeMusic
	case CategoryPhoto:
		return TypePhoto
	case CategoryVideo:
		return TypeVideo
	case CategorySaveData:
		return TypeSaveData
	default:
		return 0
	}
}

// Container formats
const (
	FormatMP4 = 1
	FormatWAV = 2
	FormatMP3 = 3
	FormatJPG = 4
	FormatPNG = 5
	FormatGIF = 6
	FormatBMP = 7
	FormatTIF = 8
)

// Codecs
const (
	CodecMPEG4 = 2
	CodecAVC   = 3
	CodecMP3   = 12
	CodecAAC   = 13
	CodecPCM   = 15
	CodecJPG   = 17
	CodecPNG   = 18
	CodecTIF   = 19
	CodecBMP   = 20
	CodecGIF   = 21
)

// FormatInfo pairs a container format with its default codec
type FormatInfo struct {
	Format int
	Codec  int
}

var audioFormats = map[string]FormatInfo{
	"mp3": {FormatMP3, CodecMP3},
	"mp4": {FormatMP4, CodecAAC},
	"wav": {FormatWAV, CodecPCM},
}

var photoFormats = map[string]FormatInfo{
	"jpg":  {FormatJPG, CodecJPG},
	"jpeg": {FormatJPG, CodecJPG},
	"png":  {FormatPNG, CodecPNG},
	"tif":  {FormatTIF, CodecTIF},
	"tiff": {FormatTIF, CodecTIF},
	"bmp":  {FormatBMP, CodecBMP},
	"gif":  {FormatGIF, CodecGIF},
}

var videoFormats = map[string]FormatInfo{
	"mp4": {FormatMP4, CodecAVC},
}

// codecNames maps decoder codec names onto codec ids
var codecNames = map[string]int{
	"mpeg4":     CodecMPEG4,
	"h264":      CodecAVC,
	"avc":       CodecAVC,
	"mp3":       CodecMP3,
	"aac":       CodecAAC,
	"pcm_s16le": CodecPCM,
	"pcm_s24le": CodecPCM,
	"pcm_u8":    CodecPCM,
	"mjpeg":     CodecJPG,
	"jpeg":      CodecJPG,
	"png":       CodecPNG,
	"tiff":      CodecTIF,
	"bmp":       CodecBMP,
	"gif":       CodecGIF,
}

// Ext returns the lower-case extension of path without the dot
func Ext(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// LookupFormat returns the format of path for a category
func LookupFormat(c Category, path string) (FormatInfo, bool) {
	ext := Ext(path)
	var info FormatInfo
	var ok bool
	switch c {
	case CategoryMusic:
		info, ok = audioFormats[ext]
	case CategoryPhoto:
		info, ok = photoFormats[ext]
	case CategoryVideo:
		info, ok = videoFormats[ext]
	}
	return info, ok
}

// CodecByName maps a decoder codec name to a codec id, or def when unknown
func CodecByName(name string, def int) int {
	if id, ok := codecNames[strings.ToLower(name)]; ok {
		return id
	}
	return def
}

// ClassifyPath picks the category of a regular file by its extension.
// mp4 is treated as video.
func ClassifyPath(path string) (Category, bool) {
	ext := Ext(path)
	if _, ok := videoFormats[ext]; ok {
		return CategoryVideo, true
	}
	if _, ok := audioFormats[ext]; ok {
		return CategoryMusic, true
	}
	if _, ok := photoFormats[ext]; ok {
		return CategoryPhoto, true
	}
	return CategoryUnknown, false
}

// BaseTitle returns the file name up to its first dot
func BaseTitle(path string) string {
	name := filepath.Base(path)
	if i := strings.IndexByte(name, '.'); i > 0 {
		return name[:i]
	}
	return name
}

// ParseTrackNumber reads a track tag such as "7" or "7/12".
// Anything unparsable yields 1.
func ParseTrackNumber(s string) int {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 1
	}
	return n
}

// StreamKind selects the stream a decoder reports codec details for
type StreamKind int

const (
	StreamAudio StreamKind = iota
	StreamVideo
)

func (k StreamKind) String() string {
	if k == StreamVideo {
		return "video"
	}
	return "audio"
}

// Record is a category-specific metadata row
type Record interface {
	Category() Category
	SetObjectID(id int64)
}

// MusicRecord is the metadata row of a song. Grouping ids are 0 when absent.
type MusicRecord struct {
	ObjectID     int64
	FileFormat   int
	AudioCodec   int
	AudioBitrate int
	Duration     int64 // milliseconds
	GenreID      int64
	ArtistID     int64
	AlbumID      int64
	TrackID      int64
	Artist       string
	Album        string
	TrackNumber  int
}

func (r *MusicRecord) Category() Category { return CategoryMusic }

func (r *MusicRecord) SetObjectID(id int64) { r.ObjectID = id }

// PhotoRecord is the metadata row of an image
type PhotoRecord struct {
	ObjectID    int64
	DateCreated time.Time
	FileFormat  int
	PhotoCodec  int
	Width       int
	Height      int
}

func (r *PhotoRecord) Category() Category { return CategoryPhoto }

func (r *PhotoRecord) SetObjectID(id int64) { r.ObjectID = id }

// VideoRecord is the metadata row of a video. Audio fields are 0 when the
// file carries no audio stream.
type VideoRecord struct {
	ObjectID      int64
	FileFormat    int
	ParentalLevel int
	Explanation   string
	Copyright     string
	Width         int
	Height        int
	VideoCodec    int
	VideoBitrate  int
	AudioCodec    int
	AudioBitrate  int
	Duration      int64 // milliseconds
}

func (r *VideoRecord) Category() Category { return CategoryVideo }

func (r *VideoRecord) SetObjectID(id int64) { r.ObjectID = id }

// SaveDataRecord is the metadata row of a save-data directory
type SaveDataRecord struct {
	ObjectID    int64
	Detail      string
	DirName     string
	Title       string
	DateUpdated time.Time
}

func (r *SaveDataRecord) Category() Category { return CategorySaveData }

func (r *SaveDataRecord) SetObjectID(id int64) { r.ObjectID = id }

// Grouping describes a virtual folder a song is filed under
type Grouping struct {
	Title string
	Type  ObjectType
}

// GroupType returns the full object type of a music grouping node
func GroupType(kind ObjectType) ObjectType {
	return TypeFolder | TypeMusic | kind
}

// SaveDescriptorName is the descriptor file that marks a save-data directory
const SaveDescriptorName = "PARAM.SFO"

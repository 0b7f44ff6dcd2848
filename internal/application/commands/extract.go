package commands

import (
	"errors"
	"fmt"
	"path/filepath"

	"mediagraph/internal/domain"
	"mediagraph/internal/ports"
)

// Extractors bundles the collaborators that read metadata from disk
type Extractors struct {
	Decoder     ports.MediaDecoder
	Descriptors ports.SaveDescriptorReader
	Files       ports.FileAttributes
}

// grouping is a virtual folder a song will be filed under
type grouping struct {
	domain.Grouping
	assign func(rec *domain.MusicRecord, id int64)
}

// extraction is everything read from disk before the transaction starts
type extraction struct {
	title  string
	typ    domain.ObjectType
	attrs  *domain.FileAttrs
	record domain.Record
	groups []grouping
}

func (e Extractors) extract(c domain.Category, path string) (*extraction, error) {
	if e.Files == nil {
		return nil, errors.New("no file attribute reader configured")
	}
	attrs, err := e.Files.Stat(path)
	if err != nil {
		return nil, err
	}

	var ex *extraction
	switch c {
	case domain.CategoryMusic:
		ex, err = e.music(path)
	case domain.CategoryVideo:
		ex, err = e.video(path)
	case domain.CategoryPhoto:
		ex, err = e.photo(path, attrs)
	case domain.CategorySaveData:
		ex, err = e.saveData(path, attrs)
	default:
		return nil, fmt.Errorf("unsupported category %s", c)
	}
	if err != nil {
		return nil, err
	}

	ex.attrs = attrs
	ex.typ |= domain.TypeFile | c.TypeBit()
	return ex, nil
}

func (e Extractors) openDecoder(path string) error {
	if e.Decoder == nil {
		return errors.New("no media decoder configured")
	}
	return e.Decoder.Open(path)
}

func (e Extractors) music(path string) (*extraction, error) {
	format, ok := domain.LookupFormat(domain.CategoryMusic, path)
	if !ok {
		return nil, fmt.Errorf("unsupported audio format: %s", domain.Ext(path))
	}
	if err := e.openDecoder(path); err != nil {
		return nil, err
	}
	defer e.Decoder.Close()

	d := e.Decoder
	rec := &domain.MusicRecord{
		FileFormat:   format.Format,
		AudioCodec:   format.Codec,
		AudioBitrate: d.Bitrate(),
		Duration:     d.Duration(),
		Artist:       d.MetadataEntry("artist", ""),
		Album:        d.MetadataEntry("album", ""),
		TrackNumber:  domain.ParseTrackNumber(d.MetadataEntry("track", "")),
	}
	if d.LoadCodec(domain.StreamAudio) {
		rec.AudioCodec = domain.CodecByName(d.CodecName(), format.Codec)
	}

	ex := &extraction{
		title:  d.MetadataEntry("title", domain.BaseTitle(path)),
		record: rec,
	}

	candidates := []grouping{
		{domain.Grouping{Title: rec.Album, Type: domain.TypeAlbum},
			func(r *domain.MusicRecord, id int64) { r.AlbumID = id }},
		{domain.Grouping{Title: d.MetadataEntry("genre", ""), Type: domain.TypeGenre},
			func(r *domain.MusicRecord, id int64) { r.GenreID = id }},
		{domain.Grouping{Title: rec.Artist, Type: domain.TypeArtist},
			func(r *domain.MusicRecord, id int64) { r.ArtistID = id }},
		{domain.Grouping{Title: d.MetadataEntry("albumartist", ""), Type: domain.TypeAlbumArtist},
			func(r *domain.MusicRecord, id int64) { r.TrackID = id }},
	}
	for _, g := range candidates {
		if g.Title != "" {
			g.Type = domain.GroupType(g.Type)
			ex.groups = append(ex.groups, g)
		}
	}
	return ex, nil
}

func (e Extractors) video(path string) (*extraction, error) {
	format, ok := domain.LookupFormat(domain.CategoryVideo, path)
	if !ok {
		return nil, fmt.Errorf("unsupported video format: %s", domain.Ext(path))
	}
	if err := e.openDecoder(path); err != nil {
		return nil, err
	}
	defer e.Decoder.Close()

	d := e.Decoder
	rec := &domain.VideoRecord{
		FileFormat:  format.Format,
		Explanation: d.MetadataEntry("comment", ""),
		Copyright:   d.MetadataEntry("copyright", ""),
		Duration:    d.Duration(),
	}

	if !d.LoadCodec(domain.StreamVideo) {
		return nil, fmt.Errorf("no video stream in %s", path)
	}
	rec.Width = d.Width()
	rec.Height = d.Height()
	rec.VideoCodec = domain.CodecByName(d.CodecName(), format.Codec)
	rec.VideoBitrate = d.CodecBitrate()

	if d.LoadCodec(domain.StreamAudio) {
		rec.AudioCodec = domain.CodecByName(d.CodecName(), domain.CodecAAC)
		rec.AudioBitrate = d.CodecBitrate()
	}

	return &extraction{
		title:  d.MetadataEntry("title", domain.BaseTitle(path)),
		record: rec,
	}, nil
}

func (e Extractors) photo(path string, attrs *domain.FileAttrs) (*extraction, error) {
	format, ok := domain.LookupFormat(domain.CategoryPhoto, path)
	if !ok {
		return nil, fmt.Errorf("unsupported image format: %s", domain.Ext(path))
	}
	if err := e.openDecoder(path); err != nil {
		return nil, err
	}
	defer e.Decoder.Close()

	d := e.Decoder
	rec := &domain.PhotoRecord{
		DateCreated: attrs.Created,
		FileFormat:  format.Format,
		PhotoCodec:  format.Codec,
	}
	if d.LoadCodec(domain.StreamVideo) {
		rec.PhotoCodec = domain.CodecByName(d.CodecName(), format.Codec)
	}
	rec.Width = d.Width()
	rec.Height = d.Height()

	return &extraction{
		title:  d.MetadataEntry("title", domain.BaseTitle(path)),
		record: rec,
	}, nil
}

func (e Extractors) saveData(path string, attrs *domain.FileAttrs) (*extraction, error) {
	if !attrs.IsDir {
		return nil, fmt.Errorf("save data must be a directory: %s", path)
	}
	if e.Descriptors == nil {
		return nil, errors.New("no save descriptor reader configured")
	}

	descriptor := filepath.Join(path, domain.SaveDescriptorName)
	if err := e.Descriptors.Load(descriptor); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", descriptor, err)
	}
	descAttrs, err := e.Files.Stat(descriptor)
	if err != nil {
		return nil, err
	}

	base := domain.BaseTitle(path)
	d := e.Descriptors
	rec := &domain.SaveDataRecord{
		Detail:      d.Value("SAVEDATA_DETAIL", base),
		DirName:     d.Value("SAVEDATA_DIRECTORY", base),
		Title:       d.Value("SAVEDATA_TITLE", base),
		DateUpdated: descAttrs.Modified,
	}

	return &extraction{
		title:  d.Value("TITLE", base),
		typ:    domain.TypeFolder,
		record: rec,
	}, nil
}

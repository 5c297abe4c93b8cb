package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"breakstretch/internal/services"
)

// Format identifies a supported container.
type Format string

const (
	FormatWAV  Format = "wav"
	FormatFLAC Format = "flac"
)

var formatsByExt = map[string]Format{
	".wav":  FormatWAV,
	".flac": FormatFLAC,
}

// SupportedExtensions lists accepted file extensions in display order.
func SupportedExtensions() []string {
	return []string{".wav", ".flac"}
}

// FormatFor maps path's extension to a Format, ignoring case.
func FormatFor(path string) (Format, bool) {
	f, ok := formatsByExt[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// IsSupported reports whether path has a supported extension.
func IsSupported(path string) bool {
	_, ok := FormatFor(path)
	return ok
}

// Info describes the stream properties of an audio file.
type Info struct {
	Format     Format
	SampleRate int
	Channels   int
	BitDepth   int
	Frames     int64
	Duration   time.Duration
}

// Asset is an immutable reference to one input file.
type Asset struct {
	Path string
	// Base is the file name without directory or extension.
	Base string
	// Ext keeps the original spelling, including the dot.
	Ext    string
	Format Format
	// Info is populated by Probe; zero until then.
	Info Info
}

// NewAsset validates path's extension and derives naming fields.
func NewAsset(path string) (Asset, error) {
	format, ok := FormatFor(path)
	if !ok {
		return Asset{}, services.Wrap(services.ErrConfiguration, "", "",
			fmt.Sprintf("unsupported file type %q (supported: %s)", filepath.Ext(path), strings.Join(SupportedExtensions(), ", ")), nil)
	}
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	return Asset{
		Path:   path,
		Base:   strings.TrimSuffix(name, ext),
		Ext:    ext,
		Format: format,
	}, nil
}

// Name returns the file name including extension.
func (a Asset) Name() string {
	return a.Base + a.Ext
}

// Probed returns a copy of a with stream information read from disk.
func (a Asset) Probed() (Asset, error) {
	info, err := Probe(a.Path)
	if err != nil {
		return a, err
	}
	a.Info = info
	return a, nil
}

// ListDir returns the supported audio files directly inside dir, sorted by
// name. Subdirectories are not searched.
func ListDir(dir string) ([]Asset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}
	var assets []Asset
	for _, entry := range entries {
		if !entry.Type().IsRegular() && entry.Type()&os.ModeSymlink == 0 {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if !IsSupported(path) {
			continue
		}
		if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
			continue
		}
		asset, err := NewAsset(path)
		if err != nil {
			continue
		}
		assets = append(assets, asset)
	}
	slices.SortFunc(assets, func(a, b Asset) int { return strings.Compare(a.Name(), b.Name()) })
	return assets, nil
}

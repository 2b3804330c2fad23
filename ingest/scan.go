package ingest

import (
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"

	"github.com/tailored-agentic-units/transcript/core/protocol"
)

// ScanDir walks root and returns one entry per regular file beneath it,
// hidden files included, named by its slash-separated path relative to
// root. Directories contribute no entries of their own. Files get a media
// type from their extension when one is registered and none otherwise.
func ScanDir(root string) ([]protocol.RawEntry, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScanFailed, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	var entries []protocol.RawEntry

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		entries = append(entries, protocol.RawEntry{
			Name:      filepath.ToSlash(rel),
			MediaType: mediaType(d.Name()),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScanFailed, err)
	}

	return entries, nil
}

func mediaType(name string) string {
	ext := filepath.Ext(name)
	if ext == "" {
		return ""
	}
	mt := mime.TypeByExtension(ext)
	if mt == "" {
		return ""
	}
	if base, _, err := mime.ParseMediaType(mt); err == nil {
		return base
	}
	return mt
}

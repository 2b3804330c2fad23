package ingest

import "errors"

// Sentinel errors for directory scanning.
var (
	ErrScanFailed   = errors.New("scan failed")
	ErrNotDirectory = errors.New("not a directory")
)

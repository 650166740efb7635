package domain

import (
	"errors"
	"io/fs"
	"os"
)

// DatasetResource identifies a dataset file by logical name and the location
// it is fetched from when absent.
type DatasetResource struct {
	Name     string // logical name, also the local file name
	Location string // fetch URL (http, https, s3, gs, azblob)
	Path     string // local storage path; defaults to Name
}

// LocalPath returns the path the dataset lives at locally.
func (d DatasetResource) LocalPath() string {
	if d.Path != "" {
		return d.Path
	}
	return d.Name
}

// Exists reports whether the dataset file is present locally. Contents are
// not validated. A stat failure other than "not found" is returned as is.
func (d DatasetResource) Exists() (bool, error) {
	_, err := os.Stat(d.LocalPath())
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

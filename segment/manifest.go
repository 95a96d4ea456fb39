package segment

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const manifestFileName = "manifest.json"

// manifest records tree names in creation order. The position of a name is
// the tree's stable id, which the write-ahead log addresses operations by.
type manifest struct {
	Version int      `json:"version"`
	Trees   []string `json:"trees"`
}

func loadManifest(dir string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestFileName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("segment: read manifest: %w", err)
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("segment: decode manifest: %w", err)
	}
	if m.Version != 1 {
		return nil, fmt.Errorf("segment: unsupported manifest version %d", m.Version)
	}
	return m.Trees, nil
}

func saveManifest(dir string, trees []string) error {
	data, err := json.Marshal(manifest{Version: 1, Trees: trees})
	if err != nil {
		return fmt.Errorf("segment: encode manifest: %w", err)
	}
	return atomicWriteFile(filepath.Join(dir, manifestFileName), data)
}

// atomicWriteFile writes data to a temp file in the target directory,
// syncs it and renames it into place.
func atomicWriteFile(path string, data []byte) error {
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

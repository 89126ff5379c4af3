package sqsutil

import (
	"os"
	"path/filepath"
)

// WriteBytes writes bz to fileName in directory, creating the directory if needed.
// The file is replaced atomically so readers never observe a partial write.
func WriteBytes(directory, fileName string, bz []byte) error {
	if err := os.MkdirAll(directory, os.ModePerm); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(directory, "."+fileName+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	// no-op once renamed
	defer os.Remove(tmpPath)

	if _, err := tmpFile.Write(bz); err != nil {
		tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, filepath.Join(directory, fileName))
}

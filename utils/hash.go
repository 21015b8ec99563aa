package utils

import (
	"crypto/md5"
	"fmt"
	"io"
	"os"
)

// ContentHash computes the MD5 hash over the concatenated bytes of the given
// readers, in order. Versions use it to detect byte-identical re-uploads of
// an extract triple.
func ContentHash(readers ...io.Reader) (string, error) {
	hash := md5.New()
	for _, r := range readers {
		if _, err := io.Copy(hash, r); err != nil {
			return "", fmt.Errorf("failed to hash content: %w", err)
		}
	}
	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}

// ContentHashFiles computes the MD5 hash over the concatenated bytes of the
// given files, in order.
func ContentHashFiles(paths ...string) (string, error) {
	hash := md5.New()
	for _, path := range paths {
		file, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("failed to open file %s: %w", path, err)
		}
		if _, err := io.Copy(hash, file); err != nil {
			file.Close()
			return "", fmt.Errorf("failed to hash file %s: %w", path, err)
		}
		file.Close()
	}
	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}

//go:build !unix

package diagnostics

import "os"

func accessible(path string, _ bool) error {
	_, err := os.Stat(path)
	return err
}

//go:build !tinygo && !cgo

package hal

import "errors"

// RunWindow requires the CGO window backend; use the headless runner.
func RunWindow(title string, newApp func(HAL) func() error) error {
	return errors.New("window backend unavailable without cgo")
}

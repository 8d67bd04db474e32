// Package clipboard copies export artifacts to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
)

// ErrUnavailable reports that no clipboard utility was found on this system.
var ErrUnavailable = errors.New("system clipboard unavailable")

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

func (service *Service) Copy(text string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	return clipboard.WriteAll(text)
}

// CopyFile copies the contents of the artifact at path through copier.
// #nosec G304
func CopyFile(copier Copier, path string) error {
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		return fmt.Errorf("read %s for clipboard: %w", path, readErr)
	}
	if copyErr := copier.Copy(string(data)); copyErr != nil {
		return fmt.Errorf("copy %s to clipboard: %w", path, copyErr)
	}
	return nil
}

var _ Copier = (*Service)(nil)

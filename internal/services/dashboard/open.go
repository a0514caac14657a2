package dashboard

import (
	"fmt"

	"github.com/pkg/browser"
)

// Open shows the dashboard in the default browser
func Open(path string) error {
	if err := browser.OpenFile(path); err != nil {
		return fmt.Errorf("could not open browser automatically: %w", err)
	}
	return nil
}

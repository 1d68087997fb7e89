package fetch

import (
	"context"
	"net/url"
	"os"
)

// FileSource reads the bulletin from a local file. Used for standalone and
// diagnostic runs against a saved copy of the feed.
type FileSource struct {
	path string
}

func newFileSource(u *url.URL) *FileSource {
	path := u.Path
	if u.Scheme == "" {
		// A bare path parses with everything in Opaque or Path; prefer
		// whichever is set.
		if u.Opaque != "" {
			path = u.Opaque
		} else if path == "" {
			path = u.String()
		}
	}
	return &FileSource{path: path}
}

func (s *FileSource) Locator() string { return s.path }

func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	return decodeText(b), nil
}

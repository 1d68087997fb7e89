package fetch

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"
)

// FTPSource retrieves the bulletin from an FTP server using anonymous
// login, which is how the hydrology bulletins are published.
type FTPSource struct {
	locator string
	addr    string
	path    string
	timeout time.Duration
}

func newFTPSource(u *url.URL, opt Options) (*FTPSource, error) {
	if u.Host == "" {
		return nil, fmt.Errorf("ftp locator missing host: %q", u.String())
	}
	addr := u.Host
	if u.Port() == "" {
		addr = addr + ":21"
	}
	path := strings.TrimPrefix(u.Path, "/")
	if path == "" {
		return nil, fmt.Errorf("ftp locator missing file path: %q", u.String())
	}
	return &FTPSource{
		locator: u.String(),
		addr:    addr,
		path:    path,
		timeout: opt.Timeout,
	}, nil
}

func (s *FTPSource) Locator() string { return s.locator }

// Fetch dials, logs in anonymously, retrieves the file, and closes the
// connection. Each fetch uses a fresh connection; the poll interval is long
// enough that keeping one open would only invite server-side idle drops.
func (s *FTPSource) Fetch(ctx context.Context) ([]byte, error) {
	opts := []ftp.DialOption{ftp.DialWithContext(ctx)}
	if s.timeout > 0 {
		opts = append(opts, ftp.DialWithTimeout(s.timeout))
	}
	conn, err := ftp.Dial(s.addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("ftp dial %s: %w", s.addr, err)
	}
	defer conn.Quit()

	if err := conn.Login("anonymous", "anonymous"); err != nil {
		return nil, fmt.Errorf("ftp login: %w", err)
	}
	resp, err := conn.Retr(s.path)
	if err != nil {
		return nil, fmt.Errorf("ftp retr %s: %w", s.path, err)
	}
	defer resp.Close()

	b, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("ftp read: %w", err)
	}
	return decodeText(b), nil
}

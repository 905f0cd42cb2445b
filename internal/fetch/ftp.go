// Package fetch mirrors log trees uploaded by field devices to an FTP drop
// into the local base directory the pipeline reads.
package fetch

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Options configure the FTP mirror.
type Options struct {
	Addr       string // host:port
	User       string
	Password   string
	RemoteRoot string
	Timeout    time.Duration
}

// Mirror copies the remote per-country log tree to a local directory.
type Mirror struct {
	opts Options
}

// NewMirror creates a Mirror with the given options.
func NewMirror(opts Options) *Mirror {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.User == "" {
		opts.User = "anonymous"
		opts.Password = "anonymous"
	}
	if opts.RemoteRoot == "" {
		opts.RemoteRoot = "/"
	}
	return &Mirror{opts: opts}
}

// Run mirrors <remote_root>/<country>/<subdir>/<file> into localBase,
// skipping files already present locally with the same size. It returns the
// number of files downloaded.
func (m *Mirror) Run(ctx context.Context, localBase string) (int, error) {
	log := zap.L().With(zap.String("component", "fetch"), zap.String("addr", m.opts.Addr))

	conn, err := ftp.Dial(m.opts.Addr, ftp.DialWithTimeout(m.opts.Timeout), ftp.DialWithContext(ctx))
	if err != nil {
		return 0, eris.Wrap(err, "fetch: dial ftp")
	}
	defer func() { _ = conn.Quit() }()

	if err := conn.Login(m.opts.User, m.opts.Password); err != nil {
		return 0, eris.Wrap(err, "fetch: ftp login")
	}

	countries, err := conn.List(m.opts.RemoteRoot)
	if err != nil {
		return 0, eris.Wrapf(err, "fetch: list %s", m.opts.RemoteRoot)
	}

	downloaded := 0
	for _, countryEntry := range countries {
		if countryEntry.Type != ftp.EntryTypeFolder {
			continue
		}
		countryPath := path.Join(m.opts.RemoteRoot, countryEntry.Name)

		subdirs, err := conn.List(countryPath)
		if err != nil {
			return downloaded, eris.Wrapf(err, "fetch: list %s", countryPath)
		}

		for _, subEntry := range subdirs {
			if subEntry.Type != ftp.EntryTypeFolder {
				continue
			}
			subPath := path.Join(countryPath, subEntry.Name)
			localDir := filepath.Join(localBase, countryEntry.Name, subEntry.Name)
			if err := os.MkdirAll(localDir, 0o755); err != nil {
				return downloaded, eris.Wrapf(err, "fetch: create %s", localDir)
			}

			files, err := conn.List(subPath)
			if err != nil {
				return downloaded, eris.Wrapf(err, "fetch: list %s", subPath)
			}

			for _, fileEntry := range files {
				if fileEntry.Type != ftp.EntryTypeFile {
					continue
				}
				localPath := filepath.Join(localDir, fileEntry.Name)
				if !needsDownload(localPath, fileEntry.Size) {
					continue
				}
				if err := m.download(conn, path.Join(subPath, fileEntry.Name), localPath); err != nil {
					return downloaded, err
				}
				downloaded++
			}
		}
	}

	log.Info("mirror complete", zap.Int("downloaded", downloaded))
	return downloaded, nil
}

func (m *Mirror) download(conn *ftp.ServerConn, remotePath, localPath string) error {
	resp, err := conn.Retr(remotePath)
	if err != nil {
		return eris.Wrapf(err, "fetch: retrieve %s", remotePath)
	}
	defer func() { _ = resp.Close() }()

	f, err := os.Create(localPath)
	if err != nil {
		return eris.Wrapf(err, "fetch: create %s", localPath)
	}
	defer func() { _ = f.Close() }()

	if _, err := io.Copy(f, resp); err != nil {
		return eris.Wrapf(err, "fetch: write %s", localPath)
	}
	return nil
}

// needsDownload reports whether the local copy is missing or differs in size
// from the remote file. FTP listings carry no content hash, so size is the
// only cheap change signal available.
func needsDownload(localPath string, remoteSize uint64) bool {
	info, err := os.Stat(localPath)
	if err != nil {
		return true
	}
	return uint64(info.Size()) != remoteSize
}

package backup

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Files writes backup documents to a cache directory and hands them to a
// mail client.
type Files struct {
	fs  afero.Fs
	dir string
	now func() time.Time
}

// NewFiles returns a Files rooted at dir on fs.
func NewFiles(fs afero.Fs, dir string) *Files {
	return &Files{fs: fs, dir: dir, now: time.Now}
}

// FileName returns the cache file name for a backup made at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("dayplan-backup-%s-%s.json", t.Format("2006-01-02"), uuid.NewString()[:8])
}

// WriteToCache stores data under a fresh file name and returns its path.
func (f *Files) WriteToCache(data []byte) (string, error) {
	if err := f.fs.MkdirAll(f.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating cache dir: %w", err)
	}
	path := filepath.Join(f.dir, FileName(f.now()))
	if err := afero.WriteFile(f.fs, path, data, 0o600); err != nil {
		return "", fmt.Errorf("writing backup: %w", err)
	}
	return path, nil
}

// Write stores data at path, creating missing parent directories.
func (f *Files) Write(path string, data []byte) error {
	if err := f.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating backup dir: %w", err)
	}
	if err := afero.WriteFile(f.fs, path, data, 0o600); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}
	return nil
}

// ReadFile returns the contents of path.
func (f *Files) ReadFile(path string) ([]byte, error) {
	data, err := afero.ReadFile(f.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading backup: %w", err)
	}
	return data, nil
}

// DeleteFile removes path. A missing file is not an error.
func (f *Files) DeleteFile(path string) error {
	exists, err := afero.Exists(f.fs, path)
	if err != nil {
		return fmt.Errorf("checking backup file: %w", err)
	}
	if !exists {
		return nil
	}
	if err := f.fs.Remove(path); err != nil {
		return fmt.Errorf("deleting backup: %w", err)
	}
	return nil
}

// Share writes an RFC 5322 message to w with the backup at path attached.
func (f *Files) Share(path string, w io.Writer) error {
	data, err := f.ReadFile(path)
	if err != nil {
		return err
	}

	var h mail.Header
	h.SetDate(f.now())
	h.SetSubject("Dayplan backup")
	if err := h.GenerateMessageID(); err != nil {
		return fmt.Errorf("generating message id: %w", err)
	}

	mw, err := mail.CreateWriter(w, h)
	if err != nil {
		return fmt.Errorf("creating message: %w", err)
	}

	tw, err := mw.CreateInline()
	if err != nil {
		return fmt.Errorf("creating message body: %w", err)
	}
	var th mail.InlineHeader
	th.Set("Content-Type", "text/plain; charset=utf-8")
	bw, err := tw.CreatePart(th)
	if err != nil {
		return fmt.Errorf("creating message body: %w", err)
	}
	if _, err := io.WriteString(bw, "Attached is a Dayplan backup. Import it with: dayplan import <file>\n"); err != nil {
		return fmt.Errorf("writing message body: %w", err)
	}
	if err := bw.Close(); err != nil {
		return err
	}
	if err := tw.Close(); err != nil {
		return err
	}

	var ah mail.AttachmentHeader
	ah.Set("Content-Type", "application/json")
	ah.SetFilename(filepath.Base(path))
	aw, err := mw.CreateAttachment(ah)
	if err != nil {
		return fmt.Errorf("attaching backup: %w", err)
	}
	if _, err := aw.Write(data); err != nil {
		return fmt.Errorf("attaching backup: %w", err)
	}
	if err := aw.Close(); err != nil {
		return err
	}

	return mw.Close()
}

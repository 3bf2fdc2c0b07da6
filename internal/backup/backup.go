// Package backup exports the task table and preferences to a JSON document
// and restores them from one.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nhle/dayplan/internal/day"
	"github.com/nhle/dayplan/internal/model"
	"github.com/nhle/dayplan/internal/prefs"
)

// ErrUnsupportedVersion is returned for a document whose version is not
// model.BackupVersion.
var ErrUnsupportedVersion = errors.New("unsupported backup version")

// TaskStore is the task persistence a backup reads and replaces.
type TaskStore interface {
	GetTasks(ctx context.Context) ([]model.Task, error)
	ReplaceAllTasks(ctx context.Context, tasks []model.Task) error
}

// PreferenceStore loads and saves preferences.
type PreferenceStore interface {
	Load() (model.Preferences, error)
	Save(p model.Preferences) error
}

// ImportResult summarizes an import.
type ImportResult struct {
	Tasks       int
	Encrypted   bool
	ExportDate  string
	Preferences model.Preferences
}

// Service exports and imports backups.
type Service struct {
	tasks TaskStore
	prefs PreferenceStore
	clock day.Clock
	log   *slog.Logger
}

// NewService creates a Service. A nil logger discards output.
func NewService(tasks TaskStore, prefs PreferenceStore, clock day.Clock, log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{tasks: tasks, prefs: prefs, clock: clock, log: log.With("component", "backup")}
}

// Export snapshots every task and the exportable preferences.
func (s *Service) Export(ctx context.Context) (model.Backup, error) {
	tasks, err := s.tasks.GetTasks(ctx)
	if err != nil {
		return model.Backup{}, fmt.Errorf("reading tasks: %w", err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	p, err := s.prefs.Load()
	if err != nil {
		return model.Backup{}, fmt.Errorf("reading preferences: %w", err)
	}

	return model.Backup{
		Version:     model.BackupVersion,
		ExportDate:  s.clock.Now().UTC().Format(time.RFC3339),
		Tasks:       tasks,
		Preferences: model.BackupPreferencesFrom(p),
	}, nil
}

// ExportJSON renders the backup, sealed in an Envelope when password is
// not empty.
func (s *Service) ExportJSON(ctx context.Context, password string) ([]byte, error) {
	b, err := s.Export(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding backup: %w", err)
	}
	if password == "" {
		return data, nil
	}

	env, err := Encrypt(data, password)
	if err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding envelope: %w", err)
	}
	return out, nil
}

// Import restores a backup. The task table is replaced and the nine
// exported preference fields are overwritten; purchase state is kept.
func (s *Service) Import(ctx context.Context, data []byte, password string) (ImportResult, error) {
	var res ImportResult

	plain, encrypted, err := open(data, password)
	if err != nil {
		return res, err
	}
	res.Encrypted = encrypted

	var b model.Backup
	if err := json.Unmarshal(plain, &b); err != nil {
		return res, fmt.Errorf("decoding backup: %w", err)
	}
	if b.Version != model.BackupVersion {
		return res, fmt.Errorf("%w: %d", ErrUnsupportedVersion, b.Version)
	}

	tasks := make([]model.Task, 0, len(b.Tasks))
	for _, t := range b.Tasks {
		clean, err := model.SanitizeTask(t)
		if err != nil {
			return res, fmt.Errorf("task %d: %w", t.ID, err)
		}
		tasks = append(tasks, clean)
	}

	current, err := s.prefs.Load()
	if err != nil {
		return res, fmt.Errorf("reading preferences: %w", err)
	}
	restored := b.Preferences.ApplyTo(current)
	if err := prefs.Validate(restored); err != nil {
		return res, err
	}

	if err := s.tasks.ReplaceAllTasks(ctx, tasks); err != nil {
		return res, fmt.Errorf("restoring tasks: %w", err)
	}
	if err := s.prefs.Save(restored); err != nil {
		return res, fmt.Errorf("restoring preferences: %w", err)
	}

	s.log.Info("imported backup", "tasks", len(tasks), "encrypted", encrypted, "export_date", b.ExportDate)

	res.Tasks = len(tasks)
	res.ExportDate = b.ExportDate
	res.Preferences = restored
	return res, nil
}

// open returns the plain backup JSON, decrypting it when data is an
// Envelope.
func open(data []byte, password string) ([]byte, bool, error) {
	var probe struct {
		Encrypted bool `json:"encrypted"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, false, fmt.Errorf("decoding backup: %w", err)
	}
	if !probe.Encrypted {
		return data, false, nil
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, true, ErrDecryptFailed
	}
	if env.Version != model.BackupVersion {
		return nil, true, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
	}
	if password == "" {
		return nil, true, ErrPasswordRequired
	}
	plain, err := Decrypt(env, password)
	return plain, true, err
}

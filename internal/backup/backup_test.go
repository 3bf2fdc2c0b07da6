package backup_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/dayplan/internal/backup"
	"github.com/nhle/dayplan/internal/day"
	"github.com/nhle/dayplan/internal/model"
	"github.com/nhle/dayplan/internal/prefs"
	"github.com/nhle/dayplan/internal/store"
	"github.com/nhle/dayplan/tests/testutil"
)

var fixedNow = time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*backup.Service, *store.SQLiteStore, *prefs.Store) {
	t.Helper()
	s := testutil.NewTestStore(t)
	p := testutil.NewTestPrefs(t)
	return backup.NewService(s, p, day.ClockFunc(func() time.Time { return fixedNow }), nil), s, p
}

func seed(t *testing.T, s store.Store, p *prefs.Store) {
	t.Helper()
	testutil.MustAddTask(t, s, "Write report", "2024-03-09", model.StatusOverdue)
	testutil.MustAddTask(t, s, "Gym", "2024-03-10", model.StatusDone)
	testutil.MustAddTask(t, s, "Call mom", "2024-03-10", model.StatusOpen)

	require.NoError(t, p.Save(model.Preferences{
		DayStartTime:             "07:30",
		DayEndTime:               "23:15",
		Theme:                    model.ThemeDark,
		PushNotificationsEnabled: false,
		AutoCopyIncompleteTasks:  true,
		Premium:                  true,
		PremiumTier:              "lifetime",
		IntroShown:               true,
		DayScheduleConfigured:    true,
		LastPlanningDate:         "2024-03-10",
		LastOverdueMarkedDate:    "2024-03-09",
	}))
}

type taskKey struct {
	Title, Description, Date string
	Status               model.TaskStatus
}

func keys(t *testing.T, s store.Store) []taskKey {
	t.Helper()
	tasks, err := s.GetTasks(context.Background())
	require.NoError(t, err)
	out := make([]taskKey, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, taskKey{task.Title, task.Description, task.CreationDate, task.Status})
	}
	return out
}

func TestExport_Document(t *testing.T) {
	svc, s, p := newService(t)
	seed(t, s, p)

	b, err := svc.Export(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.BackupVersion, b.Version)
	assert.Equal(t, "2024-03-10T18:00:00Z", b.ExportDate)
	assert.Len(t, b.Tasks, 3)
	assert.Equal(t, "07:30", b.Preferences.DayStartTime)

	data, err := svc.ExportJSON(context.Background(), "")
	require.NoError(t, err)

	var doc struct {
		Preferences map[string]any `json:"preferences"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Len(t, doc.Preferences, 9)
	assert.NotContains(t, doc.Preferences, "premium")
}

func TestExport_EmptyDatabase(t *testing.T) {
	svc, _, _ := newService(t)

	data, err := svc.ExportJSON(context.Background(), "")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"tasks": []`)
}

func TestRoundTrip_IntoEmptyDatabase(t *testing.T) {
	ctx := context.Background()
	src, s, p := newService(t)
	seed(t, s, p)

	data, err := src.ExportJSON(ctx, "")
	require.NoError(t, err)
	want := keys(t, s)
	wantPrefs, err := p.Load()
	require.NoError(t, err)

	dst, s2, p2 := newService(t)
	res, err := dst.Import(ctx, data, "")
	require.NoError(t, err)

	assert.Equal(t, 3, res.Tasks)
	assert.False(t, res.Encrypted)
	assert.ElementsMatch(t, want, keys(t, s2))

	got, err := p2.Load()
	require.NoError(t, err)
	assert.Equal(t, model.BackupPreferencesFrom(wantPrefs), model.BackupPreferencesFrom(got))
	assert.False(t, got.Premium)
	assert.Empty(t, got.PremiumTier)
}

func TestImport_ReplacesExistingTasks(t *testing.T) {
	ctx := context.Background()
	svc, s, p := newService(t)
	seed(t, s, p)
	data, err := svc.ExportJSON(ctx, "")
	require.NoError(t, err)

	testutil.MustAddTask(t, s, "Extra", "2024-03-10", model.StatusOpen)

	_, err = svc.Import(ctx, data, "")
	require.NoError(t, err)
	assert.Len(t, keys(t, s), 3)

	got, err := p.Load()
	require.NoError(t, err)
	assert.True(t, got.Premium, "purchase state survives import")
}

func TestRoundTrip_Encrypted(t *testing.T) {
	ctx := context.Background()
	src, s, p := newService(t)
	seed(t, s, p)

	data, err := src.ExportJSON(ctx, "hunter2")
	require.NoError(t, err)

	var env backup.Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	assert.True(t, env.Encrypted)
	assert.Equal(t, 1, env.Version)
	assert.NotContains(t, string(data), "Write report")

	dst, s2, _ := newService(t)
	res, err := dst.Import(ctx, data, "hunter2")
	require.NoError(t, err)
	assert.True(t, res.Encrypted)
	assert.ElementsMatch(t, keys(t, s), keys(t, s2))
}

func TestImport_EncryptedErrors(t *testing.T) {
	ctx := context.Background()
	src, s, p := newService(t)
	seed(t, s, p)
	data, err := src.ExportJSON(ctx, "hunter2")
	require.NoError(t, err)

	dst, s2, _ := newService(t)

	_, err = dst.Import(ctx, data, "")
	assert.ErrorIs(t, err, backup.ErrPasswordRequired)

	_, err = dst.Import(ctx, data, "wrong")
	assert.ErrorIs(t, err, backup.ErrDecryptFailed)

	assert.Empty(t, keys(t, s2))
}

func TestImport_Rejects(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	_, err := svc.Import(ctx, []byte(`{"version":2,"tasks":[],"preferences":{}}`), "")
	assert.ErrorIs(t, err, backup.ErrUnsupportedVersion)

	_, err = svc.Import(ctx, []byte(`not json`), "")
	assert.Error(t, err)

	bad := `{"version":1,"tasks":[{"title":"  ","creation_date":"2024-03-10","status":1}],` +
		`"preferences":{"dayStartTime":"09:00","dayEndTime":"22:00","theme":"system"}}`
	_, err = svc.Import(ctx, []byte(bad), "")
	assert.ErrorIs(t, err, model.ErrEmptyTitle)

	badPrefs := `{"version":1,"tasks":[],"preferences":{"dayStartTime":"9am","dayEndTime":"22:00","theme":"system"}}`
	_, err = svc.Import(ctx, []byte(badPrefs), "")
	assert.ErrorIs(t, err, prefs.ErrInvalidPreference)
}

func TestEncryptDecrypt(t *testing.T) {
	plain := []byte(`{"version":1}`)

	env, err := backup.Encrypt(plain, "pw")
	require.NoError(t, err)

	got, err := backup.Decrypt(env, "pw")
	require.NoError(t, err)
	assert.Equal(t, plain, got)

	_, err = backup.Decrypt(env, "other")
	assert.ErrorIs(t, err, backup.ErrDecryptFailed)

	env.Data = env.Data[:len(env.Data)-4] + "AAAA"
	_, err = backup.Decrypt(env, "pw")
	assert.ErrorIs(t, err, backup.ErrDecryptFailed)

	env.IV = "%%%"
	_, err = backup.Decrypt(env, "pw")
	assert.ErrorIs(t, err, backup.ErrDecryptFailed)
}

func TestEncrypt_FreshSaltAndIV(t *testing.T) {
	a, err := backup.Encrypt([]byte("x"), "pw")
	require.NoError(t, err)
	b, err := backup.Encrypt([]byte("x"), "pw")
	require.NoError(t, err)
	assert.NotEqual(t, a.Salt, b.Salt)
	assert.NotEqual(t, a.IV, b.IV)
}

func TestFiles_WriteShareDelete(t *testing.T) {
	fs := afero.NewMemMapFs()
	files := backup.NewFiles(fs, "/cache")

	path, err := files.WriteToCache([]byte(`{"version":1}`))
	require.NoError(t, err)
	assert.Equal(t, "/cache", filepath.Dir(path))
	name := filepath.Base(path)
	assert.True(t, strings.HasPrefix(name, "dayplan-backup-"), name)
	assert.True(t, strings.HasSuffix(name, ".json"), name)

	var buf bytes.Buffer
	require.NoError(t, files.Share(path, &buf))

	mr, err := mail.CreateReader(&buf)
	require.NoError(t, err)
	defer mr.Close()

	subject, err := mr.Header.Subject()
	require.NoError(t, err)
	assert.Equal(t, "Dayplan backup", subject)

	var attached []byte
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if h, ok := part.Header.(*mail.AttachmentHeader); ok {
			filename, _ := h.Filename()
			assert.Equal(t, name, filename)
			attached, err = io.ReadAll(part.Body)
			require.NoError(t, err)
		}
	}
	assert.Equal(t, `{"version":1}`, string(attached))

	require.NoError(t, files.DeleteFile(path))
	exists, err := afero.Exists(fs, path)
	require.NoError(t, err)
	assert.False(t, exists)
	require.NoError(t, files.DeleteFile(path))
}

func TestFiles_WriteCreatesParentDirs(t *testing.T) {
	fs := afero.NewMemMapFs()
	files := backup.NewFiles(fs, "/cache")

	path := "/exports/2024/backup.json"
	require.NoError(t, files.Write(path, []byte(`{"version":1}`)))

	info, err := fs.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := files.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"version":1}`, string(data))

	require.NoError(t, files.Write(path, []byte(`{}`)))
	data, err = files.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data), "existing file is replaced")
}

func TestFileName(t *testing.T) {
	name := backup.FileName(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
	assert.Regexp(t, `^dayplan-backup-2024-03-10-[0-9a-f]{8}\.json$`, name)
}

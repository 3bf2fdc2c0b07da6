package store

// migration is one batch of schema statements that brings the database to
// version.
type migration struct {
	version    int
	statements []string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		statements: []string{
			`CREATE TABLE IF NOT EXISTS tasks (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	title         TEXT NOT NULL,
	description   TEXT,
	status        INTEGER DEFAULT 1,
	creation_date TEXT,
	active        INTEGER DEFAULT 1
)`,
		},
	},
	{
		version: 2,
		statements: []string{
			`CREATE INDEX IF NOT EXISTS idx_tasks_creation_date ON tasks(creation_date)`,
		},
	},
	{
		version: 3,
		statements: []string{
			`CREATE TABLE IF NOT EXISTS scheduled_notifications (
	id              INTEGER PRIMARY KEY,
	category        TEXT NOT NULL,
	title           TEXT NOT NULL,
	body            TEXT NOT NULL DEFAULT '',
	hour            INTEGER NOT NULL DEFAULT 0,
	minute          INTEGER NOT NULL DEFAULT 0,
	fire_at         TEXT,
	last_fired_date TEXT NOT NULL DEFAULT '',
	created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
		},
	},
}

// LatestSchemaVersion is the version a fully migrated database reports.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

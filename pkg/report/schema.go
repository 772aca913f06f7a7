package report

// SchemaVersion is bumped on incompatible schema changes.
const SchemaVersion = 1

// Schema creates the report tables. Idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS reports (
	id              TEXT PRIMARY KEY,
	request_id      TEXT,
	control_number  TEXT,
	leader          TEXT NOT NULL,
	material_type   TEXT,
	valid           INTEGER NOT NULL,
	violation_count INTEGER NOT NULL,
	violations      TEXT,
	duration_us     INTEGER NOT NULL,
	recorded_at     TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_recorded_at ON reports(recorded_at);
CREATE INDEX IF NOT EXISTS idx_reports_control_number ON reports(control_number);
CREATE INDEX IF NOT EXISTS idx_reports_valid ON reports(valid);
`

const insertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`

const getSchemaVersion = `SELECT version FROM schema_version ORDER BY version DESC LIMIT 1`

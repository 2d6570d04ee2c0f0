package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
const schema = `
CREATE TABLE IF NOT EXISTS generation_runs (
    id TEXT PRIMARY KEY,
    fee_structure_id TEXT NOT NULL,
    term_id TEXT NOT NULL,
    per_student_amount TEXT NOT NULL,
    total_students INTEGER NOT NULL,
    invoice_count INTEGER NOT NULL,
    due_date TEXT NOT NULL,
    status TEXT NOT NULL,
    error TEXT,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS generation_run_buckets (
    run_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    bucket_id TEXT NOT NULL,
    PRIMARY KEY (run_id, position),
    FOREIGN KEY (run_id) REFERENCES generation_runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS generation_run_grades (
    run_id TEXT NOT NULL,
    grade_id TEXT NOT NULL,
    fee_structure_id TEXT NOT NULL,
    student_count INTEGER NOT NULL,
    PRIMARY KEY (run_id, grade_id),
    FOREIGN KEY (run_id) REFERENCES generation_runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_generation_runs_fee_structure_id ON generation_runs(fee_structure_id);
CREATE INDEX IF NOT EXISTS idx_generation_run_buckets_run_id ON generation_run_buckets(run_id);
CREATE INDEX IF NOT EXISTS idx_generation_run_grades_run_id ON generation_run_grades(run_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}

package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// One row per analysed frame
		`CREATE TABLE IF NOT EXISTS analyses (
			id TEXT PRIMARY KEY,
			exercise TEXT NOT NULL DEFAULT '',
			score REAL NOT NULL CHECK(score >= 0 AND score <= 1),
			side_profile TEXT NOT NULL CHECK(side_profile IN ('left', 'right', 'unknown')),
			evaluated_side TEXT NOT NULL DEFAULT '',
			missing_keypoints INTEGER NOT NULL DEFAULT 0,
			is_good INTEGER NOT NULL DEFAULT 0,
			gated INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Issue messages in report order
		`CREATE TABLE IF NOT EXISTS analysis_issues (
			analysis_id TEXT NOT NULL REFERENCES analyses(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			message TEXT NOT NULL,
			PRIMARY KEY (analysis_id, seq)
		)`,

		// Raw landmarks of the analysed frame
		`CREATE TABLE IF NOT EXISTS analysis_landmarks (
			analysis_id TEXT NOT NULL REFERENCES analyses(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			name TEXT NOT NULL,
			confidence REAL NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			PRIMARY KEY (analysis_id, seq)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_analyses_exercise ON analyses(exercise)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}

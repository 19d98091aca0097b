package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// One row per selected result
		`CREATE TABLE IF NOT EXISTS history (
			id TEXT PRIMARY KEY,
			query TEXT NOT NULL,
			keyword TEXT NOT NULL DEFAULT '',
			text TEXT NOT NULL,
			action_kind TEXT NOT NULL DEFAULT '',
			action BLOB,
			created_at DATETIME NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_history_created_at ON history(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_history_keyword ON history(keyword)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}

package storage

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"lyrics-visualizer/analysis"
	"lyrics-visualizer/utils"
)

const sqliteFileName = "db.sqlite"

type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(dir string) (*SQLiteStorage, error) {
	utils.Logger.Debugf("Creating SQLite storage in %s", dir)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", "file:"+filepath.Join(dir, sqliteFileName))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	storage := &SQLiteStorage{db: db}
	if err := storage.Init(); err != nil {
		db.Close()
		return nil, err
	}
	return storage, nil
}

func (s *SQLiteStorage) Init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS word_counts (
		corpus TEXT NOT NULL,
		rank INTEGER NOT NULL,
		word TEXT NOT NULL,
		count INTEGER NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (corpus, word)
	)`)
	return err
}

func (s *SQLiteStorage) SaveCounts(corpus string, counts []analysis.WordCount) error {
	return withTx(s.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM word_counts WHERE corpus = ?`, corpus); err != nil {
			return err
		}
		stmt, err := tx.Prepare(`INSERT INTO word_counts (corpus, rank, word, count) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, c := range counts {
			if _, err := stmt.Exec(corpus, i, c.Word, c.Count); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStorage) LoadCounts(corpus string) ([]analysis.WordCount, error) {
	rows, err := s.db.Query(`SELECT word, count FROM word_counts WHERE corpus = ? ORDER BY rank`, corpus)
	if err != nil {
		return nil, err
	}
	return scanCounts(rows)
}

func (s *SQLiteStorage) ListCorpora() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT corpus FROM word_counts ORDER BY corpus`)
	if err != nil {
		return nil, err
	}
	return scanStrings(rows)
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// withTx executes fn within a transaction, rolling back when fn fails.
func withTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func scanCounts(rows *sql.Rows) ([]analysis.WordCount, error) {
	defer rows.Close()

	var counts []analysis.WordCount
	for rows.Next() {
		var c analysis.WordCount
		if err := rows.Scan(&c.Word, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(counts) == 0 {
		return nil, ErrCorpusNotFound
	}
	return counts, nil
}

func scanStrings(rows *sql.Rows) ([]string, error) {
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}


package export

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/audi70r/commitdigest/internal/logger"
	"github.com/audi70r/commitdigest/internal/store"
)

const schema = `CREATE TABLE IF NOT EXISTS commits (
	project        TEXT NOT NULL,
	author         TEXT NOT NULL,
	rev            INTEGER,
	branch         TEXT NOT NULL,
	message        TEXT NOT NULL,
	d              TIMESTAMP NOT NULL,
	is_translation INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_commits_d ON commits(d);
CREATE INDEX IF NOT EXISTS idx_commits_author ON commits(author);
CREATE INDEX IF NOT EXISTS idx_commits_project ON commits(project, branch);`

const insertCommit = `INSERT INTO commits
	(project, author, rev, branch, message, d, is_translation)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

// Open opens or creates a SQLite database file
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return db, nil
}

// WriteCommits replaces the commits table of db with the given commits in a
// single transaction
func WriteCommits(ctx context.Context, db *sql.DB, commits []store.Commit) (int, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return 0, fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM commits"); err != nil {
		return 0, fmt.Errorf("clear commits: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertCommit)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range commits {
		var rev sql.NullInt64
		if c.HasRevision {
			rev = sql.NullInt64{Int64: int64(c.Revision), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			c.Project, c.Author, rev, c.Branch, c.Message, c.Timestamp.UTC(), c.IsTranslation,
		); err != nil {
			return 0, fmt.Errorf("insert %s/%s: %w", c.Project, c.Branch, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	logger.WithField("commits", len(commits)).Info("commit store exported")
	return len(commits), nil
}

// Dump writes the whole store to a SQLite file at path
func Dump(ctx context.Context, path string, s *store.Store) (int, error) {
	db, err := Open(path)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	return WriteCommits(ctx, db, s.All())
}

package remote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"

	"notes-workspace/internal/notes"
)

const (
	notesTableName   = "notes"
	operationTimeout = 5 * time.Second
)

type sqlOpenFunc func(driverName, dsn string) (*sql.DB, error)

// PostgresStore implements NoteStore over a Postgres `notes` table. Columns
// use the remote snake_case schema; the translation to in-memory field names
// happens exclusively here.
type PostgresStore struct {
	dsn    string
	openDB sqlOpenFunc

	initOnce sync.Once
	initErr  error
	db       *sql.DB
}

// NewPostgresStore creates a store for the given DSN. The connection and
// schema are established lazily on first use so construction never touches
// the network.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("empty remote DSN")
	}
	return &PostgresStore{
		dsn:    dsn,
		openDB: sql.Open,
	}, nil
}

// Fetch returns every note stored for the user, translated from the remote
// column naming.
func (s *PostgresStore) Fetch(ctx context.Context, userID string) ([]notes.Note, error) {
	if err := s.ensureReady(); err != nil {
		return nil, classify(err)
	}
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, content, tags, folder_id, theme, editor_pattern, created_at, updated_at
		 FROM `+notesTableName+` WHERE user_id = $1`, userID)
	if err != nil {
		return nil, classify(err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var all []notes.Note
	for rows.Next() {
		var (
			n                        notes.Note
			tags                     pq.StringArray
			folderID, theme, pattern sql.NullString
		)
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &tags, &folderID, &theme, &pattern, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, classify(err)
		}
		n.Tags = []string(tags)
		if n.Tags == nil {
			n.Tags = []string{}
		}
		n.FolderID = folderID.String
		n.Theme = theme.String
		n.EditorPattern = pattern.String
		all = append(all, n)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return all, nil
}

// Push upserts the full collection for the user in one transaction, keyed by
// note id.
func (s *PostgresStore) Push(ctx context.Context, userID string, all []notes.Note) error {
	if err := s.ensureReady(); err != nil {
		return classify(err)
	}
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO `+notesTableName+`
			(id, user_id, title, content, tags, folder_id, theme, editor_pattern, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			tags = EXCLUDED.tags,
			folder_id = EXCLUDED.folder_id,
			theme = EXCLUDED.theme,
			editor_pattern = EXCLUDED.editor_pattern,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return classify(err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, n := range all {
		_, err := stmt.ExecContext(ctx,
			n.ID, userID, n.Title, n.Content, pq.Array(n.Tags),
			nullIfEmpty(n.FolderID), nullIfEmpty(n.Theme), nullIfEmpty(n.EditorPattern),
			n.CreatedAt, n.UpdatedAt,
		)
		if err != nil {
			return classify(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return classify(err)
	}
	return nil
}

// Close releases the underlying connection pool, if one was opened.
func (s *PostgresStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *PostgresStore) ensureReady() error {
	s.initOnce.Do(func() {
		db, err := s.openDB("postgres", s.dsn)
		if err != nil {
			s.initErr = err
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
		defer cancel()

		schema := []string{
			`CREATE TABLE IF NOT EXISTS ` + notesTableName + ` (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				title TEXT NOT NULL DEFAULT '',
				content TEXT NOT NULL DEFAULT '',
				tags TEXT[] NOT NULL DEFAULT '{}',
				folder_id TEXT,
				theme TEXT,
				editor_pattern TEXT,
				created_at TEXT NOT NULL DEFAULT '',
				updated_at TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE INDEX IF NOT EXISTS ` + notesTableName + `_user_id_idx
				ON ` + notesTableName + ` (user_id)`,
		}
		for _, stmt := range schema {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				_ = db.Close()
				s.initErr = err
				return
			}
		}
		s.db = db
	})
	return s.initErr
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// classify maps driver errors onto the adapter's two-error taxonomy.
// SQLSTATE class 28 (invalid authorization) and 42501 (insufficient
// privilege) are auth failures; everything else counts as the network being
// unavailable.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)
		if strings.HasPrefix(code, "28") || code == pgerrcode.InsufficientPrivilege {
			return fmt.Errorf("%w: %v", ErrAuth, err)
		}
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chunkstore persists corpus text chunks and serves similarity
// queries over named collections. It fails open: a missing, empty, or
// broken index yields fixed fallback chunks so the pipeline can always
// proceed. See docs/ARCHITECTURE § Chunk Store.
package chunkstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/content-engine/pkg/types"
)

const dbFile = "corpus.db"

// Collection names recognized by the retriever.
const (
	CollectionBrandVoice  = "brand_voice"
	CollectionProductDocs = "product_docs"
)

const defaultTopK = 5

// Store manages the corpus chunk SQLite database.
type Store struct {
	db   *sql.DB
	topK int
}

// Open opens or creates the chunk database at indexDir/corpus.db and
// creates the schema if it does not exist.
func Open(cfg types.ChunkStoreConfig) (*Store, error) {
	indexDir := cfg.IndexDir
	if indexDir == "" {
		indexDir = filepath.Join("corpus", "index")
	}
	if err := os.MkdirAll(indexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(indexDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	topK := cfg.TopK
	if topK <= 0 {
		topK = defaultTopK
	}

	s := &Store{db: db, topK: topK}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection. Safe on a nil store.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS chunks (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL,
			collection TEXT NOT NULL,
			text TEXT NOT NULL,
			source TEXT,
			UNIQUE(collection, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_collection ON chunks(collection)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='chunks_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE chunks_fts USING fts5(text, content=chunks, content_rowid=rowid)`,
			`CREATE TRIGGER chunks_ai AFTER INSERT ON chunks BEGIN
				INSERT INTO chunks_fts(rowid, text) VALUES (new.rowid, new.text);
			END`,
			`CREATE TRIGGER chunks_ad AFTER DELETE ON chunks BEGIN
				INSERT INTO chunks_fts(chunks_fts, rowid, text) VALUES('delete', old.rowid, old.text);
			END`,
			`CREATE TRIGGER chunks_au AFTER UPDATE ON chunks BEGIN
				INSERT INTO chunks_fts(chunks_fts, rowid, text) VALUES('delete', old.rowid, old.text);
				INSERT INTO chunks_fts(rowid, text) VALUES (new.rowid, new.text);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Ingest upserts chunks into a collection. The index build process that
// chunks corpus documents runs outside this system; Ingest is its write
// path (and the seam tests use to seed a store).
func (s *Store) Ingest(ctx context.Context, collection string, chunks []types.SourceChunk) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("chunk store not open")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chunks (id, collection, text, source) VALUES (?, ?, ?, ?)
		 ON CONFLICT(collection, id) DO UPDATE SET text=excluded.text, source=excluded.source`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range chunks {
		if _, err := stmt.ExecContext(ctx, c.ID, collection, c.Text, c.Source); err != nil {
			return fmt.Errorf("inserting chunk %s: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

// Search returns the topK most relevant chunks in a collection for a
// free-text query, ranked by FTS5 relevance. It never returns an error:
// an unopened store, an empty collection, or a query failure degrades to
// the collection's fallback set.
func (s *Store) Search(ctx context.Context, query, collection string, topK int) []types.SourceChunk {
	if topK <= 0 {
		if s != nil && s.topK > 0 {
			topK = s.topK
		} else {
			topK = defaultTopK
		}
	}

	if s == nil || s.db == nil {
		return FallbackChunks(collection)
	}

	var count int
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM chunks WHERE collection = ?`, collection,
	).Scan(&count); err != nil || count == 0 {
		return FallbackChunks(collection)
	}

	chunks, err := s.query(ctx, query, collection, topK)
	if err != nil || len(chunks) == 0 {
		return FallbackChunks(collection)
	}
	return chunks
}

func (s *Store) query(ctx context.Context, query, collection string, topK int) ([]types.SourceChunk, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.text, c.source
		 FROM chunks_fts
		 JOIN chunks c ON c.rowid = chunks_fts.rowid
		 WHERE chunks_fts MATCH ? AND c.collection = ?
		 ORDER BY chunks_fts.rank
		 LIMIT ?`,
		ftsQuery(query), collection, topK)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []types.SourceChunk
	for rows.Next() {
		var chunk types.SourceChunk
		var source sql.NullString
		if err := rows.Scan(&chunk.ID, &chunk.Text, &source); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if source.Valid {
			chunk.Source = source.String
		}
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

// ftsQuery turns free text into an OR-joined FTS5 match expression.
// Raw event briefs contain punctuation FTS5 would reject as syntax, so
// each term is quoted and non-alphanumeric runs become separators.
func ftsQuery(query string) string {
	fields := strings.FieldsFunc(query, func(r rune) bool {
		alnum := r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
		return !alnum
	})
	if len(fields) == 0 {
		return `""`
	}
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + f + `"`
	}
	return strings.Join(quoted, " OR ")
}

// Dump returns every chunk in a collection in insertion order.
func (s *Store) Dump(ctx context.Context, collection string) ([]types.SourceChunk, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("chunk store not open")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, source FROM chunks WHERE collection = ? ORDER BY rowid`, collection)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []types.SourceChunk
	for rows.Next() {
		var chunk types.SourceChunk
		var source sql.NullString
		if err := rows.Scan(&chunk.ID, &chunk.Text, &source); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if source.Valid {
			chunk.Source = source.String
		}
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

// Count returns the number of chunks stored in a collection.
func (s *Store) Count(ctx context.Context, collection string) (int, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("chunk store not open")
	}
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM chunks WHERE collection = ?`, collection,
	).Scan(&count)
	return count, err
}

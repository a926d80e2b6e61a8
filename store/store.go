// Package store mirrors the run artifacts into a single SQLite database for
// downstream indexers that prefer a queryable source over the JSON files.
// Like the files, the mirror is rewritten wholesale on each run.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/raglab/pdfcorpus/chunk"
	"github.com/raglab/pdfcorpus/dbopen"
)

const schema = `
CREATE TABLE IF NOT EXISTS chunks (
	chunk_id   TEXT PRIMARY KEY,
	source     TEXT NOT NULL,
	doc_path   TEXT NOT NULL,
	page       INTEGER NOT NULL,
	start_sent INTEGER,
	end_sent   INTEGER,
	table_no   INTEGER,
	elem_type  TEXT NOT NULL,
	text       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_chunks_doc ON chunks(doc_path, page);

CREATE TABLE IF NOT EXISTS doc_failures (
	doc   TEXT NOT NULL,
	error TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS page_failures (
	doc   TEXT NOT NULL,
	page  INTEGER NOT NULL,
	error TEXT NOT NULL
);
`

// Store wraps the artifact database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the artifact database at path.
func Open(path string) (*Store, error) {
	db, err := dbopen.Open(path, dbopen.WithMkdirAll(), dbopen.WithSchema(schema))
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// OpenDB wraps an existing database handle; the schema must already exist.
// Intended for tests with dbopen.OpenMemory.
func OpenDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Schema is the store's DDL, exported for OpenDB callers.
const Schema = schema

// Replace swaps the mirror's content for this run's collections in one
// transaction, retried on SQLITE_BUSY.
func (s *Store) Replace(ctx context.Context, chunks []chunk.Chunk, docFails []chunk.DocFailure, pageFails []chunk.PageFailure) error {
	return dbopen.RunTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, table := range []string{"chunks", "doc_failures", "page_failures"} {
			if _, err := tx.Exec("DELETE FROM " + table); err != nil {
				return fmt.Errorf("store: clear %s: %w", table, err)
			}
		}

		ins, err := tx.Prepare(`INSERT INTO chunks
			(chunk_id, source, doc_path, page, start_sent, end_sent, table_no, elem_type, text)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("store: prepare: %w", err)
		}
		defer ins.Close()

		for _, c := range chunks {
			var start, end any
			if c.Loc.StartSent > 0 {
				start, end = c.Loc.StartSent, c.Loc.EndSent
			}
			var tableNo any
			if c.Loc.TableNo != nil {
				tableNo = *c.Loc.TableNo
			}
			if _, err := ins.Exec(c.ID, c.Source, c.DocPath, c.Loc.Page, start, end, tableNo, string(c.ElemType), c.Text); err != nil {
				return fmt.Errorf("store: insert chunk %s: %w", c.ID, err)
			}
		}

		for _, f := range docFails {
			if _, err := tx.Exec("INSERT INTO doc_failures (doc, error) VALUES (?, ?)", f.Doc, f.Error); err != nil {
				return fmt.Errorf("store: insert doc failure: %w", err)
			}
		}
		for _, f := range pageFails {
			if _, err := tx.Exec("INSERT INTO page_failures (doc, page, error) VALUES (?, ?, ?)", f.Doc, f.Page, f.Error); err != nil {
				return fmt.Errorf("store: insert page failure: %w", err)
			}
		}
		return nil
	})
}

// Chunks reads the mirror back in insertion order.
func (s *Store) Chunks() ([]chunk.Chunk, error) {
	rows, err := s.db.Query(`SELECT chunk_id, source, doc_path, page, start_sent, end_sent, table_no, elem_type, text
		FROM chunks ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("store: query chunks: %w", err)
	}
	defer rows.Close()

	var out []chunk.Chunk
	for rows.Next() {
		var c chunk.Chunk
		var start, end, tableNo sql.NullInt64
		var elem string
		if err := rows.Scan(&c.ID, &c.Source, &c.DocPath, &c.Loc.Page, &start, &end, &tableNo, &elem, &c.Text); err != nil {
			return nil, fmt.Errorf("store: scan chunk: %w", err)
		}
		if start.Valid {
			c.Loc.StartSent = int(start.Int64)
			c.Loc.EndSent = int(end.Int64)
		}
		if tableNo.Valid {
			no := int(tableNo.Int64)
			c.Loc.TableNo = &no
		}
		c.ElemType = chunk.ElemType(elem)
		out = append(out, c)
	}
	return out, rows.Err()
}

// Counts returns the mirror's collection sizes.
func (s *Store) Counts() (chunks, docFails, pageFails int, err error) {
	if err = s.db.QueryRow("SELECT COUNT(*) FROM chunks").Scan(&chunks); err != nil {
		return
	}
	if err = s.db.QueryRow("SELECT COUNT(*) FROM doc_failures").Scan(&docFails); err != nil {
		return
	}
	err = s.db.QueryRow("SELECT COUNT(*) FROM page_failures").Scan(&pageFails)
	return
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

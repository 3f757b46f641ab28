package tiler

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const (
	sqlCreateTiles = `CREATE TABLE IF NOT EXISTS tiles(
		id TEXT PRIMARY KEY,
		level INTEGER NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		path TEXT NOT NULL,
		props TEXT
	    );`
	sqlUpsertTile = `INSERT INTO tiles (id, level, x, y, path, props) VALUES (:id, :level, :x, :y, :path, :props)
		ON CONFLICT (id) DO UPDATE SET path=EXCLUDED.path, props=EXCLUDED.props;`
	sqlGetTile   = `SELECT id, level, x, y, path, props FROM tiles WHERE id=$1 LIMIT 1;`
	sqlCountTile = `SELECT count(*) FROM tiles WHERE level=$1;`
)

// Index records every tile written so a tiling run can resume and the viewer
// can find tiles without walking the tile directory.
type Index struct {
	filename string
	db       *sqlx.DB
}

// OpenIndex given it's filename (database file) on disk.
// Will create if it doesn't exist.
func OpenIndex(fname string) (*Index, error) {
	db, err := sqlx.Open("sqlite3", fname)
	if err != nil {
		return nil, err
	}

	// sqlite allows one writer; workers share the one connection
	db.SetMaxOpenConns(1)

	idx := &Index{db: db, filename: fname}
	if _, err := db.Exec(sqlCreateTiles); err != nil {
		db.Close()
		return nil, err
	}
	return idx, nil
}

// Filename returns the path to the index on disk
func (i *Index) Filename() string {
	return i.filename
}

// Close the underlying database.
func (i *Index) Close() error {
	return i.db.Close()
}

// Record is one written tile.
type Record struct {
	Level int
	X     int
	Y     int
	Path  string
	Props *Properties
}

// dbTile encodes a single tile row.
// The ID is used to insert/update on a unique tile by it's (level,x,y).
type dbTile struct {
	ID    string         `db:"id"`
	Level int            `db:"level"`
	X     int            `db:"x"`
	Y     int            `db:"y"`
	Path  string         `db:"path"`
	Props sql.NullString `db:"props"`
}

func tileID(level, x, y int) string {
	return fmt.Sprintf("%d-%d-%d", level, x, y)
}

// Put records (or replaces) a tile.
func (i *Index) Put(r *Record) error {
	_, err := i.db.NamedExec(sqlUpsertTile, dbTile{
		ID:    tileID(r.Level, r.X, r.Y),
		Level: r.Level,
		X:     r.X,
		Y:     r.Y,
		Path:  r.Path,
		Props: sql.NullString{String: r.Props.encode(), Valid: true},
	})
	return err
}

// Get returns the record of a tile or nil if it hasn't been written.
func (i *Index) Get(level, x, y int) (*Record, error) {
	row := dbTile{}
	err := i.db.Get(&row, sqlGetTile, tileID(level, x, y))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	props, err := decodeProperties(row.Props.String)
	if err != nil {
		return nil, fmt.Errorf("tile %s props: %w", row.ID, err)
	}
	return &Record{Level: row.Level, X: row.X, Y: row.Y, Path: row.Path, Props: props}, nil
}

// Has returns if a tile has been recorded.
func (i *Index) Has(level, x, y int) (bool, error) {
	r, err := i.Get(level, x, y)
	return r != nil, err
}

// Count returns how many tiles of a level are recorded.
func (i *Index) Count(level int) (int, error) {
	var n int
	err := i.db.Get(&n, sqlCountTile, level)
	return n, err
}

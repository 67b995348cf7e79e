// Package datarecording stores flat records of a run into a SQLite file.
package datarecording

import (
	"database/sql"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// DataRecorder is a backend that can record and store data.
type DataRecorder interface {
	// CreateTable creates a table whose columns are the fields of the sample
	// entry.
	CreateTable(tableName string, sampleEntry any) error

	// InsertData buffers an entry for a table that already exists.
	InsertData(tableName string, entry any) error

	// ListTables returns the names of the tables created so far.
	ListTables() []string

	// Flush writes all the buffered entries into the database.
	Flush() error

	// Close flushes and closes the database.
	Close() error
}

// New creates a DataRecorder that writes to path.sqlite3. An empty path
// picks a unique name.
func New(path string) (DataRecorder, error) {
	if path == "" {
		path = "pcsma_recording_" + xid.New().String()
	}

	filename := path + ".sqlite3"
	if _, err := os.Stat(filename); err == nil {
		return nil, fmt.Errorf("file %s already exists", filename)
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filename, err)
	}

	w := newWriter(db)
	w.filename = filename

	return w, nil
}

// NewWithDB creates a DataRecorder with a given database.
func NewWithDB(db *sql.DB) DataRecorder {
	return newWriter(db)
}

func newWriter(db *sql.DB) *sqliteWriter {
	w := &sqliteWriter{
		DB:        db,
		batchSize: 100000,
		tables:    make(map[string]*table),
	}

	atexit.Register(func() { _ = w.Flush() })

	return w
}

type table struct {
	structType reflect.Type
	entries    []any
}

type sqliteWriter struct {
	*sql.DB

	filename   string
	tables     map[string]*table
	batchSize  int
	entryCount int
	closed     bool
}

func isAllowedKind(kind reflect.Kind) bool {
	switch kind {
	case
		reflect.Bool,
		reflect.Int,
		reflect.Int8,
		reflect.Int16,
		reflect.Int32,
		reflect.Int64,
		reflect.Uint,
		reflect.Uint8,
		reflect.Uint16,
		reflect.Uint32,
		reflect.Uint64,
		reflect.Float32,
		reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

func fieldNames(t reflect.Type) ([]string, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("entry of type %s is not a struct", t)
	}

	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			return nil, fmt.Errorf("field %s of %s is not exported", field.Name, t)
		}

		if !isAllowedKind(field.Type.Kind()) {
			return nil, fmt.Errorf("field %s of %s has unsupported kind %s",
				field.Name, t, field.Type.Kind())
		}

		names = append(names, field.Name)
	}

	return names, nil
}

func (w *sqliteWriter) CreateTable(tableName string, sampleEntry any) error {
	if _, exists := w.tables[tableName]; exists {
		return fmt.Errorf("table %s already exists", tableName)
	}

	structType := reflect.TypeOf(sampleEntry)

	names, err := fieldNames(structType)
	if err != nil {
		return err
	}

	createTableSQL := "CREATE TABLE " + tableName +
		" (\n\t" + strings.Join(names, ", \n\t") + "\n);"
	if _, err := w.Exec(createTableSQL); err != nil {
		return fmt.Errorf("creating table %s: %w", tableName, err)
	}

	w.tables[tableName] = &table{structType: structType}

	return nil
}

func (w *sqliteWriter) InsertData(tableName string, entry any) error {
	t, exists := w.tables[tableName]
	if !exists {
		return fmt.Errorf("table %s does not exist", tableName)
	}

	if reflect.TypeOf(entry) != t.structType {
		return fmt.Errorf("entry of type %T does not fit table %s",
			entry, tableName)
	}

	t.entries = append(t.entries, entry)

	w.entryCount++
	if w.entryCount >= w.batchSize {
		return w.Flush()
	}

	return nil
}

func (w *sqliteWriter) ListTables() []string {
	tables := make([]string, 0, len(w.tables))
	for name := range w.tables {
		tables = append(tables, name)
	}

	sort.Strings(tables)

	return tables
}

func (w *sqliteWriter) Flush() error {
	if w.entryCount == 0 || w.closed {
		return nil
	}

	tx, err := w.Begin()
	if err != nil {
		return err
	}

	for _, name := range w.ListTables() {
		if err := w.flushTable(tx, name, w.tables[name]); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	w.entryCount = 0

	return nil
}

func (w *sqliteWriter) flushTable(tx *sql.Tx, name string, t *table) error {
	if len(t.entries) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(
		strings.Repeat("?, ", t.structType.NumField()), ", ")

	stmt, err := tx.Prepare("INSERT INTO " + name + " VALUES (" + placeholders + ")")
	if err != nil {
		return fmt.Errorf("preparing insert into %s: %w", name, err)
	}
	defer stmt.Close()

	for _, entry := range t.entries {
		v := reflect.ValueOf(entry)

		args := make([]any, v.NumField())
		for i := range args {
			args[i] = v.Field(i).Interface()
		}

		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("inserting into %s: %w", name, err)
		}
	}

	t.entries = nil

	return nil
}

func (w *sqliteWriter) Close() error {
	if w.closed {
		return nil
	}

	if err := w.Flush(); err != nil {
		return err
	}

	w.closed = true

	return w.DB.Close()
}

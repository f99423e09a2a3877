// ABOUTME: Table-backed core.Resource for SQLite.
// ABOUTME: Columns come from PRAGMA table_info; records are plain column maps.

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/2389/panel/adapters/core"
)

const rowIDColumn = "rowid"

type tableResource struct {
	db         *sql.DB
	database   string
	table      string
	properties []core.Property
	idColumn   string
	selectCols string // column list used by every SELECT
}

func newTableResource(db *sql.DB, database, table string) (*tableResource, error) {
	rows, err := db.Query("PRAGMA table_info(" + quoteIdent(table) + ")")
	if err != nil {
		return nil, fmt.Errorf("sqlite: describe %s: %w", table, err)
	}
	defer rows.Close()

	r := &tableResource{db: db, database: database, table: table}
	for rows.Next() {
		var (
			cid       int
			name      string
			declared  string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &declared, &notNull, &dfltValue, &pk); err != nil {
			return nil, err
		}

		// Only the first primary key column identifies a record
		isID := pk == 1 && r.idColumn == ""
		if isID {
			r.idColumn = name
		}
		r.properties = append(r.properties, core.Property{
			Name:     name,
			Type:     propertyType(declared),
			IsID:     isID,
			Editable: !isID,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(r.properties) == 0 {
		return nil, fmt.Errorf("sqlite: table %q not found", table)
	}

	cols := make([]string, 0, len(r.properties)+1)
	if r.idColumn == "" {
		r.idColumn = rowIDColumn
		r.properties = append([]core.Property{{Name: rowIDColumn, Type: "number", IsID: true}}, r.properties...)
	}
	for _, p := range r.properties {
		cols = append(cols, quoteIdent(p.Name))
	}
	r.selectCols = strings.Join(cols, ", ")

	return r, nil
}

func (r *tableResource) ID() string                  { return r.table }
func (r *tableResource) Name() string                { return r.table }
func (r *tableResource) DatabaseName() string        { return r.database }
func (r *tableResource) DatabaseType() string        { return "sqlite" }
func (r *tableResource) Properties() []core.Property { return append([]core.Property(nil), r.properties...) }

func (r *tableResource) Count(ctx context.Context, filter core.Filter) (int, error) {
	where, args := r.where(filter)
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quoteIdent(r.table)+where, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sqlite: count %s: %w", r.table, err)
	}
	return n, nil
}

func (r *tableResource) Find(ctx context.Context, filter core.Filter, opts core.FindOptions) ([]core.Record, error) {
	where, args := r.where(filter)
	query := "SELECT " + r.selectCols + " FROM " + quoteIdent(r.table) + where

	sortBy := r.idColumn
	if opts.SortBy != "" && r.hasColumn(opts.SortBy) {
		sortBy = opts.SortBy
	}
	direction := "ASC"
	if strings.EqualFold(opts.Direction, "desc") {
		direction = "DESC"
	}
	query += " ORDER BY " + quoteIdent(sortBy) + " " + direction

	limit := opts.Limit
	if limit <= 0 {
		limit = -1
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, opts.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: find %s: %w", r.table, err)
	}
	defer rows.Close()

	var records []core.Record
	for rows.Next() {
		rec, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *tableResource) FindOne(ctx context.Context, id string) (core.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+r.selectCols+" FROM "+quoteIdent(r.table)+" WHERE "+quoteIdent(r.idColumn)+" = ?", id)
	if err != nil {
		return nil, fmt.Errorf("sqlite: find %s/%s: %w", r.table, id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, core.ErrRecordNotFound
	}
	return r.scan(rows)
}

func (r *tableResource) Create(ctx context.Context, params map[string]any) (core.Record, error) {
	cols, args := r.assignments(params, true)
	var query string
	if len(cols) == 0 {
		query = "INSERT INTO " + quoteIdent(r.table) + " DEFAULT VALUES"
	} else {
		quoted := make([]string, len(cols))
		for i, c := range cols {
			quoted[i] = quoteIdent(c)
		}
		query = "INSERT INTO " + quoteIdent(r.table) + " (" + strings.Join(quoted, ", ") +
			") VALUES (" + strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ") + ")"
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: insert into %s: %w", r.table, err)
	}

	// Explicit ids win over the generated rowid
	if v, ok := params[r.idColumn]; ok && r.idColumn != rowIDColumn && fmt.Sprint(v) != "" {
		return r.FindOne(ctx, fmt.Sprint(v))
	}
	rowID, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.findByRowID(ctx, rowID)
}

func (r *tableResource) Update(ctx context.Context, id string, params map[string]any) (core.Record, error) {
	cols, args := r.assignments(params, false)
	if len(cols) == 0 {
		return r.FindOne(ctx, id)
	}

	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = quoteIdent(c) + " = ?"
	}
	args = append(args, id)

	result, err := r.db.ExecContext(ctx,
		"UPDATE "+quoteIdent(r.table)+" SET "+strings.Join(sets, ", ")+" WHERE "+quoteIdent(r.idColumn)+" = ?", args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: update %s/%s: %w", r.table, id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, core.ErrRecordNotFound
	}
	return r.FindOne(ctx, id)
}

func (r *tableResource) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM "+quoteIdent(r.table)+" WHERE "+quoteIdent(r.idColumn)+" = ?", id)
	if err != nil {
		return fmt.Errorf("sqlite: delete %s/%s: %w", r.table, id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return core.ErrRecordNotFound
	}
	return nil
}

func (r *tableResource) findByRowID(ctx context.Context, rowID int64) (core.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+r.selectCols+" FROM "+quoteIdent(r.table)+" WHERE rowid = ?", rowID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, core.ErrRecordNotFound
	}
	return r.scan(rows)
}

// where builds an equality WHERE clause over known columns, in property order
func (r *tableResource) where(filter core.Filter) (string, []any) {
	var clauses []string
	var args []any
	for _, p := range r.properties {
		v, ok := filter[p.Name]
		if !ok {
			continue
		}
		clauses = append(clauses, quoteIdent(p.Name)+" = ?")
		args = append(args, v)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// assignments picks writable columns from params, in property order
func (r *tableResource) assignments(params map[string]any, includeID bool) ([]string, []any) {
	var cols []string
	var args []any
	for _, p := range r.properties {
		if p.Name == rowIDColumn && r.idColumn == rowIDColumn {
			continue
		}
		if p.IsID && !includeID {
			continue
		}
		v, ok := params[p.Name]
		if !ok {
			continue
		}
		if p.IsID && fmt.Sprint(v) == "" {
			continue
		}
		cols = append(cols, p.Name)
		args = append(args, normalize(p, v))
	}
	return cols, args
}

func (r *tableResource) hasColumn(name string) bool {
	for _, p := range r.properties {
		if p.Name == name {
			return true
		}
	}
	return false
}

func (r *tableResource) scan(rows *sql.Rows) (core.Record, error) {
	values := make([]any, len(r.properties))
	ptrs := make([]any, len(values))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	rec := make(core.Record, len(values))
	for i, p := range r.properties {
		if b, ok := values[i].([]byte); ok {
			rec[p.Name] = string(b)
			continue
		}
		rec[p.Name] = values[i]
	}
	return rec, nil
}

// normalize converts HTML form values to what SQLite expects for the column
func normalize(p core.Property, v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	switch p.Type {
	case "boolean":
		return s == "true" || s == "on" || s == "1"
	case "number":
		if s == "" {
			return nil
		}
	}
	return s
}

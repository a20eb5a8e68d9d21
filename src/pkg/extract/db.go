package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"sales-notifier/src/pkg/report"
)

/*
ProcedureRunner executes reporting stored procedures against the ERP
database and returns their result sets as raw tables. It is used when the
pipeline runs with the database back-end instead of workbook extracts.
*/
type ProcedureRunner struct {
	pool *pgxpool.Pool
}

func NewProcedureRunner(ctx context.Context, dsn string) (runner *ProcedureRunner, e *xerr.Error) {
	pool, poolErr := pgxpool.New(ctx, dsn)
	if poolErr != nil {
		e = xerr.NewError(poolErr, "create database pool", "procedure runner")
		return nil, e
	}

	pingErr := pool.Ping(ctx)
	if pingErr != nil {
		pool.Close()
		e = xerr.NewError(pingErr, "ping database", "procedure runner")
		return nil, e
	}

	runner = &ProcedureRunner{pool: pool}
	return runner, e
}

/*
RunReport executes "SELECT * FROM <procedure>(args...)" and converts the
result set into a RawTable named after the procedure. Every value is
rendered to its string form; NULL becomes the empty string so downstream
normalization treats it like a blank cell.
*/
func (r *ProcedureRunner) RunReport(ctx context.Context, procedure string, args ...any) (table report.RawTable, e *xerr.Error) {
	placeholders := make([]string, 0, len(args))
	for index := 0; index < len(args); index += 1 {
		placeholders = append(placeholders, fmt.Sprintf("$%d", index+1))
	}
	query := fmt.Sprintf("SELECT * FROM %s(%s)", procedure, strings.Join(placeholders, ", "))

	rows, queryErr := r.pool.Query(ctx, query, args...)
	if queryErr != nil {
		e = xerr.NewError(queryErr, "execute report procedure", procedure)
		return table, e
	}
	defer rows.Close()

	table.Name = procedure
	for _, field := range rows.FieldDescriptions() {
		table.Columns = append(table.Columns, string(field.Name))
	}

	for rows.Next() {
		values, valuesErr := rows.Values()
		if valuesErr != nil {
			e = xerr.NewError(valuesErr, "read procedure row", procedure)
			return table, e
		}
		cells := make([]string, 0, len(values))
		for _, value := range values {
			if value == nil {
				cells = append(cells, "")
				continue
			}
			cells = append(cells, fmt.Sprint(value))
		}
		table.Rows = append(table.Rows, cells)
	}

	if rows.Err() != nil {
		e = xerr.NewError(rows.Err(), "iterate procedure rows", procedure)
		return table, e
	}

	tl.Log(
		tl.Info, palette.Cyan, "Procedure '%s' returned %d rows",
		procedure, len(table.Rows),
	)

	return table, e
}

func (r *ProcedureRunner) Close() {
	r.pool.Close()
}

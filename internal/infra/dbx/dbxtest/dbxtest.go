// Package dbxtest provides a scripted dbx.Querier for repository tests that
// need to see the SQL a repository sends without a running Postgres.
package dbxtest

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Call is one statement seen by a Recorder.
type Call struct {
	SQL  string
	Args []any
}

// Result answers one statement. Values are scanned by QueryRow, Tag is the
// command tag Exec returns ("UPDATE 1"), Err fails the statement.
type Result struct {
	Values []any
	Tag    string
	Err    error
}

// Recorder answers statements from Results in order, then from Default.
type Recorder struct {
	mu      sync.Mutex
	Calls   []Call
	Results []Result
	Default Result
}

func (r *Recorder) next(sql string, args []any) Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, Call{SQL: sql, Args: args})
	if len(r.Results) == 0 {
		return r.Default
	}
	res := r.Results[0]
	r.Results = r.Results[1:]
	return res
}

// Last returns the most recent call.
func (r *Recorder) Last() Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Calls) == 0 {
		return Call{}
	}
	return r.Calls[len(r.Calls)-1]
}

func (r *Recorder) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	res := r.next(sql, args)
	return pgconn.NewCommandTag(res.Tag), res.Err
}

// Query always answers with an empty result set unless Err is set.
func (r *Recorder) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	res := r.next(sql, args)
	if res.Err != nil {
		return nil, res.Err
	}
	return &emptyRows{}, nil
}

func (r *Recorder) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	return row(r.next(sql, args))
}

type row Result

func (rw row) Scan(dest ...any) error {
	if rw.Err != nil {
		return rw.Err
	}
	if len(rw.Values) == 0 {
		return pgx.ErrNoRows
	}
	if len(dest) != len(rw.Values) {
		return fmt.Errorf("dbxtest: scan into %d targets, have %d values", len(dest), len(rw.Values))
	}
	for i, v := range rw.Values {
		if v == nil {
			continue
		}
		target := reflect.ValueOf(dest[i]).Elem()
		val := reflect.ValueOf(v)
		if target.Kind() == reflect.Pointer && val.Kind() != reflect.Pointer {
			p := reflect.New(target.Type().Elem())
			p.Elem().Set(val.Convert(target.Type().Elem()))
			target.Set(p)
			continue
		}
		target.Set(val.Convert(target.Type()))
	}
	return nil
}

type emptyRows struct{}

func (emptyRows) Close()                                       {}
func (emptyRows) Err() error                                   { return nil }
func (emptyRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT 0") }
func (emptyRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (emptyRows) Next() bool                                   { return false }
func (emptyRows) Scan(...any) error                            { return pgx.ErrNoRows }
func (emptyRows) Values() ([]any, error)                       { return nil, nil }
func (emptyRows) RawValues() [][]byte                          { return nil }
func (emptyRows) Conn() *pgx.Conn                              { return nil }

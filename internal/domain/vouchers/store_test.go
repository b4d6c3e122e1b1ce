package vouchers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"backoffice/internal/infra/dbx/dbxtest"
)

func TestListEscapesSearch(t *testing.T) {
	stop := errors.New("stop")
	q := &dbxtest.Recorder{Default: dbxtest.Result{Err: stop}}

	if _, _, err := NewRepository(q).List(context.Background(), ListFilter{Search: "SAVE_10%"}, 10, 0); !errors.Is(err, stop) {
		t.Fatalf("err = %v", err)
	}
	if args := q.Last().Args; len(args) < 2 || args[1] != `SAVE\_10\%` {
		t.Fatalf("search arg = %v, want escaped wildcards", args)
	}
}

func TestReleaseStopsAtZero(t *testing.T) {
	q := &dbxtest.Recorder{Default: dbxtest.Result{Tag: "UPDATE 0"}}

	if err := NewRepository(q).Release(context.Background(), 5); err != nil {
		t.Fatalf("Release: %v", err)
	}
	call := q.Last()
	if !strings.Contains(call.SQL, "used_count > 0") {
		t.Fatalf("release must not go below zero:\n%s", call.SQL)
	}
	if len(call.Args) != 1 || call.Args[0] != int64(5) {
		t.Fatalf("args = %v", call.Args)
	}
}

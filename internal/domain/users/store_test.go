package users

import (
	"context"
	"errors"
	"testing"

	"backoffice/internal/infra/dbx/dbxtest"
)

func TestListEscapesSearch(t *testing.T) {
	stop := errors.New("stop")
	q := &dbxtest.Recorder{Default: dbxtest.Result{Err: stop}}

	if _, _, err := NewRepository(q).List(context.Background(), ListFilter{Search: "som_chai"}, 10, 0); !errors.Is(err, stop) {
		t.Fatalf("err = %v", err)
	}
	if args := q.Last().Args; len(args) < 3 || args[2] != `som\_chai` {
		t.Fatalf("search arg = %v, want escaped wildcards", args)
	}
}

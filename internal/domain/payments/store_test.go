package payments

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"backoffice/internal/infra/dbx/dbxtest"

	"github.com/shopspring/decimal"
)

func TestCreateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		in   Payment
		want error
	}{
		{"negative amount", Payment{OrderID: 1, PaymentMethod: MethodPromptPay, Amount: decimal.NewFromInt(-10)}, ErrNegativeAmount},
		{"unknown method", Payment{OrderID: 1, PaymentMethod: "khalti", Amount: decimal.NewFromInt(10)}, ErrInvalidMethod},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &dbxtest.Recorder{}
			p := tt.in
			if _, err := NewRepository(q).Create(context.Background(), &p); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if len(q.Calls) != 0 {
				t.Fatalf("invalid payment reached the database: %v", q.Calls)
			}
		})
	}
}

func TestLogsInsertPayload(t *testing.T) {
	tests := []struct {
		name     string
		payload  any
		wantErr  bool
		wantJSON string
	}{
		{"map", map[string]string{"reason": "blurry slip"}, false, `{"reason":"blurry slip"}`},
		{"nil", nil, false, ""},
		{"unencodable", map[string]any{"ch": make(chan int)}, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &dbxtest.Recorder{Default: dbxtest.Result{Tag: "INSERT 0 1"}}
			err := NewLogsRepository(q).Insert(context.Background(), 3, LogRejected, nil, tt.payload)
			if tt.wantErr {
				var ute *json.UnsupportedTypeError
				if !errors.As(err, &ute) {
					t.Fatalf("err = %v, want a json encode error", err)
				}
				if len(q.Calls) != 0 {
					t.Fatal("a log row was written without its payload")
				}
				return
			}
			if err != nil {
				t.Fatalf("Insert: %v", err)
			}
			got, _ := q.Last().Args[3].([]byte)
			if string(got) != tt.wantJSON {
				t.Fatalf("payload = %q, want %q", got, tt.wantJSON)
			}
		})
	}
}

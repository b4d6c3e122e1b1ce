package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"backoffice/internal/infra/dbx"
)

const (
	LogCreated  = "created"
	LogSlip     = "slip_uploaded"
	LogVerified = "verified"
	LogRejected = "rejected"
)

// Log is one entry of a payment's audit trail.
type Log struct {
	ID        int64           `json:"id"`
	PaymentID int64           `json:"payment_id"`
	LogType   string          `json:"log_type"`
	ActorID   *int64          `json:"actor_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type LogsRepository struct{ q dbx.Querier }

func NewLogsRepository(q dbx.Querier) *LogsRepository {
	return &LogsRepository{q: q}
}

func (r *LogsRepository) Insert(ctx context.Context, paymentID int64, logType string, actorID *int64, payload any) error {
	var jb []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode payment_log payload: %w", err)
		}
		jb = b
	}

	_, err := r.q.Exec(ctx, `
		INSERT INTO payment_logs (payment_id, log_type, actor_id, payload)
		VALUES ($1, $2, $3, $4)
	`, paymentID, logType, actorID, jb)
	if err != nil {
		return fmt.Errorf("insert payment_log: %w", err)
	}
	return nil
}

func (r *LogsRepository) ListByPayment(ctx context.Context, paymentID int64) ([]Log, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, payment_id, log_type, actor_id, payload, created_at
		FROM payment_logs
		WHERE payment_id = $1
		ORDER BY id
	`, paymentID)
	if err != nil {
		return nil, fmt.Errorf("list payment logs: %w", err)
	}
	defer rows.Close()

	var out []Log
	for rows.Next() {
		var l Log
		var payload []byte
		if err := rows.Scan(&l.ID, &l.PaymentID, &l.LogType, &l.ActorID, &payload, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment log: %w", err)
		}
		if len(payload) > 0 {
			l.Payload = payload
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

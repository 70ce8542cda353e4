package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound indicates the requested resolve token does not exist.
var ErrNotFound = errors.New("resolve not found")

// Outcome labels for ResolveRecord.Outcome.
const (
	OutcomeResult     = "result"
	OutcomeNoOverride = "no-override"
	OutcomeError      = "error"
)

// ResolveRecord is one logged Resolve call.
type ResolveRecord struct {
	Token      string
	UFunc      string
	Method     string
	NArgs      int
	NIn        int
	Outcome    string // OutcomeResult, OutcomeNoOverride, or OutcomeError
	ErrorCode  string // dispatch error code when Outcome is OutcomeError
	Error      string // error text when Outcome is OutcomeError
	CreatedSeq int64
}

// AttemptRecord is one per-candidate step of a logged resolve.
type AttemptRecord struct {
	ResolveToken string
	Position     int
	Class        string
	Status       string // trace event kind
	Seq          int64
	Detail       string
}

// WriteResolve writes a resolve and its attempts in a single transaction.
// Either all rows are persisted or none - a crash cannot leave attempts
// without their resolve.
func (s *Store) WriteResolve(ctx context.Context, rec ResolveRecord, attempts []AttemptRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO resolves (token, ufunc, method, nargs, nin, outcome, error_code, error, created_seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Token, rec.UFunc, rec.Method, rec.NArgs, rec.NIn,
		rec.Outcome, rec.ErrorCode, rec.Error, rec.CreatedSeq,
	)
	if err != nil {
		return fmt.Errorf("insert resolve %s: %w", rec.Token, err)
	}

	for _, a := range attempts {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO attempts (resolve_token, position, class, status, seq, detail)
			VALUES (?, ?, ?, ?, ?, ?)`,
			a.ResolveToken, a.Position, a.Class, a.Status, a.Seq, a.Detail,
		)
		if err != nil {
			return fmt.Errorf("insert attempt (token=%s, seq=%d): %w", a.ResolveToken, a.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit resolve %s: %w", rec.Token, err)
	}
	return nil
}

// ListResolves returns logged resolves, newest first by created_seq, up to
// limit rows. limit <= 0 means no limit.
func (s *Store) ListResolves(ctx context.Context, limit int) ([]ResolveRecord, error) {
	query := `
		SELECT token, ufunc, method, nargs, nin, outcome, error_code, error, created_seq
		FROM resolves ORDER BY created_seq DESC, token`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query resolves: %w", err)
	}
	defer rows.Close()

	var recs []ResolveRecord
	for rows.Next() {
		var rec ResolveRecord
		if err := rows.Scan(&rec.Token, &rec.UFunc, &rec.Method, &rec.NArgs, &rec.NIn,
			&rec.Outcome, &rec.ErrorCode, &rec.Error, &rec.CreatedSeq); err != nil {
			return nil, fmt.Errorf("scan resolve: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// ReadResolve returns the resolve with the given token.
func (s *Store) ReadResolve(ctx context.Context, token string) (ResolveRecord, error) {
	var rec ResolveRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT token, ufunc, method, nargs, nin, outcome, error_code, error, created_seq
		FROM resolves WHERE token = ?`, token,
	).Scan(&rec.Token, &rec.UFunc, &rec.Method, &rec.NArgs, &rec.NIn,
		&rec.Outcome, &rec.ErrorCode, &rec.Error, &rec.CreatedSeq)
	if errors.Is(err, sql.ErrNoRows) {
		return ResolveRecord{}, fmt.Errorf("token %s: %w", token, ErrNotFound)
	}
	if err != nil {
		return ResolveRecord{}, fmt.Errorf("read resolve %s: %w", token, err)
	}
	return rec, nil
}

// ReadAttempts returns a resolve's attempts in seq order.
func (s *Store) ReadAttempts(ctx context.Context, token string) ([]AttemptRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT resolve_token, position, class, status, seq, detail
		FROM attempts WHERE resolve_token = ? ORDER BY seq`, token)
	if err != nil {
		return nil, fmt.Errorf("query attempts for %s: %w", token, err)
	}
	defer rows.Close()

	var recs []AttemptRecord
	for rows.Next() {
		var a AttemptRecord
		if err := rows.Scan(&a.ResolveToken, &a.Position, &a.Class, &a.Status, &a.Seq, &a.Detail); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		recs = append(recs, a)
	}
	return recs, rows.Err()
}

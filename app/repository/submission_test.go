package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/vibast-solutions/ms-go-boleto/app/entity"
)

type fakeResult struct {
	id int64
}

func (r fakeResult) LastInsertId() (int64, error) { return r.id, nil }
func (r fakeResult) RowsAffected() (int64, error) { return 1, nil }

type fakeDB struct {
	execFn func(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (d *fakeDB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return d.execFn(ctx, query, args...)
}

func (d *fakeDB) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, errors.New("not implemented")
}

func (d *fakeDB) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

type fakeRow struct {
	values []interface{}
	err    error
}

func (r fakeRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch target := d.(type) {
		case *uint64:
			*target = r.values[i].(uint64)
		case *int64:
			*target = r.values[i].(int64)
		case *string:
			*target = r.values[i].(string)
		case *sql.NullString:
			if v, ok := r.values[i].(string); ok {
				*target = sql.NullString{String: v, Valid: true}
			} else {
				*target = sql.NullString{}
			}
		case *time.Time:
			*target = r.values[i].(time.Time)
		}
	}
	return nil
}

func TestSubmissionCreate(t *testing.T) {
	var gotArgs []interface{}
	db := &fakeDB{execFn: func(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
		if !strings.Contains(query, "INSERT INTO boleto_submissions") {
			t.Fatalf("unexpected query: %s", query)
		}
		gotArgs = args
		return fakeResult{id: 12}, nil
	}}
	repo := NewSubmissionRepository(db)

	item := &entity.Submission{
		PublicID:       "pub-1",
		TransactionRef: "00000000000000042",
		AmountCents:    "1957",
		Fields:         []entity.FormField{{Name: "valor", Value: "1957"}, {Name: "qtdPontos", Value: ""}},
		CreatedAt:      time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.ID != 12 {
		t.Fatalf("expected id 12, got %d", item.ID)
	}
	if gotArgs[1] != nil || gotArgs[7] != nil {
		t.Fatalf("expected empty request id and document stored as NULL, got %v %v", gotArgs[1], gotArgs[7])
	}
	if gotArgs[4] != transactionRefKey("00000000000000042") {
		t.Fatalf("unexpected transaction ref key: %v", gotArgs[4])
	}
	if gotArgs[8] != `[{"name":"valor","value":"1957"},{"name":"qtdPontos","value":""}]` {
		t.Fatalf("unexpected fields json: %v", gotArgs[8])
	}
}

func TestSubmissionCreateKeepsOversizedValues(t *testing.T) {
	// Permissive mode never truncates, so refTran and dtVenc can outgrow their bank widths.
	longRef := strings.Repeat("12345678", 5)
	longDue := "25/12/2024 and later"
	var gotArgs []interface{}
	db := &fakeDB{execFn: func(_ context.Context, _ string, args ...interface{}) (sql.Result, error) {
		gotArgs = args
		return fakeResult{id: 1}, nil
	}}

	item := &entity.Submission{PublicID: "pub-1", TransactionRef: longRef, AmountCents: strings.Repeat("9", 40), DueDate: longDue}
	if err := NewSubmissionRepository(db).Create(context.Background(), item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotArgs[3] != longRef || gotArgs[6] != longDue {
		t.Fatalf("expected values passed through unchanged, got %v %v", gotArgs[3], gotArgs[6])
	}
	if key, _ := gotArgs[4].(string); len(key) != 64 {
		t.Fatalf("expected fixed width key, got %q", key)
	}
}

func TestSubmissionsSchemaHasNoNarrowColumns(t *testing.T) {
	for _, column := range []string{"request_id", "transaction_ref", "amount_cents", "due_date", "payer_document"} {
		if !strings.Contains(submissionsSchema, column+" TEXT") {
			t.Fatalf("expected %s to be a TEXT column", column)
		}
	}
	if strings.Contains(submissionsSchema, "VARCHAR") {
		t.Fatal("expected no VARCHAR columns in the ledger schema")
	}
	if !strings.Contains(submissionsSchema, "UNIQUE KEY uq_boleto_submissions_transaction_ref_key (transaction_ref_key)") {
		t.Fatal("expected the unique index on the transaction ref key")
	}
}

func TestSubmissionCreateDuplicate(t *testing.T) {
	db := &fakeDB{execFn: func(context.Context, string, ...interface{}) (sql.Result, error) {
		return nil, &mysqlDriver.MySQLError{Number: 1062, Message: "Duplicate entry"}
	}}
	err := NewSubmissionRepository(db).Create(context.Background(), &entity.Submission{})
	if !errors.Is(err, ErrTransactionRefExists) {
		t.Fatalf("expected ErrTransactionRefExists, got %v", err)
	}
}

func TestEnsureSchema(t *testing.T) {
	db := &fakeDB{execFn: func(_ context.Context, query string, _ ...interface{}) (sql.Result, error) {
		if !strings.Contains(query, "CREATE TABLE IF NOT EXISTS boleto_submissions") {
			t.Fatalf("unexpected query: %s", query)
		}
		return fakeResult{}, nil
	}}
	if err := NewSubmissionRepository(db).EnsureSchema(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestScanSubmission(t *testing.T) {
	created := time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC)
	row := fakeRow{values: []interface{}{
		uint64(3), "pub-3", nil, int64(311793), "00000000000000042",
		"1957", "25122024", "12345678909", `[{"name":"refTran","value":"00000000000000042"},{"name":"valor","value":"1957"}]`, created,
	}}

	var item entity.Submission
	if err := scanSubmission(row, &item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.ID != 3 || item.RequestID != "" || item.PayerDocument != "12345678909" {
		t.Fatalf("unexpected submission: %+v", item)
	}
	if len(item.Fields) != 2 || item.Fields[0].Name != "refTran" || item.Fields[1].Value != "1957" {
		t.Fatalf("expected ordered fields, got %+v", item.Fields)
	}
	if !item.CreatedAt.Equal(created) {
		t.Fatalf("unexpected submission: %+v", item)
	}

	if err := scanSubmission(fakeRow{err: sql.ErrNoRows}, &item); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

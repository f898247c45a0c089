package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vibast-solutions/ms-go-boleto/app/entity"
)

var ErrTransactionRefExists = errors.New("transaction ref already used")

const submissionsSchema = `
	CREATE TABLE IF NOT EXISTS boleto_submissions (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		public_id CHAR(36) NOT NULL,
		request_id TEXT NULL,
		merchant_id BIGINT NOT NULL,
		transaction_ref TEXT NOT NULL,
		transaction_ref_key CHAR(64) NOT NULL,
		amount_cents TEXT NOT NULL,
		due_date TEXT NOT NULL,
		payer_document TEXT NULL,
		fields_json MEDIUMTEXT NOT NULL,
		created_at DATETIME(6) NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_boleto_submissions_public_id (public_id),
		UNIQUE KEY uq_boleto_submissions_transaction_ref_key (transaction_ref_key)
	) DEFAULT CHARSET=utf8mb4
`

type SubmissionRepository struct {
	db DBTX
}

func NewSubmissionRepository(db DBTX) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// EnsureSchema creates the ledger table when it does not exist.
func (r *SubmissionRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, submissionsSchema)
	return err
}

func (r *SubmissionRepository) Create(ctx context.Context, submission *entity.Submission) error {
	fieldsJSON, err := serializeFields(submission.Fields)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO boleto_submissions (
			public_id, request_id, merchant_id, transaction_ref, transaction_ref_key,
			amount_cents, due_date, payer_document, fields_json, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		submission.PublicID,
		nullableStringValue(submission.RequestID),
		submission.MerchantID,
		submission.TransactionRef,
		transactionRefKey(submission.TransactionRef),
		submission.AmountCents,
		submission.DueDate,
		nullableStringValue(submission.PayerDocument),
		fieldsJSON,
		submission.CreatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrTransactionRefExists
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	submission.ID = uint64(id)
	return nil
}

func (r *SubmissionRepository) FindByTransactionRef(ctx context.Context, transactionRef string) (*entity.Submission, error) {
	query := `
		SELECT id, public_id, request_id, merchant_id, transaction_ref,
			amount_cents, due_date, payer_document, fields_json, created_at
		FROM boleto_submissions
		WHERE transaction_ref_key = ?
		LIMIT 1
	`

	submission := &entity.Submission{}
	if err := scanSubmission(r.db.QueryRowContext(ctx, query, transactionRefKey(transactionRef)), submission); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return submission, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSubmission(scan rowScanner, submission *entity.Submission) error {
	var requestID sql.NullString
	var payerDocument sql.NullString
	var fieldsJSON string

	err := scan.Scan(
		&submission.ID,
		&submission.PublicID,
		&requestID,
		&submission.MerchantID,
		&submission.TransactionRef,
		&submission.AmountCents,
		&submission.DueDate,
		&payerDocument,
		&fieldsJSON,
		&submission.CreatedAt,
	)
	if err != nil {
		return err
	}

	submission.RequestID = stringFromNull(requestID)
	submission.PayerDocument = stringFromNull(payerDocument)

	fields, err := parseFields(fieldsJSON)
	if err != nil {
		return err
	}
	submission.Fields = fields

	return nil
}

package repository

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/vibast-solutions/ms-go-boleto/app/entity"
)

type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func isDuplicateEntryError(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

func nullableStringValue(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}

func stringFromNull(v sql.NullString) string {
	if !v.Valid {
		return ""
	}
	return v.String
}

type storedField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// serializeFields keeps the form order, so fields_json is a list rather than an object.
func serializeFields(fields []entity.FormField) (string, error) {
	stored := make([]storedField, 0, len(fields))
	for _, f := range fields {
		stored = append(stored, storedField{Name: f.Name, Value: f.Value})
	}
	payload, err := json.Marshal(stored)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func parseFields(raw string) ([]entity.FormField, error) {
	if raw == "" {
		return []entity.FormField{}, nil
	}
	var stored []storedField
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, err
	}
	fields := make([]entity.FormField, 0, len(stored))
	for _, f := range stored {
		fields = append(fields, entity.FormField{Name: f.Name, Value: f.Value})
	}
	return fields, nil
}

// transactionRefKey is the fixed width key the unique index is built on, so
// refTran itself can be of any length.
func transactionRefKey(ref string) string {
	sum := sha256.Sum256([]byte(ref))
	return hex.EncodeToString(sum[:])
}

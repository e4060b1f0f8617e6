package dberrors

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/mongo"
)

// IsDuplicateKeyError reports a PostgreSQL unique violation (23505) or a
// MongoDB duplicate key error.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return mongo.IsDuplicateKeyError(err)
}

// IsDuplicateConstraintError reports a unique violation on the named
// PostgreSQL constraint or MongoDB index.
func IsDuplicateConstraintError(err error, name string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == name
	}

	var we mongo.WriteException
	if !errors.As(err, &we) {
		return false
	}
	for _, e := range we.WriteErrors {
		if e.Code == 11000 && strings.Contains(e.Message, "index: "+name+" ") {
			return true
		}
	}
	return false
}

package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestIsDuplicateKeyError(t *testing.T) {
	pgDup := &pgconn.PgError{Code: "23505", ConstraintName: "students_pkey"}
	mongoDup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key"}}}

	assert.True(t, IsDuplicateKeyError(pgDup))
	assert.True(t, IsDuplicateKeyError(fmt.Errorf("insert: %w", pgDup)))
	assert.True(t, IsDuplicateKeyError(mongoDup))
	assert.False(t, IsDuplicateKeyError(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsDuplicateKeyError(errors.New("boom")))
	assert.False(t, IsDuplicateKeyError(nil))

}

func TestIsDuplicateConstraintError(t *testing.T) {
	pgDup := &pgconn.PgError{Code: "23505", ConstraintName: "students_pkey"}
	mongoDup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{
		Code:    11000,
		Message: `E11000 duplicate key error collection: school.students index: _id_ dup key: { _id: "S1" }`,
	}}}

	assert.True(t, IsDuplicateConstraintError(fmt.Errorf("insert: %w", pgDup), "students_pkey"))
	assert.False(t, IsDuplicateConstraintError(pgDup, "students_relationship_id_key"))
	assert.False(t, IsDuplicateConstraintError(&pgconn.PgError{Code: "23503", ConstraintName: "students_pkey"}, "students_pkey"))
	assert.True(t, IsDuplicateConstraintError(mongoDup, "_id_"))
	assert.False(t, IsDuplicateConstraintError(mongoDup, "correspondingRelationshipId_1"))
	assert.False(t, IsDuplicateConstraintError(errors.New("boom"), "_id_"))
}

package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yigit/schoolconnector/internal/app/models"
	"github.com/yigit/schoolconnector/internal/pkg/dberrors"
	"github.com/yigit/schoolconnector/internal/pkg/logger"
)

const (
	studentsCollection = "students"
	// index MongoDB creates on _id
	studentsIDIndex = "_id_"
)

// MongoStudentRepository stores students as documents keyed by their id
type MongoStudentRepository struct {
	coll *mongo.Collection
}

var _ StudentRepository = (*MongoStudentRepository)(nil)

// NewMongoStudentRepository creates a repository on the "students" collection of db
func NewMongoStudentRepository(db *mongo.Database) *MongoStudentRepository {
	return &MongoStudentRepository{coll: db.Collection(studentsCollection)}
}

// EnsureIndexes creates the sparse unique indexes used by the reconciler lookups
func (r *MongoStudentRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "correspondingRelationshipTemplateId", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "correspondingRelationshipId", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create student indexes: %w", err)
	}
	return nil
}

func (r *MongoStudentRepository) Create(ctx context.Context, student *models.StudentRecord) error {
	if _, err := r.coll.InsertOne(ctx, student); err != nil {
		if dberrors.IsDuplicateConstraintError(err, studentsIDIndex) {
			return ErrStudentAlreadyExists
		}
		if dberrors.IsDuplicateKeyError(err) {
			return ErrDuplicateReference
		}
		logger.Error().Err(err).Str("studentID", student.ID).Msg("Error inserting student document")
		return fmt.Errorf("error creating student: %w", err)
	}
	return nil
}

func (r *MongoStudentRepository) findOne(ctx context.Context, filter bson.M) (*models.StudentRecord, error) {
	var s models.StudentRecord
	if err := r.coll.FindOne(ctx, filter).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("error getting student: %w", err)
	}
	return &s, nil
}

func (r *MongoStudentRepository) GetByID(ctx context.Context, id string) (*models.StudentRecord, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoStudentRepository) FindByTemplateID(ctx context.Context, templateID string) (*models.StudentRecord, error) {
	return r.findOne(ctx, bson.M{"correspondingRelationshipTemplateId": templateID})
}

func (r *MongoStudentRepository) FindByRelationshipID(ctx context.Context, relationshipID string) (*models.StudentRecord, error) {
	return r.findOne(ctx, bson.M{"correspondingRelationshipId": relationshipID})
}

func (r *MongoStudentRepository) List(ctx context.Context) ([]*models.StudentRecord, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer cur.Close(ctx)

	students := []*models.StudentRecord{}
	if err := cur.All(ctx, &students); err != nil {
		return nil, fmt.Errorf("error decoding students: %w", err)
	}
	return students, nil
}

// Update replaces the whole document, so cleared fields disappear from storage.
func (r *MongoStudentRepository) Update(ctx context.Context, student *models.StudentRecord) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": student.ID}, student)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return ErrDuplicateReference
		}
		logger.Error().Err(err).Str("studentID", student.ID).Msg("Error replacing student document")
		return fmt.Errorf("error updating student: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrStudentNotFound
	}
	return nil
}

func (r *MongoStudentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting student: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrStudentNotFound
	}
	return nil
}

func (r *MongoStudentRepository) Exists(ctx context.Context, id string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("error checking student existence: %w", err)
	}
	return n > 0, nil
}

package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
)

// Repositories holds all the repository instances
type Repositories struct {
	StudentRepository StudentRepository
}

// NewPostgresRepositories initializes all repositories on a Postgres pool
func NewPostgresRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		StudentRepository: NewPostgresStudentRepository(db),
	}
}

// NewMongoRepositories initializes all repositories on a Mongo database
func NewMongoRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		StudentRepository: NewMongoStudentRepository(db),
	}
}

// NewMemoryRepositories initializes in-memory repositories
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		StudentRepository: NewMemoryStudentRepository(),
	}
}

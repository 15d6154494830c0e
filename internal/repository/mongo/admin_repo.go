package mongo

import (
	"context"
	"coursell/backend/internal/domain"
	"coursell/backend/internal/repository"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const adminCollectionName = "admins"

type mongoAdminRepository struct {
	collection *mongo.Collection
}

// NewMongoAdminRepository creates a new Admin repository backed by MongoDB.
func NewMongoAdminRepository(db *mongo.Database) repository.AdminRepository {
	return &mongoAdminRepository{
		collection: db.Collection(adminCollectionName),
	}
}

func (r *mongoAdminRepository) Create(ctx context.Context, admin *domain.Admin) (primitive.ObjectID, error) {
	if admin.Username == "" || admin.PasswordHash == "" {
		return primitive.NilObjectID, errors.New("admin username and password hash are required")
	}

	admin.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	admin.CreatedAt = now
	admin.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, admin)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

func (r *mongoAdminRepository) GetByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *mongoAdminRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Admin, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoAdminRepository) findOne(ctx context.Context, filter bson.M) (*domain.Admin, error) {
	var admin domain.Admin
	if err := r.collection.FindOne(ctx, filter).Decode(&admin); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// GetByIDs returns the admins found among ids. Unknown ids are skipped.
func (r *mongoAdminRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Admin, error) {
	admins := []domain.Admin{}
	if len(ids) == 0 {
		return admins, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &admins); err != nil {
		return nil, err
	}
	return admins, nil
}

func (r *mongoAdminRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	update := bson.M{"$set": bson.M{"password": passwordHash, "updatedAt": time.Now().UTC()}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureAdminIndexes creates necessary indexes for the admins collection.
func EnsureAdminIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

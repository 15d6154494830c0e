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

const purchaseCollectionName = "purchases"

// mongoPurchaseRepository implements repository.PurchaseRepository
type mongoPurchaseRepository struct {
	collection *mongo.Collection
}

// NewMongoPurchaseRepository creates a new Purchase repository backed by MongoDB.
func NewMongoPurchaseRepository(db *mongo.Database) repository.PurchaseRepository {
	return &mongoPurchaseRepository{
		collection: db.Collection(purchaseCollectionName),
	}
}

// Create inserts a purchase. The unique (userId, courseId) index turns a
// concurrent double purchase into ErrDuplicate.
func (r *mongoPurchaseRepository) Create(ctx context.Context, purchase *domain.Purchase) (primitive.ObjectID, error) {
	if purchase.UserID == primitive.NilObjectID || purchase.CourseID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("purchase requires userId and courseId")
	}

	purchase.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	if purchase.PurchaseDate.IsZero() {
		purchase.PurchaseDate = now
	}
	purchase.CreatedAt = now
	purchase.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, purchase)
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

// GetByUserAndCourse returns the purchase entitling userID to courseID.
func (r *mongoPurchaseRepository) GetByUserAndCourse(ctx context.Context, userID, courseID primitive.ObjectID) (*domain.Purchase, error) {
	var purchase domain.Purchase
	err := r.collection.FindOne(ctx, bson.M{"userId": userID, "courseId": courseID}).Decode(&purchase)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

// ListByUser returns every purchase made by userID, newest first.
func (r *mongoPurchaseRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Purchase, error) {
	purchases := []domain.Purchase{}
	findOptions := options.Find().SetSort(bson.D{{Key: "purchaseDate", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &purchases); err != nil {
		return nil, err
	}
	return purchases, nil
}

// Delete removes a purchase record. Only used to undo a purchase whose
// enrolment write failed.
func (r *mongoPurchaseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePurchaseIndexes creates necessary indexes for the purchases collection.
func EnsurePurchaseIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// One purchase per user and course
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "courseId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "purchaseDate", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

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

const courseCollectionName = "courses"

// mongoCourseRepository implements repository.CourseRepository
type mongoCourseRepository struct {
	collection *mongo.Collection
}

// NewMongoCourseRepository creates a new Course repository backed by MongoDB.
func NewMongoCourseRepository(db *mongo.Database) repository.CourseRepository {
	return &mongoCourseRepository{
		collection: db.Collection(courseCollectionName),
	}
}

// Create inserts a new course. Nil slices are stored as empty arrays.
func (r *mongoCourseRepository) Create(ctx context.Context, course *domain.Course) (primitive.ObjectID, error) {
	if course.Title == "" || course.CreatorID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("course title and creator ID are required")
	}

	course.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now
	if course.Videos == nil {
		course.Videos = []domain.Video{}
	}
	if course.EnrolledStudents == nil {
		course.EnrolledStudents = []primitive.ObjectID{}
	}

	result, err := r.collection.InsertOne(ctx, course)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a course by its ID.
func (r *mongoCourseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Course, error) {
	var course domain.Course
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&course)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &course, nil
}

// GetByIDs retrieves the courses among ids. Missing ids are skipped.
func (r *mongoCourseRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Course, error) {
	if len(ids) == 0 {
		return []domain.Course{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

// List returns courses matching the filter, newest first.
func (r *mongoCourseRepository) List(ctx context.Context, filter repository.CourseFilter) ([]domain.Course, error) {
	query := bson.M{}
	if filter.PublishedOnly {
		query["published"] = true
	}
	if filter.CreatorID != nil {
		query["creatorId"] = *filter.CreatorID
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, query, findOptions)
}

func (r *mongoCourseRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Course, error) {
	courses := []domain.Course{}
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// Update overwrites the editable fields of a course owned by course.CreatorID.
func (r *mongoCourseRepository) Update(ctx context.Context, course *domain.Course) error {
	if course.ID == primitive.NilObjectID {
		return errors.New("course ID is required for update")
	}

	course.UpdatedAt = time.Now().UTC()
	filter := bson.M{"_id": course.ID, "creatorId": course.CreatorID}
	// creatorId, videos, enrolledStudents and reviews have dedicated writers.
	update := bson.M{
		"$set": bson.M{
			"title":       course.Title,
			"description": course.Description,
			"price":       course.Price,
			"category":    course.Category,
			"level":       course.Level,
			"imageLink":   course.ImageLink,
			"content":     course.Content,
			"published":   course.Published,
			"updatedAt":   course.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a course, ensuring it belongs to the specified admin.
func (r *mongoCourseRepository) Delete(ctx context.Context, id, creatorID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "creatorId": creatorID})
	if err != nil {
		return err
	}
	// Not found and not owned look the same on purpose.
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ReplaceVideos swaps the whole embedded video list of a course owned by creatorID.
func (r *mongoCourseRepository) ReplaceVideos(ctx context.Context, id, creatorID primitive.ObjectID, videos []domain.Video) error {
	if videos == nil {
		videos = []domain.Video{}
	}
	filter := bson.M{"_id": id, "creatorId": creatorID}
	update := bson.M{"$set": bson.M{"videos": videos, "updatedAt": time.Now().UTC()}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// AddEnrolledStudent adds userID to the course's enrolled list.
func (r *mongoCourseRepository) AddEnrolledStudent(ctx context.Context, courseID, userID primitive.ObjectID) error {
	update := bson.M{
		"$addToSet": bson.M{"enrolledStudents": userID}, // $addToSet keeps a retried enrolment idempotent
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": courseID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpsertReview rewrites the reviews array and the rating in a single
// pipeline update, so concurrent reviewers never overwrite each other.
func (r *mongoCourseRepository) UpsertReview(ctx context.Context, courseID primitive.ObjectID, review domain.Review) (*domain.Course, error) {
	reviews := bson.D{{Key: "$ifNull", Value: bson.A{"$reviews", bson.A{}}}}
	// $literal keeps a comment starting with "$" from being read as a field path.
	literal := bson.D{{Key: "$literal", Value: review}}
	isSameUser := bson.D{{Key: "$eq", Value: bson.A{"$$this.userId", review.UserID}}}

	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "reviews", Value: bson.D{{Key: "$cond", Value: bson.D{
			{Key: "if", Value: bson.D{{Key: "$in", Value: bson.A{review.UserID, bson.D{{Key: "$ifNull", Value: bson.A{"$reviews.userId", bson.A{}}}}}}}},
			{Key: "then", Value: bson.D{{Key: "$map", Value: bson.D{
				{Key: "input", Value: reviews},
				{Key: "in", Value: bson.D{{Key: "$cond", Value: bson.A{isSameUser, literal, "$$this"}}}},
			}}}},
			{Key: "else", Value: bson.D{{Key: "$concatArrays", Value: bson.A{reviews, bson.A{literal}}}}},
		}}}}}}},
		{{Key: "$set", Value: bson.D{
			{Key: "rating", Value: bson.D{{Key: "$avg", Value: "$reviews.rating"}}},
			{Key: "updatedAt", Value: time.Now().UTC()},
		}}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var course domain.Course
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": courseID}, pipeline, opts).Decode(&course)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &course, nil
}

// EnsureCourseIndexes creates necessary indexes for the courses collection.
func EnsureCourseIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Admin dashboards list courses by creator
			Keys:    bson.D{{Key: "creatorId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			// Public catalog lists published courses only
			Keys:    bson.D{{Key: "published", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

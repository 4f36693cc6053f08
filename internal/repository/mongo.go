package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"task-manager/internal/models"
)

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Password  string             `bson:"password"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d userDocument) model() *models.User {
	return &models.User{
		ID:        d.ID.Hex(),
		Username:  d.Username,
		Password:  d.Password,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type taskDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Status      models.Status      `bson:"status"`
	Priority    models.Priority    `bson:"priority"`
	DueDate     *time.Time         `bson:"dueDate,omitempty"`
	UserID      string             `bson:"userId"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d taskDocument) model() models.Task {
	return models.Task{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Status:      d.Status,
		Priority:    d.Priority,
		DueDate:     d.DueDate,
		UserID:      d.UserID,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// EnsureMongoIndexes creates the unique username index and the task owner
// index.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users index: %w", err)
	}
	_, err = db.Collection("tasks").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create tasks index: %w", err)
	}
	return nil
}

type MongoUserRepository struct {
	users *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{users: db.Collection("users")}
}

func (r *MongoUserRepository) Create(ctx context.Context, u *models.User) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := userDocument{
		ID:        primitive.NewObjectID(),
		Username:  u.Username,
		Password:  u.Password,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	*u = *doc.model()
	return nil
}

func (r *MongoUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var doc userDocument
	err := r.users.FindOne(ctx, bson.M{"username": username}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.model(), nil
}

type MongoTaskRepository struct {
	tasks *mongo.Collection
}

func NewMongoTaskRepository(db *mongo.Database) *MongoTaskRepository {
	return &MongoTaskRepository{tasks: db.Collection("tasks")}
}

// ownedBy builds the id+owner selector. A malformed id can never match.
func ownedBy(id, userID string) (bson.M, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false
	}
	return bson.M{"_id": oid, "userId": userID}, true
}

func (r *MongoTaskRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Task, error) {
	opts = append([]*options.FindOptions{options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})}, opts...)
	cur, err := r.tasks.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	defer cur.Close(ctx)

	tasks := []models.Task{}
	for cur.Next(ctx) {
		var doc taskDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode task: %w", err)
		}
		tasks = append(tasks, doc.model())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func (r *MongoTaskRepository) Create(ctx context.Context, t *models.Task) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := taskDocument{
		ID:          primitive.NewObjectID(),
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		UserID:      t.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := r.tasks.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	*t = doc.model()
	return nil
}

func (r *MongoTaskRepository) List(ctx context.Context, userID string, offset, limit int) ([]models.Task, error) {
	return r.find(ctx, bson.M{"userId": userID},
		options.Find().SetSkip(int64(offset)).SetLimit(int64(limit)))
}

func (r *MongoTaskRepository) FindByID(ctx context.Context, id, userID string) (*models.Task, error) {
	filter, ok := ownedBy(id, userID)
	if !ok {
		return nil, ErrNotFound
	}
	var doc taskDocument
	err := r.tasks.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	t := doc.model()
	return &t, nil
}

func (r *MongoTaskRepository) Update(ctx context.Context, id, userID string, patch models.TaskPatch) (*models.Task, error) {
	filter, ok := ownedBy(id, userID)
	if !ok {
		return nil, ErrNotFound
	}
	set := bson.M{"updatedAt": time.Now().UTC().Truncate(time.Millisecond)}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.Priority != nil {
		set["priority"] = *patch.Priority
	}
	if patch.DueDate != nil {
		set["dueDate"] = *patch.DueDate
	}

	var doc taskDocument
	err := r.tasks.FindOneAndUpdate(ctx, filter, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	t := doc.model()
	return &t, nil
}

func (r *MongoTaskRepository) Delete(ctx context.Context, id, userID string) error {
	filter, ok := ownedBy(id, userID)
	if !ok {
		return ErrNotFound
	}
	res, err := r.tasks.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoTaskRepository) SearchByTitle(ctx context.Context, userID, title string) ([]models.Task, error) {
	return r.find(ctx, bson.M{
		"userId": userID,
		"title":  primitive.Regex{Pattern: regexp.QuoteMeta(title), Options: "i"},
	})
}

func (r *MongoTaskRepository) Filter(ctx context.Context, userID string, filter models.TaskFilter) ([]models.Task, error) {
	query := bson.M{"userId": userID}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}
	return r.find(ctx, query)
}

package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"wanderbook-server/models"
	"wanderbook-server/utils/errors"
)

type UserRepo struct {
	collection *mongo.Collection
}

func NewUserRepo(client *mongo.Client) *UserRepo {
	collection := client.Database(databaseName).Collection(usersCollection)

	// Ensure unique index on username. The services also pre-check before
	// inserting; the index closes the race between the check and the write.
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(context.Background(), indexModel); err != nil {
		zap.L().Warn("failed to create unique index on users", zap.Error(err))
	}

	return &UserRepo{collection: collection}
}

func (r *UserRepo) Insert(ctx context.Context, u *models.User) error {
	_, err := r.collection.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return errors.ErrUsernameTaken
	}
	return err
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"username": bson.M{"$eq": username}}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) UpdateProfile(ctx context.Context, id, bio, location, profilePicture string) error {
	update := bson.M{
		"$set": bson.M{
			"bio":             bio,
			"location":        location,
			"profile_picture": profilePicture,
		},
	}
	return r.updateOne(ctx, id, update)
}

func (r *UserRepo) AddToSet(ctx context.Context, id, field, memberID string) error {
	return r.updateOne(ctx, id, bson.M{"$addToSet": bson.M{field: memberID}})
}

func (r *UserRepo) Pull(ctx context.Context, id, field, memberID string) error {
	return r.updateOne(ctx, id, bson.M{"$pull": bson.M{field: memberID}})
}

func (r *UserRepo) SetBucketListItems(ctx context.Context, id string, items []models.BucketListItem) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"bucket_list_items": items}})
}

func (r *UserRepo) updateOne(ctx context.Context, id string, update bson.M) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.ErrNotFound
	}
	return nil
}

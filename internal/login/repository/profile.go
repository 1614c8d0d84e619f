package repository

import (
	"context"
	"fmt"
	"time"

	"doctortravel/pkg/config"
	"doctortravel/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProfileRepository interface {
	// Merge creates users/{id} or updates its email, name and last login,
	// leaving any other fields untouched.
	Merge(ctx context.Context, profile *model.UserProfile) error
}

type mongoProfileRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoProfileRepository(cfg *config.Config) ProfileRepository {
	return &mongoProfileRepository{
		cfg:        cfg,
		collection: cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(ProfilesCollection),
	}
}

func (r *mongoProfileRepository) Merge(ctx context.Context, profile *model.UserProfile) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	lastLogin := profile.LastLogin.UTC().Truncate(time.Millisecond)
	update := bson.M{
		"$set": bson.M{
			"email":      profile.Email,
			"name":       profile.Name,
			"last_login": lastLogin,
		},
		"$setOnInsert": bson.M{
			"created_at": lastLogin,
		},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": profile.UserID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to merge user profile: %w", err)
	}
	return nil
}

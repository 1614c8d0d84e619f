package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	loginerrors "doctortravel/internal/login/errors"
	"doctortravel/pkg/config"
	"doctortravel/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CodesCollection    = "2fa"
	ProfilesCollection = "users"
)

type CodeRepository interface {
	// Save replaces the user's live code.
	Save(ctx context.Context, code *model.TwoFactorCode) error
	Find(ctx context.Context, userID string) (*model.TwoFactorCode, error)
}

type mongoCodeRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoCodeRepository(cfg *config.Config) CodeRepository {
	return &mongoCodeRepository{
		cfg:        cfg,
		collection: cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(CodesCollection),
	}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return context.WithDeadline(ctx, deadline)
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoCodeRepository) Save(ctx context.Context, code *model.TwoFactorCode) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.ReplaceOne(ctx,
		bson.M{"_id": code.UserID},
		code,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save 2FA code: %w", err)
	}
	return nil
}

func (r *mongoCodeRepository) Find(ctx context.Context, userID string) (*model.TwoFactorCode, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var code model.TwoFactorCode
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&code)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, loginerrors.ErrCodeNotFound
		}
		return nil, fmt.Errorf("failed to find 2FA code: %w", err)
	}
	return &code, nil
}

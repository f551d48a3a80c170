package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/pattadonj/member-auth-api/internal/model"
)

// AccountRepository defines the interface for account-related database
// operations. Uniqueness of email and google_id is enforced by the store;
// violations surface as duplicate-key errors on create.
type AccountRepository interface {
	CreateAccount(ctx context.Context, account *model.Account) (*model.Account, error)
	GetAccount(ctx context.Context, id string) (*model.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*model.Account, error)
	GetAccountByGoogleID(ctx context.Context, googleID string) (*model.Account, error)
	UpdateAccount(ctx context.Context, id string, params UpdateAccountParams) (*model.Account, error)
}

// UpdateAccountParams defines the optional parameters for updating an
// account. Only the fields that are not nil will be touched. An empty
// verification code or a zero expiry clears the stored value.
type UpdateAccountParams struct {
	Verified                  *bool
	VerificationCode          *string
	VerificationCodeExpiresAt *time.Time
}

const accountCollection = "accounts"

type accountMongoRepository struct {
	db *mongo.Database
}

func NewAccountMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) AccountRepository {
	collection := db.Collection(accountCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "google_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create account indexes")
	}

	return &accountMongoRepository{db: db}
}

func (r *accountMongoRepository) CreateAccount(ctx context.Context, account *model.Account) (*model.Account, error) {
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	result, err := r.db.Collection(accountCollection).InsertOne(ctx, account)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		account.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return account, nil
}

func (r *accountMongoRepository) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	return r.findOne(ctx, bson.M{"_id": objectID})
}

func (r *accountMongoRepository) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *accountMongoRepository) GetAccountByGoogleID(ctx context.Context, googleID string) (*model.Account, error) {
	return r.findOne(ctx, bson.M{"google_id": googleID})
}

func (r *accountMongoRepository) UpdateAccount(
	ctx context.Context,
	id string,
	params UpdateAccountParams,
) (*model.Account, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	// Build update query
	setMap := bson.M{}
	unsetMap := bson.M{}
	if params.Verified != nil {
		setMap["verified"] = *params.Verified
	}
	if params.VerificationCode != nil {
		if *params.VerificationCode == "" {
			unsetMap["verification_code"] = ""
		} else {
			setMap["verification_code"] = *params.VerificationCode
		}
	}
	if params.VerificationCodeExpiresAt != nil {
		if params.VerificationCodeExpiresAt.IsZero() {
			unsetMap["verification_code_expires_at"] = ""
		} else {
			setMap["verification_code_expires_at"] = *params.VerificationCodeExpiresAt
		}
	}

	if len(setMap) == 0 && len(unsetMap) == 0 {
		return nil, errors.New("no account fields to update")
	}

	setMap["updated_at"] = time.Now()

	update := bson.M{"$set": setMap}
	if len(unsetMap) > 0 {
		update["$unset"] = unsetMap
	}

	result := r.db.Collection(accountCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var account model.Account
	if err := result.Decode(&account); err != nil {
		return nil, err
	}

	return &account, nil
}

func (r *accountMongoRepository) findOne(ctx context.Context, filter bson.M) (*model.Account, error) {
	result := r.db.Collection(accountCollection).FindOne(ctx, filter)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var account model.Account
	if err := result.Decode(&account); err != nil {
		return nil, err
	}

	return &account, nil
}

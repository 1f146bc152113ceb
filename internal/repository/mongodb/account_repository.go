package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"flywise/internal/domain"
	"flywise/internal/repository"
)

type accountDocument struct {
	ID            bson.ObjectID `bson:"_id,omitempty"`
	UserID        string        `bson:"user_id"`
	AccountNumber string        `bson:"account_number"`
	CreatedAt     time.Time     `bson:"created_at"`
}

func (d accountDocument) toDomain() domain.AccountNumber {
	return domain.AccountNumber{
		ID:            d.ID.Hex(),
		UserID:        d.UserID,
		AccountNumber: d.AccountNumber,
		CreatedAt:     d.CreatedAt,
	}
}

type AccountRepository struct {
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) repository.AccountRepository {
	return &AccountRepository{coll: db.Collection(accountsCollection)}
}

func (r *AccountRepository) Init(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "account_number", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_user_account_number"),
	})
	if err != nil {
		return fmt.Errorf("create accountnumbers index: %w", err)
	}
	return nil
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.AccountNumber) (string, error) {
	doc := accountDocument{
		ID:            bson.NewObjectID(),
		UserID:        account.UserID,
		AccountNumber: account.AccountNumber,
		CreatedAt:     time.Now().UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("insert account number: %w", repository.ErrDuplicate)
		}
		return "", fmt.Errorf("insert account number: %w", err)
	}
	account.ID = doc.ID.Hex()
	account.CreatedAt = doc.CreatedAt
	return account.ID, nil
}

func (r *AccountRepository) Find(ctx context.Context, userID, accountNumber string) (*domain.AccountNumber, error) {
	var doc accountDocument
	err := r.coll.FindOne(ctx, ownedAccountFilter(userID, accountNumber)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("account number: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("find account number: %w", err)
	}
	account := doc.toDomain()
	return &account, nil
}

func (r *AccountRepository) Delete(ctx context.Context, userID, accountNumber string) (int64, error) {
	res, err := r.coll.DeleteOne(ctx, ownedAccountFilter(userID, accountNumber))
	if err != nil {
		return 0, fmt.Errorf("delete account number: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *AccountRepository) ListByUser(ctx context.Context, userID string) ([]domain.AccountNumber, error) {
	cur, err := r.coll.Find(ctx,
		bson.D{{Key: "user_id", Value: userID}},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("query account numbers: %w", err)
	}

	var docs []accountDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode account numbers: %w", err)
	}

	accounts := make([]domain.AccountNumber, len(docs))
	for i := range docs {
		accounts[i] = docs[i].toDomain()
	}
	return accounts, nil
}

func ownedAccountFilter(userID, accountNumber string) bson.D {
	return bson.D{
		{Key: "user_id", Value: userID},
		{Key: "account_number", Value: accountNumber},
	}
}

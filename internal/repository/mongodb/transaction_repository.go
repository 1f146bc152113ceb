package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"flywise/internal/domain"
	"flywise/internal/repository"
)

type transactionDocument struct {
	ID              bson.ObjectID `bson:"_id,omitempty"`
	UserID          string        `bson:"user_id"`
	AccountNumber   string        `bson:"account_number,omitempty"`
	Direction       string        `bson:"credited_debited"`
	Amount          float64       `bson:"amount"`
	Date            string        `bson:"date"`
	ReferenceNumber string        `bson:"reference_number,omitempty"`
	Counterparty    string        `bson:"to_from,omitempty"`
	Source          string        `bson:"source"`
	CreatedAt       time.Time     `bson:"created_at"`
}

type TransactionRepository struct {
	coll *mongo.Collection
}

func NewTransactionRepository(db *mongo.Database) repository.TransactionRepository {
	return &TransactionRepository{coll: db.Collection(transactionsCollection)}
}

func (r *TransactionRepository) Init(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_user_id"),
		},
		{
			// cash entries carry no reference number and stay outside the index
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "reference_number", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("uniq_user_reference_number").
				SetPartialFilterExpression(bson.D{{Key: "reference_number", Value: bson.D{{Key: "$type", Value: "string"}}}}),
		},
	})
	if err != nil {
		return fmt.Errorf("create transactions indexes: %w", err)
	}
	return nil
}

func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) (string, error) {
	doc := transactionDocument{
		ID:              bson.NewObjectID(),
		UserID:          tx.UserID,
		AccountNumber:   tx.AccountNumber,
		Direction:       tx.Direction,
		Amount:          tx.Amount,
		Date:            tx.Date,
		ReferenceNumber: tx.ReferenceNumber,
		Counterparty:    tx.Counterparty,
		Source:          string(tx.Source),
		CreatedAt:       time.Now().UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("insert transaction: %w", repository.ErrDuplicate)
		}
		return "", fmt.Errorf("insert transaction: %w", err)
	}
	tx.ID = doc.ID.Hex()
	tx.CreatedAt = doc.CreatedAt
	return tx.ID, nil
}

func (r *TransactionRepository) ExistsReference(ctx context.Context, userID, referenceNumber string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx,
		bson.D{
			{Key: "user_id", Value: userID},
			{Key: "reference_number", Value: referenceNumber},
		},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, fmt.Errorf("count transactions by reference: %w", err)
	}
	return count > 0, nil
}

func (r *TransactionRepository) ListByUser(ctx context.Context, userID string) ([]domain.Transaction, error) {
	cur, err := r.coll.Find(ctx,
		bson.D{{Key: "user_id", Value: userID}},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}

	var docs []transactionDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}

	txs := make([]domain.Transaction, len(docs))
	for i, doc := range docs {
		txs[i] = domain.Transaction{
			ID:              doc.ID.Hex(),
			UserID:          doc.UserID,
			AccountNumber:   doc.AccountNumber,
			Direction:       doc.Direction,
			Amount:          doc.Amount,
			Date:            doc.Date,
			ReferenceNumber: doc.ReferenceNumber,
			Counterparty:    doc.Counterparty,
			Source:          domain.TransactionSource(doc.Source),
			CreatedAt:       doc.CreatedAt,
		}
	}
	return txs, nil
}

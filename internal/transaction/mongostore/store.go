// Package mongostore keeps transactions as documents in a MongoDB collection.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MrJamesThe3rd/moneymanager/internal/transaction"
)

const collectionName = "transactions"

type Store struct {
	coll *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{coll: db.Collection(collectionName)}
}

// EnsureIndexes creates the indexes used by listing, filtering and aggregation.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "transactionDate", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "division", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("creating indexes: %w", err)
	}

	return nil
}

type document struct {
	ID              string               `bson:"_id"`
	Type            string               `bson:"type"`
	Amount          primitive.Decimal128 `bson:"amount"`
	Category        string               `bson:"category"`
	Division        string               `bson:"division"`
	Description     string               `bson:"description"`
	TransactionDate time.Time            `bson:"transactionDate"`
	SourceAccount   string               `bson:"sourceAccount,omitempty"`
	TargetAccount   string               `bson:"targetAccount,omitempty"`
	CreatedAt       time.Time            `bson:"createdAt"`
	UpdatedAt       time.Time            `bson:"updatedAt"`
}

func toDocument(tx *transaction.Transaction) (document, error) {
	amount, err := toDecimal128(tx.Amount)
	if err != nil {
		return document{}, err
	}

	return document{
		ID:              tx.ID.String(),
		Type:            string(tx.Type),
		Amount:          amount,
		Category:        tx.Category,
		Division:        string(tx.Division),
		Description:     tx.Description,
		TransactionDate: tx.TransactionDate.UTC(),
		SourceAccount:   tx.SourceAccount,
		TargetAccount:   tx.TargetAccount,
		CreatedAt:       tx.CreatedAt.UTC(),
		UpdatedAt:       tx.UpdatedAt.UTC(),
	}, nil
}

func (d document) toTransaction() (*transaction.Transaction, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("parsing id %q: %w", d.ID, err)
	}

	amount, err := fromDecimal128(d.Amount)
	if err != nil {
		return nil, err
	}

	return &transaction.Transaction{
		ID:              id,
		Type:            transaction.Type(d.Type),
		Amount:          amount,
		Category:        d.Category,
		Division:        transaction.Division(d.Division),
		Description:     d.Description,
		TransactionDate: d.TransactionDate.UTC(),
		SourceAccount:   d.SourceAccount,
		TargetAccount:   d.TargetAccount,
		CreatedAt:       d.CreatedAt.UTC(),
		UpdatedAt:       d.UpdatedAt.UTC(),
	}, nil
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("converting amount %s: %w", d, err)
	}

	return v, nil
}

func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("converting amount %s: %w", v, err)
	}

	return d, nil
}

// newDocuments builds insertable documents under fresh ids. The inputs are
// left untouched so a failed insert never leaves an id behind.
func newDocuments(txs []*transaction.Transaction) ([]any, []uuid.UUID, error) {
	docs := make([]any, len(txs))
	ids := make([]uuid.UUID, len(txs))

	for i, tx := range txs {
		doc, err := toDocument(tx)
		if err != nil {
			return nil, nil, err
		}

		ids[i] = uuid.New()
		doc.ID = ids[i].String()
		docs[i] = doc
	}

	return docs, ids, nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	docs, ids, err := newDocuments([]*transaction.Transaction{tx})
	if err != nil {
		return err
	}

	if _, err := s.coll.InsertOne(ctx, docs[0]); err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	tx.ID = ids[0]

	return nil
}

func (s *Store) CreateTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	docs, ids, err := newDocuments(txs)
	if err != nil {
		return err
	}

	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("creating transactions: %w", err)
	}

	for i, tx := range txs {
		tx.ID = ids[i]
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	var doc document

	err := s.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return doc.toTransaction()
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	doc, err := toDocument(tx)
	if err != nil {
		return err
	}

	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	if res.MatchedCount == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	if res.DeletedCount == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

var newestFirst = bson.D{{Key: "transactionDate", Value: -1}, {Key: "_id", Value: 1}}

func (s *Store) ListPage(ctx context.Context, offset, limit int) ([]*transaction.Transaction, int64, error) {
	total, err := s.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, 0, fmt.Errorf("counting transactions: %w", err)
	}

	opts := options.Find().
		SetSort(newestFirst).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	txs, err := s.find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, 0, err
	}

	return txs, total, nil
}

// filterDocument builds the AND of every supplied filter field.
func filterDocument(filter transaction.ListFilter) bson.D {
	q := bson.D{}

	date := bson.D{}
	if filter.StartDate != nil {
		date = append(date, bson.E{Key: "$gte", Value: filter.StartDate.UTC()})
	}

	if filter.EndDate != nil {
		date = append(date, bson.E{Key: "$lt", Value: filter.EndDate.UTC()})
	}

	if len(date) > 0 {
		q = append(q, bson.E{Key: "transactionDate", Value: date})
	}

	if filter.Category != nil {
		q = append(q, bson.E{Key: "category", Value: *filter.Category})
	}

	if filter.Division != nil {
		q = append(q, bson.E{Key: "division", Value: string(*filter.Division)})
	}

	return q
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	return s.find(ctx, filterDocument(filter), options.Find().SetSort(newestFirst))
}

func (s *Store) find(ctx context.Context, q bson.D, opts *options.FindOptions) ([]*transaction.Transaction, error) {
	cur, err := s.coll.Find(ctx, q, opts)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer cur.Close(ctx)

	txs := []*transaction.Transaction{}

	for cur.Next(ctx) {
		var doc document
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding transaction: %w", err)
		}

		tx, err := doc.toTransaction()
		if err != nil {
			return nil, err
		}

		txs = append(txs, tx)
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func windowMatch(window transaction.Window) bson.E {
	return bson.E{Key: "transactionDate", Value: bson.D{
		{Key: "$gte", Value: window.Start},
		{Key: "$lt", Value: window.End},
	}}
}

func (s *Store) SumAmount(ctx context.Context, window transaction.Window, txType transaction.Type) (decimal.Decimal, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{windowMatch(window), {Key: "type", Value: string(txType)}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
	}

	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing amounts: %w", err)
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return decimal.Zero, fmt.Errorf("summing amounts: %w", err)
		}

		return decimal.Zero, nil
	}

	var result struct {
		Total primitive.Decimal128 `bson:"total"`
	}

	if err := cur.Decode(&result); err != nil {
		return decimal.Zero, fmt.Errorf("decoding sum: %w", err)
	}

	return fromDecimal128(result.Total)
}

func (s *Store) SumByCategory(ctx context.Context, window transaction.Window) ([]transaction.CategoryTotal, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{windowMatch(window)}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "category", Value: "$category"}, {Key: "type", Value: "$type"}}},
			{Key: "totalAmount", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id.category", Value: 1}, {Key: "_id.type", Value: 1}}}},
	}

	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("summing by category: %w", err)
	}
	defer cur.Close(ctx)

	totals := []transaction.CategoryTotal{}

	for cur.Next(ctx) {
		var row struct {
			ID struct {
				Category string `bson:"category"`
				Type     string `bson:"type"`
			} `bson:"_id"`
			TotalAmount primitive.Decimal128 `bson:"totalAmount"`
		}

		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decoding category total: %w", err)
		}

		amount, err := fromDecimal128(row.TotalAmount)
		if err != nil {
			return nil, err
		}

		totals = append(totals, transaction.CategoryTotal{
			Category:    row.ID.Category,
			Type:        transaction.Type(row.ID.Type),
			TotalAmount: amount,
		})
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterating category totals: %w", err)
	}

	return totals, nil
}

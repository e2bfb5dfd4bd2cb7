package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// DefaultPageSize is used when a list request asks for a non-positive size.
	DefaultPageSize = 10

	// EditWindow is how long after creation a transaction may still be updated.
	EditWindow = 12 * time.Hour
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error

	ListPage(ctx context.Context, offset, limit int) ([]*Transaction, int64, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)

	SumAmount(ctx context.Context, window Window, txType Type) (decimal.Decimal, error)
	SumByCategory(ctx context.Context, window Window) ([]CategoryTotal, error)
}

type Service struct {
	repo Repository
	now  func() time.Time
}

type Option func(*Service)

// WithClock replaces the wall clock used for timestamps, the edit window and
// period windows.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

type CreateParams struct {
	Type            Type
	Amount          decimal.Decimal
	Category        string
	Division        Division
	Description     string
	TransactionDate time.Time
	SourceAccount   string
	TargetAccount   string
}

// ListFilter narrows a listing. Nil fields are unconstrained; EndDate is exclusive.
type ListFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Category  *string
	Division  *Division
}

func (s *Service) clock() time.Time {
	return s.now().UTC()
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	now := s.clock()

	tx := &Transaction{CreatedAt: now, UpdatedAt: now}
	params.apply(tx)

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// ImportBatch stores all params in a single repository call. There is no
// duplicate detection.
func (s *Service) ImportBatch(ctx context.Context, params []CreateParams) ([]*Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	now := s.clock()

	txs := make([]*Transaction, len(params))
	for i, p := range params {
		txs[i] = &Transaction{CreatedAt: now, UpdatedAt: now}
		p.apply(txs[i])
	}

	if err := s.repo.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("import transactions: %w", err)
	}

	return txs, nil
}

func (s *Service) List(ctx context.Context, page, size int) (*Page, error) {
	if page < 0 {
		page = 0
	}

	if size <= 0 {
		size = DefaultPageSize
	}

	items, total, err := s.repo.ListPage(ctx, page*size, size)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(size) - 1) / int64(size))

	return &Page{
		Items:         items,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
		Last:          page+1 >= totalPages,
	}, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

// Update replaces every mutable field of the transaction. It is only allowed
// while fewer than 13 whole hours have passed since CreatedAt.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params CreateParams) (*Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock()

	if editWindowExpired(tx.CreatedAt, now) {
		return nil, ErrEditWindowExpired
	}

	params.apply(tx)
	tx.UpdatedAt = now

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTransaction(ctx, id)
}

func (s *Service) Filter(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	if filter.Category != nil && *filter.Category == "" {
		filter.Category = nil
	}

	return s.repo.ListTransactions(ctx, filter)
}

func (s *Service) DashboardStats(ctx context.Context, period string) (*DashboardStats, error) {
	window := WindowFor(ParsePeriod(period), s.clock())

	income, err := s.repo.SumAmount(ctx, window, TypeIncome)
	if err != nil {
		return nil, fmt.Errorf("summing income: %w", err)
	}

	expense, err := s.repo.SumAmount(ctx, window, TypeExpense)
	if err != nil {
		return nil, fmt.Errorf("summing expense: %w", err)
	}

	return &DashboardStats{
		TotalIncome:  income,
		TotalExpense: expense,
		Balance:      income.Sub(expense),
	}, nil
}

func (s *Service) CategorySummary(ctx context.Context, period string) ([]CategoryTotal, error) {
	window := WindowFor(ParsePeriod(period), s.clock())

	totals, err := s.repo.SumByCategory(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("summing categories: %w", err)
	}

	return totals, nil
}

// editWindowExpired compares in whole hours, truncating toward zero.
func editWindowExpired(createdAt, now time.Time) bool {
	hours := int64(now.Sub(createdAt) / time.Hour)

	return hours > int64(EditWindow/time.Hour)
}

func (p CreateParams) apply(tx *Transaction) {
	tx.Type = p.Type
	tx.Amount = p.Amount
	tx.Category = p.Category
	tx.Division = p.Division
	tx.Description = p.Description
	tx.TransactionDate = p.TransactionDate.UTC()
	tx.SourceAccount = p.SourceAccount
	tx.TargetAccount = p.TargetAccount
}

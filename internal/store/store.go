// Package store holds confirmed transactions, the pending candidate batch and
// the category memory for one running service.
//
// State lives in memory only. Every mutation swaps in a new slice, so a
// reader never sees a half-applied change.
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rocjay1/statement-ocr/internal/classify"
	"github.com/rocjay1/statement-ocr/internal/models"
	"github.com/shopspring/decimal"
)

var (
	// ErrCandidateNotFound is returned for an index outside the pending batch.
	ErrCandidateNotFound = errors.New("candidate not found")
	// ErrInvalidEntry is returned when a manual entry fails validation.
	ErrInvalidEntry = errors.New("invalid transaction entry")
	// ErrUnknownCategory is returned when a candidate is given a category
	// outside the closed set.
	ErrUnknownCategory = errors.New("unknown category")
)

// ManualEntry is a transaction typed in by the user. Category is free text;
// when empty, the classifier suggests one.
type ManualEntry struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Category    models.Category `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
}

// Store is safe for concurrent use.
type Store struct {
	mu           sync.Mutex
	transactions []models.Transaction
	candidates   []models.ParsedTransaction
	memory       classify.Memory
	budget       models.BudgetPlan
	generation   uint64
	batch        uint64
	newID        func() string
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the UUID generator used for new transactions.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// WithTransactions seeds the confirmed list, most recent first.
func WithTransactions(transactions ...models.Transaction) Option {
	return func(s *Store) {
		s.transactions = append([]models.Transaction(nil), transactions...)
	}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		memory: classify.Memory{},
		budget: models.DefaultBudgetPlan(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddManual validates entry, assigns it an id, prepends it to the confirmed
// list and remembers its category.
func (s *Store) AddManual(entry ManualEntry) (models.Transaction, error) {
	description := strings.TrimSpace(entry.Description)
	if description == "" {
		return models.Transaction{}, fmt.Errorf("%w: description is required", ErrInvalidEntry)
	}
	if _, err := time.Parse("2006-01-02", entry.Date); err != nil {
		return models.Transaction{}, fmt.Errorf("%w: invalid date %q", ErrInvalidEntry, entry.Date)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	category := models.Category(strings.TrimSpace(string(entry.Category)))
	if category == "" {
		category = classify.Classify(description, s.memory)
	}

	tx := models.Transaction{
		ID:          s.newID(),
		Date:        entry.Date,
		Description: description,
		Category:    category,
		Amount:      entry.Amount,
	}

	s.transactions = append([]models.Transaction{tx}, s.transactions...)
	s.memory.Remember(description, category)

	slog.Info("added manual transaction", "id", tx.ID, "category", tx.Category, "known_category", category.IsKnown())
	return tx, nil
}

// ConfirmBatch assigns ids to candidates and places them, in order, ahead of
// every existing transaction. Each candidate updates the memory; later ones
// overwrite earlier ones with the same normalized description.
func (s *Store) ConfirmBatch(candidates []models.ParsedTransaction) []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confirmLocked(candidates)
}

// ConfirmPending confirms the pending batch and clears it. A non-zero batch
// must match the generation of the pending candidates.
func (s *Store) ConfirmPending(batch uint64) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkBatchLocked(batch); err != nil {
		return nil, err
	}
	confirmed := s.confirmLocked(s.candidates)
	s.candidates = nil
	return confirmed, nil
}

func (s *Store) confirmLocked(candidates []models.ParsedTransaction) []models.Transaction {
	if len(candidates) == 0 {
		return []models.Transaction{}
	}

	batch := make([]models.Transaction, 0, len(candidates))
	for _, c := range candidates {
		batch = append(batch, c.Confirm(s.newID()))
		s.memory.Remember(c.Description, c.Category)
	}

	merged := make([]models.Transaction, 0, len(batch)+len(s.transactions))
	merged = append(merged, batch...)
	merged = append(merged, s.transactions...)
	s.transactions = merged

	slog.Info("confirmed candidate batch", "count", len(batch), "total_transactions", len(merged), "memory_size", len(s.memory))
	return append([]models.Transaction(nil), batch...)
}

// UpdateCandidateCategory sets the category of the pending candidate at
// index. The memory is untouched until the batch is confirmed.
//
// The candidate edit methods take the generation of the batch the caller
// is looking at; zero skips the check. A mismatch means a newer scan has
// replaced the batch and is reported as ErrCandidateNotFound.
func (s *Store) UpdateCandidateCategory(batch uint64, index int, category models.Category) error {
	if !category.IsKnown() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkIndexLocked(batch, index); err != nil {
		return err
	}
	s.setCategoryLocked(index, category)
	return nil
}

// CycleCandidateCategory advances the candidate at index to the next
// category in the closed set and returns it.
func (s *Store) CycleCandidateCategory(batch uint64, index int) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkIndexLocked(batch, index); err != nil {
		return "", err
	}
	next := s.candidates[index].Category.Next()
	s.setCategoryLocked(index, next)
	return next, nil
}

// DiscardCandidate drops the pending candidate at index.
func (s *Store) DiscardCandidate(batch uint64, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkIndexLocked(batch, index); err != nil {
		return err
	}
	updated := make([]models.ParsedTransaction, 0, len(s.candidates)-1)
	updated = append(updated, s.candidates[:index]...)
	updated = append(updated, s.candidates[index+1:]...)
	s.candidates = updated
	return nil
}

func (s *Store) checkBatchLocked(batch uint64) error {
	if batch != 0 && batch != s.batch {
		return fmt.Errorf("%w: batch %d was replaced by batch %d", ErrCandidateNotFound, batch, s.batch)
	}
	return nil
}

func (s *Store) checkIndexLocked(batch uint64, index int) error {
	if err := s.checkBatchLocked(batch); err != nil {
		return err
	}
	if index < 0 || index >= len(s.candidates) {
		return fmt.Errorf("%w: index %d of %d", ErrCandidateNotFound, index, len(s.candidates))
	}
	return nil
}

func (s *Store) setCategoryLocked(index int, category models.Category) {
	updated := append([]models.ParsedTransaction(nil), s.candidates...)
	updated[index].Category = category
	s.candidates = updated
}

// BeginUpload starts a new upload and returns its generation. Results from
// older generations are discarded by ReplaceCandidates.
func (s *Store) BeginUpload() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	return s.generation
}

// Generation returns the generation of the most recent upload.
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// ReplaceCandidates installs batch as the pending candidates if generation
// is still the latest upload. It reports whether the batch was installed.
func (s *Store) ReplaceCandidates(generation uint64, batch []models.ParsedTransaction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		slog.Warn("discarding stale scan result", "generation", generation, "current_generation", s.generation, "candidates", len(batch))
		return false
	}
	s.candidates = append([]models.ParsedTransaction(nil), batch...)
	s.batch = generation
	return true
}

// Transactions returns the confirmed transactions, most recent first.
func (s *Store) Transactions() []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Transaction{}, s.transactions...)
}

// Candidates returns the pending candidate batch.
func (s *Store) Candidates() []models.ParsedTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ParsedTransaction{}, s.candidates...)
}

// CandidateBatch returns the pending candidates together with the
// generation of the scan that produced them.
func (s *Store) CandidateBatch() (uint64, []models.ParsedTransaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batch, append([]models.ParsedTransaction{}, s.candidates...)
}

// Memory returns a snapshot of the category memory.
func (s *Store) Memory() classify.Memory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memory.Clone()
}

// Summary totals the confirmed transactions per category.
func (s *Store) Summary() models.Summary {
	return models.Summarize(s.Transactions())
}

// Budget returns the current budget plan.
func (s *Store) Budget() models.BudgetPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.budget.Clone()
}

// SaveBudget replaces the budget plan.
func (s *Store) SaveBudget(plan models.BudgetPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budget = plan.Clone()
}

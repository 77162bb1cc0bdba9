package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/rocjay1/statement-ocr/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() Option {
	n := 0
	return WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("tx-%d", n)
	})
}

func candidate(desc string, amount int64, c models.Category) models.ParsedTransaction {
	return models.ParsedTransaction{
		Date:        "2025-08-07",
		Description: desc,
		Amount:      decimal.NewFromInt(amount),
		Category:    c,
	}
}

func TestAddManual_PrependsAndRemembers(t *testing.T) {
	s := New(sequentialIDs())

	first, err := s.AddManual(ManualEntry{Date: "2025-08-01", Description: "Salary", Category: models.CategoryIncome, Amount: decimal.NewFromInt(3500)})
	require.NoError(t, err)
	second, err := s.AddManual(ManualEntry{Date: "2025-08-02", Description: " Husleie ", Category: models.CategoryEssentials, Amount: decimal.NewFromInt(-9000)})
	require.NoError(t, err)

	txs := s.Transactions()
	require.Len(t, txs, 2)
	assert.Equal(t, second.ID, txs[0].ID)
	assert.Equal(t, first.ID, txs[1].ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "Husleie", txs[0].Description)

	mem := s.Memory()
	assert.Equal(t, models.CategoryEssentials, mem["husleie"])
	assert.Equal(t, models.CategoryIncome, mem["salary"])
}

func TestAddManual_FreeTextCategory(t *testing.T) {
	s := New()

	tx, err := s.AddManual(ManualEntry{Date: "2025-08-01", Description: "Vet", Category: "Pets", Amount: decimal.NewFromInt(-500)})

	require.NoError(t, err)
	assert.Equal(t, models.Category("Pets"), tx.Category)
	assert.Equal(t, models.Category("Pets"), s.Memory()["vet"])
}

func TestAddManual_SuggestsCategoryWhenEmpty(t *testing.T) {
	s := New()

	tx, err := s.AddManual(ManualEntry{Date: "2025-08-01", Description: "Rema 1000", Amount: decimal.NewFromInt(-50)})

	require.NoError(t, err)
	assert.Equal(t, models.CategoryEssentials, tx.Category)
}

func TestAddManual_Validation(t *testing.T) {
	s := New()

	_, err := s.AddManual(ManualEntry{Date: "2025-08-01", Description: "  "})
	assert.ErrorIs(t, err, ErrInvalidEntry)

	_, err = s.AddManual(ManualEntry{Date: "07.08.25", Description: "Rema"})
	assert.ErrorIs(t, err, ErrInvalidEntry)

	assert.Empty(t, s.Transactions())
	assert.Empty(t, s.Memory())
}

func TestConfirmBatch_Ordering(t *testing.T) {
	s := New(sequentialIDs(), WithTransactions(
		models.Transaction{ID: "old-1", Description: "Old 1"},
		models.Transaction{ID: "old-2", Description: "Old 2"},
	))

	batch := []models.ParsedTransaction{
		candidate("A", -1, models.CategoryOther),
		candidate("B", -2, models.CategoryOther),
		candidate("C", -3, models.CategoryOther),
	}
	confirmed := s.ConfirmBatch(batch)

	require.Len(t, confirmed, 3)
	txs := s.Transactions()
	require.Len(t, txs, 5)
	got := []string{}
	for _, tx := range txs {
		got = append(got, tx.Description)
	}
	assert.Equal(t, []string{"A", "B", "C", "Old 1", "Old 2"}, got)
	assert.Equal(t, "tx-1", txs[0].ID)
	assert.Equal(t, "tx-3", txs[2].ID)
}

func TestConfirmBatch_LastWriteWinsInMemory(t *testing.T) {
	s := New()

	s.ConfirmBatch([]models.ParsedTransaction{
		candidate("Kiwi", -10, models.CategoryEssentials),
		candidate("KIWI ", -20, models.CategoryVariable),
	})

	mem := s.Memory()
	assert.Len(t, mem, 1)
	assert.Equal(t, models.CategoryVariable, mem["kiwi"])
}

func TestConfirmBatch_DoesNotRewriteStoredTransactions(t *testing.T) {
	s := New()
	s.ConfirmBatch([]models.ParsedTransaction{candidate("Kiwi", -10, models.CategoryEssentials)})
	s.ConfirmBatch([]models.ParsedTransaction{candidate("Kiwi", -20, models.CategoryVariable)})

	txs := s.Transactions()
	assert.Equal(t, models.CategoryVariable, txs[0].Category)
	assert.Equal(t, models.CategoryEssentials, txs[1].Category)
}

func TestConfirmBatch_Empty(t *testing.T) {
	s := New()
	assert.Empty(t, s.ConfirmBatch(nil))
	assert.Empty(t, s.Transactions())
}

func TestConfirmPending_ClearsCandidates(t *testing.T) {
	s := New()
	gen := s.BeginUpload()
	require.True(t, s.ReplaceCandidates(gen, []models.ParsedTransaction{
		candidate("Rema 1000", -111, models.CategoryEssentials),
	}))

	confirmed, err := s.ConfirmPending(gen)
	require.NoError(t, err)

	assert.Len(t, confirmed, 1)
	assert.Empty(t, s.Candidates())
	assert.Len(t, s.Transactions(), 1)
}

func TestUpdateCandidateCategory(t *testing.T) {
	s := New()
	gen := s.BeginUpload()
	s.ReplaceCandidates(gen, []models.ParsedTransaction{candidate("Rema 1000", -111, models.CategoryEssentials)})

	require.NoError(t, s.UpdateCandidateCategory(0, 0, models.CategorySavings))
	assert.Equal(t, models.CategorySavings, s.Candidates()[0].Category)
	assert.Empty(t, s.Memory())
	assert.Empty(t, s.Transactions())

	assert.ErrorIs(t, s.UpdateCandidateCategory(0, 1, models.CategoryIncome), ErrCandidateNotFound)
	assert.ErrorIs(t, s.UpdateCandidateCategory(0, -1, models.CategoryIncome), ErrCandidateNotFound)
	assert.ErrorIs(t, s.UpdateCandidateCategory(0, 0, "Groceries"), ErrUnknownCategory)
}

func TestCycleCandidateCategory_Wraps(t *testing.T) {
	s := New()
	gen := s.BeginUpload()
	s.ReplaceCandidates(gen, []models.ParsedTransaction{candidate("X", -1, models.CategorySavings)})

	c, err := s.CycleCandidateCategory(0, 0)
	require.NoError(t, err)
	assert.Equal(t, models.CategoryOther, c)

	c, err = s.CycleCandidateCategory(0, 0)
	require.NoError(t, err)
	assert.Equal(t, models.CategoryIncome, c)
	assert.Equal(t, models.CategoryIncome, s.Candidates()[0].Category)

	_, err = s.CycleCandidateCategory(0, 3)
	assert.ErrorIs(t, err, ErrCandidateNotFound)
}

func TestDiscardCandidate(t *testing.T) {
	s := New()
	gen := s.BeginUpload()
	s.ReplaceCandidates(gen, []models.ParsedTransaction{
		candidate("A", -1, models.CategoryOther),
		candidate("B", -2, models.CategoryOther),
		candidate("C", -3, models.CategoryOther),
	})

	require.NoError(t, s.DiscardCandidate(0, 1))

	got := s.Candidates()
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Description)
	assert.Equal(t, "C", got[1].Description)
	assert.ErrorIs(t, s.DiscardCandidate(0, 2), ErrCandidateNotFound)
}

func TestReplaceCandidates_DiscardsStaleGeneration(t *testing.T) {
	s := New()
	first := s.BeginUpload()
	second := s.BeginUpload()

	assert.True(t, s.ReplaceCandidates(second, []models.ParsedTransaction{candidate("New", -1, models.CategoryOther)}))
	assert.False(t, s.ReplaceCandidates(first, []models.ParsedTransaction{candidate("Old", -1, models.CategoryOther)}))

	got := s.Candidates()
	require.Len(t, got, 1)
	assert.Equal(t, "New", got[0].Description)
	assert.Equal(t, second, s.Generation())
}

func TestReplaceCandidates_NewUploadReplacesBatch(t *testing.T) {
	s := New()
	s.ReplaceCandidates(s.BeginUpload(), []models.ParsedTransaction{candidate("A", -1, models.CategoryOther), candidate("B", -1, models.CategoryOther)})
	s.ReplaceCandidates(s.BeginUpload(), []models.ParsedTransaction{candidate("C", -1, models.CategoryOther)})

	got := s.Candidates()
	require.Len(t, got, 1)
	assert.Equal(t, "C", got[0].Description)
}

func TestReadersReturnCopies(t *testing.T) {
	s := New()
	s.ConfirmBatch([]models.ParsedTransaction{candidate("A", -1, models.CategoryOther)})

	txs := s.Transactions()
	txs[0].Description = "mutated"
	mem := s.Memory()
	mem["x"] = models.CategoryIncome

	assert.Equal(t, "A", s.Transactions()[0].Description)
	assert.NotContains(t, s.Memory(), "x")
}

func TestBudget(t *testing.T) {
	s := New()
	plan := s.Budget()
	assert.Equal(t, "Salary", plan.Income[0].Name)

	plan.Income[0].Amount = decimal.NewFromInt(1000)
	assert.True(t, s.Budget().Income[0].Amount.IsZero())

	s.SaveBudget(plan)
	assert.True(t, s.Budget().Income[0].Amount.Equal(decimal.NewFromInt(1000)))
}

func TestSummary(t *testing.T) {
	s := New()
	s.ConfirmBatch([]models.ParsedTransaction{
		candidate("Salary", 3500, models.CategoryIncome),
		candidate("Rema", -100, models.CategoryEssentials),
	})

	sum := s.Summary()
	assert.True(t, sum.Balance.Equal(decimal.NewFromInt(3400)))
}

func TestConcurrentUse(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			gen := s.BeginUpload()
			s.ReplaceCandidates(gen, []models.ParsedTransaction{candidate(fmt.Sprintf("c%d", i), -1, models.CategoryOther)})
			s.ConfirmBatch([]models.ParsedTransaction{candidate(fmt.Sprintf("b%d", i), -1, models.CategoryOther)})
			_ = s.Candidates()
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.Transactions(), 20)
	assert.Equal(t, uint64(20), s.Generation())
}

func TestCandidateEdits_RejectReplacedBatch(t *testing.T) {
	s := New()
	first := s.BeginUpload()
	require.True(t, s.ReplaceCandidates(first, []models.ParsedTransaction{candidate("Old", -1, models.CategoryOther)}))
	second := s.BeginUpload()

	// The newer scan has not landed yet, so the first batch is still editable.
	require.NoError(t, s.UpdateCandidateCategory(first, 0, models.CategoryIncome))

	require.True(t, s.ReplaceCandidates(second, []models.ParsedTransaction{candidate("New", -2, models.CategoryOther)}))

	assert.ErrorIs(t, s.UpdateCandidateCategory(first, 0, models.CategorySavings), ErrCandidateNotFound)
	_, err := s.CycleCandidateCategory(first, 0)
	assert.ErrorIs(t, err, ErrCandidateNotFound)
	assert.ErrorIs(t, s.DiscardCandidate(first, 0), ErrCandidateNotFound)
	_, err = s.ConfirmPending(first)
	assert.ErrorIs(t, err, ErrCandidateNotFound)

	batch, got := s.CandidateBatch()
	assert.Equal(t, second, batch)
	require.Len(t, got, 1)
	assert.Equal(t, "New", got[0].Description)
	assert.Equal(t, models.CategoryOther, got[0].Category)
	assert.Empty(t, s.Transactions())

	require.NoError(t, s.UpdateCandidateCategory(second, 0, models.CategorySavings))
	confirmed, err := s.ConfirmPending(second)
	require.NoError(t, err)
	assert.Len(t, confirmed, 1)
}

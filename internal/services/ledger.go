package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/rocjay1/statement-ocr/internal/models"
)

// Table transactions accept at most 100 actions.
const tableBatchSize = 100

// LedgerService exports confirmed transactions and scan records to Azure
// Table Storage. Nothing is ever read back into the running store.
type LedgerService struct {
	serviceClient *aztables.ServiceClient
	ledgerTable   string
	scanLogTable  string
	now           func() time.Time
}

// NewLedgerService connects to the table endpoint at serviceURL and creates
// both tables if needed.
func NewLedgerService(ctx context.Context, serviceURL, ledgerTable, scanLogTable string) (*LedgerService, error) {
	if serviceURL == "" {
		return nil, fmt.Errorf("table service URL is required")
	}

	var client *aztables.ServiceClient
	if isLocal(serviceURL) {
		name, key := azuriteCredentials()
		cred, err := aztables.NewSharedKeyCredential(name, key)
		if err != nil {
			return nil, fmt.Errorf("failed to create shared key credential: %w", err)
		}
		client, err = aztables.NewServiceClientWithSharedKey(serviceURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create table service client with shared key: %w", err)
		}
	} else {
		cred, err := newDefaultAzureCredential("table")
		if err != nil {
			return nil, fmt.Errorf("failed to create default azure credential: %w", err)
		}
		client, err = aztables.NewServiceClient(serviceURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create table service client: %w", err)
		}
	}

	svc := &LedgerService{
		serviceClient: client,
		ledgerTable:   ledgerTable,
		scanLogTable:  scanLogTable,
		now:           time.Now,
	}
	if err := svc.CreateTables(ctx); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	slog.Info("ledger service initialized successfully",
		"table_url", serviceURL,
		"ledger_table", ledgerTable,
		"scan_log_table", scanLogTable,
	)
	return svc, nil
}

// CreateTables ensures the ledger and scan log tables exist.
func (s *LedgerService) CreateTables(ctx context.Context) error {
	for _, table := range []string{s.ledgerTable, s.scanLogTable} {
		if _, err := s.serviceClient.CreateTable(ctx, table, nil); err != nil {
			if hasErrorCode(err, "TableAlreadyExists") {
				continue
			}
			return fmt.Errorf("failed to create table %s: %w", table, err)
		}
	}
	return nil
}

// ArchiveTransactions upserts transactions into the ledger table, one
// partition per month. The transaction id is the row key, so archiving the
// same batch twice is harmless.
func (s *LedgerService) ArchiveTransactions(ctx context.Context, transactions []models.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	client := s.serviceClient.NewClient(s.ledgerTable)
	archivedAt := s.now().UTC()

	for pk, batch := range ledgerActions(transactions, archivedAt) {
		for i := 0; i < len(batch); i += tableBatchSize {
			end := min(i+tableBatchSize, len(batch))
			if _, err := client.SubmitTransaction(ctx, batch[i:end], nil); err != nil {
				return fmt.Errorf("failed to submit ledger batch %s %d-%d: %w", pk, i, end, err)
			}
		}
	}

	slog.Info("archived transactions", "table", s.ledgerTable, "count", len(transactions))
	return nil
}

// RecordScan appends one entry to the scan log.
func (s *LedgerService) RecordScan(ctx context.Context, record models.ScanRecord) error {
	entity, err := scanEntity(record, s.now().UTC())
	if err != nil {
		return err
	}

	client := s.serviceClient.NewClient(s.scanLogTable)
	if _, err := client.UpsertEntity(ctx, entity, nil); err != nil {
		return fmt.Errorf("failed to record scan %d: %w", record.Generation, err)
	}
	return nil
}

// ledgerPartition maps an ISO date onto its month partition.
func ledgerPartition(date string) string {
	if len(date) >= 7 {
		return "ledger_" + date[:7]
	}
	return "ledger_unknown"
}

func ledgerActions(transactions []models.Transaction, archivedAt time.Time) map[string][]aztables.TransactionAction {
	partitions := make(map[string][]aztables.TransactionAction)
	for _, t := range transactions {
		pk := ledgerPartition(t.Date)
		entity, _ := json.Marshal(map[string]any{
			"PartitionKey": pk,
			"RowKey":       t.ID,
			"Date":         t.Date,
			"Description":  t.Description,
			"Category":     string(t.Category),
			"Amount":       t.Amount.String(),
			"ArchivedAt":   archivedAt.Format(time.RFC3339),
		})
		partitions[pk] = append(partitions[pk], aztables.TransactionAction{
			ActionType: aztables.TransactionTypeInsertReplace,
			Entity:     entity,
		})
	}
	return partitions
}

// scanEntity partitions scan records by day. The row key sorts by time
// and stays unique across generations within the same instant.
func scanEntity(record models.ScanRecord, at time.Time) ([]byte, error) {
	entity := map[string]any{
		"PartitionKey": at.Format("2006-01-02"),
		"RowKey":       fmt.Sprintf("%s-%020d", at.Format("150405.000000000"), record.Generation),
		"Generation":   int64(record.Generation),
		"Filename":     record.Filename,
		"Provider":     record.Provider,
		"TextLength":   record.TextLength,
		"Candidates":   record.Candidates,
		"Notice":       record.Notice,
		"Stale":        record.Stale,
	}
	raw, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scan record: %w", err)
	}
	return raw, nil
}

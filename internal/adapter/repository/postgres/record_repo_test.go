package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"

	"github.com/iho/wasteledger/internal/domain"
)

func versionAppend(rowID, sourceID string, tonnage any) domain.VersionAppend {
	data := map[string]any{"tonnageReceived": tonnage}
	return domain.VersionAppend{
		Type:  domain.RecordTypeReceived,
		RowID: rowID,
		Data:  data,
		Version: domain.RecordVersion{
			CreatedAt: testTime,
			Status:    domain.VersionStatusCreated,
			SourceID:  sourceID,
			Data:      data,
		},
	}
}

func TestWasteRecordRepositoryAppendVersions(t *testing.T) {
	mockPool := newMockPool(t)

	mockPool.ExpectBegin()
	mockPool.ExpectExec("INSERT INTO waste_records").
		WithArgs("org-1", "reg-1", "received", "1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectExec("INSERT INTO waste_record_versions").
		WithArgs("org-1", "reg-1", "received", "1", "log-1", "created", pgxmock.AnyArg(), testTime).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectExec("UPDATE waste_records").
		WithArgs("org-1", "reg-1", "received", "1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectCommit()

	repo := NewWasteRecordRepository(mockPool)
	err := repo.AppendVersions(context.Background(), "org-1", "reg-1", []domain.VersionAppend{versionAppend("1", "log-1", 10)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestWasteRecordRepositoryAppendVersionsSkipsKnownSource(t *testing.T) {
	mockPool := newMockPool(t)

	mockPool.ExpectBegin()
	mockPool.ExpectExec("INSERT INTO waste_records").WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mockPool.ExpectExec("INSERT INTO waste_record_versions").WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mockPool.ExpectCommit()

	repo := NewWasteRecordRepository(mockPool)
	err := repo.AppendVersions(context.Background(), "org-1", "reg-1", []domain.VersionAppend{versionAppend("1", "log-1", 10)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestWasteRecordRepositoryAppendVersionsValidatesBatchFirst(t *testing.T) {
	mockPool := newMockPool(t)

	bad := versionAppend("2", "", 5)
	repo := NewWasteRecordRepository(mockPool)
	err := repo.AppendVersions(context.Background(), "org-1", "reg-1", []domain.VersionAppend{versionAppend("1", "log-1", 10), bad})
	if !errors.Is(err, domain.ErrInvalidSourceID) {
		t.Fatalf("expected invalid source id, got %v", err)
	}

	err = repo.AppendVersions(context.Background(), "", "reg-1", nil)
	if !errors.Is(err, domain.ErrInvalidOrganisationID) {
		t.Fatalf("expected invalid organisation id, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestWasteRecordRepositoryAppendVersionsRollsBackOnFailure(t *testing.T) {
	mockPool := newMockPool(t)
	dbErr := errors.New("connection reset")

	mockPool.ExpectBegin()
	mockPool.ExpectExec("INSERT INTO waste_records").WillReturnError(dbErr)
	mockPool.ExpectRollback()

	repo := NewWasteRecordRepository(mockPool)
	err := repo.AppendVersions(context.Background(), "org-1", "reg-1", []domain.VersionAppend{versionAppend("1", "log-1", 10)})
	if !errors.Is(err, dbErr) || !errors.Is(err, domain.ErrTransient) {
		t.Fatalf("expected transient driver error, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestWasteRecordRepositoryFindByRegistration(t *testing.T) {
	mockPool := newMockPool(t)

	mockPool.ExpectBeginTx(snapshotOptions)
	mockPool.ExpectQuery("FROM waste_records").
		WithArgs("org-1", "reg-1").
		WillReturnRows(pgxmock.NewRows([]string{"type", "row_id", "data"}).
			AddRow("received", "1", []byte(`{"tonnageReceived":12.345678901234567}`)))
	mockPool.ExpectQuery("FROM waste_record_versions").
		WithArgs("org-1", "reg-1").
		WillReturnRows(pgxmock.NewRows([]string{"type", "row_id", "source_id", "status", "data", "created_at"}).
			AddRow("received", "1", "log-1", "created", []byte(`{"tonnageReceived":10}`), testTime).
			AddRow("received", "1", "log-2", "updated", []byte(`{"tonnageReceived":12.345678901234567}`), testTime).
			AddRow("received", "orphan", "log-2", "created", []byte(`{}`), testTime))
	mockPool.ExpectCommit()

	repo := NewWasteRecordRepository(mockPool)
	records, err := repo.FindByRegistration(context.Background(), "org-1", "reg-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.OrganisationID != "org-1" || rec.RegistrationID != "reg-1" {
		t.Fatalf("unexpected record scope: %+v", rec)
	}
	if rec.CurrentVersionID() != "log-2" {
		t.Fatalf("expected current version log-2, got %q", rec.CurrentVersionID())
	}
	if got := rec.PreviousVersionIDs(); len(got) != 1 || got[0] != "log-1" {
		t.Fatalf("unexpected previous version ids: %v", got)
	}
	if n, ok := rec.Data["tonnageReceived"].(json.Number); !ok || n.String() != "12.345678901234567" {
		t.Fatalf("expected tonnage to keep its precision, got %#v", rec.Data["tonnageReceived"])
	}

	assertExpectations(t, mockPool)
}

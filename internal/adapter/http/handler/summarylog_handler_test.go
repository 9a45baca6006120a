package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/wasteledger/internal/domain"
	"github.com/iho/wasteledger/internal/usecase"
)

type summaryLogServiceStub struct {
	createFn     func(ctx context.Context, input usecase.CreateSummaryLogInput) (*domain.SummaryLog, error)
	getFn        func(ctx context.Context, id string) (*domain.SummaryLog, error)
	markFailedFn func(ctx context.Context, id, reason string) error
}

func (s *summaryLogServiceStub) CreateSummaryLog(ctx context.Context, input usecase.CreateSummaryLogInput) (*domain.SummaryLog, error) {
	return s.createFn(ctx, input)
}

func (s *summaryLogServiceStub) GetSummaryLog(ctx context.Context, id string) (*domain.SummaryLog, error) {
	return s.getFn(ctx, id)
}

func (s *summaryLogServiceStub) MarkFailed(ctx context.Context, id, reason string) error {
	if s.markFailedFn == nil {
		return nil
	}
	return s.markFailedFn(ctx, id, reason)
}

type enqueuerStub struct {
	commands []domain.Command
	err      error
}

func (e *enqueuerStub) Enqueue(ctx context.Context, cmd domain.Command) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	e.commands = append(e.commands, cmd)
	return "msg-1", nil
}

var summaryLogParams = map[string]string{
	"organisationId": "org-1",
	"registrationId": "reg-1",
	"summaryLogId":   "log-1",
}

func TestSummaryLogHandler_CreateQueuesValidation(t *testing.T) {
	enqueuer := &enqueuerStub{}
	var captured usecase.CreateSummaryLogInput
	handler := NewSummaryLogHandler(&summaryLogServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateSummaryLogInput) (*domain.SummaryLog, error) {
			captured = input
			return &domain.SummaryLog{ID: "log-1", Status: domain.SummaryLogStatusValidating}, nil
		},
	}, enqueuer)

	body := `{"accreditationId":"acc-1","rows":[{"type":"received","rowId":"r1","data":{"tonnage":12.5}}]}`
	req := withURLParams(httptest.NewRequest(http.MethodPost, "/summary-logs", bytes.NewBufferString(body)), summaryLogParams)
	req = withActor(req, domain.ActorRoleOperator)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.RegistrationID != "reg-1" || len(captured.Rows) != 1 {
		t.Fatalf("unexpected input: %+v", captured)
	}
	if _, ok := captured.Rows[0].Data["tonnage"].(interface{ String() string }); !ok {
		t.Fatalf("expected numbers to be decoded as json.Number, got %T", captured.Rows[0].Data["tonnage"])
	}
	if len(enqueuer.commands) != 1 {
		t.Fatalf("expected one queued command, got %d", len(enqueuer.commands))
	}
	cmd := enqueuer.commands[0]
	if cmd.Name != domain.CommandValidate || cmd.SummaryLogID != "log-1" || cmd.User == nil || cmd.User.ID != "user-1" {
		t.Fatalf("unexpected command: %+v", cmd)
	}
}

func TestSummaryLogHandler_CreateMarksFailedWhenQueueIsDown(t *testing.T) {
	var failed string
	handler := NewSummaryLogHandler(&summaryLogServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateSummaryLogInput) (*domain.SummaryLog, error) {
			return &domain.SummaryLog{ID: "log-1", Status: domain.SummaryLogStatusValidating}, nil
		},
		markFailedFn: func(ctx context.Context, id, reason string) error {
			failed = id
			return nil
		},
	}, &enqueuerStub{err: errors.New("connection refused")})

	body := `{"rows":[{"type":"received","rowId":"r1"}]}`
	req := withURLParams(httptest.NewRequest(http.MethodPost, "/summary-logs", bytes.NewBufferString(body)), summaryLogParams)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if failed != "log-1" {
		t.Fatalf("expected log to be marked failed")
	}
}

func TestSummaryLogHandler_Submit(t *testing.T) {
	tests := []struct {
		name       string
		log        *domain.SummaryLog
		wantStatus int
		wantQueued bool
	}{
		{
			name:       "validated log is queued",
			log:        &domain.SummaryLog{ID: "log-1", OrganisationID: "org-1", RegistrationID: "reg-1", Status: domain.SummaryLogStatusValidated},
			wantStatus: http.StatusAccepted,
			wantQueued: true,
		},
		{
			name:       "log still validating",
			log:        &domain.SummaryLog{ID: "log-1", OrganisationID: "org-1", RegistrationID: "reg-1", Status: domain.SummaryLogStatusValidating},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "log of another registration",
			log:        &domain.SummaryLog{ID: "log-1", OrganisationID: "org-1", RegistrationID: "reg-2", Status: domain.SummaryLogStatusValidated},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enqueuer := &enqueuerStub{}
			handler := NewSummaryLogHandler(&summaryLogServiceStub{
				getFn: func(ctx context.Context, id string) (*domain.SummaryLog, error) { return tt.log, nil },
			}, enqueuer)

			req := withURLParams(httptest.NewRequest(http.MethodPost, "/submit", nil), summaryLogParams)
			rec := httptest.NewRecorder()

			handler.Submit(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if queued := len(enqueuer.commands) == 1; queued != tt.wantQueued {
				t.Fatalf("expected queued=%v, got %v", tt.wantQueued, queued)
			}
			if tt.wantQueued && enqueuer.commands[0].Name != domain.CommandSubmit {
				t.Fatalf("expected submit command, got %s", enqueuer.commands[0].Name)
			}
		})
	}
}

func TestSummaryLogHandler_GetNotFound(t *testing.T) {
	handler := NewSummaryLogHandler(&summaryLogServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.SummaryLog, error) {
			return nil, domain.ErrSummaryLogNotFound
		},
	}, &enqueuerStub{})

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/summary-logs/log-1", nil), summaryLogParams)
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/iho/wasteledger/internal/adapter/http/dto"
	"github.com/iho/wasteledger/internal/adapter/http/handler"
	apimiddleware "github.com/iho/wasteledger/internal/adapter/http/middleware"
	"github.com/iho/wasteledger/internal/adapter/repository/memory"
	"github.com/iho/wasteledger/internal/adapter/repository/postgres"
	"github.com/iho/wasteledger/internal/domain"
	"github.com/iho/wasteledger/internal/infrastructure/auth"
	"github.com/iho/wasteledger/internal/infrastructure/retry"
	"github.com/iho/wasteledger/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1, nil)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	req := operatorRequest(http.MethodPost, "/api/v1/organisations/org-1/accreditations/acc-1/notes/", `{"tonnage":"1"}`)
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
}

func TestNewRouter_RequiresTokenWhenAuthEnabled(t *testing.T) {
	manager := auth.NewJWTManager("secret", time.Hour)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.JWTManager = manager
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/balances/acc-1", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	token, err := manager.Generate(&domain.User{UserRef: domain.UserRef{ID: "u1"}, Role: domain.ActorRoleProducer})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/balances/acc-1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected authenticated request to reach the handler, got %d", rec.Code)
	}
}

func TestNewRouter_NoteLifecycleAgainstEmptyBalance(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, operatorRequest(http.MethodPost,
		"/api/v1/organisations/org-1/accreditations/acc-1/notes/", `{"tonnage":"5","notes":"first"}`))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var note dto.NoteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &note); err != nil {
		t.Fatalf("decode note: %v", err)
	}
	if note.Status != "draft" || note.IsExport {
		t.Fatalf("unexpected note: %+v", note)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, operatorRequest(http.MethodPost,
		"/api/v1/organisations/org-1/accreditations/acc-1/notes/"+note.ID+"/status", `{"status":"awaiting_authorisation"}`))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for a note without balance, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, operatorRequest(http.MethodGet,
		"/api/v1/organisations/org-1/accreditations/acc-1/notes/"+note.ID, ""))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"draft"`) {
		t.Fatalf("expected note to remain draft, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestNewRouter_NoteCreationRequiresOperator(t *testing.T) {
	router := NewRouter(newRouterConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/organisations/org-1/accreditations/acc-1/notes/",
		strings.NewReader(`{"tonnage":"5"}`))
	req.Header.Set(apimiddleware.ActorRoleHeader, string(domain.ActorRoleProducer))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"GET /api/v1/balances/",
		"GET /api/v1/balances/{accreditationId}",
		"POST /api/v1/organisations/{organisationId}/accreditations/{accreditationId}/notes/",
		"GET /api/v1/organisations/{organisationId}/accreditations/{accreditationId}/notes/{noteId}",
		"POST /api/v1/organisations/{organisationId}/accreditations/{accreditationId}/notes/{noteId}/status",
		"POST /api/v1/organisations/{organisationId}/registrations/{registrationId}/summary-logs/",
		"POST /api/v1/organisations/{organisationId}/registrations/{registrationId}/summary-logs/{summaryLogId}/submit",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func operatorRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.ActorRoleHeader, string(domain.ActorRoleOperator))
	req.Header.Set(apimiddleware.UserIDHeader, "operator-1")
	return req
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	logger := zerolog.Nop()
	idGen := postgres.NewULIDGenerator()
	classifier := domain.TableClassifier{}

	accreditations := memory.NewAccreditationRepository(domain.Accreditation{
		ID:             "acc-1",
		OrganisationID: "org-1",
		RegistrationID: "reg-1",
		Regulator:      domain.RegulatorEA,
		ProcessingType: domain.ProcessingTypeReprocessor,
		ValidFrom:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:        time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	})

	ledger := usecase.NewWasteBalanceUseCase(memory.NewBalanceRepository(), accreditations, classifier,
		retry.NewRetrier(3, logger), idGen, nil, logger)
	notes := usecase.NewNoteUseCase(memory.NewNoteRepository(), accreditations, ledger, idGen, nil, logger)
	submissions := usecase.NewSubmissionUseCase(memory.NewSummaryLogRepository(), memory.NewWasteRecordRepository(),
		ledger, classifier, idGen, nil, logger)

	cfg := RouterConfig{
		BalanceHandler:    handler.NewBalanceHandler(ledger),
		NoteHandler:       handler.NewNoteHandler(notes),
		SummaryLogHandler: handler.NewSummaryLogHandler(submissions, &stubEnqueuer{}),
		HealthHandler:     handler.NewHealthHandler(nil),
		Logger:            logger,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubEnqueuer struct{}

func (stubEnqueuer) Enqueue(ctx context.Context, cmd domain.Command) (string, error) {
	return "msg", nil
}

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}

func (s *stubIdempotencyStore) Release(ctx context.Context, key string) error {
	return nil
}

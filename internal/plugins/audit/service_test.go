package audit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/managewiki/internal/apperror"
)

// --- Mocks ---

// mockAuditRepo implements AuditRepository for testing.
type mockAuditRepo struct {
	logFn   func(ctx context.Context, entry *LogEntry) error
	listFn  func(ctx context.Context, wiki string, limit, offset int) ([]LogEntry, int, error)
	entries []LogEntry
}

func (m *mockAuditRepo) Log(ctx context.Context, entry *LogEntry) error {
	if m.logFn != nil {
		return m.logFn(ctx, entry)
	}
	entry.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockAuditRepo) ListByWiki(ctx context.Context, wiki string, limit, offset int) ([]LogEntry, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, wiki, limit, offset)
	}
	return nil, 0, nil
}

func assertAppError(t *testing.T, err error, expectedCode int) {
	t.Helper()
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected status %d, got %d", expectedCode, appErr.Code)
	}
}

// --- Tests ---

func TestLog_Success(t *testing.T) {
	repo := &mockAuditRepo{}
	svc := NewAuditService(repo)

	entry := &LogEntry{Wiki: "examplewiki", Action: ActionWikiCreated, Details: map[string]any{"private": true}}
	if err := svc.Log(context.Background(), entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.ID != 1 || len(repo.entries) != 1 {
		t.Errorf("expected one stored entry, got %+v", repo.entries)
	}
}

func TestLog_Validation(t *testing.T) {
	svc := NewAuditService(&mockAuditRepo{})

	assertAppError(t, svc.Log(context.Background(), &LogEntry{Action: ActionWikiPublic}), http.StatusBadRequest)
	assertAppError(t, svc.Log(context.Background(), &LogEntry{Wiki: "examplewiki"}), http.StatusBadRequest)
}

func TestLog_RepoError(t *testing.T) {
	repo := &mockAuditRepo{logFn: func(ctx context.Context, entry *LogEntry) error {
		return errors.New("connection refused")
	}}
	svc := NewAuditService(repo)

	err := svc.Log(context.Background(), &LogEntry{Wiki: "examplewiki", Action: ActionWikiPrivate})
	assertAppError(t, err, http.StatusInternalServerError)
}

func TestGetWikiLog_ClampsPage(t *testing.T) {
	var gotLimit, gotOffset int
	repo := &mockAuditRepo{listFn: func(ctx context.Context, wiki string, limit, offset int) ([]LogEntry, int, error) {
		gotLimit, gotOffset = limit, offset
		return nil, 0, nil
	}}
	svc := NewAuditService(repo)

	page, err := svc.GetWikiLog(context.Background(), "examplewiki", -3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Page != 1 || gotOffset != 0 || gotLimit != perPage {
		t.Errorf("expected first page, got page=%d limit=%d offset=%d", page.Page, gotLimit, gotOffset)
	}
	if page.Entries == nil {
		t.Error("expected non-nil entries")
	}
}

func TestGetWikiLog_Offset(t *testing.T) {
	var gotOffset int
	repo := &mockAuditRepo{listFn: func(ctx context.Context, wiki string, limit, offset int) ([]LogEntry, int, error) {
		gotOffset = offset
		return []LogEntry{{ID: 7, Wiki: wiki, Action: ActionWikiCreated}}, 51, nil
	}}
	svc := NewAuditService(repo)

	page, err := svc.GetWikiLog(context.Background(), "examplewiki", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotOffset != perPage || page.Total != 51 || len(page.Entries) != 1 {
		t.Errorf("unexpected page %+v (offset %d)", page, gotOffset)
	}
}

func TestGetWikiLog_EmptyWiki(t *testing.T) {
	_, err := NewAuditService(&mockAuditRepo{}).GetWikiLog(context.Background(), "", 1)
	assertAppError(t, err, http.StatusBadRequest)
}

func TestHandler_WikiLog(t *testing.T) {
	repo := &mockAuditRepo{listFn: func(ctx context.Context, wiki string, limit, offset int) ([]LogEntry, int, error) {
		return []LogEntry{{ID: 1, Wiki: wiki, Action: ActionWikiPublic}}, 1, nil
	}}
	h := NewHandler(NewAuditService(repo))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/wikis/examplewiki/log?page=1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("wiki")
	c.SetParamValues("examplewiki")

	if err := h.WikiLog(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var page LogPage
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(page.Entries) != 1 || page.Entries[0].Action != ActionWikiPublic {
		t.Errorf("unexpected body %+v", page)
	}
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/animap/animap-go/internal/model"
	"github.com/animap/animap-go/internal/service"
	"github.com/animap/animap-go/internal/store"
	"github.com/animap/animap-go/internal/testutil"
	"github.com/animap/animap-go/internal/translator"
)

const docJSON = `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"こんにちは"}]}]}`

func newTestHandler(t *testing.T) (*Handler, *store.Queries, func()) {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	echo := translator.Func(func(_ context.Context, text, targetLang string) (string, error) {
		return targetLang + ": " + text, nil
	})
	svc := service.NewTranslationService(db, echo, nil, nil, testutil.TestLogger())
	return NewHandler(db, svc, testutil.TestLogger()), store.New(db), cleanup
}

func doJSON(t *testing.T, h *Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-User", "42")
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	var resp struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding envelope: %v (body %s)", err, rec.Body.String())
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		t.Fatalf("decoding data: %v (body %s)", err, rec.Body.String())
	}
}

func seedArticle(t *testing.T, q *store.Queries) model.Article {
	t.Helper()
	a, err := q.CreateArticle(context.Background(), store.CreateArticleParams{
		Slug:        "walk-ja",
		Language:    model.LangJA,
		Status:      model.ArticleStatusPublished,
		Title:       "Tokyo Walk",
		Description: "A walk through Shinjuku",
		Content:     docJSON,
		ContentHTML: "<p>こんにちは</p>",
		AuthorID:    1,
		TagIDs:      "[]",
		CreatedAt:   time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateArticle: %v", err)
	}
	return a
}

func TestStatusEndpoint(t *testing.T) {
	h, _, cleanup := newTestHandler(t)
	defer cleanup()

	rec := doJSON(t, h, http.MethodGet, "/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var status StatusResponse
	decodeData(t, rec, &status)
	if status.Status != "ok" {
		t.Errorf("Status = %q, want ok", status.Status)
	}
}

func TestTranslationLifecycleOverHTTP(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()

	seedArticle(t, q)

	// Discover and create tasks.
	rec := doJSON(t, h, http.MethodPost, "/translations/tasks", CreateTasksRequest{
		EntityType:      model.EntityTypeArticle,
		TargetLanguages: []string{model.LangEN},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var createRes service.BatchCreateResult
	decodeData(t, rec, &createRes)
	if createRes.Created != 1 {
		t.Fatalf("Created = %d, want 1", createRes.Created)
	}

	// Find the task id through the list endpoint.
	rec = doJSON(t, h, http.MethodGet, "/translations/tasks?status=pending", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var tasks []TaskResponse
	decodeData(t, rec, &tasks)
	if len(tasks) != 1 {
		t.Fatalf("tasks = %d, want 1", len(tasks))
	}
	taskID := tasks[0].ID

	// Execute.
	rec = doJSON(t, h, http.MethodPost, "/translations/execute", ExecuteTasksRequest{
		TaskIDs: []int64{taskID},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("execute status = %d, body %s", rec.Code, rec.Body.String())
	}
	var execRes service.ExecuteResult
	decodeData(t, rec, &execRes)
	if execRes.Success != 1 {
		t.Fatalf("Success = %d, want 1 (%+v)", execRes.Success, execRes)
	}

	// Approve.
	rec = doJSON(t, h, http.MethodPost, fmt.Sprintf("/translations/tasks/%d/approve", taskID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("approve status = %d, body %s", rec.Code, rec.Body.String())
	}
	var approved TaskResponse
	decodeData(t, rec, &approved)
	if approved.Status != model.TaskStatusApproved {
		t.Errorf("Status = %q, want approved", approved.Status)
	}
	if !strings.Contains(string(approved.FinalContent), "en: Tokyo Walk") {
		t.Errorf("FinalContent = %s, want applied draft", approved.FinalContent)
	}

	// Publish an edit guarded by the live timestamp.
	live, err := q.GetArticleInGroupByLanguage(context.Background(), seedGroupID(t, q), model.LangEN)
	if err != nil {
		t.Fatalf("GetArticleInGroupByLanguage: %v", err)
	}
	rec = doJSON(t, h, http.MethodPost, fmt.Sprintf("/translations/tasks/%d/publish", taskID), PublishTaskRequest{
		Content:           model.TaskContent{Title: "Edited", Content: docJSON},
		ExpectedUpdatedAt: live.UpdatedAt,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("publish status = %d, body %s", rec.Code, rec.Body.String())
	}

	// The same timestamp is now stale.
	rec = doJSON(t, h, http.MethodPost, fmt.Sprintf("/translations/tasks/%d/publish", taskID), PublishTaskRequest{
		Content:           model.TaskContent{Title: "Edited Again", Content: docJSON},
		ExpectedUpdatedAt: live.UpdatedAt,
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("stale publish status = %d, want 409", rec.Code)
	}

	// History shows the pre-edit snapshot; roll back to it.
	rec = doJSON(t, h, http.MethodGet, fmt.Sprintf("/translations/tasks/%d/history", taskID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("history status = %d", rec.Code)
	}
	var history []HistoryResponse
	decodeData(t, rec, &history)
	if len(history) != 1 {
		t.Fatalf("history = %d rows, want 1", len(history))
	}

	rec = doJSON(t, h, http.MethodPost, fmt.Sprintf("/translations/tasks/%d/rollback", taskID), RollbackTaskRequest{
		HistoryID: history[0].ID,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("rollback status = %d, body %s", rec.Code, rec.Body.String())
	}

	restored, err := q.GetArticle(context.Background(), live.ID)
	if err != nil {
		t.Fatalf("GetArticle: %v", err)
	}
	if restored.Title != "en: Tokyo Walk" {
		t.Errorf("Title = %q, want restored", restored.Title)
	}
}

// seedGroupID returns the group anchor of the seeded source article.
func seedGroupID(t *testing.T, q *store.Queries) int64 {
	t.Helper()
	articles, err := q.ListPublishedArticles(context.Background())
	if err != nil || len(articles) == 0 {
		t.Fatalf("ListPublishedArticles: %v (%d rows)", err, len(articles))
	}
	return articles[0].GroupID()
}

func TestErrorMapping(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()

	// Unknown entity type.
	rec := doJSON(t, h, http.MethodPost, "/translations/tasks", CreateTasksRequest{
		EntityType:      "page",
		TargetLanguages: []string{model.LangEN},
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad entity type status = %d, want 400", rec.Code)
	}

	// Missing task.
	rec = doJSON(t, h, http.MethodGet, "/translations/tasks/999", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing task status = %d, want 404", rec.Code)
	}

	// Approving a pending task.
	a := seedArticle(t, q)
	taskID, _, err := q.CreateTranslationTask(context.Background(), store.CreateTranslationTaskParams{
		EntityType:     model.EntityTypeArticle,
		EntityID:       a.ID,
		TargetLanguage: model.LangEN,
		CreatedAt:      time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateTranslationTask: %v", err)
	}
	rec = doJSON(t, h, http.MethodPost, fmt.Sprintf("/translations/tasks/%d/approve", taskID), nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("pending approve status = %d, want 400", rec.Code)
	}

	// Malformed body.
	req := httptest.NewRequest(http.MethodPost, "/translations/execute", strings.NewReader("{"))
	rec2 := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec2, req)
	if rec2.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d, want 400", rec2.Code)
	}

	// Non-numeric id.
	rec = doJSON(t, h, http.MethodGet, "/translations/tasks/abc", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", rec.Code)
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if errResp.Error.Code != "bad_request" {
		t.Errorf("error code = %q, want bad_request", errResp.Error.Code)
	}
}

func TestHealthz(t *testing.T) {
	h, _, cleanup := newTestHandler(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.Healthz(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d, want 200", rec.Code)
	}
}

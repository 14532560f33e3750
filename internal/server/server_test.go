package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thekevindong/AreWeFree/internal/schedule"
	"github.com/thekevindong/AreWeFree/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memStore is an in-memory UploadStore with the same semantics as the
// Redis-backed one. List calls are counted; debounced recomputes read the
// store from a timer goroutine, so access is locked.
type memStore struct {
	mu        sync.Mutex
	uploads   []store.Upload
	listCalls int
}

func (m *memStore) List(ctx context.Context) ([]store.Upload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	out := make([]store.Upload, len(m.uploads))
	copy(out, m.uploads)
	return out, nil
}

func (m *memStore) listCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls
}

func (m *memStore) Add(ctx context.Context, upload store.Upload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads = append(m.uploads, upload)
	return nil
}

func (m *memStore) Update(ctx context.Context, id, person, color string) (store.Upload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.uploads {
		if m.uploads[i].ID != id {
			continue
		}
		if person != "" {
			m.uploads[i].Person = person
		}
		if color != "" {
			m.uploads[i].Color = color
		}
		return m.uploads[i], nil
	}
	return store.Upload{}, store.ErrNotFound
}

func (m *memStore) Remove(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.uploads[:0]
	for _, u := range m.uploads {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	if len(kept) == len(m.uploads) {
		return store.ErrNotFound
	}
	m.uploads = kept
	return nil
}

func (m *memStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads = nil
	return nil
}

// newTestServer uses a debounce long enough that timers never fire during
// a test; week requests recompute synchronously instead.
func newTestServer() (*Server, *memStore, *gin.Engine) {
	st := &memStore{}
	srv := New(st, time.Hour, "test")
	return srv, st, srv.Router()
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ics builds a one-event calendar document. 2025-09-01 is a Monday.
func icsDoc(summary, dtstart, dtend, location string) string {
	return strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//test//EN",
		"BEGIN:VEVENT",
		"SUMMARY:" + summary,
		"DTSTART:" + dtstart,
		"DTEND:" + dtend,
		"LOCATION:" + location,
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")
}

func TestHealth(t *testing.T) {
	_, _, router := newTestServer()

	w := doJSON(t, router, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "healthy" || body["version"] != "test" {
		t.Errorf("body = %v", body)
	}
}

func TestAddUpload(t *testing.T) {
	_, st, router := newTestServer()

	w := doJSON(t, router, http.MethodPost, "/api/uploads", map[string]string{
		"name":    "alice.ics",
		"person":  "Alice",
		"color":   "#0F52BA",
		"content": icsDoc("CS 101 Intro", "20250901T090000", "20250901T101500", "101 Main Hall"),
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}

	var view struct {
		ID     string `json:"id"`
		Person string `json:"person"`
		Size   int    `json:"size"`
		Valid  *bool  `json:"valid"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if view.ID == "" {
		t.Error("expected a generated upload ID")
	}
	if view.Person != "Alice" {
		t.Errorf("person = %q, want Alice", view.Person)
	}
	if view.Valid == nil || !*view.Valid {
		t.Error("expected upload to be flagged valid")
	}
	if len(st.uploads) != 1 {
		t.Fatalf("expected 1 stored upload, got %d", len(st.uploads))
	}
}

func TestAddUpload_MissingFields(t *testing.T) {
	_, _, router := newTestServer()

	w := doJSON(t, router, http.MethodPost, "/api/uploads", map[string]string{
		"name": "alice.ics",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestAddUpload_InvalidContentFlagged(t *testing.T) {
	_, _, router := newTestServer()

	w := doJSON(t, router, http.MethodPost, "/api/uploads", map[string]string{
		"person":  "Alice",
		"color":   "#0F52BA",
		"content": "this is not a calendar",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}

	var view struct {
		Valid *bool `json:"valid"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if view.Valid == nil || *view.Valid {
		t.Error("expected upload to be flagged invalid")
	}
}

func TestListUploads_ContentElided(t *testing.T) {
	_, st, router := newTestServer()
	st.uploads = []store.Upload{
		{ID: "u1", Person: "Alice", Color: "#0F52BA", Content: "BEGIN:VCALENDAR", Size: 15},
	}

	w := doJSON(t, router, http.MethodGet, "/api/uploads", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var views []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &views); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 upload, got %d", len(views))
	}
	if _, ok := views[0]["content"]; ok {
		t.Error("list response should not include raw content")
	}
	if views[0]["size"] != float64(15) {
		t.Errorf("size = %v, want 15", views[0]["size"])
	}
}

func TestUpdateUpload(t *testing.T) {
	_, st, router := newTestServer()
	st.uploads = []store.Upload{{ID: "u1", Person: "Alice", Color: "#0F52BA"}}

	w := doJSON(t, router, http.MethodPatch, "/api/uploads/u1", map[string]string{
		"person": "Alicia",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if st.uploads[0].Person != "Alicia" {
		t.Errorf("person = %q, want Alicia", st.uploads[0].Person)
	}
	if st.uploads[0].Color != "#0F52BA" {
		t.Errorf("color changed unexpectedly to %q", st.uploads[0].Color)
	}
}

func TestUpdateUpload_NotFound(t *testing.T) {
	_, _, router := newTestServer()

	w := doJSON(t, router, http.MethodPatch, "/api/uploads/missing", map[string]string{
		"person": "Alicia",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestRemoveUpload(t *testing.T) {
	_, st, router := newTestServer()
	st.uploads = []store.Upload{{ID: "u1", Person: "Alice"}}

	w := doJSON(t, router, http.MethodDelete, "/api/uploads/u1", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if len(st.uploads) != 0 {
		t.Errorf("expected empty store, got %d uploads", len(st.uploads))
	}

	w = doJSON(t, router, http.MethodDelete, "/api/uploads/u1", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", w.Code)
	}
}

func TestClearUploads(t *testing.T) {
	_, st, router := newTestServer()
	st.uploads = []store.Upload{{ID: "u1"}, {ID: "u2"}}

	w := doJSON(t, router, http.MethodDelete, "/api/uploads", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if len(st.uploads) != 0 {
		t.Errorf("expected empty store, got %d uploads", len(st.uploads))
	}
}

func TestWeek(t *testing.T) {
	_, st, router := newTestServer()
	st.uploads = []store.Upload{
		{
			ID: "u1", Person: "Alice", Color: "#0F52BA",
			Content: icsDoc("CS 101 Introduction to Computer Science",
				"20250901T090000", "20250901T101500", "101 Main Hall"),
		},
		{
			ID: "u2", Person: "Bob", Color: "#FF5733",
			Content: icsDoc("MATH 240 Linear Algebra",
				"20250901T093000", "20250901T100000", "Main Hall 205"),
		},
	}

	w := doJSON(t, router, http.MethodGet, "/api/week", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var week WeekModel
	if err := json.Unmarshal(w.Body.Bytes(), &week); err != nil {
		t.Fatalf("failed to decode week model: %v", err)
	}

	if week.Summary.People != 2 {
		t.Errorf("People = %d, want 2", week.Summary.People)
	}
	if week.Summary.Classes != 2 {
		t.Errorf("Classes = %d, want 2", week.Summary.Classes)
	}
	if week.Summary.OverlapBlocks != 1 {
		t.Errorf("OverlapBlocks = %d, want 1", week.Summary.OverlapBlocks)
	}

	monday := week.Overlaps[schedule.Monday]
	if len(monday) != 1 {
		t.Fatalf("expected 1 Monday overlap segment, got %d", len(monday))
	}
	if monday[0].StartHour != 9.5 || monday[0].EndHour != 10.0 {
		t.Errorf("segment = [%v, %v), want [9.5, 10)", monday[0].StartHour, monday[0].EndHour)
	}
	if len(monday[0].Participants) != 2 {
		t.Errorf("expected 2 participants, got %d", len(monday[0].Participants))
	}

	if len(week.Spans[schedule.Monday]) != 2 {
		t.Errorf("expected 2 Monday spans, got %d", len(week.Spans[schedule.Monday]))
	}
	if week.ComputedAt.IsZero() {
		t.Error("expected ComputedAt to be set")
	}
}

func TestWeek_SkipsUndecodableDocument(t *testing.T) {
	_, st, router := newTestServer()
	st.uploads = []store.Upload{
		{
			ID: "u1", Person: "Alice", Color: "#0F52BA",
			Content: icsDoc("CS 101 Intro", "20250901T090000", "20250901T100000", "101 Main Hall"),
		},
		{ID: "u2", Person: "Bob", Color: "#FF5733", Content: "not a calendar"},
	}

	w := doJSON(t, router, http.MethodGet, "/api/week", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var week WeekModel
	if err := json.Unmarshal(w.Body.Bytes(), &week); err != nil {
		t.Fatalf("failed to decode week model: %v", err)
	}
	if week.Summary.People != 1 {
		t.Errorf("People = %d, want 1", week.Summary.People)
	}
	if week.Summary.Classes != 1 {
		t.Errorf("Classes = %d, want 1", week.Summary.Classes)
	}
}

func TestWeek_EmptyStore(t *testing.T) {
	_, _, router := newTestServer()

	w := doJSON(t, router, http.MethodGet, "/api/week", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var week WeekModel
	if err := json.Unmarshal(w.Body.Bytes(), &week); err != nil {
		t.Fatalf("failed to decode week model: %v", err)
	}
	if week.Summary.Classes != 0 || week.Summary.People != 0 {
		t.Errorf("summary = %+v, want empty", week.Summary)
	}
}

func TestScheduleRecompute_CoalescesRapidEdits(t *testing.T) {
	st := &memStore{}
	srv := New(st, 20*time.Millisecond, "test")
	router := srv.Router()

	people := []string{"Alice", "Bob", "Carol"}
	for i, person := range people {
		w := doJSON(t, router, http.MethodPost, "/api/uploads", map[string]string{
			"person": person,
			"color":  "#0F52BA",
			"content": icsDoc("CS 101 Intro",
				"20250901T090000", "20250901T100000", "101 Main Hall"),
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("upload %d status = %d, want 201: %s", i, w.Code, w.Body.String())
		}
	}

	// Each mutation pushes the timer back, so the three uploads produce one
	// recompute, which does one List.
	time.Sleep(300 * time.Millisecond)
	if n := st.listCount(); n != 1 {
		t.Fatalf("List called %d times, want 1", n)
	}

	srv.mu.RLock()
	week := srv.week
	srv.mu.RUnlock()
	if week == nil {
		t.Fatal("expected a cached week model after the debounce elapsed")
	}
	if week.Summary.Classes != 3 {
		t.Errorf("Classes = %d, want 3", week.Summary.Classes)
	}
}

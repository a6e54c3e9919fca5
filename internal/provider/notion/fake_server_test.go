package notion

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
)

type fakePage struct {
	id         string
	properties map[string]string
	kinds      map[string]string
}

// fakeNotion is an in-memory stand-in for the subset of the Notion API the
// provider uses.
type fakeNotion struct {
	t         *testing.T
	mu        sync.Mutex
	databases map[string][]*fakePage
	statuses  map[string]int
	headers   []http.Header
	calls     []string
	nextID    int
}

func newFakeNotion(t *testing.T, databaseIDs ...string) (*fakeNotion, *httptest.Server) {
	fake := &fakeNotion{
		t:         t,
		databases: make(map[string][]*fakePage),
		statuses:  make(map[string]int),
	}
	for _, id := range databaseIDs {
		fake.databases[id] = nil
	}

	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	return fake, server
}

func (f *fakeNotion) seed(databaseID string, properties map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	kinds := make(map[string]string, len(properties))
	for name := range properties {
		kinds[name] = "rich_text"
	}
	kinds[PropertyName] = "title"

	f.databases[databaseID] = append(f.databases[databaseID], &fakePage{
		id:         fmt.Sprintf("page-%d", f.nextID),
		properties: properties,
		kinds:      kinds,
	})
}

func (f *fakeNotion) rows(databaseID string) []*fakePage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*fakePage(nil), f.databases[databaseID]...)
}

func (f *fakeNotion) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeNotion) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.headers = append(f.headers, r.Header.Clone())
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)

	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		f.fail(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/v1")
	switch {
	case r.Method == http.MethodPost && strings.HasPrefix(path, "/databases/") && strings.HasSuffix(path, "/query"):
		f.query(w, strings.TrimSuffix(strings.TrimPrefix(path, "/databases/"), "/query"), body)
	case r.Method == http.MethodPost && path == "/pages":
		f.create(w, body)
	case r.Method == http.MethodPatch && strings.HasPrefix(path, "/pages/"):
		f.update(w, strings.TrimPrefix(path, "/pages/"), body)
	default:
		f.fail(w, http.StatusNotFound, "invalid_request_url", "unknown route")
	}
}

func (f *fakeNotion) fail(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"object":  "error",
		"status":  status,
		"code":    code,
		"message": message,
	})
}

func (f *fakeNotion) query(w http.ResponseWriter, databaseID string, body map[string]json.RawMessage) {
	if status, ok := f.statuses[databaseID]; ok {
		f.fail(w, status, "forced", "forced failure")
		return
	}

	pages, ok := f.databases[databaseID]
	if !ok {
		f.fail(w, http.StatusNotFound, "object_not_found", "Could not find database with ID: "+databaseID)
		return
	}

	if raw, ok := body["filter"]; ok {
		wanted := filterValues(raw)
		var filtered []*fakePage
		for _, page := range pages {
			if wanted[page.properties[PropertyExternalID]] {
				filtered = append(filtered, page)
			}
		}
		pages = filtered
	}

	start := 0
	if raw, ok := body["start_cursor"]; ok {
		var cursor string
		_ = json.Unmarshal(raw, &cursor)
		start, _ = strconv.Atoi(strings.TrimPrefix(cursor, "cursor-"))
	}

	size := 100
	if raw, ok := body["page_size"]; ok {
		_ = json.Unmarshal(raw, &size)
	}

	end := min(start+size, len(pages))
	start = min(start, end)

	results := make([]map[string]any, 0, end-start)
	for _, page := range pages[start:end] {
		results = append(results, renderPage(page))
	}

	var nextCursor *string
	if end < len(pages) {
		cursor := fmt.Sprintf("cursor-%d", end)
		nextCursor = &cursor
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"object":      "list",
		"results":     results,
		"next_cursor": nextCursor,
		"has_more":    nextCursor != nil,
	})
}

func (f *fakeNotion) create(w http.ResponseWriter, body map[string]json.RawMessage) {
	var parent Parent
	if err := json.Unmarshal(body["parent"], &parent); err != nil || parent.DatabaseID == "" {
		f.fail(w, http.StatusBadRequest, "validation_error", "parent is required")
		return
	}

	f.nextID++
	page := &fakePage{id: fmt.Sprintf("page-%d", f.nextID)}
	page.properties, page.kinds = decodeProperties(body["properties"])
	f.databases[parent.DatabaseID] = append(f.databases[parent.DatabaseID], page)

	_ = json.NewEncoder(w).Encode(map[string]any{"object": "page", "id": page.id})
}

func (f *fakeNotion) update(w http.ResponseWriter, id string, body map[string]json.RawMessage) {
	for _, pages := range f.databases {
		for _, page := range pages {
			if page.id != id {
				continue
			}
			page.properties, page.kinds = decodeProperties(body["properties"])
			_ = json.NewEncoder(w).Encode(map[string]any{"object": "page", "id": page.id})
			return
		}
	}
	f.fail(w, http.StatusNotFound, "object_not_found", "no page "+id)
}

func filterValues(raw json.RawMessage) map[string]bool {
	var compound struct {
		Or []PropertyFilter `json:"or"`
	}
	_ = json.Unmarshal(raw, &compound)

	filters := compound.Or
	if len(filters) == 0 {
		var single PropertyFilter
		_ = json.Unmarshal(raw, &single)
		filters = []PropertyFilter{single}
	}

	wanted := make(map[string]bool, len(filters))
	for _, filter := range filters {
		if filter.RichText != nil {
			wanted[filter.RichText.Equals] = true
		}
	}
	return wanted
}

func decodeProperties(raw json.RawMessage) (map[string]string, map[string]string) {
	var props map[string]map[string][]RichText
	_ = json.Unmarshal(raw, &props)

	values := make(map[string]string, len(props))
	kinds := make(map[string]string, len(props))
	for name, value := range props {
		for kind, texts := range value {
			var b strings.Builder
			for _, text := range texts {
				b.WriteString(text.Text.Content)
			}
			values[name] = b.String()
			kinds[name] = kind
		}
	}
	return values, kinds
}

func renderPage(page *fakePage) map[string]any {
	names := make([]string, 0, len(page.properties))
	for name := range page.properties {
		names = append(names, name)
	}
	sort.Strings(names)

	properties := make(map[string]any, len(names))
	for _, name := range names {
		kind := page.kinds[name]
		properties[name] = map[string]any{
			"id":   name,
			"type": kind,
			kind: []map[string]any{
				{"type": "text", "plain_text": page.properties[name]},
			},
		}
	}

	return map[string]any{
		"object":     "page",
		"id":         page.id,
		"properties": properties,
	}
}

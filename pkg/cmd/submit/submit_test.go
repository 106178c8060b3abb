package submit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/marginalia-app/marginalia/internal/cache"
	"github.com/marginalia-app/marginalia/internal/library"
	"github.com/marginalia-app/marginalia/internal/state"
)

func TestSubmitDeduplicatesAuthors(t *testing.T) {
	t.Parallel()

	var got library.PaperSubmission
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if err := json.Unmarshal([]byte(r.FormValue("meta")), &got); err != nil {
			t.Errorf("decode meta: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 12, "title": "Graph Compression at Scale"}`)
	}))
	defer srv.Close()

	s := &state.State{Client: library.NewClient(srv.URL, "", cache.New())}

	cmd := NewCmdSubmit(s)
	cmd.SetArgs([]string{
		"Graph Compression at Scale",
		"--author", "J. Doe",
		"--author", "J. Doe",
		"--author", "A. Roe",
	})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if len(got.Authors) != 2 || got.Authors[0] != "J. Doe" || got.Authors[1] != "A. Roe" {
		t.Fatalf("expected duplicate authors collapsed, got %v", got.Authors)
	}
}

package infra

import (
	"errors"
	"strings"
	"testing"
)

func TestExtractMarker(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantMarker string
		wantBody   string
		wantErr    error
	}{
		{
			name:       "valid marker",
			query:      "\n--sql 0b6f3c1e-4d2a-4c55-9a8e-2f7d1c3b5a90\nselect 1;\n",
			wantMarker: "0b6f3c1e-4d2a-4c55-9a8e-2f7d1c3b5a90",
			wantBody:   "select 1;",
		},
		{
			name:    "missing marker",
			query:   "select 1;",
			wantErr: ErrMissingMarker,
		},
		{
			name:    "uppercase uuid rejected",
			query:   "--sql 0B6F3C1E-4D2A-4C55-9A8E-2F7D1C3B5A90\nselect 1;",
			wantErr: ErrMissingMarker,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			marker, body, err := extractMarker(tc.query)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("extractMarker() error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("extractMarker() unexpected error: %v", err)
			}
			if marker != tc.wantMarker {
				t.Fatalf("marker = %q, want %q", marker, tc.wantMarker)
			}
			if strings.TrimSpace(body) != tc.wantBody {
				t.Fatalf("body = %q, want %q", body, tc.wantBody)
			}
		})
	}
}

func TestExtractMarkerEmptyQuery(t *testing.T) {
	if _, _, err := extractMarker("   "); err == nil {
		t.Fatalf("expected error for empty query")
	}
}

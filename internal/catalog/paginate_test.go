package catalog

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestPaginateBounds(t *testing.T) {
	tests := []struct {
		name         string
		offset       int
		limit        int
		total        int
		pages        int
		first, last  int
		prev, next   bool
		prevOffset   int
		nextOffset   int
	}{
		{"first of many", 0, 10, 35, 4, 1, 10, false, true, 0, 1},
		{"middle page", 1, 10, 35, 4, 11, 20, true, true, 0, 2},
		{"last partial page", 3, 10, 35, 4, 31, 35, true, false, 2, 0},
		{"exact fit", 1, 10, 20, 2, 11, 20, true, false, 0, 0},
		{"single page", 0, 20, 5, 1, 1, 5, false, false, 0, 0},
		{"empty listing", 0, 10, 0, 0, 0, 0, false, false, 0, 0},
	}

	for _, tt := range tests {
		p, err := Paginate(tt.offset, tt.limit, tt.total)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if p.TotalPages != tt.pages {
			t.Fatalf("%s: total pages = %d, want %d", tt.name, p.TotalPages, tt.pages)
		}
		if p.First != tt.first || p.Last != tt.last {
			t.Fatalf("%s: range = [%d, %d], want [%d, %d]", tt.name, p.First, p.Last, tt.first, tt.last)
		}
		if (p.Prev != nil) != tt.prev {
			t.Fatalf("%s: prev present = %v, want %v", tt.name, p.Prev != nil, tt.prev)
		}
		if (p.Next != nil) != tt.next {
			t.Fatalf("%s: next present = %v, want %v", tt.name, p.Next != nil, tt.next)
		}
		if p.Prev != nil && p.Prev.Offset != tt.prevOffset {
			t.Fatalf("%s: prev offset = %d, want %d", tt.name, p.Prev.Offset, tt.prevOffset)
		}
		if p.Next != nil && p.Next.Offset != tt.nextOffset {
			t.Fatalf("%s: next offset = %d, want %d", tt.name, p.Next.Offset, tt.nextOffset)
		}
	}
}

// prev/next presence must follow directly from the offset/limit/total triple
// for any valid combination.
func TestPaginateProperties(t *testing.T) {
	for total := 0; total <= 55; total += 5 {
		for limit := 1; limit <= 25; limit += 3 {
			wantPages := (total + limit - 1) / limit
			for offset := 0; offset <= wantPages+1; offset++ {
				p, err := Paginate(offset, limit, total)
				if err != nil {
					t.Fatalf("Paginate(%d, %d, %d): %v", offset, limit, total, err)
				}
				if p.TotalPages != wantPages {
					t.Fatalf("Paginate(%d, %d, %d): pages = %d, want %d",
						offset, limit, total, p.TotalPages, wantPages)
				}
				if got, want := p.Prev != nil, offset > 0; got != want {
					t.Fatalf("Paginate(%d, %d, %d): prev = %v, want %v",
						offset, limit, total, got, want)
				}
				if got, want := p.Next != nil, (offset+1)*limit < total; got != want {
					t.Fatalf("Paginate(%d, %d, %d): next = %v, want %v",
						offset, limit, total, got, want)
				}
			}
		}
	}
}

func TestPaginateInvalidParams(t *testing.T) {
	if _, err := Paginate(0, 0, 100); err == nil {
		t.Fatal("zero limit accepted")
	}
	if _, err := Paginate(0, -5, 100); err == nil {
		t.Fatal("negative limit accepted")
	}
	if _, err := Paginate(-1, 10, 100); err == nil {
		t.Fatal("negative offset accepted")
	}

	_, err := Paginate(-1, 10, 100)
	var confErr *ConfigurationError
	if !errors.As(err, &confErr) {
		t.Fatalf("error type = %T, want *ConfigurationError", err)
	}
}

// The first page must keep a canonical URL: a prev ref pointing at page 0
// serializes without an offset key.
func TestPageRefCanonicalFirstPage(t *testing.T) {
	p, err := Paginate(1, 10, 35)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := json.Marshal(p.Prev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "offset") {
		t.Fatalf("prev ref to first page contains offset key: %s", data)
	}

	data, err = json.Marshal(p.Next)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"offset":2`) {
		t.Fatalf("next ref missing offset key: %s", data)
	}
}

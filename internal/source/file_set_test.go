package source

import "testing"

func TestFileSetAddAndFormat(t *testing.T) {
	fs := NewFileSet()
	first := fs.AddVirtual("app/models.toml", []byte("x"), 0)
	second := fs.Add("app/./views.toml", nil, 0)

	if first == second {
		t.Fatalf("expected distinct file ids")
	}
	if got := fs.Len(); got != 2 {
		t.Fatalf("expected 2 files, got %d", got)
	}
	if f := fs.Get(first); f == nil || f.Flags&FileVirtual == 0 {
		t.Fatalf("expected virtual flag on %v", f)
	}
	if id, ok := fs.GetLatest("app/views.toml"); !ok || id != second {
		t.Fatalf("expected cleaned path lookup to hit %d, got %d (%v)", second, id, ok)
	}

	span := Span{File: first, Line: 3, Col: 7}
	if got := fs.Format(span); got != "app/models.toml:3:7" {
		t.Fatalf("unexpected format %q", got)
	}
	if got := fs.Format(Span{File: second}); got != "app/views.toml" {
		t.Fatalf("unexpected format for zero position %q", got)
	}
	if fs.Get(0) != nil {
		t.Fatalf("file id 0 must be reserved")
	}
}

func TestSpanBefore(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want bool
	}{
		{"earlier file", Span{File: 1, Line: 9}, Span{File: 2, Line: 1}, true},
		{"earlier line", Span{File: 1, Line: 2, Col: 9}, Span{File: 1, Line: 3, Col: 1}, true},
		{"same line later col", Span{File: 1, Line: 2, Col: 5}, Span{File: 1, Line: 2, Col: 4}, false},
		{"equal", Span{File: 1, Line: 2, Col: 4}, Span{File: 1, Line: 2, Col: 4}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Before(tt.b); got != tt.want {
				t.Fatalf("Before(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func testCollection() Collection {
	return Collection{
		{Name: "A", Keywords: []string{"a1", "a2"}},
		{Name: "B", Keywords: []string{"b1"}},
		{Name: "C", Keywords: []string{}},
		{Name: "D", Keywords: []string{"d1", "d2", "d3"}},
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := testCollection()
	cl := orig.Clone()

	cl[0].Name = "changed"
	cl[0].Keywords[0] = "changed"

	if orig[0].Name != "A" || orig[0].Keywords[0] != "a1" {
		t.Errorf("Clone() shares memory with original: %+v", orig[0])
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Collection
		want bool
	}{
		{"identical", testCollection(), testCollection(), true},
		{"different group order", Collection{{Name: "A"}, {Name: "B"}}, Collection{{Name: "B"}, {Name: "A"}}, false},
		{"different keyword order", Collection{{Name: "A", Keywords: []string{"x", "y"}}}, Collection{{Name: "A", Keywords: []string{"y", "x"}}}, false},
		{"different length", testCollection(), testCollection()[:2], false},
		{"both empty", Collection{}, Collection{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	orig := testCollection()

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var back Collection
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	back.Normalize()

	if !orig.Equal(back) {
		t.Errorf("round trip changed collection:\n got %+v\nwant %+v", back, orig)
	}
}

func TestExportRoundTrip(t *testing.T) {
	orig := testCollection()

	data, err := orig.Export()
	if err != nil {
		t.Fatalf("Export() failed: %v", err)
	}

	back, err := ParseImport(data)
	if err != nil {
		t.Fatalf("ParseImport() of exported data failed: %v", err)
	}
	if !orig.Equal(back) {
		t.Errorf("export/import round trip changed collection:\n got %+v\nwant %+v", back, orig)
	}
}

func TestMoveGroup(t *testing.T) {
	c := testCollection()

	// Move index 2 to index 0: former index-2 group first, others shift down.
	if err := c.MoveGroup(2, 0); err != nil {
		t.Fatalf("MoveGroup(2, 0) failed: %v", err)
	}

	wantOrder := []string{"C", "A", "B", "D"}
	if len(c) != 4 {
		t.Fatalf("MoveGroup() changed count: got %d, want 4", len(c))
	}
	for i, want := range wantOrder {
		if c[i].Name != want {
			t.Errorf("group[%d] = %q, want %q", i, c[i].Name, want)
		}
	}
}

func TestMoveGroupForward(t *testing.T) {
	c := testCollection()

	if err := c.MoveGroup(0, 3); err != nil {
		t.Fatalf("MoveGroup(0, 3) failed: %v", err)
	}

	wantOrder := []string{"B", "C", "D", "A"}
	for i, want := range wantOrder {
		if c[i].Name != want {
			t.Errorf("group[%d] = %q, want %q", i, c[i].Name, want)
		}
	}
}

func TestMoveGroupOutOfRange(t *testing.T) {
	c := testCollection()
	if err := c.MoveGroup(0, 10); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("MoveGroup(0, 10) error = %v, want ErrIndexOutOfRange", err)
	}
	if err := c.MoveGroup(-1, 0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("MoveGroup(-1, 0) error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestAddGroupRejectsEmptyName(t *testing.T) {
	c := testCollection()
	if _, err := c.AddGroup("   "); !errors.Is(err, ErrEmptyName) {
		t.Errorf("AddGroup(blank) error = %v, want ErrEmptyName", err)
	}
}

func TestKeywordCRUD(t *testing.T) {
	c := Collection{{Name: "A", Keywords: []string{}}}

	if err := c.AddKeyword(0, " hello "); err != nil {
		t.Fatalf("AddKeyword() failed: %v", err)
	}
	if c[0].Keywords[0] != "hello" {
		t.Errorf("AddKeyword() stored %q, want trimmed %q", c[0].Keywords[0], "hello")
	}

	if err := c.EditKeyword(0, 0, "world"); err != nil {
		t.Fatalf("EditKeyword() failed: %v", err)
	}
	if c[0].Keywords[0] != "world" {
		t.Errorf("EditKeyword() stored %q, want %q", c[0].Keywords[0], "world")
	}

	if err := c.DeleteKeyword(0, 0); err != nil {
		t.Fatalf("DeleteKeyword() failed: %v", err)
	}
	if len(c[0].Keywords) != 0 {
		t.Errorf("DeleteKeyword() left %d keywords, want 0", len(c[0].Keywords))
	}
}

func TestFilter(t *testing.T) {
	c := Collection{
		{Name: "Videos", Keywords: []string{"www.youtube.com"}},
		{Name: "Work", Keywords: []string{"jira", "confluence"}},
	}

	tests := []struct {
		term string
		want int
	}{
		{"", 2},
		{"videos", 1},
		{"JIRA", 1},
		{"youtube", 1},
		{"nothing", 0},
	}

	for _, tt := range tests {
		if got := len(c.Filter(tt.term)); got != tt.want {
			t.Errorf("Filter(%q) = %d groups, want %d", tt.term, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	good := testCollection()
	if err := good.Validate(); err != nil {
		t.Errorf("Validate() on good collection: %v", err)
	}

	bad := Collection{{Name: "", Keywords: []string{"x"}}}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidCollection) {
		t.Errorf("Validate() on empty name = %v, want ErrInvalidCollection", err)
	}
}

func TestDefaultIsValid(t *testing.T) {
	def := Default()
	if err := def.Validate(); err != nil {
		t.Fatalf("Default() is invalid: %v", err)
	}
	if len(def) == 0 {
		t.Fatal("Default() is empty")
	}
}

package cache

import (
	"os"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

type entry struct {
	Name    string
	Classes []string
}

func TestPutGetRoundTrip(t *testing.T) {
	c, err := OpenDir(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	key := Sum([]byte("cfg"), []byte("program"))
	want := entry{Name: "shop", Classes: []string{"app.BookManager"}}
	if err := c.Put(key, &want); err != nil {
		t.Fatalf("put: %v", err)
	}
	var got entry
	ok, err := c.Get(key, &got)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Name != want.Name || len(got.Classes) != 1 || got.Classes[0] != want.Classes[0] {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestGetMissing(t *testing.T) {
	c, err := OpenDir(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	var got entry
	ok, err := c.Get(Sum([]byte("nothing")), &got)
	if err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}
}

func TestOtherSchemaIsMiss(t *testing.T) {
	c, err := OpenDir(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	key := Sum([]byte("old"))
	if err := c.Put(key, &entry{Name: "x"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	data, err := msgpack.Marshal(&envelope{Schema: schemaVersion + 1})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(c.pathFor(key), data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	var got entry
	ok, err := c.Get(key, &got)
	if err != nil || ok {
		t.Fatalf("expected miss for foreign schema, got ok=%v err=%v", ok, err)
	}
}

func TestClear(t *testing.T) {
	c, err := OpenDir(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	key := Sum([]byte("a"))
	if err := c.Put(key, &entry{Name: "a"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	var got entry
	if ok, _ := c.Get(key, &got); ok {
		t.Fatalf("entry survived Clear")
	}
}

func TestNilCacheIsNoop(t *testing.T) {
	var c *Cache
	if err := c.Put(Sum(), &entry{}); err != nil {
		t.Fatalf("put on nil cache: %v", err)
	}
	if ok, err := c.Get(Sum(), &entry{}); ok || err != nil {
		t.Fatalf("get on nil cache: ok=%v err=%v", ok, err)
	}
}

func TestSumSeparatesParts(t *testing.T) {
	if Sum([]byte("ab"), []byte("c")) == Sum([]byte("a"), []byte("bc")) {
		t.Fatalf("digest ignores part boundaries")
	}
	if Sum([]byte("x")) != Sum([]byte("x")) {
		t.Fatalf("digest is not deterministic")
	}
}

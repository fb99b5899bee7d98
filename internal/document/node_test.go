package document_test

import (
	"strings"
	"testing"

	"github.com/suderio/arcanum/internal/document"
)

func TestDecodePreservesKeyOrder(t *testing.T) {
	doc, err := document.Decode([]byte(`
zulu: 1
alpha: 2
mike: 3
`))
	if err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}

	want := []string{"zulu", "alpha", "mike"}
	if len(doc.Keys) != len(want) {
		t.Fatalf("Expected %d keys, got %v", len(want), doc.Keys)
	}
	for i, k := range want {
		if doc.Keys[i] != k {
			t.Errorf("Key %d: expected %s, got %s", i, k, doc.Keys[i])
		}
	}
}

func TestDecodeTypedScalars(t *testing.T) {
	doc, err := document.Decode([]byte(`
count: 42
ratio: 1.5
name: fighter
alive: true
nothing: null
`))
	if err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}

	if v := doc.Get("count").Value; v != int64(42) {
		t.Errorf("count: expected int64 42, got %T %v", v, v)
	}
	if v := doc.Get("ratio").Value; v != 1.5 {
		t.Errorf("ratio: expected 1.5, got %v", v)
	}
	if v := doc.Get("name").Value; v != "fighter" {
		t.Errorf("name: expected fighter, got %v", v)
	}
	if v := doc.Get("alive").Value; v != true {
		t.Errorf("alive: expected true, got %v", v)
	}
	if v := doc.Get("nothing").Value; v != nil {
		t.Errorf("nothing: expected nil, got %v", v)
	}
}

func TestDecodeDuplicateKeyFails(t *testing.T) {
	_, err := document.Decode([]byte(`
hit-points: 1
hit-points: 2
`))
	if err == nil {
		t.Fatal("Expected duplicate key error")
	}
	if !strings.Contains(err.Error(), "hit-points") {
		t.Errorf("Error should name the duplicate key: %v", err)
	}
}

func TestDecodeKeepsCustomTags(t *testing.T) {
	doc, err := document.Decode([]byte(`
hit-points: !require.int
score: !optional.int 10
`))
	if err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}

	if tag := doc.Get("hit-points").Tag; tag != "!require.int" {
		t.Errorf("Expected tag !require.int, got %q", tag)
	}
	score := doc.Get("score")
	if score.Tag != "!optional.int" {
		t.Errorf("Expected tag !optional.int, got %q", score.Tag)
	}
	if score.Value != int64(10) {
		t.Errorf("Tagged scalar should keep its typed payload, got %v", score.Value)
	}
}

func TestCopyIsDeep(t *testing.T) {
	doc, err := document.Decode([]byte(`
health:
  current: 10
`))
	if err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}

	dup := doc.Copy()
	dup.Get("health").Set("current", document.NewScalar(int64(99)))

	if doc.Get("health").Get("current").Value != int64(10) {
		t.Error("Mutating a copy must not touch the original")
	}
	if !doc.Equal(doc.Copy()) {
		t.Error("A fresh copy must compare equal to its source")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	src := []byte(`
health:
  current:
    hit-points: 20
  classes:
    - fighter
    - monk
`)
	doc, err := document.Decode(src)
	if err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}

	out, err := document.Encode(doc)
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}

	again, err := document.Decode(out)
	if err != nil {
		t.Fatalf("Failed to re-decode: %v", err)
	}
	if !doc.Equal(again) {
		t.Errorf("Round trip changed the document:\n%s", out)
	}
}

func TestWalkVisitsInDocumentOrder(t *testing.T) {
	doc, err := document.Decode([]byte(`
b:
  d: 1
  c: 2
a: 3
`))
	if err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}

	var visited []string
	doc.Walk(func(path []string, node *document.Node) {
		if node.Kind == document.KindScalar {
			visited = append(visited, document.JoinPath(path))
		}
	})

	want := []string{"b.d", "b.c", "a"}
	if len(visited) != len(want) {
		t.Fatalf("Expected %v, got %v", want, visited)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Errorf("Visit %d: expected %s, got %s", i, want[i], visited[i])
		}
	}
}

package document

import (
	"slices"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

const page = `<html><head><title>T</title></head><body>
<div id="nav"><p>skip me</p></div>
<div id="mw-content-text"><p>First <b>bold</b> para.</p><p>Second</p></div>
</body></html>`

func parse(t *testing.T, s string) *html.Node {
	t.Helper()
	root, err := Parse(strings.NewReader(s))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return root
}

func TestWalkDocumentOrder(t *testing.T) {
	root := parse(t, `<div><p>a</p><ul><li>b</li><li>c</li></ul></div>`)
	var texts []string
	for s := range Text(root) {
		texts = append(texts, s)
	}
	if !slices.Equal(texts, []string{"a", "b", "c"}) {
		t.Errorf("Text() = %v, want [a b c]", texts)
	}
}

func TestWalkRestarts(t *testing.T) {
	root := parse(t, page)
	seq := Walk(root)
	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}
	first, second := count(), count()
	if first == 0 || first != second {
		t.Errorf("walk counts %d then %d, want equal and non-zero", first, second)
	}
}

func TestWalkStopsEarly(t *testing.T) {
	root := parse(t, page)
	n := 0
	for range Walk(root) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("visited %d nodes, want 2", n)
	}
	for range Walk(nil) {
		t.Fatal("Walk(nil) yielded a node")
	}
}

func TestParagraphsPreferContent(t *testing.T) {
	root := parse(t, page)
	paras := Paragraphs(root)
	if len(paras) != 2 {
		t.Fatalf("got %d paragraphs, want 2", len(paras))
	}
	if got := TextContent(paras[0]); got != "First  bold  para." {
		t.Errorf("TextContent = %q", got)
	}

	plain := parse(t, `<body><p>one</p><p>two</p><p>three</p></body>`)
	if got := len(Paragraphs(plain)); got != 3 {
		t.Errorf("got %d paragraphs without content div, want 3", got)
	}
}

func TestFindByID(t *testing.T) {
	root := parse(t, page)
	n, ok := FindByID(root, "nav")
	if !ok || Attr(n, "id") != "nav" {
		t.Fatal("nav div not found")
	}
	if _, ok := FindByID(root, "missing"); ok {
		t.Error("found an element that does not exist")
	}
}

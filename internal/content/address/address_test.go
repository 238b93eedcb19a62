package address

import (
	"errors"
	"strconv"
	"testing"

	"github.com/yungbote/minicms-backend/internal/content"
	"github.com/yungbote/minicms-backend/internal/content/document"
	"github.com/yungbote/minicms-backend/internal/content/schema"
)

func sampleData() document.Value {
	link := func(url string) document.Value {
		return document.Mapping(document.Pair("url", document.String(url)))
	}
	return document.Mapping(
		document.Pair("title", document.String("Hello")),
		document.Pair("authors", document.Sequence(
			document.Mapping(
				document.Pair("id", document.String("a1")),
				document.Pair("name", document.String("Ada")),
				document.Pair("links", document.Sequence(link("https://a.example"), link("https://b.example"))),
			),
			document.Mapping(
				document.Pair("id", document.String("a2")),
				document.Pair("name", document.String("Grace")),
				document.Pair("links", document.String("not a list")),
			),
		)),
	)
}

func mustPath(t *testing.T, raw string) schema.Path {
	t.Helper()
	p, err := schema.ParsePath(raw)
	if err != nil {
		t.Fatalf("ParsePath(%q): %v", raw, err)
	}
	return p
}

func TestReadAt(t *testing.T) {
	data := sampleData()

	got, err := ReadAt(data, mustPath(t, "authors/1"))
	if err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	name, _ := got.Get("name")
	if name.Text() != "Grace" {
		t.Fatalf("name: want=Grace got=%q", name.Text())
	}

	got, err = ReadAt(data, mustPath(t, "authors/0/links/1"))
	if err != nil {
		t.Fatalf("ReadAt nested: %v", err)
	}
	url, _ := got.Get("url")
	if url.Text() != "https://b.example" {
		t.Fatalf("url: want=https://b.example got=%q", url.Text())
	}
}

func TestReadAtReturnsCopy(t *testing.T) {
	data := sampleData()
	got, err := ReadAt(data, mustPath(t, "authors/0"))
	if err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	got.Set("name", document.String("changed"))
	again, _ := ReadAt(data, mustPath(t, "authors/0"))
	if name, _ := again.Get("name"); name.Text() != "Ada" {
		t.Fatalf("ReadAt result aliases the record: name=%q", name.Text())
	}
}

func TestInvalidFieldStructure(t *testing.T) {
	data := sampleData()
	cases := map[string]schema.Path{
		"index past end":         mustPath(t, "authors/2"),
		"nested index past end":  mustPath(t, "authors/0/links/5"),
		"nested not a sequence":  mustPath(t, "authors/1/links/0"),
		"top-level not sequence": mustPath(t, "title/0"),
		"missing field":          mustPath(t, "editors/0"),
		"missing nested field":   mustPath(t, "authors/0/emails/0"),
		"non integer index":      {Segments: []string{"authors", "first"}},
		"index overflow":         {Segments: []string{"authors", "99999999999999999999999"}},
		"wrong segment count":    {Segments: []string{"authors"}},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ReadAt(data, p); !errors.Is(err, content.ErrInvalidFieldStructure) {
				t.Fatalf("ReadAt: want ErrInvalidFieldStructure got=%v", err)
			}
			before := data.Clone()
			if err := WriteAt(&data, p, document.Mapping()); !errors.Is(err, content.ErrInvalidFieldStructure) {
				t.Fatalf("WriteAt: want ErrInvalidFieldStructure got=%v", err)
			}
			if !before.Equal(data) {
				t.Fatalf("failed WriteAt mutated the record")
			}
		})
	}
}

func TestInvalidFieldStructureNonMappingRoot(t *testing.T) {
	root := document.Sequence(document.Int(1))
	if _, err := ReadAt(root, mustPath(t, "authors/0")); !errors.Is(err, content.ErrInvalidFieldStructure) {
		t.Fatalf("ReadAt: want ErrInvalidFieldStructure got=%v", err)
	}
	elem := document.Mapping(document.Pair("authors", document.Sequence(document.String("x"))))
	if _, err := ReadAt(elem, mustPath(t, "authors/0/links/0")); !errors.Is(err, content.ErrInvalidFieldStructure) {
		t.Fatalf("ReadAt scalar element: want ErrInvalidFieldStructure got=%v", err)
	}
	if err := WriteAt(nil, mustPath(t, "authors/0"), document.Null()); !errors.Is(err, content.ErrInvalidFieldStructure) {
		t.Fatalf("WriteAt nil: want ErrInvalidFieldStructure got=%v", err)
	}
}

func TestBoundsAgreeWithLength(t *testing.T) {
	data := sampleData()
	authors, _ := data.Get("authors")
	for i := -1; i <= authors.Len()+1; i++ {
		p := schema.Path{Segments: []string{"authors", strconv.Itoa(i)}}
		_, err := ReadAt(data, p)
		inRange := i >= 0 && i < authors.Len()
		if inRange && err != nil {
			t.Fatalf("index %d: unexpected error %v", i, err)
		}
		if !inRange && !errors.Is(err, content.ErrInvalidFieldStructure) {
			t.Fatalf("index %d: want ErrInvalidFieldStructure got=%v", i, err)
		}
	}
}

func TestWriteAtReplacesOnlyTarget(t *testing.T) {
	data := sampleData()
	repl := document.Mapping(document.Pair("url", document.String("https://c.example")))
	if err := WriteAt(&data, mustPath(t, "authors/0/links/0"), repl); err != nil {
		t.Fatalf("WriteAt: %v", err)
	}

	want := sampleData()
	links := want.Field("authors").Elem(0).Field("links")
	*links.Elem(0) = repl
	if !want.Equal(data) {
		t.Fatalf("WriteAt: want=%s got=%s", want, data)
	}
}

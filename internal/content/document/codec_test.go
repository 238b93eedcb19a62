package document

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/minicms-backend/internal/content"
)

const sampleRecord = `# A post
data:
  title: Hello
  published: true
  views: 12
  rating: 4.5
  date: 2024-05-01
  missing: ~
  zip: "00123"
  body: |
    line one
    line two
  authors:
    - id: a1
      name: Ada
      links:
        - url: https://example.com
    - id: a2
      name: Grace
      links: []
meta:
  layout: post
`

func TestDecodeYAMLScalars(t *testing.T) {
	v, err := Decode([]byte(sampleRecord), FormatYAML)
	require.NoError(t, err)
	require.Equal(t, KindMapping, v.Kind())

	data, ok := v.Get("data")
	require.True(t, ok)

	title, _ := data.Get("title")
	s, ok := title.AsString()
	require.True(t, ok)
	require.Equal(t, "Hello", s)

	published, _ := data.Get("published")
	b, ok := published.AsBool()
	require.True(t, ok)
	require.True(t, b)

	views, _ := data.Get("views")
	i, ok := views.AsInt()
	require.True(t, ok)
	require.Equal(t, int64(12), i)

	rating, _ := data.Get("rating")
	f, ok := rating.AsFloat()
	require.True(t, ok)
	require.Equal(t, 4.5, f)

	date, _ := data.Get("date")
	require.Equal(t, "2024-05-01", date.Text(), "timestamps keep their source text")

	missing, _ := data.Get("missing")
	require.True(t, missing.IsNull())

	zip, _ := data.Get("zip")
	require.Equal(t, String("00123"), zip)

	body, _ := data.Get("body")
	require.Equal(t, "line one\nline two\n", body.Text())

	authors, _ := data.Get("authors")
	require.Equal(t, KindSequence, authors.Kind())
	require.Equal(t, 2, authors.Len())
}

func TestDecodeYAMLKeepsKeyOrder(t *testing.T) {
	v, err := Decode([]byte("b: 1\na: 2\nc: 3\n"), FormatYAML)
	require.NoError(t, err)
	require.Equal(t, []string{"b", "a", "c"}, v.Keys())
}

func TestDecodeYAMLAliasAndMerge(t *testing.T) {
	raw := `base: &base
  layout: post
  draft: false
page:
  <<: *base
  draft: true
`
	v, err := Decode([]byte(raw), FormatYAML)
	require.NoError(t, err)
	page, _ := v.Get("page")
	draft, _ := page.Get("draft")
	require.Equal(t, Bool(true), draft)
	layout, _ := page.Get("layout")
	require.Equal(t, String("post"), layout)
}

func TestDecodeYAMLEmpty(t *testing.T) {
	v, err := Decode(nil, FormatYAML)
	require.NoError(t, err)
	require.True(t, v.IsNull())
}

func TestDecodeMalformed(t *testing.T) {
	cases := []struct {
		name   string
		raw    string
		format Format
	}{
		{"yaml syntax", "a: [1, 2\n", FormatYAML},
		{"yaml duplicate key", "a: 1\na: 2\n", FormatYAML},
		{"yaml multi document", "a: 1\n---\nb: 2\n", FormatYAML},
		{"json syntax", `{"a": }`, FormatJSON},
		{"json empty", ``, FormatJSON},
		{"json trailing", `{"a": 1} {"b": 2}`, FormatJSON},
		{"json duplicate key", `{"a": 1, "a": 2}`, FormatJSON},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.raw), tc.format)
			require.Error(t, err)
			require.True(t, errors.Is(err, content.ErrMalformedDocument), "got %v", err)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	docs := []string{
		sampleRecord,
		"title: Old\n",
		"list:\n  - 1\n  - 2.0\n  - \"3\"\n  - true\n  - null\n",
		"quoted: \"true\"\nnum_like: \"12\"\nempty: \"\"\n",
		"nested:\n  a:\n    b:\n      - c: d\n",
		"big: 1e21\nneg: -0.5\n",
	}
	for _, format := range []Format{FormatYAML, FormatJSON} {
		for _, raw := range docs {
			d, err := Decode([]byte(raw), FormatYAML)
			require.NoError(t, err)

			encoded, err := Encode(d, format)
			require.NoError(t, err)
			back, err := Decode(encoded, format)
			require.NoError(t, err, "format=%s encoded=%s", format, encoded)
			require.True(t, d.Equal(back), "format=%s\nwant=%s\ngot=%s", format, d, back)
		}
	}
}

func TestRoundTripText(t *testing.T) {
	d, err := Decode([]byte("# Heading\n\nbody"), FormatText)
	require.NoError(t, err)
	out, err := Encode(d, FormatText)
	require.NoError(t, err)
	require.Equal(t, "# Heading\n\nbody", string(out))

	_, err = Encode(Mapping(), FormatText)
	require.Error(t, err)
}

func TestEncodeYAMLPreservesOrder(t *testing.T) {
	v := Mapping(Pair("title", String("Old")))
	out, err := Encode(v, FormatYAML)
	require.NoError(t, err)
	require.Equal(t, "title: Old\n", string(out))

	v = Mapping(Pair("z", Int(1)), Pair("a", Int(2)))
	out, err = Encode(v, FormatYAML)
	require.NoError(t, err)
	require.Less(t, strings.Index(string(out), "z:"), strings.Index(string(out), "a:"))
}

func TestEncodeYAMLKeepsLineBreakCharacters(t *testing.T) {
	for _, text := range []string{
		"\u2028y\nz",
		"a\u2029b",
		"x\u0085y\n",
		"crlf\r\nline",
	} {
		v := Mapping(Pair("k", String(text)))
		out, err := Encode(v, FormatYAML)
		require.NoError(t, err)
		back, err := Decode(out, FormatYAML)
		require.NoError(t, err, "encoded=%q", out)
		require.True(t, v.Equal(back), "text=%q encoded=%q got=%s", text, out, back)
	}

	out, err := Encode(Mapping(Pair("body", String("one\ntwo\n"))), FormatYAML)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(out), "body: |"), "multi-line strings stay literal: %q", out)
}

func TestEncodeJSONRejectsNaN(t *testing.T) {
	_, err := Encode(Mapping(Pair("x", Float(math.NaN()))), FormatJSON)
	require.Error(t, err)
}

func TestFromAny(t *testing.T) {
	v, err := FromAny(map[string]any{
		"title": "New",
		"tags":  []any{"a", "b"},
		"n":     3,
		"f":     1.5,
		"ok":    true,
		"none":  nil,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"f", "n", "none", "ok", "tags", "title"}, v.Keys())
	n, _ := v.Get("n")
	require.Equal(t, Int(3), n)

	_, err = FromAny(struct{}{})
	require.Error(t, err)
}

func TestValueMutation(t *testing.T) {
	v := Mapping(Pair("items", Sequence(Mapping(Pair("a", Int(1))))))
	items := v.Field("items")
	require.NotNil(t, items)
	require.True(t, items.Append(Mapping(Pair("a", Int(2)))))

	first := items.Elem(0)
	require.True(t, first.Set("a", Int(10)))
	require.Nil(t, items.Elem(2))

	got, _ := v.Get("items")
	require.Equal(t, 2, got.Len())
	a, _ := got.Items()[0].Get("a")
	require.Equal(t, Int(10), a)

	clone := v.Clone()
	clone.Field("items").Elem(0).Set("a", Int(99))
	a, _ = v.Field("items").Elem(0).Get("a")
	require.Equal(t, Int(10), a, "clone must not share storage")

	s := String("x")
	require.False(t, s.Set("a", Int(1)))
	require.False(t, s.Append(Int(1)))
}

func TestEqual(t *testing.T) {
	a := Mapping(Pair("x", Int(1)), Pair("y", String("z")))
	b := Mapping(Pair("y", String("z")), Pair("x", Int(1)))
	require.True(t, a.Equal(b), "mapping order is not significant")
	require.False(t, Int(1).Equal(Float(1)))
	require.False(t, Sequence(Int(1), Int(2)).Equal(Sequence(Int(2), Int(1))))
}

package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/minicms-backend/internal/content"
)

const sampleConfig = `collections:
  - id: posts
    label: Posts
    fields:
      - id: title
        editable: true
      - id: slug
        editable: false
      - id: authors
        editable: true
        fields:
          - id: id
            editable: false
            default_value: uuid
          - id: name
            editable: true
          - id: links
            editable: true
  - id: pages
    fields:
      - id: heading
        editable: true
`

func loadSample(t *testing.T) *SiteConfig {
	t.Helper()
	cfg, err := LoadConfig([]byte(sampleConfig))
	require.NoError(t, err)
	return cfg
}

func TestLoadConfig(t *testing.T) {
	cfg := loadSample(t)
	require.Len(t, cfg.Collections, 2)

	posts, err := ResolveCollection(cfg, "posts")
	require.NoError(t, err)
	authors, ok := posts.Field("authors")
	require.True(t, ok)
	require.True(t, authors.IsGroup())
	id, ok := authors.Field("id")
	require.True(t, ok)
	require.Equal(t, DefaultGenerateUUID, id.DefaultValue)

	editable := posts.EditableScalarFields()
	require.Len(t, editable, 1)
	require.Equal(t, "title", editable[0].ID)

	nested := authors.EditableFields()
	require.Len(t, nested, 2)
	require.Equal(t, "name", nested[0].ID)
	require.Equal(t, "links", nested[1].ID)
}

func TestLoadConfigRejects(t *testing.T) {
	cases := map[string]string{
		"syntax":           "collections: [",
		"unknown default":  "collections:\n  - id: a\n    fields:\n      - id: x\n        default_value: random\n",
		"duplicate coll":   "collections:\n  - id: a\n  - id: a\n",
		"duplicate field":  "collections:\n  - id: a\n    fields:\n      - id: x\n      - id: x\n",
		"missing id":       "collections:\n  - label: nope\n",
		"slash in id":      "collections:\n  - id: a/b\n",
		"groups in groups": "collections:\n  - id: a\n    fields:\n      - id: g\n        fields:\n          - id: h\n            fields:\n              - id: i\n",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig([]byte(raw))
			require.Error(t, err)
			require.True(t, errors.Is(err, content.ErrMalformedDocument), "got %v", err)
		})
	}
}

func TestResolveCollectionNotFound(t *testing.T) {
	_, err := ResolveCollection(loadSample(t), "events")
	require.True(t, errors.Is(err, content.ErrCollectionNotFound), "got %v", err)

	_, err = ResolveCollection(nil, "posts")
	require.True(t, errors.Is(err, content.ErrCollectionNotFound), "got %v", err)
}

func TestResolveFieldPath(t *testing.T) {
	posts, err := ResolveCollection(loadSample(t), "posts")
	require.NoError(t, err)

	cases := []struct {
		path    string
		wantErr error
		depth   int
	}{
		{"authors/0", nil, 1},
		{"authors/12/links/3", nil, 2},
		{"authors", content.ErrInvalidPathFormat, 0},
		{"authors/0/links", content.ErrInvalidPathFormat, 0},
		{"authors/0/links/1/x", content.ErrInvalidPathFormat, 0},
		{"authors/x", content.ErrInvalidPathFormat, 0},
		{"authors/-1", content.ErrInvalidPathFormat, 0},
		{"authors/0/links/y", content.ErrInvalidPathFormat, 0},
		{"/0", content.ErrInvalidPathFormat, 0},
		{"", content.ErrInvalidPathFormat, 0},
		{"editors/0", content.ErrFieldNotFound, 0},
		{"authors/0/emails/0", content.ErrNestedFieldNotFound, 0},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			field, p, err := ResolveFieldPath(posts, tc.path)
			if tc.wantErr != nil {
				require.True(t, errors.Is(err, tc.wantErr), "want %v got %v", tc.wantErr, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "authors", field.ID, "the top-level group travels with every resolved path")
			require.Equal(t, tc.depth, p.Depth())
			require.Equal(t, tc.path, p.String())
		})
	}
}

func TestPathIndex(t *testing.T) {
	p, err := ParsePath("authors/3/links/7")
	require.NoError(t, err)
	i, err := p.Index(0)
	require.NoError(t, err)
	require.Equal(t, 3, i)
	j, err := p.Index(1)
	require.NoError(t, err)
	require.Equal(t, 7, j)
	require.Equal(t, "links", p.NestedFieldID())

	_, err = p.Index(2)
	require.Error(t, err)
}

func TestResolveGroupField(t *testing.T) {
	posts, err := ResolveCollection(loadSample(t), "posts")
	require.NoError(t, err)

	field, err := ResolveGroupField(posts, "authors")
	require.NoError(t, err)
	require.Equal(t, "authors", field.ID)

	_, err = ResolveGroupField(posts, "title")
	require.True(t, errors.Is(err, content.ErrFieldNotFound), "got %v", err)
	_, err = ResolveGroupField(posts, "nope")
	require.True(t, errors.Is(err, content.ErrFieldNotFound), "got %v", err)
}

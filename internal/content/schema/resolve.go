package schema

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/yungbote/minicms-backend/internal/content"
)

var indexSegment = regexp.MustCompile(`^\d+$`)

// Path is a parsed field/index or field/index/nested/index address. It carries no
// schema information and is only meaningful against the collection it was resolved with.
type Path struct {
	Segments []string
}

// Depth is 1 for field/index and 2 for field/index/nested/index.
func (p Path) Depth() int { return len(p.Segments) / 2 }

func (p Path) FieldID() string { return p.Segments[0] }

// NestedFieldID is "" for a depth-1 path.
func (p Path) NestedFieldID() string {
	if len(p.Segments) < 4 {
		return ""
	}
	return p.Segments[2]
}

func (p Path) String() string { return strings.Join(p.Segments, "/") }

// Index returns the integer value of the index segment at level 0 or 1.
func (p Path) Index(level int) (int, error) {
	pos := level*2 + 1
	if pos >= len(p.Segments) {
		return 0, fmt.Errorf("path %q has no level %d", p.String(), level)
	}
	return strconv.Atoi(p.Segments[pos])
}

// ParsePath checks the path grammar without consulting a schema.
func ParsePath(raw string) (Path, error) {
	segments := strings.Split(raw, "/")
	if len(segments) != 2 && len(segments) != 4 {
		return Path{}, fmt.Errorf("%w: %q has %d segments", content.ErrInvalidPathFormat, raw, len(segments))
	}
	for i, seg := range segments {
		if seg == "" {
			return Path{}, fmt.Errorf("%w: %q has an empty segment", content.ErrInvalidPathFormat, raw)
		}
		if i%2 == 1 && !indexSegment.MatchString(seg) {
			return Path{}, fmt.Errorf("%w: %q segment %d is not an index", content.ErrInvalidPathFormat, raw, i)
		}
	}
	return Path{Segments: segments}, nil
}

// ResolveCollection finds a collection by id.
func ResolveCollection(cfg *SiteConfig, collectionID string) (*CollectionSchema, error) {
	if cfg != nil {
		for i := range cfg.Collections {
			if cfg.Collections[i].ID == collectionID {
				return &cfg.Collections[i], nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %q", content.ErrCollectionNotFound, collectionID)
}

// ResolveFieldPath parses raw and checks every field id it names. The returned
// FieldDef is always the top-level repeatable group, for both path depths; group
// element edits use its editable nested fields.
func ResolveFieldPath(col *CollectionSchema, raw string) (*FieldDef, Path, error) {
	p, err := ParsePath(raw)
	if err != nil {
		return nil, Path{}, err
	}
	field, ok := col.Field(p.FieldID())
	if !ok {
		return nil, Path{}, fmt.Errorf("%w: %q in collection %q", content.ErrFieldNotFound, p.FieldID(), col.ID)
	}
	if p.Depth() == 2 {
		if _, ok := field.Field(p.NestedFieldID()); !ok {
			return nil, Path{}, fmt.Errorf("%w: %q in field %q", content.ErrNestedFieldNotFound, p.NestedFieldID(), field.ID)
		}
	}
	return field, p, nil
}

// ResolveGroupField finds a top-level repeatable group for appending a new element.
// A scalar field is reported as ErrFieldNotFound since it has no elements to append to.
func ResolveGroupField(col *CollectionSchema, fieldID string) (*FieldDef, error) {
	field, ok := col.Field(fieldID)
	if !ok {
		return nil, fmt.Errorf("%w: %q in collection %q", content.ErrFieldNotFound, fieldID, col.ID)
	}
	if !field.IsGroup() {
		return nil, fmt.Errorf("%w: %q is not a repeatable group", content.ErrFieldNotFound, fieldID)
	}
	return field, nil
}

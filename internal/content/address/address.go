// Package address reads and replaces the group element a schema.Path denotes
// inside a record's data tree.
package address

import (
	"fmt"

	"github.com/yungbote/minicms-backend/internal/content"
	"github.com/yungbote/minicms-backend/internal/content/document"
	"github.com/yungbote/minicms-backend/internal/content/schema"
)

// ReadAt returns the element at p. Indexes must name existing elements.
func ReadAt(data document.Value, p schema.Path) (document.Value, error) {
	target, err := locate(&data, p)
	if err != nil {
		return document.Value{}, err
	}
	return target.Clone(), nil
}

// WriteAt replaces the element at p in place. It fails exactly when ReadAt would.
func WriteAt(data *document.Value, p schema.Path, v document.Value) error {
	if data == nil {
		return fmt.Errorf("%w: nil record data", content.ErrInvalidFieldStructure)
	}
	target, err := locate(data, p)
	if err != nil {
		return err
	}
	*target = v
	return nil
}

func locate(root *document.Value, p schema.Path) (*document.Value, error) {
	if len(p.Segments) != 2 && len(p.Segments) != 4 {
		return nil, fmt.Errorf("%w: %q has %d segments", content.ErrInvalidFieldStructure, p.String(), len(p.Segments))
	}
	cur := root
	for level := 0; level < p.Depth(); level++ {
		key := p.Segments[level*2]
		if cur.Kind() != document.KindMapping {
			return nil, fmt.Errorf("%w: %q: parent of %q is a %s, not a mapping",
				content.ErrInvalidFieldStructure, p.String(), key, cur.Kind())
		}
		seq := cur.Field(key)
		if seq == nil {
			return nil, fmt.Errorf("%w: %q: no %q", content.ErrInvalidFieldStructure, p.String(), key)
		}
		if seq.Kind() != document.KindSequence {
			return nil, fmt.Errorf("%w: %q: %q is a %s, not a sequence",
				content.ErrInvalidFieldStructure, p.String(), key, seq.Kind())
		}
		idx, err := p.Index(level)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", content.ErrInvalidFieldStructure, p.String(), err)
		}
		elem := seq.Elem(idx)
		if elem == nil {
			return nil, fmt.Errorf("%w: %q: index %d out of range for %q (len %d)",
				content.ErrInvalidFieldStructure, p.String(), idx, key, seq.Len())
		}
		cur = elem
	}
	return cur, nil
}

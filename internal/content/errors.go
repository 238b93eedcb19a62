// Package content holds the error taxonomy shared by the document codec, the schema
// resolver, the path addressing engine and the update orchestrator.
package content

import "errors"

var (
	// ErrCollectionNotFound indicates config.yml declares no collection with the id.
	ErrCollectionNotFound = errors.New("collection not found")
	// ErrFieldNotFound indicates the collection has no top-level field with the id.
	ErrFieldNotFound = errors.New("field not found")
	// ErrNestedFieldNotFound indicates the group has no nested field with the id.
	ErrNestedFieldNotFound = errors.New("nested field not found")
	// ErrFieldNotEditable indicates a write addressed a field the schema marks read-only.
	ErrFieldNotEditable = errors.New("field not editable")
	// ErrInvalidPathFormat indicates a path that is not field/index or field/index/field/index.
	ErrInvalidPathFormat = errors.New("invalid path format")
	// ErrInvalidFieldStructure indicates a path that does not match the record's data tree.
	ErrInvalidFieldStructure = errors.New("invalid field structure")
	// ErrMalformedDocument indicates bytes that do not parse under the declared format.
	ErrMalformedDocument = errors.New("malformed document")
	// ErrConcurrentModification indicates the record changed since it was fetched.
	ErrConcurrentModification = errors.New("concurrent modification")
	// ErrStoreUnavailable wraps transport failures from the content store.
	ErrStoreUnavailable = errors.New("content store unavailable")
	// ErrRecordNotFound indicates the record file does not exist.
	ErrRecordNotFound = errors.New("record not found")
)

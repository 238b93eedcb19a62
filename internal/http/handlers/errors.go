package handlers

import (
	"errors"
	"net/http"

	"github.com/yungbote/minicms-backend/internal/content"
	"github.com/yungbote/minicms-backend/internal/platform/apierr"
	"github.com/yungbote/minicms-backend/internal/platform/github"
	"github.com/yungbote/minicms-backend/internal/services"
)

var errorTable = []struct {
	target error
	status int
	code   string
}{
	{content.ErrCollectionNotFound, http.StatusNotFound, "collection_not_found"},
	{content.ErrRecordNotFound, http.StatusNotFound, "record_not_found"},
	{content.ErrFieldNotFound, http.StatusNotFound, "field_not_found"},
	{content.ErrNestedFieldNotFound, http.StatusNotFound, "nested_field_not_found"},
	{content.ErrInvalidPathFormat, http.StatusBadRequest, "invalid_path_format"},
	{content.ErrInvalidFieldStructure, http.StatusBadRequest, "invalid_field_structure"},
	{content.ErrFieldNotEditable, http.StatusBadRequest, "field_not_editable"},
	{content.ErrMalformedDocument, http.StatusUnprocessableEntity, "malformed_document"},
	{content.ErrConcurrentModification, http.StatusConflict, "concurrent_modification"},
	{services.ErrNoAccountProvider, http.StatusNotImplemented, "account_unavailable"},
	{content.ErrStoreUnavailable, http.StatusBadGateway, "store_unavailable"},
}

// toAPIError maps service errors onto HTTP statuses. The first matching entry wins,
// so a store failure that also carries a GitHub status is still reported by taxonomy.
func toAPIError(err error) *apierr.Error {
	if ae, ok := apierr.As(err); ok {
		return ae
	}
	for _, e := range errorTable {
		if errors.Is(err, e.target) {
			return apierr.New(e.status, e.code, err)
		}
	}
	switch github.StatusCode(err) {
	case http.StatusUnauthorized:
		return apierr.New(http.StatusUnauthorized, "unauthorized", err)
	case http.StatusForbidden:
		return apierr.New(http.StatusForbidden, "forbidden", err)
	}
	return apierr.New(http.StatusInternalServerError, "internal_error", err)
}

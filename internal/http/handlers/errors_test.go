package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/yungbote/minicms-backend/internal/content"
	"github.com/yungbote/minicms-backend/internal/platform/github"
	"github.com/yungbote/minicms-backend/internal/services"
)

func TestToAPIError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("write: %w", content.ErrConcurrentModification), http.StatusConflict},
		{fmt.Errorf("config: %w", content.ErrMalformedDocument), http.StatusUnprocessableEntity},
		{fmt.Errorf("fetch: %w: %w", content.ErrStoreUnavailable, context.DeadlineExceeded), http.StatusBadGateway},
		{content.ErrFieldNotEditable, http.StatusBadRequest},
		{services.ErrNoAccountProvider, http.StatusNotImplemented},
		{&github.StatusError{StatusCode: http.StatusUnauthorized}, http.StatusUnauthorized},
		{&github.StatusError{StatusCode: http.StatusForbidden}, http.StatusForbidden},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := toAPIError(tc.err); got.Status != tc.status {
			t.Fatalf("toAPIError(%v): want=%d got=%d", tc.err, tc.status, got.Status)
		}
	}
}

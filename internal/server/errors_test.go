package server

import (
	"errors"
	"net/http"
	"testing"

	taskdomain "github.com/smallbiznis/taskora/internal/task/domain"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapErrorStatuses(t *testing.T) {
	cases := []struct {
		err    error
		status int
		typ    string
	}{
		{ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{ErrForbidden, http.StatusForbidden, "forbidden"},
		{ErrConflict, http.StatusConflict, "conflict"},
		{gorm.ErrDuplicatedKey, http.StatusConflict, "conflict"},
		{errors.New("UNIQUE constraint failed: webhook_endpoints.url"), http.StatusConflict, "conflict"},
		{errors.New(`ERROR: duplicate key value violates unique constraint "uq_targets" (SQLSTATE 23505)`), http.StatusConflict, "conflict"},
		{gorm.ErrRecordNotFound, http.StatusNotFound, "not_found"},
		{taskdomain.ErrInvalidTitle, http.StatusBadRequest, "validation_error"},
		{ErrServiceUnavailable, http.StatusServiceUnavailable, "service_unavailable"},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		status, payload := mapError(tc.err)
		assert.Equal(t, tc.status, status, "%v", tc.err)
		assert.Equal(t, tc.typ, payload.Type, "%v", tc.err)
	}
}

func TestClassifyError(t *testing.T) {
	typ, status := classifyError(ErrConflict)
	assert.Equal(t, "conflict", typ)
	assert.Equal(t, "409", status)
}

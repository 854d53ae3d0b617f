package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataStatusAndExposure(t *testing.T) {
	cases := map[Code]struct {
		status    int
		expose    bool
		retryable bool
	}{
		CodeValidation:   {status: http.StatusBadRequest, expose: true},
		CodeUnauthorized: {status: http.StatusUnauthorized, expose: true},
		CodeForbidden:    {status: http.StatusForbidden, expose: true},
		CodeNotFound:     {status: http.StatusNotFound, expose: true},
		CodeConflict:     {status: http.StatusConflict, expose: true},
		CodeRateLimit:    {status: http.StatusTooManyRequests, expose: true},
		CodeInternal:     {status: http.StatusInternalServerError, retryable: true},
		CodeDependency:   {status: http.StatusServiceUnavailable, retryable: true},
	}
	for code, want := range cases {
		meta := MetadataFor(code)
		assert.Equal(t, want.status, meta.HTTPStatus, code)
		assert.Equal(t, want.expose, meta.ExposeMessage, code)
		assert.Equal(t, want.retryable, meta.Retryable, code)
		assert.NotEmpty(t, meta.PublicMessage, code)
	}
	assert.True(t, MetadataFor(CodeValidation).DetailsAllowed)
	assert.False(t, MetadataFor(CodeInternal).DetailsAllowed)
	assert.Equal(t, http.StatusInternalServerError, MetadataFor("SOMETHING_UNKNOWN").HTTPStatus)
}

func TestConstructorsAndDetails(t *testing.T) {
	e := New(CodeValidation, "missing name")
	assert.Equal(t, CodeValidation, e.Code())
	assert.Equal(t, "missing name", e.Message())
	assert.Nil(t, e.Details())
	assert.Equal(t, map[string]any{"field": "name"}, e.WithDetails(map[string]any{"field": "name"}).Details())

	cause := stdErrors.New("duplicate key")
	wrapped := Wrap(CodeConflict, cause, "sku taken")
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, CodeConflict, wrapped.Code())

	nf := NotFound("Shipment")
	assert.Equal(t, "Shipment not found.", nf.Message())
	assert.Equal(t, CodeNotFound, nf.Code())

	assert.Equal(t, "order 7 is locked", Newf(CodeConflict, "order %d is locked", 7).Message())
}

func TestIsCodeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("load category: %w", New(CodeForbidden, "no entry"))
	assert.True(t, IsCode(err, CodeForbidden))
	assert.False(t, IsCode(err, CodeNotFound))
	assert.Nil(t, As(nil))
	assert.Nil(t, As(stdErrors.New("plain")))
}

func TestDumpCapturesPostgresDetail(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "ux_products_sku", TableName: "products", Detail: "Key (sku)=(A) already exists."}
	dump := Dump(Wrap(CodeConflict, fmt.Errorf("insert product: %w", pgErr), "sku taken"))

	assert.Equal(t, CodeConflict, dump.Code)
	assert.Equal(t, "23505", dump.PGCode)
	assert.Equal(t, "ux_products_sku", dump.PGConstraint)
	require.Len(t, dump.Chain, 3)

	fields := dump.Fields()
	assert.Equal(t, "products", fields["pg_table"])
	assert.Equal(t, string(CodeConflict), fields["error_code"])
}

func TestDumpFallsBackToLibPQ(t *testing.T) {
	dump := Dump(fmt.Errorf("delete location: %w", &pq.Error{Code: "23503", Constraint: "fk_inventory_location", Table: "inventory_products"}))
	assert.Equal(t, "23503", dump.PGCode)
	assert.Equal(t, "fk_inventory_location", dump.PGConstraint)
	assert.Empty(t, dump.Code)

	fields := dump.Fields()
	assert.NotContains(t, fields, "pg_detail")
	assert.NotContains(t, fields, "error_code")
	assert.Equal(t, ErrorDump{}, Dump(nil))
}

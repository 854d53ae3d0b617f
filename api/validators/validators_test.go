package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/backoffice-api/pkg/errors"
	"github.com/angelmondragon/backoffice-api/pkg/pagination"
	"github.com/go-chi/chi/v5"
)

type createBody struct {
	Name  string `json:"name" validate:"required,max=10"`
	Email string `json:"email" validate:"omitempty,email"`
}

func TestDecodeJSONBodyValidates(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope"}`))
	var body createBody
	err := DecodeJSONBody(req, &body)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok || details["name"] != "is required" || details["email"] != "must be a valid email" {
		t.Fatalf("unexpected details %#v", typed.Details())
	}
}

type skuBody struct {
	SKU string `json:"sku" validate:"required,sku"`
}

func TestSKUTag(t *testing.T) {
	cases := map[string]bool{
		"SKU-1":      true,
		"lamp_2.red": true,
		"-leading":   false,
		"has space":  false,
	}
	for sku, ok := range cases {
		err := ValidateStruct(&skuBody{SKU: sku})
		if ok && err != nil {
			t.Fatalf("%q: unexpected error %v", sku, err)
		}
		if !ok {
			typed := pkgerrors.As(err)
			if typed == nil {
				t.Fatalf("%q: expected validation error", sku)
			}
			if details, _ := typed.Details().(map[string]string); details["sku"] == "" {
				t.Fatalf("%q: expected sku detail, got %#v", sku, typed.Details())
			}
		}
	}
}

func TestDecodeJSONBodyRejectsUnknownFieldsAndEmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a","role":"root"}`))
	var body createBody
	if err := DecodeJSONBody(req, &body); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for unknown field, got %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	err := DecodeJSONBody(req, &body)
	if typed := pkgerrors.As(err); typed == nil || typed.Message() != "Request body is required." {
		t.Fatalf("expected empty body error, got %v", err)
	}
}

func TestParsePage(t *testing.T) {
	sort := pagination.Sort{Columns: []string{"id", "name"}, DefaultBy: "id"}

	req := httptest.NewRequest(http.MethodGet, "/?page=2&limit=20&orderBy=name&order=desc", nil)
	params, err := ParsePage(req, sort)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if params.Page != 2 || params.Limit != 20 || params.OrderBy != "name" || params.Order != pagination.Desc {
		t.Fatalf("unexpected params %+v", params)
	}

	for _, query := range []string{"?page=0", "?limit=500", "?orderBy=password_hash", "?order=up", "?page=abc"} {
		req := httptest.NewRequest(http.MethodGet, "/"+query, nil)
		if _, err := ParsePage(req, sort); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("expected validation error for %s, got %v", query, err)
		}
	}
}

func TestPathID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", "42")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	id, err := PathID(req, "id")
	if err != nil || id != 42 {
		t.Fatalf("expected 42, got %d err=%v", id, err)
	}
	if _, err := PathID(req, "missing"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for missing param")
	}
}

func TestOptionalQueryID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?product_id=7&location_id=-1", nil)
	id, err := ParseOptionalQueryID(req, "product_id")
	if err != nil || id == nil || *id != 7 {
		t.Fatalf("unexpected product id %v err=%v", id, err)
	}
	if _, err := ParseOptionalQueryID(req, "location_id"); err == nil {
		t.Fatalf("expected error for negative id")
	}
	if id, err := ParseOptionalQueryID(req, "other"); err != nil || id != nil {
		t.Fatalf("absent filter should be nil")
	}
}

func TestSanitizeHelpers(t *testing.T) {
	if got := NormalizeEmail("  Ada@Example.COM "); got != "ada@example.com" {
		t.Fatalf("unexpected email %q", got)
	}
	blank := "   "
	if OptionalString(&blank, 10) != nil {
		t.Fatalf("blank optional string should map to nil")
	}
	if got := SanitizeString("  abcdef ", 3); got != "abc" {
		t.Fatalf("unexpected sanitized %q", got)
	}
}

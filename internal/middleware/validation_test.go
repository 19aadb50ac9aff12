package middleware

import (
	"bytes"
	"net/http/httptest"
	"testing"
)

type createProductPayload struct {
	Title string   `json:"title" validate:"required,min=1"`
	Price float64  `json:"price" validate:"gte=0"`
	Stock int      `json:"stock" validate:"gte=0"`
	Sizes []string `json:"sizes"`
}

func TestDecodeAndValidateAcceptsValidPayload(t *testing.T) {
	body := []byte(`{"title":"Teslo T-Shirt","price":29.99,"stock":5,"sizes":["S","M"]}`)
	req := httptest.NewRequest("POST", "/api/products", bytes.NewReader(body))

	var payload createProductPayload
	if err := DecodeAndValidate(req, &payload); err != nil {
		t.Fatalf("expected valid payload to pass, got %v", err)
	}
	if payload.Title != "Teslo T-Shirt" {
		t.Errorf("unexpected decode result: %+v", payload)
	}
}

func TestDecodeAndValidateRejectsMissingTitle(t *testing.T) {
	body := []byte(`{"price":29.99}`)
	req := httptest.NewRequest("POST", "/api/products", bytes.NewReader(body))

	var payload createProductPayload
	err := DecodeAndValidate(req, &payload)
	if err == nil {
		t.Fatal("expected validation failure for missing title")
	}

	formatted := FormatValidationErrors(err)
	if len(formatted) == 0 {
		t.Fatal("expected formatted validation errors")
	}
	if formatted[0].Field != "Title" {
		t.Errorf("expected Title field error, got %+v", formatted[0])
	}
	if formatted[0].Message != "This field is required" {
		t.Errorf("unexpected message: %q", formatted[0].Message)
	}
}

func TestDecodeAndValidateRejectsNegativePrice(t *testing.T) {
	body := []byte(`{"title":"Teslo T-Shirt","price":-1}`)
	req := httptest.NewRequest("POST", "/api/products", bytes.NewReader(body))

	var payload createProductPayload
	if err := DecodeAndValidate(req, &payload); err == nil {
		t.Fatal("expected validation failure for negative price")
	}
}

func TestDecodeAndValidateRejectsMalformedJSON(t *testing.T) {
	body := []byte(`{"title":`)
	req := httptest.NewRequest("POST", "/api/products", bytes.NewReader(body))

	var payload createProductPayload
	err := DecodeAndValidate(req, &payload)
	if err == nil {
		t.Fatal("expected decode failure for malformed JSON")
	}
	// Decode errors are not validator errors and format to nothing
	if formatted := FormatValidationErrors(err); len(formatted) != 0 {
		t.Errorf("decode errors must not format as validation errors, got %+v", formatted)
	}
}

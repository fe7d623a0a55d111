package validators

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/Ebtehal15/turkey-items-v2/pkg/errors"
)

type samplePayload struct {
	Name  string `json:"name" validate:"required"`
	Count int    `json:"count" validate:"min=1"`
}

func newJSONRequest(t *testing.T, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestDecodeJSONBodyValid(t *testing.T) {
	var dest samplePayload
	err := DecodeJSONBody(newJSONRequest(t, `{"name":"widget","count":2}`), &dest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest.Name != "widget" || dest.Count != 2 {
		t.Fatalf("unexpected decode result: %+v", dest)
	}
}

func TestDecodeJSONBodyIntoMap(t *testing.T) {
	var dest map[string]bool
	err := DecodeJSONBody(newJSONRequest(t, `{"price":true,"name":false}`), &dest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dest) != 2 || !dest["price"] {
		t.Fatalf("unexpected decode result: %v", dest)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	var dest samplePayload
	err := DecodeJSONBody(newJSONRequest(t, `{"name":"widget","count":2,"extra":true}`), &dest)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyRejectsMalformedJSON(t *testing.T) {
	var dest samplePayload
	err := DecodeJSONBody(newJSONRequest(t, `{"name":`), &dest)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyReportsFieldsByJSONTag(t *testing.T) {
	var dest samplePayload
	err := DecodeJSONBody(newJSONRequest(t, `{"count":0}`), &dest)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected string detail map, got %T", typed.Details())
	}
	if details["name"] != "is required" {
		t.Fatalf("expected name detail, got %v", details)
	}
	if details["count"] == "" {
		t.Fatalf("expected count detail, got %v", details)
	}
}

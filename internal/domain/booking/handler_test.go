package booking_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fonthenet/sihadz-api/internal/domain/booking"
	"github.com/fonthenet/sihadz-api/internal/middleware"
	"github.com/fonthenet/sihadz-api/internal/pkg/jwt"
	"github.com/fonthenet/sihadz-api/internal/pkg/response"
)

type httpHarness struct {
	*harness
	server *httptest.Server
	token  string
}

func newHTTPHarness(t *testing.T, balance int64) *httpHarness {
	t.Helper()

	h := newHarness(balance)

	jwtService := jwt.NewService("test-secret", time.Hour)
	token, err := jwtService.GenerateAccessToken(h.caller, "patient")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	r := chi.NewRouter()
	r.Mount("/appointments", booking.NewHandler(h.svc).Routes(middleware.Auth(jwtService)))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &httpHarness{harness: h, server: srv, token: token}
}

func (h *httpHarness) do(t *testing.T, method, path string, body interface{}, authed bool) (*http.Response, response.Response) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, h.server.URL+path, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	var envelope response.Response
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, envelope
}

func TestCreateWithWalletEndpoint(t *testing.T) {
	h := newHTTPHarness(t, 5000)

	resp, envelope := h.do(t, http.MethodPost, "/appointments/wallet", validRequest(), true)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 (error: %+v)", resp.StatusCode, envelope.Error)
	}
	if !envelope.Success {
		t.Errorf("success = false")
	}

	data, ok := envelope.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data = %T", envelope.Data)
	}
	if data["balance"] != float64(4000) {
		t.Errorf("balance = %v, want 4000", data["balance"])
	}
	if data["ticket_number"] != nil {
		t.Errorf("ticket_number = %v, want null", data["ticket_number"])
	}
	if _, ok := data["booking"].(map[string]interface{}); !ok {
		t.Errorf("booking missing from payload")
	}
}

func TestCreateWithWalletEndpointUnauthorized(t *testing.T) {
	h := newHTTPHarness(t, 5000)

	resp, envelope := h.do(t, http.MethodPost, "/appointments/wallet", validRequest(), false)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if envelope.Error == nil || envelope.Error.Code != "UNAUTHORIZED" {
		t.Errorf("error = %+v", envelope.Error)
	}
}

func TestCreateWithWalletEndpointValidation(t *testing.T) {
	h := newHTTPHarness(t, 5000)

	req := validRequest()
	req.Date = "September 7th"
	req.Amount = 0

	resp, envelope := h.do(t, http.MethodPost, "/appointments/wallet", req, true)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if envelope.Error == nil || envelope.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("error = %+v", envelope.Error)
	}
	if _, ok := envelope.Error.Details["date"]; !ok {
		t.Errorf("details = %v, want a date entry", envelope.Error.Details)
	}
	if _, ok := envelope.Error.Details["amount"]; !ok {
		t.Errorf("details = %v, want an amount entry", envelope.Error.Details)
	}
}

func TestCreateWithWalletEndpointInsufficientFunds(t *testing.T) {
	h := newHTTPHarness(t, 300)

	resp, envelope := h.do(t, http.MethodPost, "/appointments/wallet", validRequest(), true)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if envelope.Error == nil || envelope.Error.Code != "INSUFFICIENT_FUNDS" {
		t.Fatalf("error = %+v", envelope.Error)
	}
	if envelope.Error.Details["balance"] != "300" || envelope.Error.Details["required"] != "1000" {
		t.Errorf("details = %v", envelope.Error.Details)
	}
}

func TestCreateWithWalletEndpointDuplicate(t *testing.T) {
	h := newHTTPHarness(t, 5000)
	h.store.hasSlot = true

	resp, envelope := h.do(t, http.MethodPost, "/appointments/wallet", validRequest(), true)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
	if envelope.Error == nil || envelope.Error.Code != "CONFLICT" {
		t.Errorf("error = %+v", envelope.Error)
	}
}

func TestCreateWithWalletEndpointPaymentFailure(t *testing.T) {
	h := newHTTPHarness(t, 5000)
	h.wallets.insertTxErr = errors.New("ledger down")

	resp, envelope := h.do(t, http.MethodPost, "/appointments/wallet", validRequest(), true)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	if envelope.Error == nil || envelope.Error.Message == "" {
		t.Fatalf("payment failures must carry a message, got %+v", envelope.Error)
	}
}

func TestGetAndCancelEndpoints(t *testing.T) {
	h := newHTTPHarness(t, 5000)

	_, created := h.do(t, http.MethodPost, "/appointments/wallet", validRequest(), true)
	data := created.Data.(map[string]interface{})
	b := data["booking"].(map[string]interface{})
	id := b["id"].(string)

	resp, envelope := h.do(t, http.MethodGet, "/appointments/"+id, nil, true)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d (error: %+v)", resp.StatusCode, envelope.Error)
	}

	resp, envelope = h.do(t, http.MethodPost, "/appointments/"+id+"/cancel", nil, true)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cancel status = %d (error: %+v)", resp.StatusCode, envelope.Error)
	}
	payload := envelope.Data.(map[string]interface{})
	if payload["balance"] != float64(5000) {
		t.Errorf("balance = %v, want 5000 after refund", payload["balance"])
	}

	// Cancelling twice is rejected.
	resp, _ = h.do(t, http.MethodPost, "/appointments/"+id+"/cancel", nil, true)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("second cancel status = %d, want 400", resp.StatusCode)
	}

	resp, _ = h.do(t, http.MethodGet, "/appointments/"+uuid.New().String(), nil, true)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown id status = %d, want 404", resp.StatusCode)
	}

	resp, _ = h.do(t, http.MethodGet, "/appointments/not-a-uuid", nil, true)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("malformed id status = %d, want 400", resp.StatusCode)
	}
}

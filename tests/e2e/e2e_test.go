//go:build e2e

// Package e2e contains an end-to-end smoke test against a running
// Clarity API instance. It exercises the full register, login, and
// transaction lifecycle over HTTP.
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"
)

type authResponse struct {
	User struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
	Token string `json:"token"`
}

type transactionResponse struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
	Note     string  `json:"note"`
}

type transactionEnvelope struct {
	Transaction transactionResponse `json:"transaction"`
}

type transactionListEnvelope struct {
	Transactions []transactionResponse `json:"transactions"`
}

func TestE2ESmoke(t *testing.T) {
	baseURL := envOrDefault("CLARITY_BASE_URL", "http://localhost:8080")
	client := &http.Client{Timeout: 10 * time.Second}

	email := fmt.Sprintf("smoke-%d@clarity.test", time.Now().UnixNano())
	password := "Sm0ke-test!"

	// Register
	reg := postJSON(t, client, baseURL+"/auth/register", "", map[string]string{
		"name":     "Smoke Tester",
		"email":    email,
		"password": password,
	})
	defer reg.Body.Close()
	if reg.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d, body: %s", reg.StatusCode, readBody(t, reg))
	}
	var registered authResponse
	decode(t, reg, &registered)
	if registered.Token == "" {
		t.Fatal("register returned no token")
	}

	// Login with the same credentials
	login := postJSON(t, client, baseURL+"/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	defer login.Body.Close()
	if login.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, body: %s", login.StatusCode, readBody(t, login))
	}
	var session authResponse
	decode(t, login, &session)
	token := session.Token

	// Wrong password must not leak which part was wrong
	badLogin := postJSON(t, client, baseURL+"/auth/login", "", map[string]string{
		"email":    email,
		"password": "wrong-password",
	})
	defer badLogin.Body.Close()
	if badLogin.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", badLogin.StatusCode)
	}

	// Create a transaction
	created := postJSON(t, client, baseURL+"/transactions", token, map[string]any{
		"type":     "expense",
		"amount":   23.40,
		"category": "Groceries",
		"date":     "2024-03-01",
		"note":     "weekly shop",
	})
	defer created.Body.Close()
	if created.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, body: %s", created.StatusCode, readBody(t, created))
	}
	var createdBody transactionEnvelope
	decode(t, created, &createdBody)
	tx := createdBody.Transaction
	if tx.Amount != 23.40 {
		t.Errorf("amount = %v, want 23.40", tx.Amount)
	}

	// List with a filter that must match it
	list := getJSON(t, client, baseURL+"/transactions?type=expense&category=grocer", token)
	defer list.Body.Close()
	if list.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", list.StatusCode)
	}
	var listBody transactionListEnvelope
	decode(t, list, &listBody)
	if len(listBody.Transactions) != 1 || listBody.Transactions[0].ID != tx.ID {
		t.Fatalf("filtered list returned %d rows", len(listBody.Transactions))
	}

	// Update it
	update := putJSON(t, client, baseURL+"/transactions/"+tx.ID, token, map[string]any{
		"amount":   "30",
		"category": "Food",
	})
	defer update.Body.Close()
	if update.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d, body: %s", update.StatusCode, readBody(t, update))
	}
	var updatedBody transactionEnvelope
	decode(t, update, &updatedBody)
	if updatedBody.Transaction.Amount != 30 {
		t.Errorf("updated amount = %v, want 30", updatedBody.Transaction.Amount)
	}
	if updatedBody.Transaction.Category != "Food" {
		t.Errorf("updated category = %q, want Food", updatedBody.Transaction.Category)
	}

	// Unauthenticated access is rejected
	anon := getJSON(t, client, baseURL+"/transactions", "")
	defer anon.Body.Close()
	if anon.StatusCode != http.StatusUnauthorized {
		t.Errorf("anonymous list status = %d, want 401", anon.StatusCode)
	}

	// Delete it and confirm it is gone
	del := deleteReq(t, client, baseURL+"/transactions/"+tx.ID, token)
	defer del.Body.Close()
	if del.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", del.StatusCode)
	}

	again := deleteReq(t, client, baseURL+"/transactions/"+tx.ID, token)
	defer again.Body.Close()
	if again.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", again.StatusCode)
	}
}

func postJSON(t *testing.T, client *http.Client, url, token string, body any) *http.Response {
	t.Helper()
	return doJSON(t, client, http.MethodPost, url, token, body)
}

func putJSON(t *testing.T, client *http.Client, url, token string, body any) *http.Response {
	t.Helper()
	return doJSON(t, client, http.MethodPut, url, token, body)
}

func getJSON(t *testing.T, client *http.Client, url, token string) *http.Response {
	t.Helper()
	return doJSON(t, client, http.MethodGet, url, token, nil)
}

func deleteReq(t *testing.T, client *http.Client, url, token string) *http.Response {
	t.Helper()
	return doJSON(t, client, http.MethodDelete, url, token, nil)
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return ""
	}
	return string(b)
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

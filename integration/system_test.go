//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"testing"
	"time"
)

var (
	baseURL = getenv("E2E_BASE_URL", "http://localhost:3000")
	apiKey  = getenv("E2E_API_KEY", "123456")
)

func TestSystem_E2E_ProductLifecycle(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")

	name := fmt.Sprintf("E2E Gadget %d_%d", time.Now().Unix(), rand.Intn(100000))
	category := fmt.Sprintf("e2e-%d", rand.Intn(100000))

	var created map[string]any
	doJSONKey(t, http.MethodPost, baseURL+"/api/products", map[string]any{
		"name":        name,
		"description": "throwaway integration product",
		"price":       19.99,
		"category":    category,
		"inStock":     true,
	}, &created, 201)

	id, _ := created["id"].(string)
	if id == "" {
		t.Fatalf("product id missing: %#v", created)
	}

	var got map[string]any
	doJSONKey(t, http.MethodGet, baseURL+"/api/products/"+id, nil, &got, 200)
	if got["name"] != name {
		t.Fatalf("name=%v want=%v", got["name"], name)
	}

	var listed struct {
		Total int              `json:"total"`
		Data  []map[string]any `json:"data"`
	}
	doJSONKey(t, http.MethodGet, baseURL+"/api/products?category="+category, nil, &listed, 200)
	if listed.Total != 1 || len(listed.Data) != 1 {
		t.Fatalf("filtered total=%d len=%d", listed.Total, len(listed.Data))
	}

	var searched struct {
		Count   int              `json:"count"`
		Results []map[string]any `json:"results"`
	}
	doJSONKey(t, http.MethodGet, baseURL+"/api/products/search?q="+url.QueryEscape(name), nil, &searched, 200)
	if searched.Count != 1 {
		t.Fatalf("search count=%d", searched.Count)
	}

	var stats struct {
		CountByCategory map[string]int `json:"countByCategory"`
	}
	doJSONKey(t, http.MethodGet, baseURL+"/api/products/stats", nil, &stats, 200)
	if stats.CountByCategory[category] != 1 {
		t.Fatalf("stats[%q]=%d", category, stats.CountByCategory[category])
	}

	var updated map[string]any
	doJSONKey(t, http.MethodPut, baseURL+"/api/products/"+id, map[string]any{
		"name":        name + " v2",
		"description": "replaced",
		"price":       29.99,
		"category":    category,
		"inStock":     false,
	}, &updated, 200)
	if updated["id"] != id || updated["inStock"] != false {
		t.Fatalf("updated=%#v", updated)
	}

	doJSONKey(t, http.MethodDelete, baseURL+"/api/products/"+id, nil, nil, 204)
	doJSONKey(t, http.MethodGet, baseURL+"/api/products/"+id, nil, nil, 404)

	if os.Getenv("E2E_RESTART_PRODUCTS") == "1" {
		var again map[string]any
		doJSONKey(t, http.MethodPost, baseURL+"/api/products", map[string]any{
			"name":        name + " survivor",
			"description": "restart probe",
			"price":       1.0,
			"category":    category,
			"inStock":     true,
		}, &again, 201)
		probeID, _ := again["id"].(string)

		restartProductsContainer(t, ctx)
		waitReady(t, ctx, baseURL+"/readyz")

		// The memory backend starts empty after a restart; postgres
		// keeps its rows.
		want := 404
		if getenv("E2E_STORE_BACKEND", "memory") == "postgres" {
			want = 200
		}
		doJSONKey(t, http.MethodGet, baseURL+"/api/products/"+probeID, nil, nil, want)
	}
}

func TestSystem_E2E_RejectsMissingKey(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/products", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 401 {
		t.Fatalf("status=%d want=401", resp.StatusCode)
	}
}

func waitReady(t *testing.T, ctx context.Context, url string) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}

	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := client.Do(req)
		if err == nil && resp != nil && resp.StatusCode == 200 {
			_ = resp.Body.Close()
			return
		}
		if resp != nil {
			_ = resp.Body.Close()
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("service not ready: %s", url)
}

func doJSONKey(t *testing.T, method, url string, body any, out any, want int) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", apiKey)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		t.Fatalf("%s %s: status=%d want=%d", method, url, resp.StatusCode, want)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

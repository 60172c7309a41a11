//go:build integration
// +build integration

package integration

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"
	"time"

	"ProductCatalog/internal/catalogclient"
)

var baseURL = getenv("E2E_BASE_URL", "http://localhost:8082")

func TestSystem_E2E_Catalog(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")

	cl := catalogclient.New(baseURL)

	all, err := cl.ListProducts(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if all.Count == 0 || all.Count != len(all.Products) {
		t.Fatalf("count=%d len=%d", all.Count, len(all.Products))
	}

	first := all.Products[0]
	got, err := cl.GetProduct(ctx, first.ID)
	if err != nil {
		t.Fatalf("get %d: %v", first.ID, err)
	}
	if got != first {
		t.Fatalf("got=%+v want=%+v", got, first)
	}

	filtered, err := cl.ListProducts(ctx, first.Category)
	if err != nil {
		t.Fatalf("filter %q: %v", first.Category, err)
	}
	if filtered.Count == 0 || filtered.Category == nil || *filtered.Category != first.Category {
		t.Fatalf("filter %q: %+v", first.Category, filtered)
	}

	if _, err := cl.GetProduct(ctx, 987654321); !errors.Is(err, catalogclient.ErrNotFound) {
		t.Fatalf("missing product err=%v", err)
	}
}

func waitReady(t *testing.T, ctx context.Context, url string) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}

	for ctx.Err() == nil {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := client.Do(req)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("service not ready: %s", url)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

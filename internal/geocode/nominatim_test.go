package geocode_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jcabrera-io/wayfarer/internal/domain"
	"github.com/jcabrera-io/wayfarer/internal/geocode"
)

// newTestClient points the client at a local fixture server. The default
// SSRF-guarded client blocks loopback addresses, so tests swap in a plain
// one.
func newTestClient(srv *httptest.Server, timeout time.Duration) *geocode.Client {
	return geocode.New(srv.URL, geocode.WithHTTPClient(&http.Client{Timeout: timeout}))
}

func TestClient_Resolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "20 W 34th St, New York" {
			t.Errorf("unexpected query: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat":"40.7484474","lon":"-73.9871516"}]`))
	}))
	defer srv.Close()

	coord, err := newTestClient(srv, time.Second).Resolve(context.Background(), "20 W 34th St, New York")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := domain.Coordinate{Lat: 40.7484474, Lng: -73.9871516}
	if coord != want {
		t.Fatalf("expected %+v, got %+v", want, coord)
	}
}

func TestClient_Resolve_NoResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv, time.Second).Resolve(context.Background(), "nowhere at all")
	if !errors.Is(err, domain.ErrGeocodeFailure) {
		t.Fatalf("expected ErrGeocodeFailure, got %v", err)
	}
}

func TestClient_Resolve_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv, time.Second).Resolve(context.Background(), "any address")
	if !errors.Is(err, domain.ErrGeocodeFailure) {
		t.Fatalf("expected ErrGeocodeFailure, got %v", err)
	}
}

func TestClient_Resolve_Timeout(t *testing.T) {
	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-done
	}))
	defer srv.Close()
	defer close(done)

	_, err := newTestClient(srv, 50*time.Millisecond).Resolve(context.Background(), "slow address")
	if !errors.Is(err, domain.ErrDependencyTimeout) {
		t.Fatalf("expected ErrDependencyTimeout, got %v", err)
	}
}

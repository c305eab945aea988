package geocode

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	pkgerrors "github.com/cardchase/location-portal/pkg/errors"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{},
	}
}

var sampleAddress = Address{Street: "500 Main St", City: "Tulsa", State: "OK", Zip: "74103"}

func TestLookupBuildsNominatimRequest(t *testing.T) {
	var captured *http.Request
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		captured = req
		return jsonResponse(http.StatusOK, `[{"lat":"36.1540","lon":"-95.9928","display_name":"Tulsa"}]`), nil
	})
	client := NewClient(WithBaseURL("http://geo.test"), WithHTTPClient(&http.Client{Transport: rt}), WithRate(0))

	point, err := client.Lookup(context.Background(), sampleAddress)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if point.Latitude != 36.1540 || point.Longitude != -95.9928 {
		t.Fatalf("unexpected point %+v", point)
	}

	q := captured.URL.Query()
	if captured.URL.Path != "/search" {
		t.Fatalf("unexpected path %q", captured.URL.Path)
	}
	if q.Get("format") != "json" || q.Get("limit") != "1" {
		t.Fatalf("unexpected params %v", q)
	}
	if q.Get("q") != "500 Main St, Tulsa, OK, 74103, USA" {
		t.Fatalf("unexpected query %q", q.Get("q"))
	}
	if captured.Header.Get("User-Agent") != "CardChase-LocationPortal/1.0" {
		t.Fatalf("unexpected user agent %q", captured.Header.Get("User-Agent"))
	}
}

func TestLookupCachesResults(t *testing.T) {
	calls := 0
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		calls++
		return jsonResponse(http.StatusOK, `[{"lat":"1.5","lon":"2.5"}]`), nil
	})
	client := NewClient(WithHTTPClient(&http.Client{Transport: rt}), WithRate(0), WithCacheTTL(time.Minute))

	for i := 0; i < 3; i++ {
		if _, err := client.Lookup(context.Background(), sampleAddress); err != nil {
			t.Fatalf("lookup %d: %v", i, err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one upstream call, got %d", calls)
	}
}

func TestLookupNoMatch(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `[]`), nil
	})
	client := NewClient(WithHTTPClient(&http.Client{Transport: rt}), WithRate(0), WithCacheTTL(0))

	if _, err := client.Lookup(context.Background(), sampleAddress); !errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
}

func TestLookupUpstreamFailure(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusTooManyRequests, `slow down`), nil
	})
	client := NewClient(WithHTTPClient(&http.Client{Transport: rt}), WithRate(0))

	_, err := client.Lookup(context.Background(), sampleAddress)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestLookupRequiresCompleteAddress(t *testing.T) {
	client := NewClient(WithRate(0))
	_, err := client.Lookup(context.Background(), Address{Street: "500 Main St", City: "Tulsa"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLookupRespectsCancelledContextWhileThrottled(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `[{"lat":"1","lon":"2"}]`), nil
	})
	client := NewClient(WithHTTPClient(&http.Client{Transport: rt}), WithRate(0.001), WithCacheTTL(0))
	if _, err := client.Lookup(context.Background(), sampleAddress); err != nil {
		t.Fatalf("first lookup should pass: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.Lookup(ctx, sampleAddress); err == nil {
		t.Fatalf("expected throttled lookup to fail on cancelled context")
	}
}

func TestAddressQuery(t *testing.T) {
	if (Address{City: "Tulsa", State: "OK"}).Complete() {
		t.Fatalf("missing street should be incomplete")
	}
	got := Address{Street: " 1 A St ", City: "B", State: "C"}.Query()
	if got != "1 A St, B, C, , USA" {
		t.Fatalf("unexpected query %q", got)
	}
}

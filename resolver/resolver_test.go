package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"

	"github.com/photon-wallet/photon/common"
)

const (
	aliceAccountID = "GAAZI4TCR3TY5OJHCTJC2A4QSY6CJWJH5IAJTGKIN2ER7LBNVKOCCWN7"
	bobAccountID   = "GBRPYHIL2CI3FNQ4BXLFMNDLFJUNPU2HY3ZMFSHONUCEOASW7QC7OX2H"
)

// federationTestServer serves a stellar.toml that points back at itself and
// answers federation queries from the records map (keyed by full address).
func federationTestServer(t *testing.T, records map[string]string, tomlFetches *int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var server *httptest.Server

	mux.HandleFunc("/.well-known/stellar.toml", func(w http.ResponseWriter, req *http.Request) {
		if tomlFetches != nil {
			atomic.AddInt32(tomlFetches, 1)
		}
		fmt.Fprintf(w, "FEDERATION_SERVER = %q\n", server.URL+"/federation")
	})
	mux.HandleFunc("/federation", func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Query().Get("type") != "name" {
			http.Error(w, `{"detail": "unsupported type"}`, http.StatusBadRequest)
			return
		}
		body, found := records[req.URL.Query().Get("q")]
		if !found {
			http.Error(w, `{"detail": "not found"}`, http.StatusNotFound)
			return
		}
		fmt.Fprint(w, body)
	})

	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testDomain(t *testing.T, server *httptest.Server) string {
	t.Helper()
	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatalf("parse test server URL: %s", err)
	}
	return u.Host
}

func TestResolveRawAccountID(t *testing.T) {
	r := NewResolver(zap.NewNop())

	res, err := r.Resolve(context.Background(), "  "+aliceAccountID+" ")
	if err != nil {
		t.Fatalf("resolve failed: %s", err)
	}
	if res.AccountID != aliceAccountID {
		t.Errorf("AccountID = %q, want %q", res.AccountID, aliceAccountID)
	}
	if res.MandatedMemo != nil {
		t.Errorf("raw account ID must not mandate a memo")
	}
}

func TestResolveMalformedInput(t *testing.T) {
	r := NewResolver(zap.NewNop())

	for _, input := range []string{"", "not-a-destination", "GARBAGE", "a*b*c", "*domain.org", "name*"} {
		_, err := r.Resolve(context.Background(), input)
		var invalid *common.InvalidDestinationError
		if !errors.As(err, &invalid) {
			t.Errorf("Resolve(%q) error = %v, want InvalidDestinationError", input, err)
		}
	}
}

func TestResolveFederationAddress(t *testing.T) {
	records := map[string]string{}
	server := federationTestServer(t, records, nil)
	domain := testDomain(t, server)
	address := "alice*" + domain
	records[address] = fmt.Sprintf(`{"account_id": %q, "memo": "42", "memo_type": "id"}`, aliceAccountID)

	r := NewResolverWithClient(zap.NewNop(), server.Client(), "http")

	res, err := r.Resolve(context.Background(), address)
	if err != nil {
		t.Fatalf("resolve failed: %s", err)
	}
	if res.AccountID != aliceAccountID {
		t.Errorf("AccountID = %q, want %q", res.AccountID, aliceAccountID)
	}
	if res.MandatedMemo == nil {
		t.Fatalf("expected a mandated memo")
	}
	if res.MandatedMemo.Type != MemoID || res.MandatedMemo.Value != "42" {
		t.Errorf("mandated memo = %+v, want id/42", res.MandatedMemo)
	}
}

func TestResolveCachesDescriptorPerDomain(t *testing.T) {
	var tomlFetches int32
	records := map[string]string{}
	server := federationTestServer(t, records, &tomlFetches)
	domain := testDomain(t, server)
	records["alice*"+domain] = fmt.Sprintf(`{"account_id": %q}`, aliceAccountID)
	records["bob*"+domain] = fmt.Sprintf(`{"account_id": %q}`, bobAccountID)

	r := NewResolverWithClient(zap.NewNop(), server.Client(), "http")

	for _, name := range []string{"alice", "bob", "alice"} {
		if _, err := r.Resolve(context.Background(), name+"*"+domain); err != nil {
			t.Fatalf("resolve %s failed: %s", name, err)
		}
	}
	if got := atomic.LoadInt32(&tomlFetches); got != 1 {
		t.Errorf("stellar.toml fetched %d times, want 1 (descriptor is cached per domain)", got)
	}
}

func TestResolveMemoTypeMapping(t *testing.T) {
	records := map[string]string{}
	server := federationTestServer(t, records, nil)
	domain := testDomain(t, server)
	records["text*"+domain] = fmt.Sprintf(`{"account_id": %q, "memo": "hello", "memo_type": "MEMO_TEXT"}`, aliceAccountID)
	records["id*"+domain] = fmt.Sprintf(`{"account_id": %q, "memo": "7", "memo_type": "MEMO_ID"}`, aliceAccountID)
	records["plain*"+domain] = fmt.Sprintf(`{"account_id": %q}`, aliceAccountID)

	r := NewResolverWithClient(zap.NewNop(), server.Client(), "http")

	res, err := r.Resolve(context.Background(), "text*"+domain)
	if err != nil {
		t.Fatalf("resolve failed: %s", err)
	}
	if res.MandatedMemo == nil || res.MandatedMemo.Type != MemoText {
		t.Errorf("memo_type containing 'text' must map to text, got %+v", res.MandatedMemo)
	}

	res, err = r.Resolve(context.Background(), "id*"+domain)
	if err != nil {
		t.Fatalf("resolve failed: %s", err)
	}
	if res.MandatedMemo == nil || res.MandatedMemo.Type != MemoID {
		t.Errorf("non-text memo_type must map to id, got %+v", res.MandatedMemo)
	}

	res, err = r.Resolve(context.Background(), "plain*"+domain)
	if err != nil {
		t.Fatalf("resolve failed: %s", err)
	}
	if res.MandatedMemo != nil {
		t.Errorf("record without memo must not mandate one, got %+v", res.MandatedMemo)
	}
}

func TestResolveNameNotFound(t *testing.T) {
	server := federationTestServer(t, map[string]string{}, nil)
	domain := testDomain(t, server)

	r := NewResolverWithClient(zap.NewNop(), server.Client(), "http")

	_, err := r.Resolve(context.Background(), "nobody*"+domain)
	var fedErr *common.FederationLookupError
	if !errors.As(err, &fedErr) {
		t.Fatalf("error = %v, want FederationLookupError", err)
	}
	var badResp *common.BadResponseError
	if !errors.As(err, &badResp) || badResp.Status != http.StatusNotFound {
		t.Errorf("error should wrap BadResponseError with 404, got %v", err)
	}
}

func TestResolveUnreachableDomain(t *testing.T) {
	r := NewResolverWithClient(zap.NewNop(), &http.Client{}, "http")

	_, err := r.Resolve(context.Background(), "alice*localhost:1")
	var fedErr *common.FederationLookupError
	if !errors.As(err, &fedErr) {
		t.Errorf("error = %v, want FederationLookupError", err)
	}
}

package directory

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/photon-wallet/photon/networks"
)

const exchangeAccountID = "GAAZI4TCR3TY5OJHCTJC2A4QSY6CJWJH5IAJTGKIN2ER7LBNVKOCCWN7"

// testNetwork overrides the directory URL of a real network definition.
type testNetwork struct {
	networks.Network
	directoryURL string
}

func (n *testNetwork) GetDirectoryURL() string {
	return n.directoryURL
}

func newTestLookup(t *testing.T, handler http.HandlerFunc) (*Lookup, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	network := &testNetwork{Network: networks.StellarMainnet, directoryURL: server.URL + "/directory"}
	return NewLookupWithClient(network, zap.NewNop(), server.Client()), server
}

func TestLookupListedAccount(t *testing.T) {
	var fetches int32
	lookup, _ := newTestLookup(t, func(w http.ResponseWriter, req *http.Request) {
		atomic.AddInt32(&fetches, 1)
		if got := req.URL.Query().Get("address[]"); got != exchangeAccountID {
			t.Errorf("address[] = %q, want %q", got, exchangeAccountID)
		}
		fmt.Fprintf(w, `{"_embedded": {"records": [
			{"address": %q, "tags": ["exchange", "memo-required"], "name": "Some Exchange"}
		]}}`, exchangeAccountID)
	})

	record := lookup.Lookup(context.Background(), exchangeAccountID)
	if record == nil {
		t.Fatalf("expected a record")
	}
	if record.DisplayName != "Some Exchange" {
		t.Errorf("DisplayName = %q, want %q", record.DisplayName, "Some Exchange")
	}
	if !record.HasTag(MemoRequiredTag) {
		t.Errorf("record should carry the %s tag", MemoRequiredTag)
	}
	if record.HasTag("scam") {
		t.Errorf("record should not carry unrelated tags")
	}

	// second lookup is served from the cache
	lookup.Lookup(context.Background(), exchangeAccountID)
	if got := atomic.LoadInt32(&fetches); got != 1 {
		t.Errorf("directory fetched %d times, want 1", got)
	}
}

func TestLookupUnlistedAccount(t *testing.T) {
	lookup, _ := newTestLookup(t, func(w http.ResponseWriter, req *http.Request) {
		fmt.Fprint(w, `{"_embedded": {"records": []}}`)
	})

	record, err := lookup.LookupStrict(context.Background(), exchangeAccountID)
	if err != nil {
		t.Fatalf("unlisted account must not be an error, got %s", err)
	}
	if record != nil {
		t.Errorf("record = %+v, want nil", record)
	}
}

func TestLookupSoftFailure(t *testing.T) {
	var fetches int32
	lookup, _ := newTestLookup(t, func(w http.ResponseWriter, req *http.Request) {
		atomic.AddInt32(&fetches, 1)
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	if record := lookup.Lookup(context.Background(), exchangeAccountID); record != nil {
		t.Errorf("soft failure must resolve to no record, got %+v", record)
	}

	// failures are not cached: the next lookup tries again
	lookup.Lookup(context.Background(), exchangeAccountID)
	if got := atomic.LoadInt32(&fetches); got != 2 {
		t.Errorf("directory fetched %d times, want 2 (failures must not be cached)", got)
	}
}

func TestLookupNetworkWithoutDirectory(t *testing.T) {
	lookup := NewLookupWithClient(
		&testNetwork{Network: networks.StellarTestnet, directoryURL: ""},
		zap.NewNop(),
		&http.Client{Timeout: time.Second},
	)

	record, err := lookup.LookupStrict(context.Background(), exchangeAccountID)
	if err != nil || record != nil {
		t.Errorf("networks without a directory resolve to no record, got %+v, %v", record, err)
	}
}

package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHandlerExposesLedgerMetrics(t *testing.T) {
	before := testutil.ToFloat64(SharesSettled.WithLabelValues("first"))
	SharesSettled.WithLabelValues("first").Inc()
	if got := testutil.ToFloat64(SharesSettled.WithLabelValues("first")); got != before+1 {
		t.Errorf("shares_settled_total = %v, want %v", got, before+1)
	}

	SplitTransfers.Observe(2)

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}

	for _, name := range []string{"splitledger_shares_settled_total", "splitledger_split_transfers_bucket"} {
		if !strings.Contains(string(body), name) {
			t.Errorf("Expected %s in metrics output", name)
		}
	}
}

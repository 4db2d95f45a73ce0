package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentDebits_NoOverspend fires concurrent debits whose combined
// cost exceeds the wallet. Per-wallet serialization plus the balance
// compare-and-swap must admit exactly the debits that fit and never let
// the balance go negative.
func TestConcurrentDebits_NoOverspend(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	// Wallet holds 1000. Each debit of 100 costs 103 at 3% commission, so
	// at most 9 can land (9 * 103 = 927), leaving 73.
	concurrency := 20
	var wg sync.WaitGroup
	var successCount atomic.Int64
	var insufficientCount atomic.Int64

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			body := fmt.Sprintf(`{"client_id":"%s","branch_id":"%s","type":"debit","amount":100,"utr_id":"CONC-%d"}`,
				app.clientID, app.branchID, idx)
			req, _ := http.NewRequest(http.MethodPost, app.server.URL+"/api/v1/transactions",
				bytes.NewBufferString(body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-Actor-ID", app.staffID.String())

			r, err := http.DefaultClient.Do(req)
			if err != nil {
				return
			}
			defer r.Body.Close()
			_, _ = io.ReadAll(r.Body)

			switch r.StatusCode {
			case http.StatusCreated:
				successCount.Add(1)
			case http.StatusPaymentRequired:
				insufficientCount.Add(1)
			}
		}(i)
	}
	wg.Wait()

	t.Logf("Concurrent debits: %d succeeded, %d rejected (out of %d)",
		successCount.Load(), insufficientCount.Load(), concurrency)

	assert.Equal(t, int64(9), successCount.Load(), "exactly the debits that fit should land")
	assert.Equal(t, int64(concurrency)-9, insufficientCount.Load())

	finalBalance := app.balanceOf(t, app.clientID)
	assert.Equal(t, int64(73), finalBalance)
	assert.GreaterOrEqual(t, finalBalance, int64(0), "balance must never go negative")
}

// TestConcurrentMixedTraffic interleaves credits and debits on one wallet
// and checks the final balance equals the sum of the applied deltas.
func TestConcurrentMixedTraffic(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	// 10 credits of 200 (+194 each) and 10 debits of 100 (-103 each). The
	// starting 1000 covers every debit regardless of ordering, so all 20
	// must succeed: 1000 + 10*194 - 10*103 = 1910.
	concurrency := 20
	var wg sync.WaitGroup
	var successCount atomic.Int64

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			txType, amount := "debit", 100
			if idx%2 == 0 {
				txType, amount = "credit", 200
			}
			body := fmt.Sprintf(`{"client_id":"%s","branch_id":"%s","type":"%s","amount":%d,"utr_id":"MIX-%d"}`,
				app.clientID, app.branchID, txType, amount, idx)
			req, _ := http.NewRequest(http.MethodPost, app.server.URL+"/api/v1/transactions",
				bytes.NewBufferString(body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-Actor-ID", app.staffID.String())

			r, err := http.DefaultClient.Do(req)
			if err != nil {
				return
			}
			defer r.Body.Close()
			_, _ = io.ReadAll(r.Body)

			if r.StatusCode == http.StatusCreated {
				successCount.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(concurrency), successCount.Load(), "all movements fit and should land")
	assert.Equal(t, int64(1910), app.balanceOf(t, app.clientID))

	// The ledger carries one entry per applied movement
	req, _ := http.NewRequest(http.MethodGet, app.server.URL+"/api/v1/transactions?page_size=50", nil)
	req.Header.Set("X-Actor-ID", app.adminID.String())
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listResp struct {
		Data struct {
			Total int64 `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listResp))
	assert.Equal(t, int64(concurrency), listResp.Data.Total)
}

// TestConcurrentReversals races several reversals of the same transaction.
// Only one may apply; the rest must see the record gone.
func TestConcurrentReversals(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	body := fmt.Sprintf(`{"client_id":"%s","branch_id":"%s","type":"debit","amount":100,"utr_id":"REV-RACE"}`,
		app.clientID, app.branchID)
	status, resp := app.do(t, http.MethodPost, "/api/v1/transactions", app.staffID, body)
	require.Equal(t, http.StatusCreated, status)
	txID := dataOf(t, resp)["id"].(string)
	require.Equal(t, int64(897), app.balanceOf(t, app.clientID))

	concurrency := 5
	var wg sync.WaitGroup
	var successCount atomic.Int64

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req, _ := http.NewRequest(http.MethodDelete, app.server.URL+"/api/v1/transactions/"+txID, nil)
			req.Header.Set("X-Actor-ID", app.adminID.String())
			r, err := http.DefaultClient.Do(req)
			if err != nil {
				return
			}
			defer r.Body.Close()
			_, _ = io.ReadAll(r.Body)

			if r.StatusCode == http.StatusOK {
				successCount.Add(1)
			}
		}()
	}
	wg.Wait()

	t.Logf("Concurrent reversals: %d succeeded (out of %d)", successCount.Load(), concurrency)

	// The wallet was compensated exactly once; the losers saw the record gone
	assert.Equal(t, int64(1000), app.balanceOf(t, app.clientID))
	assert.Equal(t, int64(1), successCount.Load())
}

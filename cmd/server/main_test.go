package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/groupledger/internal/api"
	"github.com/mmynk/groupledger/internal/config"
	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/money"
	"github.com/mmynk/groupledger/internal/storage/backend"
)

func newTestServer(t *testing.T, driver string) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	cfg.CORSOrigin = "https://ledger.example"
	cfg.DB.Driver = driver

	store, err := backend.Open(driver, filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)

	server := httptest.NewServer(newRouter(cfg, store, prometheus.NewRegistry()))
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})
	return server
}

func TestRouter(t *testing.T) {
	for _, driver := range backend.Drivers {
		t.Run(driver, func(t *testing.T) {
			server := newTestServer(t, driver)
			ctx := context.Background()

			groups := api.NewGroupServiceClient(http.DefaultClient, server.URL)
			created, err := groups.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{
				Members: []models.Member{{ID: "A", Name: "An"}, {ID: "B", Name: "Binh"}},
			}))
			require.NoError(t, err)
			require.Equal(t, "Group with An, Binh", created.Msg.Group.Name)

			ledger := api.NewLedgerServiceClient(http.DefaultClient, server.URL)
			_, err = ledger.PostBill(ctx, connect.NewRequest(&api.PostBillRequest{
				GroupID:      created.Msg.Group.ID,
				PayerID:      "A",
				MemberTotals: map[string]money.Money{"B": 1200},
			}))
			require.NoError(t, err)

			resp, err := http.Get(server.URL + "/metrics")
			require.NoError(t, err)
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			require.Contains(t, string(body), "groupledger_bills_posted_total 1")
			require.Contains(t, string(body), `groupledger_rpc_duration_seconds_count{code="ok",procedure="/groupledger.v1.LedgerService/PostBill"} 1`)
		})
	}
}

func TestHealthAndCORS(t *testing.T) {
	server := newTestServer(t, backend.DriverSQLite)

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "https://ledger.example", resp.Header.Get("Access-Control-Allow-Origin"))

	req, err := http.NewRequest(http.MethodOptions, server.URL+api.LedgerServicePostBillProcedure, strings.NewReader(""))
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/simaogato/tx-engine/internal/domain"
	"github.com/simaogato/tx-engine/internal/usecase/ledger"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	ctx := context.Background()
	l := ledger.New(zap.NewNop(), nil)

	// client 1: 10 deposited, 2.5 of it held under dispute
	l.Apply(ctx, domain.FundsMovement{Kind: domain.KindDeposit, Client: 1, Tx: 1, Amount: decimal.RequireFromString("10")})
	l.Apply(ctx, domain.FundsMovement{Kind: domain.KindDeposit, Client: 1, Tx: 2, Amount: decimal.RequireFromString("2.5")})
	l.Apply(ctx, domain.DisputeReference{Kind: domain.KindDispute, Client: 1, Tx: 2})

	// client 2: charged back and locked
	l.Apply(ctx, domain.FundsMovement{Kind: domain.KindDeposit, Client: 2, Tx: 3, Amount: decimal.RequireFromString("7")})
	l.Apply(ctx, domain.DisputeReference{Kind: domain.KindDispute, Client: 2, Tx: 3})
	l.Apply(ctx, domain.DisputeReference{Kind: domain.KindChargeback, Client: 2, Tx: 3})

	return NewServer(l, zap.NewNop())
}

func TestServer_Health(t *testing.T) {
	server := newTestServer(t)

	resp, err := server.app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)
}

func TestServer_ListAccounts(t *testing.T) {
	server := newTestServer(t)

	resp, err := server.app.Test(httptest.NewRequest("GET", "/accounts", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var accounts []accountResponse
	require.NoError(t, json.Unmarshal(body, &accounts))
	require.Len(t, accounts, 2)

	assert.Equal(t, domain.ClientID(1), accounts[0].Client)
	assert.Equal(t, "10", accounts[0].Available)
	assert.Equal(t, "2.5", accounts[0].Held)
	assert.Equal(t, "12.5", accounts[0].Total)
	assert.False(t, accounts[0].Locked)

	assert.Equal(t, domain.ClientID(2), accounts[1].Client)
	assert.Equal(t, "0", accounts[1].Total)
	assert.True(t, accounts[1].Locked)
}

func TestServer_GetAccount(t *testing.T) {
	server := newTestServer(t)

	resp, err := server.app.Test(httptest.NewRequest("GET", "/accounts/2", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var account accountResponse
	require.NoError(t, json.Unmarshal(body, &account))
	assert.Equal(t, domain.ClientID(2), account.Client)
	assert.True(t, account.Locked)
}

func TestServer_GetAccount_Unknown(t *testing.T) {
	server := newTestServer(t)

	resp, err := server.app.Test(httptest.NewRequest("GET", "/accounts/99", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 404, resp.StatusCode)
}

func TestServer_GetAccount_BadClientID(t *testing.T) {
	server := newTestServer(t)

	for _, path := range []string{"/accounts/not-a-number", "/accounts/70000"} {
		resp, err := server.app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, 400, resp.StatusCode, "path %s", path)
	}
}

package demoserver

import (
	"context"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ecom-labs/storefront/internal/api"
	"github.com/ecom-labs/storefront/internal/model"
)

type tokenHolder struct{ value atomic.Value }

func (h *tokenHolder) Token() string {
	if v := h.value.Load(); v != nil {
		return v.(string)
	}
	return ""
}

func TestServer_LoginAndFetchOrders(t *testing.T) {
	demo := New(zap.NewNop())
	srv := httptest.NewServer(demo.Handler())
	defer srv.Close()

	holder := &tokenHolder{}
	client := api.NewClient(srv.URL, holder, zap.NewNop())
	ctx := context.Background()

	// Wrong password is rejected with a displayable message.
	_, err := client.Login(ctx, model.Credentials{Email: "demo@example.com", Password: "nope"})
	require.Error(t, err)
	apiErr, ok := api.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, api.KindUnauthorized, apiErr.Kind)
	assert.Equal(t, "invalid email or password", apiErr.Message)

	resp, err := client.Login(ctx, model.Credentials{Email: "demo@example.com", Password: "password123"})
	require.NoError(t, err)
	require.NotNil(t, resp.User)
	assert.NotEmpty(t, resp.Token)
	holder.value.Store(resp.Token)

	orders, err := client.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, model.StatusShipped, orders[0].Status)
	require.NotNil(t, orders[0].Tracking)

	order, err := client.GetOrder(ctx, orders[0].ID)
	require.NoError(t, err)
	assert.Len(t, order.StatusHistory, 3)
}

func TestServer_RegisterThenLogin(t *testing.T) {
	demo := New(zap.NewNop())
	srv := httptest.NewServer(demo.Handler())
	defer srv.Close()

	client := api.NewClient(srv.URL, &tokenHolder{}, zap.NewNop())
	ctx := context.Background()

	resp, err := client.Register(ctx, model.Registration{
		Email:    "new@example.com",
		Password: "s3cret",
		Name:     "New User",
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.Token)

	// Duplicate registration conflicts.
	_, err = client.Register(ctx, model.Registration{Email: "new@example.com", Password: "x"})
	require.Error(t, err)
	apiErr, ok := api.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 409, apiErr.Status)
	assert.Equal(t, "email already registered", apiErr.Message)

	_, err = client.Login(ctx, model.Credentials{Email: "new@example.com", Password: "s3cret"})
	require.NoError(t, err)
}

func TestServer_RevokedTokenTriggersLogoutHook(t *testing.T) {
	demo := New(zap.NewNop())
	srv := httptest.NewServer(demo.Handler())
	defer srv.Close()

	var logouts int32
	holder := &tokenHolder{}
	client := api.NewClient(srv.URL, holder, zap.NewNop(),
		api.WithUnauthorizedHandler(func() { atomic.AddInt32(&logouts, 1) }))
	ctx := context.Background()

	resp, err := client.Login(ctx, model.Credentials{Email: "demo@example.com", Password: "password123"})
	require.NoError(t, err)
	holder.value.Store(resp.Token)

	demo.RevokeToken(resp.Token)

	_, err = client.ListOrders(ctx)
	require.Error(t, err)
	apiErr, ok := api.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, api.KindUnauthorized, apiErr.Kind)
	assert.Equal(t, int32(1), atomic.LoadInt32(&logouts))
}

func TestServer_ProductsArePublic(t *testing.T) {
	demo := New(zap.NewNop())
	srv := httptest.NewServer(demo.Handler())
	defer srv.Close()

	client := api.NewClient(srv.URL, &tokenHolder{}, zap.NewNop())
	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

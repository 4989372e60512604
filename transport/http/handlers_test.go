package http

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrin-shop/vitrin/adapters/registry"
	"github.com/vitrin-shop/vitrin/adapters/siwe"
	"github.com/vitrin-shop/vitrin/adapters/store"
	"github.com/vitrin-shop/vitrin/service"
)

const testDomain = "shop.example.com"

type testEnv struct {
	server *httptest.Server
	client *http.Client
}

func newTestEnv(t *testing.T, admins ...registry.Entry) *testEnv {
	t.Helper()

	reg := registry.New(admins)
	sessions := store.NewMemorySessionStore()
	auth := service.NewAuthService(sessions, siwe.Codec{}, siwe.NewVerifier(testDomain), reg, nil, time.Hour)
	products := service.NewProductService(store.NewMemoryProductRepository(), reg)
	manager := NewSessionManager(sessions, SessionConfig{})

	router := NewRouter(auth, products, manager, RouterConfig{Debug: true})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testEnv{server: server, client: &http.Client{Jar: jar}}
}

func (e *testEnv) get(t *testing.T, path string) (int, map[string]any) {
	t.Helper()
	resp, err := e.client.Get(e.server.URL + path)
	require.NoError(t, err)
	return resp.StatusCode, decodeBody(t, resp)
}

func (e *testEnv) post(t *testing.T, path string, body any) (int, map[string]any) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := e.client.Post(e.server.URL+path, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp.StatusCode, decodeBody(t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body), "body: %s", raw)
	return body
}

func testKey(t *testing.T) (*ecdsa.PrivateKey, string) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return key, crypto.PubkeyToAddress(key.PublicKey).Hex()
}

func signPersonal(t *testing.T, key *ecdsa.PrivateKey, message string) string {
	t.Helper()
	hash := crypto.Keccak256([]byte(fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(message), message)))
	sig, err := crypto.Sign(hash, key)
	require.NoError(t, err)
	sig[64] += 27
	return hexutil.Encode(sig)
}

func challengeFor(address, nonce string) string {
	return siwe.BuildMessage(siwe.MessageParams{
		Domain:    testDomain,
		Address:   address,
		Statement: "Sign in to manage the store.",
		URI:       "https://shop.example.com",
		ChainID:   1,
		Nonce:     nonce,
		IssuedAt:  time.Now().UTC(),
	})
}

// signIn runs the nonce+verify exchange for the given key on the env's
// cookie-carrying client and returns the verify response.
func (e *testEnv) signIn(t *testing.T, key *ecdsa.PrivateKey, addr, prefix string) (int, map[string]any) {
	t.Helper()

	status, body := e.get(t, prefix+"/nonce")
	require.Equal(t, http.StatusOK, status)
	nonce, _ := body["nonce"].(string)
	require.NotEmpty(t, nonce)

	msg := challengeFor(addr, nonce)
	return e.post(t, prefix+"/verify", map[string]string{
		"message":   msg,
		"signature": signPersonal(t, key, msg),
	})
}

func TestVerifyFlowAdmin(t *testing.T) {
	key, addr := testKey(t)
	env := newTestEnv(t, registry.Entry{Address: addr})

	status, body := env.signIn(t, key, addr, "/api/auth")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["isAdmin"])
	assert.Equal(t, addr, body["address"])

	status, body = env.get(t, "/api/auth/session")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["authenticated"])
	assert.Equal(t, true, body["isAdmin"])
	assert.Equal(t, addr, body["address"])
}

func TestVerifyFlowNonAdmin(t *testing.T) {
	key, addr := testKey(t)
	env := newTestEnv(t)

	status, body := env.signIn(t, key, addr, "/api/auth")
	require.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "not an admin", body["message"])

	status, body = env.get(t, "/api/auth/session")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["authenticated"])
}

func TestVerifyNonceMismatchResponse(t *testing.T) {
	key, addr := testKey(t)
	env := newTestEnv(t, registry.Entry{Address: addr})

	status, _ := env.get(t, "/api/auth/nonce")
	require.Equal(t, http.StatusOK, status)

	msg := challengeFor(addr, "ffffffffffffffffffffffffffffffff")
	status, body := env.post(t, "/api/auth/verify", map[string]string{
		"message":   msg,
		"signature": signPersonal(t, key, msg),
	})
	require.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "Invalid nonce", body["message"])
}

func TestVerifyMissingFieldsResponse(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.post(t, "/api/auth/verify", map[string]string{})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Missing message or signature", body["message"])

	status, _ = env.post(t, "/api/auth/verify", map[string]string{"message": "hi"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestVerifyWrongSignerResponse(t *testing.T) {
	_, addr := testKey(t)
	otherKey, _ := testKey(t)
	env := newTestEnv(t, registry.Entry{Address: addr})

	status, body := env.signIn(t, otherKey, addr, "/api/auth")
	require.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid signature", body["message"])
}

func TestNonceOverwritesPrevious(t *testing.T) {
	key, addr := testKey(t)
	env := newTestEnv(t, registry.Entry{Address: addr})

	_, body := env.get(t, "/api/auth/nonce")
	first, _ := body["nonce"].(string)
	require.NotEmpty(t, first)

	status, body := env.get(t, "/api/auth/nonce")
	require.Equal(t, http.StatusOK, status)
	second, _ := body["nonce"].(string)
	require.NotEqual(t, first, second)

	// A challenge built on the superseded nonce no longer verifies.
	msg := challengeFor(addr, first)
	status, body = env.post(t, "/api/auth/verify", map[string]string{
		"message":   msg,
		"signature": signPersonal(t, key, msg),
	})
	require.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "Invalid nonce", body["message"])
}

func TestSiwePrefixParity(t *testing.T) {
	key, addr := testKey(t)
	env := newTestEnv(t, registry.Entry{Address: addr})

	status, body := env.signIn(t, key, addr, "/api/siwe")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["isAdmin"])

	// A session established under one prefix is visible under the other.
	status, body = env.get(t, "/api/auth/check")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["authenticated"])
}

func TestLogout(t *testing.T) {
	key, addr := testKey(t)
	env := newTestEnv(t, registry.Entry{Address: addr})

	status, _ := env.signIn(t, key, addr, "/api/auth")
	require.Equal(t, http.StatusOK, status)

	status, body := env.post(t, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Logged out", body["message"])

	status, body = env.get(t, "/api/auth/session")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["authenticated"])

	// Logging out again is harmless.
	status, _ = env.post(t, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestProductEndpointsGated(t *testing.T) {
	key, addr := testKey(t)
	env := newTestEnv(t, registry.Entry{Address: addr})

	create := map[string]string{"name": "Mug", "price": "12.00"}

	status, body := env.post(t, "/api/products", create)
	require.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, false, body["success"])

	status, _ = env.signIn(t, key, addr, "/api/auth")
	require.Equal(t, http.StatusOK, status)

	status, body = env.post(t, "/api/products", create)
	require.Equal(t, http.StatusCreated, status)
	product, ok := body["product"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Mug", product["name"])
	assert.Equal(t, addr, product["owner"])

	status, body = env.get(t, "/api/products")
	require.Equal(t, http.StatusOK, status)
	items, ok := body["products"].([]any)
	require.True(t, ok)
	assert.Len(t, items, 1)
}

func TestProductInvalidPrice(t *testing.T) {
	key, addr := testKey(t)
	env := newTestEnv(t, registry.Entry{Address: addr})

	status, _ := env.signIn(t, key, addr, "/api/auth")
	require.Equal(t, http.StatusOK, status)

	status, body := env.post(t, "/api/products", map[string]string{"name": "Mug", "price": "not-a-number"})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
}

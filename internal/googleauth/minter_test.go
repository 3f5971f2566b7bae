package googleauth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPrivateKeyPEM(t *testing.T) (string, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	block := &pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}
	return string(pem.EncodeToMemory(block)), key
}

func TestMint(t *testing.T) {
	keyPEM, key := testPrivateKeyPEM(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "urn:ietf:params:oauth:grant-type:jwt-bearer", r.Form.Get("grant_type"))

		// The assertion must verify against the service account's key and
		// carry the requested scope.
		parsed, err := jwt.Parse(r.Form.Get("assertion"), func(tok *jwt.Token) (any, error) {
			return &key.PublicKey, nil
		}, jwt.WithValidMethods([]string{"RS256"}))
		require.NoError(t, err)

		claims := parsed.Claims.(jwt.MapClaims)
		assert.Equal(t, "svc@example.iam.gserviceaccount.com", claims["iss"])
		assert.Equal(t, ScopeSpreadsheets, claims["scope"])

		json.NewEncoder(w).Encode(map[string]string{"access_token": "minted-token"})
	}))
	defer server.Close()

	minter, err := NewMinter(&Credentials{
		ClientEmail: "svc@example.iam.gserviceaccount.com",
		PrivateKey:  keyPEM,
		TokenURI:    server.URL,
	})
	require.NoError(t, err)

	token, err := minter.Mint(context.Background(), ScopeSpreadsheets)
	require.NoError(t, err)
	assert.Equal(t, "minted-token", token)
}

func TestMintErrorStatus(t *testing.T) {
	keyPEM, _ := testPrivateKeyPEM(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	minter, err := NewMinter(&Credentials{
		ClientEmail: "svc@example.iam.gserviceaccount.com",
		PrivateKey:  keyPEM,
		TokenURI:    server.URL,
	})
	require.NoError(t, err)

	_, err = minter.Mint(context.Background(), ScopeSpreadsheets)
	assert.ErrorContains(t, err, "status 401")
}

func TestNewMinterBadKey(t *testing.T) {
	_, err := NewMinter(&Credentials{
		ClientEmail: "svc@example.iam.gserviceaccount.com",
		PrivateKey:  "not a pem key",
	})
	assert.Error(t, err)
}

func TestLoadCredentials(t *testing.T) {
	keyPEM, _ := testPrivateKeyPEM(t)
	credJSON := `{"client_email":"svc@example.iam.gserviceaccount.com","private_key":` + mustJSON(keyPEM) + `}`

	t.Run("inline json env", func(t *testing.T) {
		t.Setenv("GOOGLE_APPLICATION_CREDENTIALS_JSON", credJSON)
		t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

		creds, err := LoadCredentials("")
		require.NoError(t, err)
		assert.Equal(t, "svc@example.iam.gserviceaccount.com", creds.ClientEmail)
		assert.Equal(t, defaultTokenURI, creds.TokenURI)
	})

	t.Run("fallback file path", func(t *testing.T) {
		t.Setenv("GOOGLE_APPLICATION_CREDENTIALS_JSON", "")
		t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

		path := filepath.Join(t.TempDir(), "credentials.json")
		require.NoError(t, os.WriteFile(path, []byte(credJSON), 0600))

		creds, err := LoadCredentials(path)
		require.NoError(t, err)
		assert.NotEmpty(t, creds.PrivateKey)
	})

	t.Run("nothing configured", func(t *testing.T) {
		t.Setenv("GOOGLE_APPLICATION_CREDENTIALS_JSON", "")
		t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

		_, err := LoadCredentials("")
		assert.Error(t, err)
	})
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

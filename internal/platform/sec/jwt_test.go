// Copyright (c) 2026 Laurel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/laurel/internal/platform/sec"
)

// writeKeyPair generates an ephemeral RSA key pair and writes both halves as
// PEM files under a temp dir, matching the on-disk format the service loads
// in production.
func writeKeyPair(t *testing.T) (privatePath, publicPath string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privatePath = filepath.Join(dir, "jwt.key")
	publicPath = filepath.Join(dir, "jwt.pub")

	privatePEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	require.NoError(t, os.WriteFile(privatePath, privatePEM, 0o600))

	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	publicPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: publicDER,
	})
	require.NoError(t, os.WriteFile(publicPath, publicPEM, 0o600))

	return privatePath, publicPath
}

func newTokenService(t *testing.T) *sec.TokenService {
	t.Helper()

	privatePath, publicPath := writeKeyPair(t)
	service, err := sec.NewTokenService(privatePath, publicPath, "laurel.app")
	require.NoError(t, err)
	return service
}

func TestTokenService_RoundTrip(t *testing.T) {
	service := newTokenService(t)

	token, err := service.GenerateAccessToken("user-1", "alice", string(sec.RoleAdmin), true, time.Hour)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, string(sec.RoleAdmin), claims.Role)
	assert.True(t, claims.IsStaff)
	assert.Equal(t, "laurel.app", claims.Issuer)
}

func TestTokenService_RejectsExpiredToken(t *testing.T) {
	service := newTokenService(t)

	token, err := service.GenerateAccessToken("user-1", "alice", string(sec.RoleUser), false, -time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	assert.Error(t, err)
}

func TestTokenService_RejectsForeignKeyToken(t *testing.T) {
	signer := newTokenService(t)
	verifier := newTokenService(t)

	token, err := signer.GenerateAccessToken("user-1", "alice", string(sec.RoleUser), false, time.Hour)
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token)
	assert.Error(t, err, "a token signed by another key pair must not verify")
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	service := newTokenService(t)

	_, err := service.VerifyToken("not.a.jwt")
	assert.Error(t, err)
}

func TestNewTokenService_MissingKeyFile(t *testing.T) {
	_, publicPath := writeKeyPair(t)

	_, err := sec.NewTokenService("/nonexistent/jwt.key", publicPath, "laurel.app")
	assert.Error(t, err)
}

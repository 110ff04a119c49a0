package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func newTestJWTService(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTService(JWTConfig{
		Secret:     "test-secret-key-for-unit-tests",
		Issuer:     "beancounter-test",
		Expiration: 15 * time.Minute,
	})
	require.NoError(t, err)
	return svc
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestJWTService(t)

	token, err := svc.GenerateToken("user-1", []string{"TEST"}, []string{RoleViewer})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "beancounter-test", claims.Issuer)
	assert.True(t, claims.HasRole(RoleViewer))
	assert.True(t, claims.CanAccessPortfolio("test"))
	assert.False(t, claims.CanAccessPortfolio("OTHER"))
}

func TestValidateToken_Rejects(t *testing.T) {
	svc := newTestJWTService(t)

	expired, err := NewJWTService(JWTConfig{Secret: "test-secret-key-for-unit-tests", Issuer: "beancounter-test", Expiration: -time.Hour})
	require.NoError(t, err)
	old, err := expired.GenerateToken("u", nil, nil)
	require.NoError(t, err)
	_, err = svc.ValidateToken(old)
	assert.Error(t, err)

	other, err := NewJWTService(JWTConfig{Secret: "another-secret", Issuer: "beancounter-test", Expiration: time.Hour})
	require.NoError(t, err)
	forged, err := other.GenerateToken("u", nil, nil)
	require.NoError(t, err)
	_, err = svc.ValidateToken(forged)
	assert.Error(t, err)

	wrongIssuer, err := NewJWTService(JWTConfig{Secret: "test-secret-key-for-unit-tests", Issuer: "elsewhere", Expiration: time.Hour})
	require.NoError(t, err)
	tok, err := wrongIssuer.GenerateToken("u", nil, nil)
	require.NoError(t, err)
	_, err = svc.ValidateToken(tok)
	assert.Error(t, err)
}

func TestRSAValidationOnly(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	issuer, err := NewJWTService(JWTConfig{PrivateKeyPEM: string(privPEM), Expiration: time.Hour})
	require.NoError(t, err)
	validator, err := NewJWTService(JWTConfig{PublicKeyPEM: string(pubPEM)})
	require.NoError(t, err)

	token, err := issuer.GenerateToken("svc", nil, []string{RoleSystem})
	require.NoError(t, err)
	claims, err := validator.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, claims.CanAccessPortfolio("ANY"))

	_, err = validator.GenerateToken("svc", nil, nil)
	assert.Error(t, err)
}

func TestNewJWTService_RequiresKey(t *testing.T) {
	_, err := NewJWTService(JWTConfig{})
	assert.Error(t, err)
}

func TestUnaryAuthInterceptor(t *testing.T) {
	svc := newTestJWTService(t)
	interceptor := UnaryAuthInterceptor(svc, []string{"/grpc.health.v1.Health/Check"})
	handler := func(ctx context.Context, _ any) (any, error) {
		claims, ok := ClaimsFromContext(ctx)
		if !ok {
			return "anonymous", nil
		}
		return claims.Subject, nil
	}

	got, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, handler)
	require.NoError(t, err)
	assert.Equal(t, "anonymous", got)

	info := &grpc.UnaryServerInfo{FullMethod: "/position.v1.PositionService/GetPositions"}
	_, err = interceptor(context.Background(), nil, info, handler)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	token, err := svc.GenerateToken("user-9", []string{"*"}, nil)
	require.NoError(t, err)
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+token))
	got, err = interceptor(ctx, nil, info, handler)
	require.NoError(t, err)
	assert.Equal(t, "user-9", got)
}

func TestHTTPMiddleware(t *testing.T) {
	svc := newTestJWTService(t)
	h := HTTPMiddleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := AuthorizePortfolio(r.Context(), "TEST")
		if err != nil {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := svc.GenerateToken("u", []string{"OTHER"}, nil)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	token, err = svc.GenerateToken("u", []string{"TEST"}, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

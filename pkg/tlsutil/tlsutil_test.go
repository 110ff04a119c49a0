package tlsutil

import (
	"crypto/x509"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelfSigned(t *testing.T) {
	cert, pool, err := SelfSigned([]string{"localhost", "127.0.0.1"}, time.Hour)
	require.NoError(t, err)
	require.NotNil(t, cert.Leaf)

	assert.Equal(t, []string{"localhost"}, cert.Leaf.DNSNames)
	require.Len(t, cert.Leaf.IPAddresses, 1)
	assert.Equal(t, "127.0.0.1", cert.Leaf.IPAddresses[0].String())

	_, err = cert.Leaf.Verify(x509.VerifyOptions{DNSName: "localhost", Roots: pool})
	assert.NoError(t, err)

	creds := ServerCredentials(cert)
	assert.Equal(t, "tls", creds.Info().SecurityProtocol)
}

func TestServerTLSConfig_MissingFiles(t *testing.T) {
	_, err := ServerTLSConfig("/nonexistent/cert.pem", "/nonexistent/key.pem")
	assert.Error(t, err)
}

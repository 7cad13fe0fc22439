package auth

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Jwk is a single signing key from the issuer's published key set.
type Jwk struct {
	Kid string   `json:"kid"`
	Kty string   `json:"kty"`
	Alg string   `json:"alg"`
	Use string   `json:"use"`
	X5c []string `json:"x5c"`
}

// Jwks is the key set document served by the issuer.
type Jwks struct {
	Keys []Jwk `json:"keys"`
}

// KeySetClient fetches the key set from a fixed issuer endpoint.
type KeySetClient struct {
	URL    string
	Client *http.Client
}

func NewKeySetClient(url string) *KeySetClient {
	return &KeySetClient{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Fetch retrieves the current key set. Every verification re-fetches; the
// issuer endpoint is expected to be cache-friendly.
func (c *KeySetClient) Fetch(ctx context.Context) (*Jwks, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeySetUnavailable, err)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeySetUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: key set endpoint returned %d", ErrKeySetUnavailable, resp.StatusCode)
	}

	var jwks Jwks
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeySetUnavailable, err)
	}

	return &jwks, nil
}

// Key returns the key whose id matches kid.
func (j *Jwks) Key(kid string) (*Jwk, bool) {
	for i := range j.Keys {
		if j.Keys[i].Kid == kid {
			return &j.Keys[i], true
		}
	}
	return nil, false
}

// PublicKey builds an RSA verification key from the key's certificate chain.
func (k *Jwk) PublicKey() (*rsa.PublicKey, error) {
	if len(k.X5c) == 0 {
		return nil, fmt.Errorf("signing key %q has no certificate chain", k.Kid)
	}

	der, err := base64.StdEncoding.DecodeString(k.X5c[0])
	if err != nil {
		return nil, fmt.Errorf("failed to decode certificate for key %q: %w", k.Kid, err)
	}

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate for key %q: %w", k.Kid, err)
	}

	pub, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("certificate for key %q does not carry an RSA key", k.Kid)
	}

	return pub, nil
}

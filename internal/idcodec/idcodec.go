// Package idcodec converts internal integer identities into opaque external
// tokens and back. Internal ids are small sequential integers; handing them
// to clients in URLs makes every record enumerable. Tokens are authenticated
// and encrypted under process-wide key material, so a token is useless
// without the key and undetectably random to a scraper.
package idcodec

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/gorilla/securecookie"

	"github.com/frahmantamala/workforce-management/internal"
)

// tokenName namespaces the codec; a token produced for another purpose under
// the same keys will not decode here.
const tokenName = "rid"

const keyBytes = 64

// Codec encodes with the first configured key and decodes with every
// configured key. Rotation: prepend a fresh key and keep old ones until
// tokens issued under them have aged out of circulation.
type Codec struct {
	codecs []securecookie.Codec
}

// New builds a Codec from base64-encoded secrets of at least 64 bytes each:
// the first 32 bytes become the HMAC key, the next 32 the AES-256 key.
// Block encryption uses a random IV, so Encode is intentionally
// non-deterministic: two tokens for the same id differ byte-for-byte yet
// both decode to it.
func New(secrets []string) (*Codec, error) {
	if len(secrets) == 0 {
		return nil, errors.New("idcodec: at least one secret is required")
	}

	codecs := make([]securecookie.Codec, 0, len(secrets))
	for i, secret := range secrets {
		raw, err := base64.StdEncoding.DecodeString(secret)
		if err != nil {
			return nil, fmt.Errorf("idcodec: secret %d is not valid base64: %w", i, err)
		}
		if len(raw) < keyBytes {
			return nil, fmt.Errorf("idcodec: secret %d must be at least %d bytes, got %d", i, keyBytes, len(raw))
		}

		sc := securecookie.New(raw[:32], raw[32:64])
		sc.MaxAge(0)
		codecs = append(codecs, sc)
	}

	return &Codec{codecs: codecs}, nil
}

// Encode wraps an internal id into an opaque token. It never fails for a
// valid codec; the error return exists because the underlying cipher can in
// principle fail to read randomness.
func (c *Codec) Encode(id int64) (string, error) {
	token, err := securecookie.EncodeMulti(tokenName, id, c.codecs...)
	if err != nil {
		return "", fmt.Errorf("idcodec: encode: %w", err)
	}
	return token, nil
}

// Decode recovers the internal id from a token. Anything not produced by
// Encode under a currently configured key fails with ErrMalformedIdentifier;
// it never guesses an id from garbage.
func (c *Codec) Decode(token string) (int64, error) {
	if token == "" {
		return 0, internal.ErrMalformedIdentifier
	}

	var id int64
	if err := securecookie.DecodeMulti(tokenName, token, &id, c.codecs...); err != nil {
		return 0, internal.ErrMalformedIdentifier.WithCause(err)
	}
	return id, nil
}

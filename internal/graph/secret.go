package graph

import (
	"crypto/rand"
	"encoding/base64"

	"golang.org/x/crypto/blake2b"
)

const (
	saltLen   = 16
	secretLen = 32
)

// saltedHash computes digest = H(salt || pepper || secret) with BLAKE2b-256.
// pepper may be nil. See DESIGN.md for why blake2b rather than bcrypt
// was chosen for account-secret hashing (bcrypt self-salts and can't
// take an explicit salt+pepper composition of arbitrary byte strings).
func saltedHash(salt, pepper, secret []byte) ([]byte, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return nil, unexpectedf("constructing hash: %v", err)
	}
	h.Write(salt)
	if pepper != nil {
		h.Write(pepper)
	}
	h.Write(secret)
	return h.Sum(nil), nil
}

// randomSalt generates a fresh cryptographically random salt.
func randomSalt() ([]byte, error) {
	buf := make([]byte, saltLen)
	if _, err := rand.Read(buf); err != nil {
		return nil, unexpectedf("generating salt: %v", err)
	}
	return buf, nil
}

// randomSecret generates a fresh cryptographically random secret and
// returns it in both its raw entropy form and a URL-safe text encoding.
// The text encoding is the byte form that gets hashed and handed back
// to the caller of AccountManager.create: the raw bytes are discarded
// once the text form exists, since the raw secret is never persisted
// and authentication must hash the same bytes it was given to create.
func randomSecret() (raw []byte, text string, err error) {
	raw = make([]byte, secretLen)
	if _, err = rand.Read(raw); err != nil {
		return nil, "", unexpectedf("generating secret: %v", err)
	}
	text = base64.RawURLEncoding.EncodeToString(raw)
	return raw, text, nil
}

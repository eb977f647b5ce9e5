// Package passwd produces and verifies password digests.
//
// New digests use argon2id with a per-password random salt and are encoded
// in the PHC string format:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
//
// Records imported from the previous deployment hold a bare hex SHA-256 of
// the password. Verify still accepts them and reports that the digest should
// be replaced.
package passwd

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/studiogate/internal/common"
	"golang.org/x/crypto/argon2"
)

// Params are the argon2id cost parameters.
type Params struct {
	Memory  uint32 // KiB
	Time    uint32
	Threads uint8
	SaltLen int
	KeyLen  uint32
}

// DefaultParams match the key derivation settings used elsewhere in the
// project (64 MiB, one pass, four lanes).
var DefaultParams = Params{Memory: 64 * 1024, Time: 1, Threads: 4, SaltLen: 16, KeyLen: 32}

var ErrMalformedDigest = errors.New("malformed password digest")

const legacyDigestLen = sha256.Size * 2

var b64 = base64.RawStdEncoding

// Hash returns the argon2id digest of password using DefaultParams.
func Hash(password string) (string, error) {
	return HashWithParams(password, DefaultParams)
}

func HashWithParams(password string, p Params) (string, error) {
	if p.SaltLen <= 0 || p.KeyLen == 0 {
		return "", fmt.Errorf("invalid argon2 params: %+v", p)
	}
	salt := common.GenerateRandByteArray(p.SaltLen)
	key := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, p.KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Time, p.Threads, b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

// Legacy returns the unsalted hex SHA-256 digest of the previous deployment.
func Legacy(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// IsLegacy reports whether digest is a bare hex SHA-256.
func IsLegacy(digest string) bool {
	if len(digest) != legacyDigestLen {
		return false
	}
	_, err := hex.DecodeString(digest)
	return err == nil
}

// Verify checks password against digest. needsRehash is true when the
// password matched a legacy digest.
func Verify(digest, password string) (ok bool, needsRehash bool, err error) {
	if IsLegacy(digest) {
		candidate := Legacy(password)
		return subtle.ConstantTimeCompare([]byte(strings.ToLower(digest)), []byte(candidate)) == 1, true, nil
	}

	p, salt, key, err := decode(digest)
	if err != nil {
		return false, false, err
	}
	candidate := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, candidate) == 1, false, nil
}

// Burn spends the same work as a verification. It is called when the
// username is unknown so both failure paths take similar time.
func Burn(password string) {
	argon2.IDKey([]byte(password), dummySalt, DefaultParams.Time, DefaultParams.Memory, DefaultParams.Threads, DefaultParams.KeyLen)
}

var dummySalt = common.GenerateRandByteArray(DefaultParams.SaltLen)

func decode(digest string) (Params, []byte, []byte, error) {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return Params{}, nil, nil, ErrMalformedDigest
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return Params{}, nil, nil, ErrMalformedDigest
	}

	var p Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil || p.Time == 0 || p.Threads == 0 {
		return Params{}, nil, nil, ErrMalformedDigest
	}

	salt, err := b64.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return Params{}, nil, nil, ErrMalformedDigest
	}
	key, err := b64.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return Params{}, nil, nil, ErrMalformedDigest
	}
	p.SaltLen = len(salt)
	p.KeyLen = uint32(len(key))

	return p, salt, key, nil
}

package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/argon2"

	"github.com/bugie-app/bugie-backend/pkg/config"
	pkgerrors "github.com/bugie-app/bugie-backend/pkg/errors"
)

const defaultMinLength = 8

// ErrInvalidHash signals a stored credential that is not a PHC argon2id string.
var ErrInvalidHash = errors.New("invalid argon2id hash")

// ArgonParams are the cost settings recorded inside every hash.
type ArgonParams struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLen     uint32
	KeyLen      uint32
}

// ParamsFromConfig clamps the configured costs to sane bounds.
func ParamsFromConfig(cfg config.PasswordConfig) ArgonParams {
	return ArgonParams{
		Memory:      clamp(cfg.ArgonMemoryKB, 8, 512*1024),
		Time:        clamp(cfg.ArgonTime, 1, 10),
		Parallelism: uint8(clamp(cfg.ArgonParallelism, 1, 255)),
		SaltLen:     clamp(cfg.ArgonSaltLen, 8, 64),
		KeyLen:      clamp(cfg.ArgonKeyLen, 16, 64),
	}
}

// HashPassword derives an argon2id key with a fresh salt and returns it in
// PHC string form.
func HashPassword(password string, cfg config.PasswordConfig) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	p := ParamsFromConfig(cfg)
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Parallelism, p.KeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Time, p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword reports whether password matches encoded, using the costs
// stored in the hash rather than the current configuration.
func VerifyPassword(password, encoded string) (bool, error) {
	p, salt, key, err := parseHash(encoded)
	if err != nil {
		return false, err
	}
	candidate := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Parallelism, p.KeyLen)
	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

// NeedsRehash reports whether encoded was produced with weaker costs than
// cfg now asks for. Unparseable hashes always need replacing.
func NeedsRehash(encoded string, cfg config.PasswordConfig) bool {
	stored, _, _, err := parseHash(encoded)
	if err != nil {
		return true
	}
	want := ParamsFromConfig(cfg)
	return stored.Memory < want.Memory ||
		stored.Time < want.Time ||
		stored.Parallelism < want.Parallelism ||
		stored.KeyLen < want.KeyLen
}

func parseHash(encoded string) (ArgonParams, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return ArgonParams{}, nil, nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return ArgonParams{}, nil, nil, ErrInvalidHash
	}

	var p ArgonParams
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Parallelism); err != nil {
		return ArgonParams{}, nil, nil, ErrInvalidHash
	}
	if p.Memory == 0 || p.Time == 0 || p.Parallelism == 0 {
		return ArgonParams{}, nil, nil, ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return ArgonParams{}, nil, nil, ErrInvalidHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return ArgonParams{}, nil, nil, ErrInvalidHash
	}
	p.SaltLen = uint32(len(salt))
	p.KeyLen = uint32(len(key))
	return p, salt, key, nil
}

// CheckPolicy enforces the sign-up password rules: minimum length plus at
// least one letter and one digit.
func CheckPolicy(password string, cfg config.PasswordConfig) error {
	minLen := cfg.MinLength
	if minLen <= 0 {
		minLen = defaultMinLength
	}
	if utf8.RuneCountInString(password) < minLen {
		return pkgerrors.Validation(fmt.Sprintf("비밀번호는 %d자 이상이어야 합니다", minLen))
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return pkgerrors.Validation("비밀번호는 문자와 숫자를 모두 포함해야 합니다")
	}
	return nil
}

func clamp(value, lo, hi int) uint32 {
	switch {
	case value < lo:
		return uint32(lo)
	case value > hi:
		return uint32(hi)
	}
	return uint32(value)
}

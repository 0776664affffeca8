package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/partyscore/internal/model"
)

// Hash schemes accepted in configuration
const (
	SchemeSHA256 = "sha256"
	SchemeBcrypt = "bcrypt"
)

// Hasher turns a plaintext password into the string stored in the document
type Hasher interface {
	Hash(plaintext string) (string, error)
}

// SHA256Hasher stores the hex SHA-256 of the password. Compatible with
// documents written by earlier versions of the game.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(plaintext string) (string, error) {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:]), nil
}

// BcryptHasher stores a salted bcrypt hash
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(plaintext string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// NewHasher returns the hasher for a configured scheme name
func NewHasher(scheme string) (Hasher, error) {
	switch scheme {
	case "", SchemeSHA256:
		return SHA256Hasher{}, nil
	case SchemeBcrypt:
		return BcryptHasher{}, nil
	default:
		return nil, fmt.Errorf("unknown hash scheme %q: must be %q or %q", scheme, SchemeSHA256, SchemeBcrypt)
	}
}

// SetPassword stores the hash of plaintext as the admin password.
// It is only allowed while no password is set.
func SetPassword(doc *model.Document, plaintext string, hasher Hasher) error {
	if doc.PasswordSet() {
		return model.ErrPasswordAlreadySet
	}
	if plaintext == "" {
		return model.ErrEmptyPassword
	}
	hash, err := hasher.Hash(plaintext)
	if err != nil {
		return err
	}
	doc.AdminPassword = &hash
	return nil
}

// Verify reports whether plaintext matches the stored admin password.
// Both bcrypt and legacy hex SHA-256 hashes are understood.
func Verify(doc *model.Document, plaintext string) bool {
	if !doc.PasswordSet() {
		return false
	}
	stored := *doc.AdminPassword

	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plaintext)) == nil
	}

	candidate, _ := SHA256Hasher{}.Hash(plaintext)
	return subtle.ConstantTimeCompare([]byte(strings.ToLower(stored)), []byte(candidate)) == 1
}

package store

import (
	"crypto/rand"
	"encoding/base32"
	"strings"

	"lockin-cli/internal/model"
)

const (
	prefixRule    = "rule"
	prefixBlock   = "block"
	prefixSubtask = "task"
)

// IDSource produces fresh entity ids. Tests may swap in a deterministic source.
type IDSource func(prefix string) (string, error)

// newRandomID returns prefix-<suffix> where suffix is 8 chars of base32 (lowercase, no padding).
// 8 chars base32 ~= 40 bits (~1 trillion) of space.
func newRandomID(prefix string) (string, error) {
	var b [5]byte // 40 bits -> 8 base32 chars
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	suffix := strings.ToLower(enc.EncodeToString(b[:]))
	return prefix + "-" + suffix, nil
}

func idExists(doc *model.Document, id string) bool {
	for _, r := range doc.Rules {
		if r.ID == id {
			return true
		}
	}
	for _, b := range doc.Blocks {
		if b.ID == id {
			return true
		}
		for _, t := range b.Subtasks {
			if t.ID == id {
				return true
			}
		}
	}
	return false
}

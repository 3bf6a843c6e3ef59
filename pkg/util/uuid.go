package util

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"path/filepath"

	"github.com/google/uuid"
)

// Md5ThenHex is a quick hasher
func Md5ThenHex(value []byte) string {
	hasher := md5.New()
	hasher.Write(value)
	return hex.EncodeToString(hasher.Sum(nil))
}

// HashUUID derives a stable uuid from the json form of value
func HashUUID(value any) string {
	raw, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	hasher := md5.New()
	hasher.Write(raw)
	hash := hasher.Sum(nil)
	id, err := uuid.FromBytes(hash[:16])
	if err != nil {
		return ""
	}
	return id.String()
}

// JobID names the work of dampening one input at one power, so reruns of the
// same file log under the same id
func JobID(input string, power float64) string {
	abs, err := filepath.Abs(input)
	if err != nil {
		abs = input
	}
	return HashUUID(struct {
		Input string  `json:"input"`
		Power float64 `json:"power"`
	}{abs, power})
}

// RunID is a fresh random id for one batch run
func RunID() string {
	return uuid.NewString()
}

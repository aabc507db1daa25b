package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// pinSalt is baked into every PIN so the code cannot be derived from the
// email alone. Changing it invalidates every previously issued PIN.
const pinSalt = "COAL_TRAIN_CUP_2025"

type User struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// PIN derives the user's 4-digit access code from their lower-cased email.
// One-way hash, so the same email always produces the same code.
func (u User) PIN() string {
	sum := sha256.Sum256([]byte(strings.ToLower(u.Email) + pinSalt))
	n := new(big.Int)
	n.SetString(hex.EncodeToString(sum[:]), 16)
	n.Mod(n, big.NewInt(10000))
	return fmt.Sprintf("%04d", n.Int64()) + "69"
}

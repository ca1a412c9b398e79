package activity

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// cursor is the decoded form of a page token. Scope binds the token to the
// listing that issued it.
type cursor struct {
	Key   int64  `json:"k"`
	Scope string `json:"s"`
}

func scopeHash(kind, id string) string {
	sum := sha256.Sum256([]byte(kind + "\x00" + id))
	return hex.EncodeToString(sum[:8])
}

func encodeCursor(key int64, scope string) string {
	raw, err := json.Marshal(cursor{Key: key, Scope: scope})
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decodeCursor(token, scope string) (int64, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	var c cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	if c.Key <= 0 {
		return 0, fmt.Errorf("%w: non-positive key", ErrInvalidCursor)
	}
	if c.Scope != scope {
		return 0, fmt.Errorf("%w: issued for another listing", ErrInvalidCursor)
	}
	return c.Key, nil
}

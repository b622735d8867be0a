package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const ownerDigestLen = 32

// OwnerKey maps an owner id such as "tg:42" or "web:<uuid>" to a path-safe
// storage namespace. The channel prefix stays readable so objects can be told
// apart per front end; the rest is hashed.
func OwnerKey(ownerID string) string {
	sum := sha256.Sum256([]byte(ownerID))
	digest := hex.EncodeToString(sum[:])[:ownerDigestLen]

	channel, _, found := strings.Cut(ownerID, ":")
	if !found || !isChannelName(channel) {
		return "owner-" + digest
	}
	return strings.ToLower(channel) + "-" + digest
}

func isChannelName(s string) bool {
	if s == "" || len(s) > 16 {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

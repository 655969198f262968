package launch

import (
	"crypto/md5" //nolint:gosec // name based UUIDs are MD5 by definition
	"fmt"

	"github.com/google/uuid"
)

// OfflineUUID returns the name based (version 3) UUID servers in offline mode
// assign to a player, derived from "OfflinePlayer:<name>".
func OfflineUUID(name string) string {
	sum := md5.Sum([]byte("OfflinePlayer:" + name)) //nolint:gosec
	sum[6] = (sum[6] & 0x0f) | 0x30
	sum[8] = (sum[8] & 0x3f) | 0x80
	id, err := uuid.FromBytes(sum[:])
	if err != nil {
		panic(fmt.Sprintf("16 byte digest rejected: %v", err))
	}
	return id.String()
}

package direct

import (
	"encoding/binary"

	"github.com/minio/highwayhash"
)

// segmentCount is the number of lock stripes; must be a power of two.
const segmentCount = 16

var hashKey = []byte("0123456789ABCDEF0123456789ABCDEF")

// lockIndex maps a recid to its lock stripe.
func lockIndex(recid int64) int {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(recid))
	return int(highwayhash.Sum64(b[:], hashKey) & (segmentCount - 1))
}

package nsga

import "hash/fnv"

// DeriveSeed mixes a master seed with an order identifier into a
// per-order sub-seed (spec §5): the batch driver can then run every
// order's solver with an independent but reproducible stream, and the
// same (masterSeed, orderID) pair always yields the same sub-seed
// regardless of worker count or scheduling order.
func DeriveSeed(masterSeed uint64, orderID string) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(masterSeed >> (8 * i))
	}
	h.Write(buf[:])
	h.Write([]byte(orderID))
	return h.Sum64()
}

package ethtypes

import (
	"github.com/mrz1836/ethkit/internal/eth/rlp"
)

// AccessTuple is one EIP-2930 access list entry: an address and the storage
// slots the transaction will touch at that address.
type AccessTuple struct {
	Address     Address `json:"address"     yaml:"address"`
	StorageKeys []Hash  `json:"storageKeys" yaml:"storage_keys"`
}

// AccessList is an ordered list of access tuples.
type AccessList []AccessTuple

// StorageKeys returns the total number of storage keys in the list.
func (al AccessList) StorageKeys() int {
	n := 0
	for _, tuple := range al {
		n += len(tuple.StorageKeys)
	}
	return n
}

// EncodeRLP encodes the list as [[address, [key, ...]], ...].
func (al AccessList) EncodeRLP() ([]byte, error) {
	entries := make([]any, len(al))
	for i, tuple := range al {
		keys := make([]any, len(tuple.StorageKeys))
		for j, key := range tuple.StorageKeys {
			keys[j] = key
		}
		entries[i] = []any{tuple.Address, keys}
	}
	return rlp.EncodeList(entries...)
}

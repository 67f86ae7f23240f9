package idcodec

import "github.com/ramtk/ram/internal/types"

// EncodeDefID packs a DefId's FileID and LocalDefId into one base-63 string,
// suitable for use as a node label in DOT/Mermaid CFG export or as the "id"
// field of an exported diagnostic.
func EncodeDefID(def types.DefId) string {
	return EncodeNoZero(pack(uint32(def.File), uint32(def.Local)))
}

// DecodeDefID reverses EncodeDefID.
func DecodeDefID(encoded string) (types.DefId, error) {
	if encoded == "" {
		return types.DefId{}, ErrEmptyString
	}
	packed, err := Decode(encoded)
	if err != nil {
		return types.DefId{}, err
	}
	file, local := unpack(packed)
	return types.DefId{File: types.FileID(file), Local: types.LocalDefId(local)}, nil
}

func pack(low, high uint32) uint64 {
	return uint64(low) | (uint64(high) << 32)
}

func unpack(packed uint64) (uint32, uint32) {
	return uint32(packed), uint32(packed >> 32)
}

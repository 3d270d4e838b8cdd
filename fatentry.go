package fat32ro

import "encoding/binary"

// fatEntryMask strips the top 4 reserved bits of a 32-bit FAT entry; only
// the low 28 bits address a cluster or carry status.
const fatEntryMask = 0x0FFFFFFF

// clusterStatus classifies a decoded FAT entry.
type clusterStatus int

const (
	clusterFree clusterStatus = iota
	clusterReserved
	clusterData
	clusterBad
	clusterEOC
)

// fatEntry is one decoded 32-bit FAT cell.
type fatEntry struct {
	status clusterStatus
	next   uint32 // valid only when status == clusterData
}

// decodeFATEntry classifies the 28-bit value left after masking a raw
// 32-bit FAT cell.
func decodeFATEntry(raw uint32) fatEntry {
	v := raw & fatEntryMask
	switch {
	case v == 0x00000000:
		return fatEntry{status: clusterFree}
	case v == 0x00000001:
		return fatEntry{status: clusterReserved}
	case v >= 0x00000002 && v <= 0x0FFFFFEF:
		return fatEntry{status: clusterData, next: v}
	case v == 0x0FFFFFF7:
		return fatEntry{status: clusterBad}
	case v >= 0x0FFFFFF8:
		return fatEntry{status: clusterEOC}
	default:
		return fatEntry{status: clusterReserved}
	}
}

// fatEntryFor reads and decodes the FAT entry for the given cluster
// number. Each FAT32 entry is 4 bytes; the entry for cluster n lives at
// byte offset n*4 within the FAT, which this resolves to a logical sector
// and in-sector offset through the cache.
func (fs *FS) fatEntryFor(cluster uint32) (fatEntry, error) {
	bytesPerSector := fs.geometry.BytesPerSector
	byteOffset := int64(cluster) * 4
	sector := fs.geometry.FATStartSector + byteOffset/int64(bytesPerSector)
	offInSector := int(byteOffset % int64(bytesPerSector))

	data, err := fs.cache.readSector(sector)
	if err != nil {
		return fatEntry{}, err
	}
	if offInSector+4 > len(data) {
		return fatEntry{}, wrapIo("read FAT entry", sector, ErrInvalidData)
	}
	raw := binary.LittleEndian.Uint32(data[offInSector : offInSector+4])
	return decodeFATEntry(raw), nil
}

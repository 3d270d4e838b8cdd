// Package mbr decodes a Master Boot Record: the 512-byte partition table
// sector at the start of a partitioned block device.
package mbr

import (
	"encoding/binary"

	"github.com/go-restruct/restruct"
	"github.com/pkg/errors"
)

const (
	partitionTableOffset = 446
	partitionEntrySize   = 16
	signatureOffset      = 510

	// Signature is the magic value an MBR's last two bytes must hold.
	Signature = 0xAA55
)

// ErrBadSignature is returned when the trailing 0xAA55 word is absent.
var ErrBadSignature = errors.New("mbr: bad boot signature")

// PartitionEntry is one of the four 16-byte slots in the MBR partition
// table, decoded from its on-disk little-endian layout.
type PartitionEntry struct {
	Bootable       byte
	CHSStart       [3]byte
	Type           PartitionType
	CHSEnd         [3]byte
	RelativeSector uint32
	TotalSectors   uint32
}

// IsBootable reports whether the 0x80 bootable flag is set.
func (pe PartitionEntry) IsBootable() bool {
	return pe.Bootable == 0x80
}

// Validate reports whether the entry's bootable byte holds one of the two
// values a valid MBR permits.
func (pe PartitionEntry) Validate() error {
	if pe.Bootable != 0x00 && pe.Bootable != 0x80 {
		return errors.Errorf("mbr: unknown boot indicator 0x%02x", pe.Bootable)
	}
	return nil
}

// IsEmpty reports whether the slot holds no partition at all.
func (pe PartitionEntry) IsEmpty() bool {
	return pe.Type == PartitionTypeUnused
}

// PartitionType identifies the filesystem/format a partition entry claims
// to hold. Only a handful of values are meaningful to this driver; the
// rest are kept for diagnostics.
type PartitionType byte

const (
	PartitionTypeUnused   PartitionType = 0x00
	PartitionTypeFAT12    PartitionType = 0x01
	PartitionTypeFAT16    PartitionType = 0x04
	PartitionTypeExtended PartitionType = 0x05
	PartitionTypeFAT32CHS PartitionType = 0x0B
	PartitionTypeFAT32LBA PartitionType = 0x0C
	PartitionTypeNTFS     PartitionType = 0x07 // also exFAT
	PartitionTypeLinux    PartitionType = 0x83
)

// IsFAT32 reports whether the partition type is one of the two FAT32
// variants this driver recognizes (CHS or LBA addressed).
func (pt PartitionType) IsFAT32() bool {
	return pt == PartitionTypeFAT32CHS || pt == PartitionTypeFAT32LBA
}

// BootSector is a parsed 512-byte Master Boot Record.
type BootSector struct {
	Partitions [4]PartitionEntry
	signature  uint16
}

// Valid reports whether the boot sector signature is present.
func (bs BootSector) Valid() bool {
	return bs.signature == Signature
}

// Parse decodes a 512-byte MBR sector. Returns ErrBadSignature if the
// trailing magic word does not match.
func Parse(sector []byte) (BootSector, error) {
	if len(sector) < 512 {
		return BootSector{}, errors.New("mbr: sector shorter than 512 bytes")
	}
	var bs BootSector
	bs.signature = binary.LittleEndian.Uint16(sector[signatureOffset:])
	if bs.signature != Signature {
		return BootSector{}, ErrBadSignature
	}
	for i := 0; i < 4; i++ {
		off := partitionTableOffset + i*partitionEntrySize
		raw := sector[off : off+partitionEntrySize : off+partitionEntrySize]
		var pe PartitionEntry
		err := restruct.Unpack(raw, binary.LittleEndian, &pe)
		if err != nil {
			return BootSector{}, errors.Wrapf(err, "mbr: decoding partition entry %d", i)
		}
		bs.Partitions[i] = pe
	}
	return bs, nil
}

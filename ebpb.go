package fat32ro

import (
	"encoding/binary"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-restruct/restruct"
	"github.com/pkg/errors"
)

const ebpbSize = 90

// ebpb is the on-disk layout of a FAT32 Extended BIOS Parameter Block, from
// offset 0 of the volume's first sector through the filesystem-type string.
// Field order and widths follow the Microsoft FAT32 boot sector layout;
// fields this driver never reads (jump instruction, OEM name, geometry
// hints meaningless on a disk image) are still decoded so the struct's
// size matches the on-disk record.
type ebpb struct {
	JmpBoot           [3]byte
	OEMName           [8]byte
	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	NumFATs           uint8
	RootEntryCount    uint16
	TotalSectors16    uint16
	Media             uint8
	FATSize16         uint16
	SectorsPerTrack   uint16
	NumHeads          uint16
	HiddenSectors     uint32
	TotalSectors32    uint32
	FATSize32         uint32
	ExtFlags          uint16
	FSVersion         uint16
	RootCluster       uint32
	FSInfoSector      uint16
	BackupBootSector  uint16
	Reserved          [12]byte
	DriveNumber       uint8
	Reserved1         uint8
	BootSignature     uint8
	VolumeID          uint32
	VolumeLabel       [11]byte
	FilesystemType    [8]byte
}

// Geometry is the decoded, ready-to-use volume layout a mounted filesystem
// computes its sector and cluster addresses from. FATStartSector and
// DataStartSector are absolute sector numbers counted from the start of
// the device, per the partition_start+reserved_sectors convention — not
// sector numbers relative to the partition's own first sector.
type Geometry struct {
	BytesPerSector    int
	SectorsPerCluster int
	ReservedSectors   int64
	NumFATs           int
	SectorsPerFAT     int64
	RootCluster       uint32
	TotalSectors      int64

	FATStartSector  int64
	DataStartSector int64

	partitionStart int64
}

// parseEBPB decodes a FAT32 Extended BIOS Parameter Block from the first
// sector of a partition and resolves it into a Geometry. partitionStart is
// the partition's own first sector, the LBA the EBPB's own sector-relative
// fields (ReservedSectors, FATSize32, ...) are offset from.
func parseEBPB(sector []byte, partitionStart int64) (Geometry, error) {
	if len(sector) < 512 {
		return Geometry{}, errors.New("fat32ro: boot sector shorter than 512 bytes")
	}
	if sector[510] != 0x55 || sector[511] != 0xAA {
		return Geometry{}, errors.Wrap(ErrBadSignature, "fat32ro: boot sector missing 0x55AA signature")
	}

	var b ebpb
	if err := restruct.Unpack(sector[:ebpbSize], binary.LittleEndian, &b); err != nil {
		return Geometry{}, errors.Wrap(err, "fat32ro: decoding EBPB")
	}

	if b.BytesPerSector == 0 || b.SectorsPerCluster == 0 || b.NumFATs == 0 {
		return Geometry{}, errors.Wrap(ErrInvalidData, "fat32ro: degenerate EBPB geometry")
	}
	if b.FATSize32 == 0 {
		// FATSize32 == 0 means this is a FAT12/16 boot sector, not FAT32.
		return Geometry{}, errors.Wrap(ErrInvalidData, "fat32ro: FAT32Sz is zero, not a FAT32 volume")
	}

	totalSectors := int64(b.TotalSectors32)
	if totalSectors == 0 {
		totalSectors = int64(b.TotalSectors16)
	}

	g := Geometry{
		BytesPerSector:    int(b.BytesPerSector),
		SectorsPerCluster: int(b.SectorsPerCluster),
		ReservedSectors:   int64(b.ReservedSectors),
		NumFATs:           int(b.NumFATs),
		SectorsPerFAT:     int64(b.FATSize32),
		RootCluster:       b.RootCluster,
		TotalSectors:      totalSectors,
		partitionStart:    partitionStart,
	}
	g.FATStartSector = partitionStart + g.ReservedSectors
	g.DataStartSector = g.FATStartSector + int64(g.NumFATs)*g.SectorsPerFAT

	return g, nil
}

// clusterCount returns the number of addressable data clusters N; data
// cluster numbers run from 2 through N+1.
func (g Geometry) clusterCount() int64 {
	dataSectors := g.partitionStart + g.TotalSectors - g.DataStartSector
	if dataSectors < 0 {
		return 0
	}
	return dataSectors / int64(g.SectorsPerCluster)
}

// clusterToSector converts a cluster number (>= 2) to its first logical
// data sector.
func (g Geometry) clusterToSector(cluster uint32) int64 {
	return g.DataStartSector + int64(cluster-2)*int64(g.SectorsPerCluster)
}

// String renders the geometry the way the teacher's BPB diagnostics do:
// human-readable sizes alongside the raw sector counts.
func (g Geometry) String() string {
	var sb strings.Builder
	total := uint64(g.TotalSectors) * uint64(g.BytesPerSector)
	clusterSize := uint64(g.SectorsPerCluster) * uint64(g.BytesPerSector)
	sb.WriteString("FAT32 geometry: ")
	sb.WriteString(humanize.Bytes(total))
	sb.WriteString(" volume, ")
	sb.WriteString(humanize.Bytes(clusterSize))
	sb.WriteString(" clusters, ")
	sb.WriteString(humanize.Comma(g.clusterCount()))
	sb.WriteString(" data clusters")
	return sb.String()
}

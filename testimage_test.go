package fat32ro

import (
	"encoding/binary"
	"errors"
)

// memBlockDevice is an in-memory BlockDevice test double, in the shape of
// the teacher's own BlockMap: a fixed sector size over a flat byte slice.
type memBlockDevice struct {
	sectorSize int
	data       []byte
}

func newMemBlockDevice(sectorSize, sectorCount int) *memBlockDevice {
	return &memBlockDevice{sectorSize: sectorSize, data: make([]byte, sectorSize*sectorCount)}
}

func (d *memBlockDevice) SectorSize() int { return d.sectorSize }

func (d *memBlockDevice) ReadSector(index int64, dst []byte) error {
	off := int(index) * d.sectorSize
	if off < 0 || off+d.sectorSize > len(d.data) {
		return errors.New("memBlockDevice: read out of range")
	}
	copy(dst, d.data[off:off+d.sectorSize])
	return nil
}

func (d *memBlockDevice) WriteSector(index int64, src []byte) error {
	return ErrUnsupported
}

func (d *memBlockDevice) sector(index int64) []byte {
	off := int(index) * d.sectorSize
	return d.data[off : off+d.sectorSize]
}

const (
	testSectorSize        = 512
	testSectorsPerCluster = 4
	testReservedSectors   = 32
	testNumFATs           = 2
	testSectorsPerFAT     = 8
	testPartitionStartLBA = 1
	testPartitionSectors  = 96
	testDataStartLogical  = testReservedSectors + testNumFATs*testSectorsPerFAT // 48, partition-relative
)

// testFATEntrySector returns the absolute device sector containing the
// first FAT's entry for the given cluster number.
func testFATEntrySector(cluster uint32) (abs int64, offInSector int) {
	byteOffset := int64(cluster) * 4
	logical := int64(testReservedSectors) + byteOffset/testSectorSize
	return testPartitionStartLBA + logical, int(byteOffset % testSectorSize)
}

func testDataClusterAbsSector(cluster uint32) int64 {
	logical := int64(testDataStartLogical) + int64(cluster-2)*testSectorsPerCluster
	return testPartitionStartLBA + logical
}

func setFATEntry(dev *memBlockDevice, cluster uint32, value uint32) {
	abs, off := testFATEntrySector(cluster)
	binary.LittleEndian.PutUint32(dev.sector(abs)[off:off+4], value&fatEntryMask)
}

// buildMBR writes a single FAT32LBA partition entry at partition index 0
// covering testPartitionSectors sectors starting at testPartitionStartLBA.
func buildMBR(dev *memBlockDevice) {
	sector := dev.sector(0)
	const partitionTableOffset = 446
	pe := sector[partitionTableOffset : partitionTableOffset+16]
	pe[0] = 0x00 // not bootable
	pe[4] = 0x0C // FAT32LBA
	binary.LittleEndian.PutUint32(pe[8:12], testPartitionStartLBA)
	binary.LittleEndian.PutUint32(pe[12:16], testPartitionSectors)
	binary.LittleEndian.PutUint16(sector[510:512], 0xAA55)
}

// buildEBPB writes the FAT32 boot sector/EBPB at the partition's first
// absolute sector.
func buildEBPB(dev *memBlockDevice) {
	sector := dev.sector(testPartitionStartLBA)
	copy(sector[0:3], []byte{0xEB, 0x58, 0x90})
	copy(sector[3:11], []byte("MSWIN4.1"))
	binary.LittleEndian.PutUint16(sector[11:13], testSectorSize)
	sector[13] = testSectorsPerCluster
	binary.LittleEndian.PutUint16(sector[14:16], testReservedSectors)
	sector[16] = testNumFATs
	sector[21] = 0xF8
	binary.LittleEndian.PutUint32(sector[32:36], testPartitionSectors)
	binary.LittleEndian.PutUint32(sector[36:40], testSectorsPerFAT)
	binary.LittleEndian.PutUint32(sector[44:48], 2) // root cluster
	binary.LittleEndian.PutUint16(sector[48:50], 1) // FSInfo sector
	binary.LittleEndian.PutUint16(sector[50:52], 6) // backup boot sector
	sector[64] = 0x80
	sector[66] = 0x29
	binary.LittleEndian.PutUint32(sector[67:71], 0x12345678)
	copy(sector[71:82], []byte("NO NAME    "))
	copy(sector[82:90], []byte("FAT32   "))
	binary.LittleEndian.PutUint16(sector[510:512], 0xAA55)
}

func lfnChecksum(shortName [11]byte) byte {
	var sum byte
	for _, b := range shortName {
		sum = (sum>>1 | sum<<7) + b
	}
	return sum
}

func putCodeUnits(dst []byte, units []uint16) {
	for i, u := range units {
		binary.LittleEndian.PutUint16(dst[i*2:i*2+2], u)
	}
}

// writeLFNEntry writes one 32-byte VFAT long-filename fragment at the
// given offset within a directory sector buffer.
func writeLFNEntry(buf []byte, off int, seq byte, last bool, checksum byte, units [13]uint16) {
	raw := buf[off : off+32]
	seqByte := seq
	if last {
		seqByte |= 0x40
	}
	raw[0] = seqByte
	putCodeUnits(raw[1:11], units[0:5])
	raw[11] = attrLongName
	raw[12] = 0
	raw[13] = checksum
	putCodeUnits(raw[14:26], units[5:11])
	binary.LittleEndian.PutUint16(raw[26:28], 0)
	putCodeUnits(raw[28:32], units[11:13])
}

// writeShortEntry writes one 32-byte conventional directory entry.
func writeShortEntry(buf []byte, off int, name, ext string, attr byte, cluster uint32, size uint32) [11]byte {
	raw := buf[off : off+32]
	var shortName [11]byte
	copy(shortName[0:8], []byte(padRight(name, 8)))
	copy(shortName[8:11], []byte(padRight(ext, 3)))
	copy(raw[0:11], shortName[:])
	raw[11] = attr
	binary.LittleEndian.PutUint16(raw[20:22], uint16(cluster>>16))
	binary.LittleEndian.PutUint16(raw[26:28], uint16(cluster&0xFFFF))
	binary.LittleEndian.PutUint32(raw[28:32], size)
	return shortName
}

func padRight(s string, n int) string {
	for len(s) < n {
		s += " "
	}
	return s
}

// unitsFromString packs a short ASCII string into 13 UTF-16 code units,
// terminating with 0x0000 then padding with 0xFFFF, matching how a real
// VFAT LFN fragment pads a name shorter than 13 characters.
func unitsFromString(s string, start, count int) [13]uint16 {
	var units [13]uint16
	runes := []rune(s)
	for i := 0; i < 13; i++ {
		srcIdx := start + i
		switch {
		case i < count && srcIdx < len(runes):
			units[i] = uint16(runes[srcIdx])
		case i == count && srcIdx <= len(runes):
			units[i] = 0x0000
		default:
			units[i] = 0xFFFF
		}
	}
	return units
}

// testImage describes the fixed layout buildTestImage produces, so tests
// can assert against known values instead of re-deriving them.
type testImage struct {
	dev *memBlockDevice

	longName      string
	fileAShort    string
	fileASize     int
	fileACluster  uint32
	fileBShort    string
	fileBSize     int
	fileBCluster  uint32
	subdirCluster uint32
}

// buildTestImage assembles a minimal but structurally complete FAT32
// image in memory: one MBR partition, two FATs (only the first is
// populated), a root directory holding
// an LFN-named file, a second short-name-only file spanning two clusters,
// and an empty subdirectory.
func buildTestImage() testImage {
	dev := newMemBlockDevice(testSectorSize, testPartitionStartLBA+testPartitionSectors+4)
	buildMBR(dev)
	buildEBPB(dev)

	// Reserved FAT entries for clusters 0 and 1.
	setFATEntry(dev, 0, 0x0FFFFFF8)
	setFATEntry(dev, 1, 0x0FFFFFFF)
	// Root directory: single cluster, EOC.
	setFATEntry(dev, 2, 0x0FFFFFFF)
	// File A: single cluster, EOC.
	setFATEntry(dev, 3, 0x0FFFFFFF)
	// File B: two clusters, 4 -> 5 -> EOC.
	setFATEntry(dev, 4, 5)
	setFATEntry(dev, 5, 0x0FFFFFFF)
	// Subdirectory: single cluster, EOC, left empty.
	setFATEntry(dev, 6, 0x0FFFFFFF)
	// Cyclic chain for the chain-iterator guard test: 7 -> 7.
	setFATEntry(dev, 7, 7)

	img := testImage{
		dev:           dev,
		longName:      "journal entries.txt",
		fileAShort:    "JOURNA~1.TXT",
		fileASize:     10,
		fileACluster:  3,
		fileBShort:    "FILEB.BIN",
		fileBSize:     testSectorSize*testSectorsPerCluster + 100,
		fileBCluster:  4,
		subdirCluster: 6,
	}

	// Root directory cluster (cluster 2), first sector.
	rootSector := dev.sector(testDataClusterAbsSector(2))

	shortName := writeShortEntry(rootSector, 64, "JOURNA~1", "TXT", 0x20, img.fileACluster, uint32(img.fileASize))
	checksum := lfnChecksum(shortName)
	// LFN fragments precede the short entry on disk, highest sequence first.
	writeLFNEntry(rootSector, 0, 2, true, checksum, unitsFromString(img.longName, 13, 6))
	writeLFNEntry(rootSector, 32, 1, false, checksum, unitsFromString(img.longName, 0, 13))

	writeShortEntry(rootSector, 96, "FILEB", "BIN", 0x20, img.fileBCluster, uint32(img.fileBSize))
	writeShortEntry(rootSector, 128, "SUBDIR", "", 0x10, img.subdirCluster, 0)

	// File A contents: "0123456789", short enough to exercise clamped reads.
	fileAData := dev.sector(testDataClusterAbsSector(3))
	copy(fileAData, []byte("0123456789"))

	// File B contents: deterministic byte pattern across both clusters.
	clusterSize := testSectorSize * testSectorsPerCluster
	cl4 := dev.data[int(testDataClusterAbsSector(4))*testSectorSize : int(testDataClusterAbsSector(4))*testSectorSize+clusterSize]
	for i := range cl4 {
		cl4[i] = byte(i % 256)
	}
	cl5 := dev.data[int(testDataClusterAbsSector(5))*testSectorSize : int(testDataClusterAbsSector(5))*testSectorSize+clusterSize]
	for i := 0; i < 100; i++ {
		cl5[i] = byte((clusterSize + i) % 256)
	}

	return img
}

package fat32ro

import (
	"encoding/binary"
	"sort"
	"strings"
	"time"

	"github.com/ezfat/fat32ro/internal/utf16x"
)

const dirEntrySize = 32

const (
	dirEntryFree    = 0x00
	dirEntryDeleted = 0xE5
	attrLongName    = 0x0F
	attrDirectory   = 0x10
	attrVolumeID    = 0x08
)

// rawLFNEntry mirrors the 32-byte on-disk layout of a VFAT long-filename
// directory entry.
type rawLFNEntry struct {
	sequence  byte
	name1     [10]byte // 5 UTF-16 code units
	attr      byte
	entryType byte
	checksum  byte
	name2     [12]byte // 6 UTF-16 code units
	firstClus uint16   // always zero
	name3     [4]byte  // 2 UTF-16 code units
}

func parseRawLFNEntry(raw []byte) rawLFNEntry {
	var e rawLFNEntry
	e.sequence = raw[0]
	copy(e.name1[:], raw[1:11])
	e.attr = raw[11]
	e.entryType = raw[12]
	e.checksum = raw[13]
	copy(e.name2[:], raw[14:26])
	e.firstClus = binary.LittleEndian.Uint16(raw[26:28])
	copy(e.name3[:], raw[28:32])
	return e
}

// codeUnits returns the up-to-13 UTF-16 code units this LFN fragment
// carries, in on-disk order.
func (e rawLFNEntry) codeUnits() []uint16 {
	units := make([]uint16, 0, 13)
	for i := 0; i < 10; i += 2 {
		units = append(units, binary.LittleEndian.Uint16(e.name1[i:i+2]))
	}
	for i := 0; i < 12; i += 2 {
		units = append(units, binary.LittleEndian.Uint16(e.name2[i:i+2]))
	}
	for i := 0; i < 4; i += 2 {
		units = append(units, binary.LittleEndian.Uint16(e.name3[i:i+2]))
	}
	return units
}

// seqNumber returns the ordinal (1-based) this fragment occupies in the
// assembled name, masking off the 0x40 "last LFN entry" flag.
func (e rawLFNEntry) seqNumber() int {
	return int(e.sequence &^ 0x40)
}

// EntryKind distinguishes the three things a 32-byte directory slot can
// decode to.
type EntryKind int

const (
	KindRegular EntryKind = iota
	KindDeleted
	KindEnd
)

// DirEntry is a fully decoded directory entry: a short-name record with
// its long-filename prefix (if any) reassembled.
type DirEntry struct {
	Kind         EntryKind
	Name         string
	ShortName    string
	IsDir        bool
	Size         uint32
	FirstCluster uint32
	ModTime      time.Time
}

// readDirectory walks every 32-byte slot in the cluster chain rooted at
// firstCluster and returns the regular (non-deleted, non-end) entries it
// decodes, long names reassembled from their preceding LFN fragments.
func (fs *FS) readDirectory(firstCluster uint32) ([]DirEntry, error) {
	clusterSize := fs.geometry.clusterSize()
	buf := make([]byte, clusterSize)

	var entries []DirEntry
	var lfnFragments []rawLFNEntry

	it := fs.newChainIterator(firstCluster)
	for it.Next() {
		if err := fs.readCluster(it.Cluster(), buf); err != nil {
			return nil, err
		}
		for off := 0; off+dirEntrySize <= len(buf); off += dirEntrySize {
			raw := buf[off : off+dirEntrySize]
			switch raw[0] {
			case dirEntryFree:
				return entries, nil
			case dirEntryDeleted:
				lfnFragments = lfnFragments[:0]
				continue
			}

			attr := raw[11]
			if attr&attrLongName == attrLongName {
				lfnFragments = append(lfnFragments, parseRawLFNEntry(raw))
				continue
			}
			if attr&attrVolumeID != 0 {
				lfnFragments = lfnFragments[:0]
				continue
			}

			entry := decodeShortEntry(raw)
			if len(lfnFragments) > 0 {
				entry.Name = assembleLFN(lfnFragments)
				lfnFragments = lfnFragments[:0]
			} else {
				entry.Name = entry.ShortName
			}
			entries = append(entries, entry)
		}
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// assembleLFN reorders LFN fragments by sequence number (they may arrive
// out of on-disk order relative to assembly order; a stable sort fixes
// that without disturbing fragments that tie, which should not happen in
// a well-formed directory) and decodes their concatenated code units.
func assembleLFN(fragments []rawLFNEntry) string {
	sort.SliceStable(fragments, func(i, j int) bool {
		return fragments[i].seqNumber() < fragments[j].seqNumber()
	})
	var units []uint16
	for _, f := range fragments {
		units = append(units, f.codeUnits()...)
	}
	return utf16x.DecodeLFN(units)
}

func decodeShortEntry(raw []byte) DirEntry {
	name := strings.TrimRight(string(raw[0:8]), " ")
	ext := strings.TrimRight(string(raw[8:11]), " ")
	short := name
	if ext != "" {
		short = name + "." + ext
	}

	attr := raw[11]
	cluster := uint32(binary.LittleEndian.Uint16(raw[20:22]))<<16 | uint32(binary.LittleEndian.Uint16(raw[26:28]))
	size := binary.LittleEndian.Uint32(raw[28:32])

	writeDate := binary.LittleEndian.Uint16(raw[24:26])
	writeTime := binary.LittleEndian.Uint16(raw[22:24])

	return DirEntry{
		Kind:         KindRegular,
		ShortName:    short,
		IsDir:        attr&attrDirectory != 0,
		Size:         size,
		FirstCluster: cluster,
		ModTime:      decodeFATTimestamp(writeDate, writeTime),
	}
}

// decodeFATTimestamp unpacks a FAT date/time pair into a time.Time, UTC
// since the on-disk format carries no timezone.
func decodeFATTimestamp(date, clock uint16) time.Time {
	year := int(date>>9) + 1980
	month := int((date >> 5) & 0x0F)
	day := int(date & 0x1F)
	hour := int(clock >> 11)
	minute := int((clock >> 5) & 0x3F)
	second := int(clock&0x1F) * 2
	if month == 0 {
		month = 1
	}
	if day == 0 {
		day = 1
	}
	return time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
}

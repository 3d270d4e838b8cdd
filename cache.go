package fat32ro

import "fmt"

// sectorCache holds every logical sector this driver has read since mount,
// keyed by logical sector number. Unlike the teacher's single-sector
// window, a mount can have several sectors live at once (the EBPB, a FAT
// sector, a directory sector all outstanding for one lookup; the MBR is
// read straight from the device and is not cached), and unlike a
// conventional page cache it never evicts: a read-only driver over a
// bounded volume has no dirty data to flush, and unbounded growth is
// bounded in practice by the number of distinct sectors a workload
// actually touches.
type sectorCache struct {
	device    BlockDevice
	partition Partition
	entries   map[int64][]byte
}

func newSectorCache(device BlockDevice, partition Partition) *sectorCache {
	if partition.SectorSize < device.SectorSize() {
		panic(fmt.Sprintf("fat32ro: partition sector size %d smaller than device sector size %d", partition.SectorSize, device.SectorSize()))
	}
	return &sectorCache{
		device:    device,
		partition: partition,
		entries:   make(map[int64][]byte),
	}
}

// get returns the cached copy of logical sector index, or nil if it has
// not been read yet.
func (c *sectorCache) get(logical int64) []byte {
	return c.entries[logical]
}

// readSector returns the contents of logical sector index, reading it from
// the device and caching it first if necessary.
//
// logical is an absolute sector number in the partition's own (logical)
// sector-size units, counted from the start of the device — the same
// numbering Geometry's FATStartSector/DataStartSector/clusterToSector
// already fold the partition's start into, so callers never add
// partition.StartLBA themselves.
//
// The logical sector size (c.partition.SectorSize) may differ from the
// device's physical sector size. Two cases apply:
//
//   - equal sizes: the logical sector maps onto exactly one physical
//     sector, at the same index.
//   - logical size is a multiple of physical size: the logical sector
//     spans factor = logical/physical physical sectors, read and
//     concatenated in order, starting at physical sector index*factor.
func (c *sectorCache) readSector(logical int64) ([]byte, error) {
	if cached := c.get(logical); cached != nil {
		return cached, nil
	}

	physSize := c.device.SectorSize()
	logSize := c.partition.SectorSize

	buf := make([]byte, logSize)
	if logSize == physSize {
		if err := c.device.ReadSector(logical, buf); err != nil {
			return nil, wrapIo("read sector", logical, err)
		}
	} else {
		factor := logSize / physSize
		base := logical * int64(factor)
		for i := 0; i < factor; i++ {
			seg := buf[i*physSize : (i+1)*physSize]
			if err := c.device.ReadSector(base+int64(i), seg); err != nil {
				return nil, wrapIo("read sector", base+int64(i), err)
			}
		}
	}

	c.entries[logical] = buf
	return buf, nil
}

package fat32ro

import (
	"github.com/rs/zerolog"
)

// FS is a mounted, read-only FAT32 filesystem. The zero value is not
// usable; construct one with Mount.
//
// FS targets single-threaded use, matching the reference driver this was
// built from: the sector cache and directory walk carry no internal
// locking. A caller sharing one FS across goroutines must serialize
// access itself, for example by wrapping every call with its own mutex.
type FS struct {
	device    BlockDevice
	partition Partition
	geometry  Geometry
	cache     *sectorCache

	log zerolog.Logger
}

// Mount reads the MBR and EBPB from device, locates the first FAT32
// partition, and returns a mounted FS ready for Open.
func Mount(device BlockDevice) (*FS, error) {
	fs := &FS{
		device: device,
		log:    zerolog.Nop(),
	}

	mbrBuf := make([]byte, device.SectorSize())
	if err := device.ReadSector(0, mbrBuf); err != nil {
		return nil, wrapIo("read MBR", 0, err)
	}

	partition, err := findFAT32Partition(mbrBuf, device.SectorSize())
	if err != nil {
		return nil, err
	}
	fs.partition = partition
	fs.log.Debug().Int64("start_lba", partition.StartLBA).Int64("sectors", partition.SectorCount).Msg("found FAT32 partition")

	fs.cache = newSectorCache(device, partition)

	bootSector, err := fs.cache.readSector(partition.StartLBA)
	if err != nil {
		return nil, err
	}
	geometry, err := parseEBPB(bootSector, partition.StartLBA)
	if err != nil {
		return nil, err
	}
	fs.geometry = geometry
	fs.log.Debug().Str("geometry", geometry.String()).Msg("mounted")

	return fs, nil
}

// SetLogger replaces the FS's logger. Mount logs its partition and
// geometry events to the no-op logger it starts with, before SetLogger can
// be called; no operation after Mount writes log events, so cache misses
// and FAT lookups are not logged.
func (fs *FS) SetLogger(logger zerolog.Logger) {
	fs.log = logger
}

// Geometry returns the volume geometry resolved at mount time.
func (fs *FS) Geometry() Geometry {
	return fs.geometry
}

// Root opens the volume's root directory.
func (fs *FS) Root() *Dir {
	return &Dir{fs: fs, firstCluster: fs.geometry.RootCluster}
}

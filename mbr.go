package fat32ro

import (
	"github.com/hashicorp/go-multierror"

	"github.com/ezfat/fat32ro/internal/mbr"
)

// findFAT32Partition parses a 512-byte MBR sector, validates every
// partition entry's boot indicator, and returns the Partition descriptor
// for the first FAT32 entry found.
//
// All four entries are validated before an error is returned, so the
// returned *multierror.Error holds one UnknownBootIndicatorError per bad
// entry, not just the first; errors.As against *UnknownBootIndicatorError
// finds the first of them because multierror.Error's Unwrap walks its
// wrapped errors in order.
func findFAT32Partition(sector []byte, sectorSize int) (Partition, error) {
	bs, err := mbr.Parse(sector)
	if err != nil {
		if err == mbr.ErrBadSignature {
			return Partition{}, ErrBadSignature
		}
		return Partition{}, err
	}

	var verr *multierror.Error
	for i, pe := range bs.Partitions {
		if verr2 := pe.Validate(); verr2 != nil {
			verr = multierror.Append(verr, &UnknownBootIndicatorError{Index: i, Value: pe.Bootable})
		}
	}
	if verr != nil {
		return Partition{}, verr.ErrorOrNil()
	}

	for _, pe := range bs.Partitions {
		if pe.IsEmpty() || !pe.Type.IsFAT32() {
			continue
		}
		return Partition{
			StartLBA:    int64(pe.RelativeSector),
			SectorCount: int64(pe.TotalSectors),
			SectorSize:  sectorSize,
		}, nil
	}
	return Partition{}, ErrNotFound
}

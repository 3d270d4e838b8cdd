package fat32ro

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel error classes a caller can match with errors.Is/errors.As.
var (
	// ErrBadSignature is returned when a structure's magic bytes (the
	// MBR's 0xAA55 trailer, the boot sector's 0x55 0xAA trailer) don't
	// match what is expected.
	ErrBadSignature = errors.New("fat32ro: bad signature")

	// ErrNotFound is returned when a lookup (FAT32 partition in an MBR,
	// path component in a directory) comes up empty.
	ErrNotFound = errors.New("fat32ro: not found")

	// ErrInvalidData is returned when on-disk structures are internally
	// inconsistent: a FAT chain pointing at a free, reserved or bad
	// cluster, a cyclic FAT chain, a degenerate or non-FAT32 EBPB.
	ErrInvalidData = errors.New("fat32ro: invalid data")

	// ErrInvalidInput is returned when the caller passes an argument the
	// driver cannot act on, such as a path not anchored at root.
	ErrInvalidInput = errors.New("fat32ro: invalid input")

	// ErrUnsupported is returned by every mutating operation. This driver
	// is read-only end to end; it never panics to reject a write.
	ErrUnsupported = errors.New("fat32ro: unsupported operation")
)

// UnknownBootIndicatorError reports that the partition table entry at
// Index carries a bootable-flag byte that is neither 0x00 nor 0x80.
type UnknownBootIndicatorError struct {
	Index int
	Value byte
}

func (e *UnknownBootIndicatorError) Error() string {
	return fmt.Sprintf("fat32ro: partition %d: unknown boot indicator 0x%02x", e.Index, e.Value)
}

// IoError wraps an underlying BlockDevice error with the sector (or
// cluster) address the driver was operating on when it occurred.
type IoError struct {
	Op     string
	Sector int64
	Err    error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("fat32ro: %s at sector %d: %v", e.Op, e.Sector, e.Err)
}

func (e *IoError) Unwrap() error { return e.Err }

// wrapIo builds an *IoError, matching the teacher's habit of annotating
// every device-level failure with the operation and address it happened
// at before it propagates up through the cache and chain layers.
func wrapIo(op string, sector int64, err error) error {
	if err == nil {
		return nil
	}
	return &IoError{Op: op, Sector: sector, Err: err}
}

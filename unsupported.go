package fat32ro

// This driver never mutates the volume it mounts. Every operation a
// read-write filesystem would expose is implemented here returning
// ErrUnsupported rather than omitted, so a caller coded against a larger
// interface fails loudly instead of hitting a missing method.

// Write always returns ErrUnsupported; File offers no write path.
func (f *File) Write(p []byte) (int, error) {
	return 0, ErrUnsupported
}

// Sync always returns ErrUnsupported; there is nothing for a read-only
// handle to flush.
func (f *File) Sync() error {
	return ErrUnsupported
}

// CreateFile always returns ErrUnsupported.
func (d *Dir) CreateFile(name string) (*File, error) {
	return nil, ErrUnsupported
}

// CreateDir always returns ErrUnsupported.
func (d *Dir) CreateDir(name string) (*Dir, error) {
	return nil, ErrUnsupported
}

// Remove always returns ErrUnsupported.
func (d *Dir) Remove(name string) error {
	return ErrUnsupported
}

// Rename always returns ErrUnsupported.
func (d *Dir) Rename(oldName, newName string) error {
	return ErrUnsupported
}

// WriteSector on a mounted volume's own device handle is not exposed
// through FS; callers that need write access to the medium (for imaging,
// not for this driver) use their BlockDevice directly.

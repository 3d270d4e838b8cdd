package fat32ro

import "time"

// Entry is a resolved filesystem object: either a file or a directory,
// depending on IsDir. Obtain one through FS.Open or Dir.Find.
type Entry struct {
	fs *FS

	name         string
	firstCluster uint32
	size         uint32
	isDir        bool
	modTime      time.Time
}

// Name returns the entry's long name if it had one, its short name
// otherwise.
func (e Entry) Name() string { return e.name }

// Size returns the entry's logical byte size. Always zero for a
// directory; FAT32 does not record directory sizes.
func (e Entry) Size() int64 { return int64(e.size) }

// ModTime returns the entry's last-modified timestamp, decoded to UTC.
func (e Entry) ModTime() time.Time { return e.modTime }

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool { return e.isDir }

// AsFile opens the entry for reading. It returns ErrInvalidInput if the
// entry is a directory.
func (e Entry) AsFile() (*File, error) {
	if e.isDir {
		return nil, ErrInvalidInput
	}
	return &File{fs: e.fs, firstCluster: e.firstCluster, size: int64(e.size)}, nil
}

// AsDir opens the entry for listing. It returns ErrInvalidInput if the
// entry is a regular file.
func (e Entry) AsDir() (*Dir, error) {
	if !e.isDir {
		return nil, ErrInvalidInput
	}
	return &Dir{fs: e.fs, firstCluster: e.firstCluster}, nil
}

func entryFromDirEntry(fs *FS, d DirEntry) Entry {
	return Entry{
		fs:           fs,
		name:         d.Name,
		firstCluster: d.FirstCluster,
		size:         d.Size,
		isDir:        d.IsDir,
		modTime:      d.ModTime,
	}
}

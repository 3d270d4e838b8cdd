package fat32ro

import (
	"io"

	"github.com/pkg/errors"
)

// File is an open handle onto a regular file's byte contents, read
// through the cluster chain rooted at firstCluster.
type File struct {
	fs           *FS
	firstCluster uint32
	size         int64
	pos          int64
}

// Read copies up to len(p) bytes starting at the current position into p,
// advancing the position by the number of bytes read. It returns io.EOF
// once the position reaches the file's logical size, and clamps any read
// that would otherwise cross that boundary (a short read, not an error).
func (f *File) Read(p []byte) (int, error) {
	if f.pos >= f.size {
		return 0, io.EOF
	}
	remaining := f.size - f.pos
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}
	n, err := f.fs.readChain(f.firstCluster, f.pos, p)
	f.pos += int64(n)
	if err != nil {
		return n, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Seek repositions the file the way io.Seeker does for io.SeekStart and
// io.SeekCurrent. io.SeekEnd is the one documented departure: this
// driver's seek-from-end resolves to size-1+offset rather than size+offset,
// carried forward unchanged from the reference implementation this was
// built against rather than "corrected," since a reference's own test
// suite and consumers may already depend on the off-by-one. A caller
// wanting the conventional size+offset behavior should pass
// io.SeekStart with an offset computed from File's own Size.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = f.pos + offset
	case io.SeekEnd:
		target = f.size - 1 + offset
	default:
		return 0, errors.Wrap(ErrInvalidInput, "fat32ro: unknown seek whence")
	}
	if target < 0 || target > f.size {
		return 0, errors.Wrap(ErrInvalidInput, "fat32ro: seek position out of range")
	}
	f.pos = target
	return f.pos, nil
}

// Size returns the file's logical byte size, as recorded in its directory
// entry.
func (f *File) Size() int64 { return f.size }

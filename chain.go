package fat32ro

import (
	"github.com/boljen/go-bitmap"
	"github.com/pkg/errors"
)

// chainIterator walks a FAT32 cluster chain one cluster at a time, pulled
// by repeated calls to Next, in the shape of bufio.Scanner: Next reports
// whether a cluster is available, Cluster returns it, and Err reports the
// terminal error (if any) once Next returns false.
//
// Iteration latches on first error or first EOC: once either happens,
// every subsequent Next call returns false without touching the FAT
// again. Guards against cyclic chains by tracking every cluster visited in
// a bitmap sized to the volume's cluster count; a revisited cluster is
// reported as ErrInvalidData instead of looping forever.
type chainIterator struct {
	fs      *FS
	current uint32
	started bool
	done    bool
	err     error
	visited bitmap.Bitmap
	size    int
}

// newChainIterator builds an iterator starting at the given first cluster
// of a chain (a file's or directory's FirstCluster).
func (fs *FS) newChainIterator(first uint32) *chainIterator {
	size := int(fs.geometry.clusterCount()) + 2
	return &chainIterator{
		fs:      fs,
		current: first,
		visited: bitmap.NewSlice(size),
		size:    size,
	}
}

// Next advances to the next cluster in the chain and reports whether one
// is available. It returns false at end-of-chain and on error; call Err
// afterward to distinguish the two.
func (it *chainIterator) Next() bool {
	if it.done {
		return false
	}
	if !it.started {
		it.started = true
		return it.land(it.current)
	}

	entry, err := it.fs.fatEntryFor(it.current)
	if err != nil {
		it.fail(err)
		return false
	}
	switch entry.status {
	case clusterEOC:
		it.done = true
		return false
	case clusterData:
		return it.land(entry.next)
	case clusterFree, clusterReserved, clusterBad:
		it.fail(errors.Wrap(ErrInvalidData, "fat32ro: cluster chain references free/reserved/bad cluster"))
		return false
	default:
		it.fail(errors.Wrap(ErrInvalidData, "fat32ro: unrecognized FAT entry status"))
		return false
	}
}

// land records cluster as the current position, guarding against a chain
// that cycles back on itself.
func (it *chainIterator) land(cluster uint32) bool {
	idx := int(cluster)
	if idx < 0 || idx >= it.size {
		it.fail(errors.Wrap(ErrInvalidData, "fat32ro: cluster number out of range"))
		return false
	}
	if it.visited.Get(idx) {
		it.fail(errors.Wrap(ErrInvalidData, "fat32ro: cyclic FAT chain"))
		return false
	}
	it.visited.Set(idx, true)
	it.current = cluster
	return true
}

func (it *chainIterator) fail(err error) {
	it.done = true
	it.err = err
}

// Cluster returns the cluster number Next most recently landed on.
func (it *chainIterator) Cluster() uint32 { return it.current }

// Err returns the error that stopped iteration, or nil if iteration ended
// at a normal end-of-chain marker.
func (it *chainIterator) Err() error { return it.err }

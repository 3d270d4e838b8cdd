package fat32ro

// readCluster reads one full cluster's worth of bytes into dst, which must
// be at least clusterSize() long, through the sector cache.
func (fs *FS) readCluster(cluster uint32, dst []byte) error {
	sectorsPerCluster := fs.geometry.SectorsPerCluster
	bytesPerSector := fs.geometry.BytesPerSector
	start := fs.geometry.clusterToSector(cluster)

	for i := 0; i < sectorsPerCluster; i++ {
		data, err := fs.cache.readSector(start + int64(i))
		if err != nil {
			return err
		}
		copy(dst[i*bytesPerSector:(i+1)*bytesPerSector], data)
	}
	return nil
}

// clusterSize returns the size in bytes of one cluster.
func (g Geometry) clusterSize() int {
	return g.SectorsPerCluster * g.BytesPerSector
}

// readChain reads up to len(dst) bytes starting at byte offset off within
// the cluster chain rooted at firstCluster, following the chain as far as
// necessary. It returns the number of bytes copied into dst, which may be
// less than len(dst) if the chain ends first (a short read, not an
// error) — callers that know the logical file size are expected to clamp
// their own request to it; this function only clamps to the chain's
// physical extent.
func (fs *FS) readChain(firstCluster uint32, off int64, dst []byte) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	clusterSize := int64(fs.geometry.clusterSize())
	skipClusters := off / clusterSize
	skipBytes := off % clusterSize

	it := fs.newChainIterator(firstCluster)
	var i int64
	for ; i < skipClusters; i++ {
		if !it.Next() {
			if err := it.Err(); err != nil {
				return 0, err
			}
			return 0, nil
		}
	}
	if !it.Next() {
		if err := it.Err(); err != nil {
			return 0, err
		}
		return 0, nil
	}

	buf := make([]byte, clusterSize)
	n := 0
	first := true
	for {
		if err := fs.readCluster(it.Cluster(), buf); err != nil {
			return n, err
		}
		src := buf
		if first {
			src = buf[skipBytes:]
			first = false
		}
		copied := copy(dst[n:], src)
		n += copied
		if n >= len(dst) {
			return n, nil
		}
		if !it.Next() {
			return n, it.Err()
		}
	}
}

// Package fat32ro implements a read-only FAT32 filesystem driver over any
// sector-addressable BlockDevice: MBR and EBPB parsing, a sector cache,
// FAT cluster-chain traversal, directory decoding with VFAT long-filename
// reassembly, and byte-addressable file reads with a path resolver on
// top. Mutation, FAT12/16, exFAT, and multi-partition mounts are out of
// scope; every write-shaped method returns ErrUnsupported.
package fat32ro

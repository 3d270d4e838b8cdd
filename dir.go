package fat32ro

import "strings"

// Dir is an open handle onto a directory's entry list.
type Dir struct {
	fs           *FS
	firstCluster uint32
}

// Entries decodes and returns every live entry in the directory, in
// on-disk order.
func (d *Dir) Entries() ([]Entry, error) {
	raw, err := d.fs.readDirectory(d.firstCluster)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(raw))
	for _, r := range raw {
		entries = append(entries, entryFromDirEntry(d.fs, r))
	}
	return entries, nil
}

// Find looks up a single entry by name, case-insensitively, against the
// name Entries reports: the long name when the entry has one, the short
// name otherwise. An entry with a long name is not matched by its short
// name.
func (d *Dir) Find(name string) (Entry, error) {
	entries, err := d.Entries()
	if err != nil {
		return Entry{}, err
	}
	for _, e := range entries {
		if strings.EqualFold(e.name, name) {
			return e, nil
		}
	}
	return Entry{}, ErrNotFound
}

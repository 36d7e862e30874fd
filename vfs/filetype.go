package vfs

// FileType describes the kind of resource a path resolves to.
type FileType int

const (
	// TypeUnknown indicates the kind could not be determined. It is the
	// zero value and never accompanies a nil error from FileType.
	TypeUnknown FileType = iota
	// TypeFile indicates a regular, byte-readable resource.
	TypeFile
	// TypeDir indicates a listable directory.
	TypeDir
)

// IsFile reports whether t is TypeFile.
func (t FileType) IsFile() bool {
	return t == TypeFile
}

// IsDir reports whether t is TypeDir.
func (t FileType) IsDir() bool {
	return t == TypeDir
}

// String returns a string representation of the FileType.
func (t FileType) String() string {
	switch t {
	case TypeFile:
		return "file"
	case TypeDir:
		return "dir"
	default:
		return "unknown"
	}
}

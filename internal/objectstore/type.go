package objectstore

// Type is a Git object kind. Unknown tolerates unrecognized envelope headers
// without aborting enumeration (spec data model, T).
type Type string

const (
	Commit  Type = "commit"
	Tree    Type = "tree"
	Blob    Type = "blob"
	Tag     Type = "tag"
	Unknown Type = "unknown"
)

// ParseType maps a header type name to a Type, folding anything unrecognized
// into Unknown rather than failing.
func ParseType(name string) Type {
	switch Type(name) {
	case Commit, Tree, Blob, Tag:
		return Type(name)
	default:
		return Unknown
	}
}

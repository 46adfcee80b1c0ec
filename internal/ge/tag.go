package ge

// Tag identifies the kind of data a Ge file's body holds. It is stored in
// the header immediately after the front sentinel so Recover can refuse to
// open, say, an index file as a view.
type Tag byte

const (
	// TagBootstrap marks the single process-wide bootstrap file at
	// {data_dir}/data/bootstrap.ge.
	TagBootstrap Tag = iota + 1

	// TagDatabase marks a database's db.ge metadata file.
	TagDatabase

	// TagView marks a view's append-only record store.
	TagView

	// TagIndex marks an index's B+Tree node file.
	TagIndex

	// TagRecord marks a Disk-engine index's companion record file, holding
	// the collision-chain entries its leaf cells point into.
	TagRecord
)

// String renders the tag the way it appears in log fields and error details.
func (t Tag) String() string {
	switch t {
	case TagBootstrap:
		return "bootstrap"
	case TagDatabase:
		return "database"
	case TagView:
		return "view"
	case TagIndex:
		return "index"
	case TagRecord:
		return "record"
	default:
		return "unknown"
	}
}

package master

import (
	"sort"
	"sync"

	"github.com/aberic-labs/george/internal/ge"
	gerrors "github.com/aberic-labs/george/pkg/errors"
)

// Database owns every view registered under it. Its write lock is only
// ever taken to register a new View; looked-up Views are handed out as
// shared references and locked at their own level from then on.
type Database struct {
	name string
	dir  string
	file *ge.File

	mu    sync.RWMutex
	views map[string]*View
}

// Name returns the database's name.
func (d *Database) Name() string { return d.name }

// Views returns the names of every view registered under this database,
// sorted.
func (d *Database) Views() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.views))
	for name := range d.views {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// View looks up a registered view by name.
func (d *Database) View(name string) (*View, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.views[name]
	if !ok {
		return nil, gerrors.NewViewNotFoundError(d.name, name)
	}
	return v, nil
}

func (d *Database) registerView(v *View) {
	d.mu.Lock()
	d.views[v.name] = v
	d.mu.Unlock()
}

// Close releases the database's own file handle and every registered view.
func (d *Database) Close() error {
	var firstErr error
	if err := d.file.Close(); err != nil {
		firstErr = err
	}

	d.mu.RLock()
	views := make([]*View, 0, len(d.views))
	for _, v := range d.views {
		views = append(views, v)
	}
	d.mu.RUnlock()

	for _, v := range views {
		if err := v.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

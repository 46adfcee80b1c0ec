// Package master implements George's process-wide registry: a nested
// Map<db, Map<view, Map<index, Engine>>> structure, its startup recovery
// walk, and the bit-exact on-disk path layout every other component's
// file lives at.
//
// This is deliberately not a package-level singleton: callers hold an
// explicit *Master and thread it through, so more than one can coexist
// in a test process.
package master

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aberic-labs/george/internal/ge"
	"github.com/aberic-labs/george/internal/index"
	"github.com/aberic-labs/george/internal/seed"
	"github.com/aberic-labs/george/internal/view"
	gerrors "github.com/aberic-labs/george/pkg/errors"
	"github.com/aberic-labs/george/pkg/filesys"
	"github.com/aberic-labs/george/pkg/options"
	"go.uber.org/zap"
)

// Master is the top-level registry. Its own lock only ever guards the
// top-level Map<db_name, Database>; everything below a Database is locked
// at that Database's or View's own level, per the engine's
// master_lock > database_lock > view_lock > index_lock hierarchy.
type Master struct {
	options *options.Options
	log     *zap.SugaredLogger

	bootstrap *ge.File

	mu        sync.RWMutex
	databases map[string]*Database
}

// Config holds the parameters needed to open a Master.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// Open prepares the data directory, creates or recovers the bootstrap
// file, and walks the directory tree reconstructing every database, view
// and index it finds. A corrupt file is logged and skipped; Open never
// fails because of one bad file elsewhere in the tree.
func Open(ctx context.Context, config *Config) (*Master, error) {
	if err := filesys.CreateDir(dataRoot(config.Options.DataDir), 0755, true); err != nil {
		return nil, gerrors.ClassifyDirectoryCreationError(err, config.Options.DataDir)
	}

	bootstrap, err := openBootstrap(config.Options.DataDir)
	if err != nil {
		return nil, err
	}

	m := &Master{
		options:   config.Options,
		log:       config.Logger,
		bootstrap: bootstrap,
		databases: make(map[string]*Database),
	}

	if err := m.recover(ctx); err != nil {
		bootstrap.Close()
		return nil, err
	}
	return m, nil
}

func openBootstrap(dataDir string) (*ge.File, error) {
	path := bootstrapPath(dataDir)
	exists, err := filesys.Exists(path)
	if err != nil {
		return nil, gerrors.NewGeError(err, gerrors.ErrorCodeIO, "failed to stat bootstrap file").WithPath(path)
	}
	if exists {
		return ge.Recover(path, ge.TagBootstrap)
	}
	return ge.Create(path, ge.TagBootstrap, ge.Description{Name: "bootstrap", CreateTime: time.Now()})
}

// Databases returns the names of every registered database, sorted.
func (m *Master) Databases() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.databases))
	for name := range m.databases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Database looks up a registered database by name.
func (m *Master) Database(name string) (*Database, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	db, ok := m.databases[name]
	if !ok {
		return nil, gerrors.NewDatabaseNotFoundError(name)
	}
	return db, nil
}

// CreateDatabase registers a new, empty database, creating its directory
// and db.ge metadata file.
func (m *Master) CreateDatabase(_ context.Context, name string) (*Database, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.databases[name]; exists {
		return nil, gerrors.NewDatabaseExistsError(name)
	}

	dir := databaseDir(m.options.DataDir, name)
	if err := filesys.CreateDir(dir, 0755, false); err != nil {
		return nil, gerrors.ClassifyDirectoryCreationError(err, dir)
	}

	f, err := ge.Create(databasePath(m.options.DataDir, name), ge.TagDatabase, ge.Description{
		Name:       name,
		CreateTime: time.Now(),
	})
	if err != nil {
		return nil, err
	}

	db := &Database{name: name, dir: dir, file: f, views: make(map[string]*View)}
	m.databases[name] = db
	return db, nil
}

// CreateView registers a new, empty view (no indexes yet) under db. Callers
// add a primary index with View.CreateIndex right after.
func (m *Master) CreateView(ctx context.Context, db, name string) (*View, error) {
	database, err := m.Database(db)
	if err != nil {
		return nil, err
	}

	database.mu.Lock()
	if _, exists := database.views[name]; exists {
		database.mu.Unlock()
		return nil, gerrors.NewViewExistsError(db, name)
	}
	database.mu.Unlock()

	dir := viewDir(m.options.DataDir, db, name)
	if err := filesys.CreateDir(dir, 0755, false); err != nil {
		return nil, gerrors.ClassifyDirectoryCreationError(err, dir)
	}

	store, err := view.Create(viewPath(m.options.DataDir, db, name), name)
	if err != nil {
		return nil, err
	}

	s, err := seed.New(ctx, &seed.Config{
		Options: m.options,
		Logger:  m.log,
		View:    store,
		Indexes: make(map[string]index.Engine),
	})
	if err != nil {
		store.Close()
		return nil, err
	}

	v := &View{name: name, dir: dir, store: store, seed: s, indexes: make(map[string]*indexHandle)}
	database.registerView(v)
	return v, nil
}

// Close releases the bootstrap file and every registered database.
func (m *Master) Close() error {
	var firstErr error
	if err := m.bootstrap.Close(); err != nil {
		firstErr = err
	}

	m.mu.RLock()
	dbs := make([]*Database, 0, len(m.databases))
	for _, db := range m.databases {
		dbs = append(dbs, db)
	}
	m.mu.RUnlock()

	for _, db := range dbs {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

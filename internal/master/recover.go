package master

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/aberic-labs/george/internal/ge"
	"github.com/aberic-labs/george/internal/index"
	"github.com/aberic-labs/george/internal/seed"
	"github.com/aberic-labs/george/internal/view"
	"github.com/aberic-labs/george/pkg/filesys"
)

// recover walks {data_dir}/data looking for every *.ge file and rebuilds
// the in-memory registry from what it finds. Files are classified by name
// convention (db.ge, view.ge, {index}.ge, {index}.record.ge) rather than by
// peeking their tag byte, since the directory position alone is already
// unambiguous. Databases are recovered before views, and views before
// indexes, so each later pass can look its parent up in the registry
// instead of reconstructing the tree bottom-up.
//
// A corrupt or unreadable file is logged and skipped; it never aborts
// recovery of the rest of the tree, per the engine's partial-failure model.
func (m *Master) recover(_ context.Context) error {
	root := dataRoot(m.options.DataDir)
	exists, err := filesys.Exists(root)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	paths, err := filesys.SearchFileExtensions(root, nil, geSuffix)
	if err != nil {
		return err
	}

	var dbFiles, viewFiles, indexFiles []string
	for _, p := range paths {
		base := filepath.Base(p)
		switch {
		case base == bootstrapFileName:
			continue
		case base == databaseFileName:
			dbFiles = append(dbFiles, p)
		case base == viewFileName:
			viewFiles = append(viewFiles, p)
		case strings.HasSuffix(base, recordSuffix):
			continue // opened alongside its index, never standalone
		default:
			indexFiles = append(indexFiles, p)
		}
	}

	for _, p := range dbFiles {
		if err := m.recoverDatabase(p); err != nil {
			m.log.Warnw("skipping corrupt database file", "path", p, "error", err)
		}
	}
	for _, p := range viewFiles {
		if err := m.recoverView(p); err != nil {
			m.log.Warnw("skipping corrupt view file", "path", p, "error", err)
		}
	}
	for _, p := range indexFiles {
		if err := m.recoverIndex(p); err != nil {
			m.log.Warnw("skipping corrupt index file", "path", p, "error", err)
		}
	}
	return nil
}

func (m *Master) recoverDatabase(path string) error {
	f, err := ge.Recover(path, ge.TagDatabase)
	if err != nil {
		return err
	}
	desc, err := f.Description()
	if err != nil {
		f.Close()
		return err
	}

	db := &Database{name: desc.Name, dir: filepath.Dir(path), file: f, views: make(map[string]*View)}
	m.mu.Lock()
	m.databases[db.name] = db
	m.mu.Unlock()
	return nil
}

func (m *Master) recoverView(path string) error {
	dbName := filepath.Base(filepath.Dir(filepath.Dir(path)))
	database, err := m.Database(dbName)
	if err != nil {
		return err
	}

	store, err := view.Recover(path)
	if err != nil {
		return err
	}

	s, err := seed.New(context.Background(), &seed.Config{
		Options: m.options,
		Logger:  m.log,
		View:    store,
		Indexes: make(map[string]index.Engine),
	})
	if err != nil {
		store.Close()
		return err
	}

	v := &View{
		name:    store.Name(),
		dir:     filepath.Dir(path),
		store:   store,
		seed:    s,
		indexes: make(map[string]*indexHandle),
	}
	if primaryName, err := store.PrimaryIndex(); err == nil {
		v.primary = primaryName
	}

	database.registerView(v)
	return nil
}

func (m *Master) recoverIndex(path string) error {
	viewDirPath := filepath.Dir(path)
	viewName := filepath.Base(viewDirPath)
	dbName := filepath.Base(filepath.Dir(viewDirPath))
	indexName := strings.TrimSuffix(filepath.Base(path), geSuffix)

	database, err := m.Database(dbName)
	if err != nil {
		return err
	}
	v, err := database.View(viewName)
	if err != nil {
		return err
	}

	peek, err := ge.Recover(path, ge.TagIndex)
	if err != nil {
		return err
	}
	desc, err := peek.Description()
	peek.Close()
	if err != nil {
		return err
	}

	recordPath := indexRecordPath(m.options.DataDir, dbName, viewName, indexName)
	eng, err := recoverEngine(path, recordPath, desc.Engine, v.store)
	if err != nil {
		return err
	}

	v.mu.RLock()
	isPrimary := indexName == v.primary
	v.mu.RUnlock()

	v.registerRecoveredIndex(indexName, eng, desc.KeyType, desc.Engine, isPrimary)
	return nil
}

package master

import (
	"github.com/aberic-labs/george/internal/ge"
	"github.com/aberic-labs/george/internal/index"
	"github.com/aberic-labs/george/internal/index/block"
	"github.com/aberic-labs/george/internal/index/disk"
	"github.com/aberic-labs/george/internal/index/increment"
	"github.com/aberic-labs/george/internal/index/sequence"
	"github.com/aberic-labs/george/internal/view"
	gerrors "github.com/aberic-labs/george/pkg/errors"
)

// createEngine creates a new, empty index file of the given engine kind.
// Disk is the only engine that needs the view back: it re-reads candidate
// rows out of v to disambiguate a hash-bucket hit.
func createEngine(path, recordPath, name string, keyType ge.KeyType, engine ge.Engine, v *view.View) (index.Engine, error) {
	switch engine {
	case ge.EngineSequence:
		return sequence.Create(path, name, keyType)
	case ge.EngineIncrement:
		return increment.Create(path, name)
	case ge.EngineDisk:
		return disk.Create(path, recordPath, name, keyType, v)
	case ge.EngineBlock:
		return block.Create(path, name, keyType)
	default:
		return nil, gerrors.NewIndexError(nil, gerrors.ErrorCodeInvalidInput, "unknown index engine").
			WithIndexName(name)
	}
}

// recoverEngine reopens an existing index file, determining its engine
// kind from its own description — a recovery walk never has to guess.
func recoverEngine(path, recordPath string, engine ge.Engine, v *view.View) (index.Engine, error) {
	switch engine {
	case ge.EngineSequence:
		return sequence.Recover(path)
	case ge.EngineIncrement:
		return increment.Recover(path)
	case ge.EngineDisk:
		return disk.Recover(path, recordPath, v)
	case ge.EngineBlock:
		return block.Recover(path)
	default:
		return nil, gerrors.NewIndexError(nil, gerrors.ErrorCodeInvalidInput, "unknown index engine").
			WithIndexName(path)
	}
}

package commands

import (
	"context"
	"fmt"

	"mediagraph/internal/application"
	"mediagraph/internal/domain"
	"mediagraph/internal/ports"
)

// RegisterResult contains the result of registering a file
type RegisterResult struct {
	ObjectID int64
	Title    string
	Category domain.Category
	Groups   []int64 // grouping nodes the file was filed under
	Replaced []int64 // nodes removed because the path was registered before
	Message  string
}

// RegisterCommand registers a file as an object of one content category
type RegisterCommand struct {
	store     ports.ObjectStore
	extract   Extractors
	Category  domain.Category
	Path      string
	ExtraType domain.ObjectType
}

// NewRegisterCommand creates a new RegisterCommand
func NewRegisterCommand(store ports.ObjectStore, ex Extractors, category domain.Category, path string) *RegisterCommand {
	return &RegisterCommand{
		store:    store,
		extract:  ex,
		Category: category,
		Path:     path,
	}
}

// NewRegisterMusicCommand registers an audio file
func NewRegisterMusicCommand(store ports.ObjectStore, ex Extractors, path string) *RegisterCommand {
	return NewRegisterCommand(store, ex, domain.CategoryMusic, path)
}

// NewRegisterVideoCommand registers a video file
func NewRegisterVideoCommand(store ports.ObjectStore, ex Extractors, path string) *RegisterCommand {
	return NewRegisterCommand(store, ex, domain.CategoryVideo, path)
}

// NewRegisterPhotoCommand registers an image file
func NewRegisterPhotoCommand(store ports.ObjectStore, ex Extractors, path string) *RegisterCommand {
	return NewRegisterCommand(store, ex, domain.CategoryPhoto, path)
}

// NewRegisterSaveDataCommand registers a save-data directory
func NewRegisterSaveDataCommand(store ports.ObjectStore, ex Extractors, path string) *RegisterCommand {
	return NewRegisterCommand(store, ex, domain.CategorySaveData, path)
}

// Validate checks if the register operation is valid
func (c *RegisterCommand) Validate() error {
	if err := application.ValidateRequired("path", c.Path); err != nil {
		return err
	}
	return application.ValidateCategory(c.Category)
}

// Execute extracts the file's metadata, then writes the node, its edges,
// its source record and its category row in one transaction.
func (c *RegisterCommand) Execute(ctx context.Context) (result *RegisterResult, err error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	ex, err := c.extract.extract(c.Category, c.Path)
	if err != nil {
		return nil, c.fail(application.StageExtract, err)
	}

	tx, err := c.store.BeginTx(ctx)
	if err != nil {
		return nil, c.fail(application.StageBegin, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	result = &RegisterResult{Title: ex.title, Category: c.Category}

	existing, err := tx.PathID(ctx, c.Path)
	if err != nil {
		return nil, c.fail(application.StageReplace, err)
	}
	if existing >= 0 {
		if result.Replaced, err = tx.Delete(ctx, existing); err != nil {
			return nil, c.fail(application.StageReplace, err)
		}
	}

	if err = ensureRoot(ctx, tx, c.Category); err != nil {
		return nil, c.fail(application.StageAllocate, err)
	}
	id, err := tx.InsertObject(ctx, ex.title, ex.typ|c.ExtraType)
	if err != nil {
		return nil, c.fail(application.StageAllocate, err)
	}
	if err = tx.Link(ctx, c.Category.Root(), id); err != nil {
		return nil, c.fail(application.StageAllocate, err)
	}
	result.ObjectID = id

	rec := ex.record
	rec.SetObjectID(id)
	for _, g := range ex.groups {
		gid, gerr := ensureGroup(ctx, tx, g.Grouping)
		if gerr == nil {
			gerr = tx.Link(ctx, gid, id)
		}
		if gerr != nil {
			err = gerr
			return nil, c.fail(application.StageGroup, err)
		}
		if music, ok := rec.(*domain.MusicRecord); ok {
			g.assign(music, gid)
		}
		result.Groups = append(result.Groups, gid)
	}

	if err = tx.BindSource(ctx, domain.NewSourceRecord(id, c.Path, ex.attrs)); err != nil {
		return nil, c.fail(application.StageBind, err)
	}
	if err = tx.PutRecord(ctx, rec); err != nil {
		return nil, c.fail(application.StageWrite, err)
	}
	if err = tx.Commit(); err != nil {
		return nil, c.fail(application.StageCommit, err)
	}

	result.Message = fmt.Sprintf("Registered %s %d %s", c.Category, id, ex.title)
	if len(result.Replaced) > 0 {
		result.Message += fmt.Sprintf(" (replaced %d)", result.Replaced[0])
	}
	return result, nil
}

func (c *RegisterCommand) fail(stage application.Stage, err error) error {
	return &application.RegisterError{Stage: stage, Path: c.Path, Err: err}
}

// ensureRoot puts the category root back if something removed it since
// the store was initialized
func ensureRoot(ctx context.Context, tx ports.StoreTx, c domain.Category) error {
	root, ok := domain.RootFor(c.Root())
	if !ok {
		return fmt.Errorf("no root for category %s", c)
	}
	node, err := tx.Node(ctx, root.ID)
	if err != nil || node != nil {
		return err
	}
	return tx.PutObject(ctx, root.ID, root.Title, root.Type)
}

// ensureGroup returns the grouping node with the given title and type,
// creating it under the music root when it does not exist yet.
func ensureGroup(ctx context.Context, tx ports.StoreTx, g domain.Grouping) (int64, error) {
	id, err := tx.FindGroup(ctx, g.Title, g.Type)
	if err != nil {
		return 0, err
	}
	if id >= 0 {
		return id, nil
	}
	id, err = tx.InsertObject(ctx, g.Title, g.Type)
	if err != nil {
		return 0, err
	}
	if err := tx.Link(ctx, domain.RootMusic, id); err != nil {
		return 0, err
	}
	return id, nil
}

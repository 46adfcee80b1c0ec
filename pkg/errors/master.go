package errors

// MasterError provides specialized error handling for the registry layer:
// looking up or creating databases, views and indexes by name, as opposed
// to IndexError's per-key errors inside an already-resolved index.
type MasterError struct {
	*baseError

	database string
	view     string
	index    string
}

// NewMasterError creates a new registry-specific error with the provided context.
func NewMasterError(err error, code ErrorCode, msg string) *MasterError {
	return &MasterError{baseError: NewBaseError(err, code, msg)}
}

// WithMessage updates the error message while maintaining the MasterError type.
func (me *MasterError) WithMessage(msg string) *MasterError {
	me.baseError.WithMessage(msg)
	return me
}

// WithCode sets the error code while preserving the MasterError type.
func (me *MasterError) WithCode(code ErrorCode) *MasterError {
	me.baseError.WithCode(code)
	return me
}

// WithDetail adds contextual information while maintaining the MasterError type.
func (me *MasterError) WithDetail(key string, value any) *MasterError {
	me.baseError.WithDetail(key, value)
	return me
}

// WithDatabase records which database the error concerns.
func (me *MasterError) WithDatabase(name string) *MasterError {
	me.database = name
	return me
}

// WithView records which view the error concerns.
func (me *MasterError) WithView(name string) *MasterError {
	me.view = name
	return me
}

// WithIndex records which index the error concerns.
func (me *MasterError) WithIndex(name string) *MasterError {
	me.index = name
	return me
}

// Database returns the database name associated with the error, if any.
func (me *MasterError) Database() string { return me.database }

// View returns the view name associated with the error, if any.
func (me *MasterError) View() string { return me.view }

// Index returns the index name associated with the error, if any.
func (me *MasterError) Index() string { return me.index }

// NewDatabaseNotFoundError creates a specialized error for an unregistered database name.
func NewDatabaseNotFoundError(database string) *MasterError {
	return NewMasterError(nil, ErrorCodeNotFound, "database not found").
		WithDatabase(database)
}

// NewDatabaseExistsError creates a specialized error for a Create on top of an
// already-registered database.
func NewDatabaseExistsError(database string) *MasterError {
	return NewMasterError(nil, ErrorCodeExists, "database already exists").
		WithDatabase(database)
}

// NewViewNotFoundError creates a specialized error for an unregistered view name.
func NewViewNotFoundError(database, view string) *MasterError {
	return NewMasterError(nil, ErrorCodeNotFound, "view not found").
		WithDatabase(database).
		WithView(view)
}

// NewViewExistsError creates a specialized error for a Create on top of an
// already-registered view.
func NewViewExistsError(database, view string) *MasterError {
	return NewMasterError(nil, ErrorCodeExists, "view already exists").
		WithDatabase(database).
		WithView(view)
}

// NewIndexNotFoundError creates a specialized error for an unregistered index
// name, distinct from IndexError's NewKeyNotFoundError, which concerns a key
// inside an already-resolved index.
func NewIndexNotFoundError(database, view, index string) *MasterError {
	return NewMasterError(nil, ErrorCodeNotFound, "index not found").
		WithDatabase(database).
		WithView(view).
		WithIndex(index)
}

// NewIndexExistsError creates a specialized error for a Create on top of an
// already-registered index.
func NewIndexExistsError(database, view, index string) *MasterError {
	return NewMasterError(nil, ErrorCodeExists, "index already exists").
		WithDatabase(database).
		WithView(view).
		WithIndex(index)
}

package friendly

import "errors"

var (
	ErrNilDocument       = errors.New("document is nil")
	ErrNilEntry          = errors.New("entry is nil")
	ErrDetached          = errors.New("entry element has no parent")
	ErrFieldNotFound     = errors.New("field not found")
	ErrFieldNotUpdatable = errors.New("field is not updatable")
)

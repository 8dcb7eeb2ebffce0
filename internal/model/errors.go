package model

import (
	"errors"
	"fmt"
)

var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("task not found")
	ErrPersistence = errors.New("persistence failed")
)

// Partition names which list an operation looked in.
type Partition string

const (
	PartitionActive Partition = "active"
	PartitionTrash  Partition = "trash"
)

// ValidationError reports user input that must be corrected before the
// operation can proceed. No state is changed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError reports an id missing from the partition an operation
// expected it in, which usually means the caller holds a stale view.
type NotFoundError struct {
	ID        string
	Partition Partition
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task %s not found in %s list", e.ID, e.Partition)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// PersistenceError reports a failed read or write of one persisted key.
type PersistenceError struct {
	Key string
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

package resources

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/spaghettifunk/gameengine/engine/core"
)

var (
	ErrEmptyIdentifier   = errors.New("resource identifier must not be empty")
	ErrInvalidPriority   = errors.New("loading priority must not be negative")
	ErrDuplicateResource = errors.New("resource is already queued for loading")
	ErrLoaderNotFound    = errors.New("no loader registered for resource and parameter type")
	ErrParametersType    = errors.New("loading parameters do not match the loader")
	ErrUnknownOwner      = errors.New("resource owner is not an installed mod")
	ErrNotResident       = errors.New("resource is not resident")
	ErrManagerClosed     = errors.New("resource manager is shut down")
)

/**
 * @brief Parameters carry the file paths a loader reads plus loader specific
 * options. Concrete parameter types embed Files and are used as pointers.
 */
type Parameters interface {
	FilePaths() []string
	SetFilePaths(paths []string)
}

// Files is the path list shared by every parameter type.
type Files struct {
	Paths []string
}

func (f *Files) FilePaths() []string {
	return f.Paths
}

func (f *Files) SetFilePaths(paths []string) {
	f.Paths = paths
}

/**
 * @brief A loaded resource. All loaders produce their data into one of these.
 * The manager never mutates a resource after publishing it.
 */
type Resource[R any] struct {
	/** @brief The identifier the resource was requested under. */
	ID string
	/** @brief The files the loader read, in the order it received them. */
	FilePaths []string
	/** @brief The resource data. */
	Data R
}

/**
 * @brief Loader turns file paths and typed parameters into a resource value.
 * Loaders must not touch manager state. On failure they return the zero or
 * partial value together with an error; the manager logs and still publishes it.
 */
type Loader[R any, P Parameters] interface {
	Load(paths []string, params P) (R, error)
}

// LoaderFunc adapts a plain function to Loader.
type LoaderFunc[R any, P Parameters] func(paths []string, params P) (R, error)

func (f LoaderFunc[R, P]) Load(paths []string, params P) (R, error) {
	return f(paths, params)
}

// typeTag gives every Go type a distinct comparable key without reflection:
// interface values holding typeTag[A]{} and typeTag[B]{} are only equal when A == B.
type typeTag[T any] struct{}

func tagOf[T any]() any {
	return typeTag[T]{}
}

func tagName(tag any) string {
	return fmt.Sprintf("%T", tag)
}

/**
 * @brief Task describes one pending load. It is created by Load, consumed
 * exactly once by ContinueLoading and then discarded.
 */
type Task struct {
	/** @brief Correlates the log lines of one load attempt. */
	ID uuid.UUID
	/** @brief The identifier, unique within its scope. */
	Identifier string
	/** @brief The loader parameters, including file paths. */
	Parameters Parameters
	/** @brief The bucket the task was queued in. */
	Priority int
	/** @brief Global resources survive scene changes. */
	Global bool

	resourceTag   any
	parametersTag any
}

func newTask[R any, P Parameters](identifier string, params P, priority int, global bool) (*Task, error) {
	if identifier == "" {
		core.LogError("failed to create resource loading task: %s", ErrEmptyIdentifier)
		return nil, ErrEmptyIdentifier
	}
	if priority < 0 {
		core.LogError("failed to create resource loading task '%s': %s (%d)", identifier, ErrInvalidPriority, priority)
		return nil, ErrInvalidPriority
	}
	return &Task{
		ID:            uuid.New(),
		Identifier:    identifier,
		Parameters:    params,
		Priority:      priority,
		Global:        global,
		resourceTag:   tagOf[R](),
		parametersTag: tagOf[P](),
	}, nil
}

// retry clones the task under a fresh id, e.g. for hot reload.
func (t *Task) retry() *Task {
	clone := *t
	clone.ID = uuid.New()
	return &clone
}

func (t *Task) String() string {
	return fmt.Sprintf("%s[%s] p=%d global=%t", t.Identifier, t.ID, t.Priority, t.Global)
}

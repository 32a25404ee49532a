package export

import (
	"errors"
	"fmt"
)

var (
	// ErrRegionUnavailable means the region is nil, detached or has no size.
	ErrRegionUnavailable = errors.New("export region is not rendered")
	// ErrExportInProgress rejects an export started while another is running.
	ErrExportInProgress = errors.New("an export is already in progress")
)

type Stage string

const (
	StagePrecondition Stage = "precondition"
	StageRasterize    Stage = "rasterize"
	StagePaginate     Stage = "paginate"
	StageEncode       Stage = "encode"
	StageEmit         Stage = "emit"
)

// Error reports which step of an export failed. Nothing is emitted when an
// export fails.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("export %s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func stageErr(s Stage, err error) error {
	return &Error{Stage: s, Err: err}
}

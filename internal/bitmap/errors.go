package bitmap

import "fmt"

// Stage names a step of the save pipeline
type Stage string

const (
	StageValidate    Stage = "validate"
	StageMaterialize Stage = "materialize"
	StageEncode      Stage = "encode"
	StagePersist     Stage = "persist"
)

// SaveError reports the stage at which a save failed
type SaveError struct {
	Stage Stage
	Err   error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save failed at %s: %v", e.Stage, e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

func stageError(stage Stage, err error) error {
	return &SaveError{Stage: stage, Err: err}
}

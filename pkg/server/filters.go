// pkg/server/filters.go
package server

import "go.uber.org/zap"

// Stage identifies one of the three filter lifecycle hooks.
type Stage int

const (
	StageRequestReady Stage = iota
	StageProjectReady
	StageResponseComplete
)

// String is the location tag used when a stage fails.
func (s Stage) String() string {
	switch s {
	case StageRequestReady:
		return "request ready"
	case StageProjectReady:
		return "project ready"
	case StageResponseComplete:
		return "response complete"
	}
	return "unknown stage"
}

// filterChain runs an ordered snapshot of the filter table through one
// stage at a time.
type filterChain struct {
	filters []Filter
	log     *zap.Logger
}

// run executes one stage and reports whether dispatch should continue.
// False means the response has already been finalized, either by the
// internal-error boundary or by Finish after an out-of-band stop.
//
// The out-of-band conditions (handler flagged as raised, feedback
// canceled) are re-checked after the loop even when every hook returned
// true: filters may mutate that state without returning a stop signal.
// An empty chain is a no-op that always continues.
func (c *filterChain) run(stage Stage, fc *FilterContext) bool {
	if len(c.filters) == 0 {
		return true
	}

	if err := c.invoke(stage, fc); err != nil {
		writeInternalError(fc.Response, err, stage.String(), c.log)
		return false
	}

	if fc.Handler.ExceptionRaised() || feedbackCanceled(fc.Response) {
		fc.Response.Finish()
		return false
	}
	return true
}

// invoke iterates the stage hooks in order, stopping at the first
// false. Hook errors and panics share one failure boundary per stage.
func (c *filterChain) invoke(stage Stage, fc *FilterContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered(r)
		}
	}()
	for _, f := range c.filters {
		var cont bool
		switch stage {
		case StageRequestReady:
			cont, err = f.OnRequestReady(fc)
		case StageProjectReady:
			cont, err = f.OnProjectReady(fc)
		case StageResponseComplete:
			cont, err = f.OnResponseComplete(fc)
		}
		if err != nil {
			return err
		}
		if !cont {
			break
		}
	}
	return nil
}

func feedbackCanceled(resp Response) bool {
	fb := resp.Feedback()
	return fb != nil && fb.IsCanceled()
}

package server

import "errors"

// ---------- request / response fakes ----------

type fakeRequest struct {
	params   Params
	parseErr error
	parsed   int
}

func (r *fakeRequest) Params() Params { return r.params }

func (r *fakeRequest) ParseInput() error {
	r.parsed++
	return r.parseErr
}

type fakeFeedback struct{ canceled bool }

func (f *fakeFeedback) IsCanceled() bool { return f.canceled }
func (f *fakeFeedback) Cancel()          { f.canceled = true }

type fakeResponse struct {
	headers    map[string]string
	sendStatus int
	sendBody   string
	sendCalls  int
	written    []StructuredError
	finished   int
	feedback   *fakeFeedback
}

func newFakeResponse() *fakeResponse {
	return &fakeResponse{headers: map[string]string{}, feedback: &fakeFeedback{}}
}

func (r *fakeResponse) SetHeader(name, value string) { r.headers[name] = value }

func (r *fakeResponse) SendError(status int, message string) {
	r.sendCalls++
	r.sendStatus = status
	r.sendBody = message
}

func (r *fakeResponse) Write(err StructuredError) { r.written = append(r.written, err) }

func (r *fakeResponse) Finish() { r.finished++ }

func (r *fakeResponse) Feedback() Feedback {
	if r.feedback == nil {
		return nil
	}
	return r.feedback
}

// untouched reports that no response I/O of any kind happened.
func (r *fakeResponse) untouched() bool {
	return len(r.headers) == 0 && r.sendCalls == 0 && len(r.written) == 0 && r.finished == 0
}

// finalizations counts terminal response events.
func (r *fakeResponse) finalizations() int { return r.finished + r.sendCalls }

// ---------- filter fakes ----------

type hookFunc func(fc *FilterContext) (bool, error)

// scriptedFilter runs one scripted behavior per stage and records the
// stages it saw.
type scriptedFilter struct {
	name     string
	onReq    hookFunc
	onProj   hookFunc
	onResp   hookFunc
	calls    []Stage
	callSink *[]string
}

func passHook(fc *FilterContext) (bool, error) { return true, nil }

func newScriptedFilter(name string) *scriptedFilter {
	return &scriptedFilter{name: name, onReq: passHook, onProj: passHook, onResp: passHook}
}

func (f *scriptedFilter) record(stage Stage) {
	f.calls = append(f.calls, stage)
	if f.callSink != nil {
		*f.callSink = append(*f.callSink, f.name)
	}
}

func (f *scriptedFilter) OnRequestReady(fc *FilterContext) (bool, error) {
	f.record(StageRequestReady)
	return f.onReq(fc)
}

func (f *scriptedFilter) OnProjectReady(fc *FilterContext) (bool, error) {
	f.record(StageProjectReady)
	return f.onProj(fc)
}

func (f *scriptedFilter) OnResponseComplete(fc *FilterContext) (bool, error) {
	f.record(StageResponseComplete)
	return f.onResp(fc)
}

func (f *scriptedFilter) sawStage(stage Stage) bool {
	for _, s := range f.calls {
		if s == stage {
			return true
		}
	}
	return false
}

// ---------- handler fakes ----------

type fakeService struct {
	err    error
	panics any
	calls  int
	gotPrj *Project
}

func (s *fakeService) ExecuteRequest(req Request, resp Response, project *Project) error {
	s.calls++
	s.gotPrj = project
	if s.panics != nil {
		panic(s.panics)
	}
	return s.err
}

type fakeApi struct {
	root   string
	err    error
	calls  int
	gotCtx *ApiContext
}

func (a *fakeApi) RootPath() string { return a.root }

func (a *fakeApi) ExecuteRequest(ctx *ApiContext) error {
	a.calls++
	a.gotCtx = ctx
	return a.err
}

type fakeAccessControl struct{ unresolved int }

func (ac *fakeAccessControl) UnresolveFilterFeatures() { ac.unresolved++ }

// ---------- assorted ----------

var errBoom = errors.New("boom: secret internals")

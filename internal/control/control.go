// Package control implements the engine-inspector RPC service named in
// the DOMAIN STACK table: a minimal JSON-RPC service over
// github.com/sourcegraph/jsonrpc2 (the same transport underneath the
// teacher's LSP server, here carrying generic inspector payloads instead
// of LSP methods) letting an external driver pause/resume a run, list
// live states, and dump a process-forest snapshot.
package control

import (
	"context"
	"encoding/json"

	"github.com/sourcegraph/jsonrpc2"

	"symexec/internal/forest"
)

// Method names this service accepts, namespaced like an LSP custom
// request but carrying no LSP semantics.
const (
	MethodPause    = "engine/pause"
	MethodResume   = "engine/resume"
	MethodStates   = "engine/listStates"
	MethodSnapshot = "engine/forestSnapshot"
)

// RunControl is the minimal surface the service needs from the running
// engine: pause/resume flags it can flip, and the live forest to read a
// snapshot from. A real driver's scheduler loop checks Paused() between
// steps.
type RunControl struct {
	Forest *forest.Forest
	paused bool
}

func (r *RunControl) Pause()       { r.paused = true }
func (r *RunControl) Resume()      { r.paused = false }
func (r *RunControl) Paused() bool { return r.paused }

// StatesResult is the reply to engine/listStates.
type StatesResult struct {
	StateIDs []uint64 `json:"stateIds"`
}

// SnapshotResult is the reply to engine/forestSnapshot: whether the forest
// still has any live state, and how many states it currently holds.
type SnapshotResult struct {
	Live       bool `json:"live"`
	LiveStates int  `json:"liveStates"`
}

// Service implements jsonrpc2.Handler, dispatching each inspector method
// to RunControl.
type Service struct {
	Run *RunControl
}

func NewService(run *RunControl) *Service {
	return &Service{Run: run}
}

// Handle implements jsonrpc2.Handler.
func (s *Service) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	result, err := s.dispatch(req)
	if err != nil {
		_ = conn.ReplyWithError(ctx, req.ID, &jsonrpc2.Error{Code: int64(jsonrpc2.CodeInternalError), Message: err.Error()})
		return
	}
	if req.Notif {
		return
	}
	_ = conn.Reply(ctx, req.ID, result)
}

func (s *Service) dispatch(req *jsonrpc2.Request) (interface{}, error) {
	switch req.Method {
	case MethodPause:
		s.Run.Pause()
		return map[string]bool{"paused": true}, nil
	case MethodResume:
		s.Run.Resume()
		return map[string]bool{"paused": false}, nil
	case MethodStates:
		return StatesResult{StateIDs: s.Run.Forest.LiveStateIDs()}, nil
	case MethodSnapshot:
		return SnapshotResult{Live: s.Run.Forest.Live(), LiveStates: len(s.Run.Forest.LiveStateIDs())}, nil
	default:
		return nil, &jsonrpc2.Error{Code: int64(jsonrpc2.CodeMethodNotFound), Message: "unknown method: " + req.Method}
	}
}

// DecodeParams is a convenience for methods this service later grows that
// need typed params instead of none, mirroring how jsonrpc2-based servers
// in this corpus decode *req.Params into a concrete struct.
func DecodeParams(req *jsonrpc2.Request, v interface{}) error {
	if req.Params == nil {
		return nil
	}
	return json.Unmarshal(*req.Params, v)
}

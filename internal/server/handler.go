package server

import (
	"encoding/json"
	"fmt"

	"nbdiff/internal/errors"
	"nbdiff/internal/notebook"
)

// Request parameter shapes. These mirror the host editor's DTOs: cells may
// arrive as a full snapshot (open) or as a single ordered change event.

type openParams struct {
	URI  string `json:"uri"`
	Data struct {
		Cells    []notebook.CellDto     `json:"cells"`
		Metadata map[string]interface{} `json:"metadata,omitempty"`
	} `json:"data"`
}

type changeParams struct {
	URI   string               `json:"uri"`
	Event notebook.ChangeEvent `json:"event"`
}

type closeParams struct {
	URI string `json:"uri"`
}

type diffParams struct {
	OriginalURI string `json:"originalUri"`
	ModifiedURI string `json:"modifiedUri"`
}

type cellTextDiffParams struct {
	OriginalURI string `json:"originalUri"`
	ModifiedURI string `json:"modifiedUri"`
	Handle      int64  `json:"handle"`
}

type recommendationParams struct {
	URI string `json:"uri"`
}

// handleMessage processes one incoming message and returns a response, or
// nil for notifications.
func (s *Server) handleMessage(msg *Message) *Message {
	if msg.IsRequest() {
		return s.handleRequest(msg)
	}
	if msg.IsNotification() {
		s.handleNotification(msg)
		return nil
	}
	return NewErrorMessage(msg.Id, InvalidRequest, "Invalid message: not a request or notification", nil)
}

// handleRequest handles a JSON-RPC request
func (s *Server) handleRequest(msg *Message) *Message {
	s.logger.Debug("Handling request", map[string]interface{}{
		"method": msg.Method,
		"id":     msg.Id,
	})

	result, err := s.dispatch(msg.Method, msg.Params)
	if err != nil {
		return s.errorResponse(msg.Id, err)
	}
	if result == nil {
		// Mutation acknowledged with an empty object result.
		result = struct{}{}
	}
	return NewResultMessage(msg.Id, result)
}

// handleNotification handles methods invoked without an id. Mutations are
// commonly sent this way; faults still get logged even though there is no
// response to carry them.
func (s *Server) handleNotification(msg *Message) {
	if _, err := s.dispatch(msg.Method, msg.Params); err != nil {
		s.logger.Error("Notification failed", map[string]interface{}{
			"method": msg.Method,
			"error":  err.Error(),
		})
	}
}

// dispatch routes a method to the worker.
func (s *Server) dispatch(method string, params json.RawMessage) (interface{}, error) {
	switch method {
	case "notebook/open":
		var p openParams
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		return nil, s.worker.AcceptNewModel(p.URI, p.Data.Cells, p.Data.Metadata)

	case "notebook/change":
		var p changeParams
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		return nil, s.worker.AcceptModelChanged(p.URI, &p.Event)

	case "notebook/close":
		var p closeParams
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		s.worker.AcceptRemovedModel(p.URI)
		return nil, nil

	case "notebook/diff":
		var p diffParams
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		result, err := s.worker.ComputeDiff(p.OriginalURI, p.ModifiedURI)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"cellsDiff": result}, nil

	case "notebook/canPromptRecommendation":
		var p recommendationParams
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		return s.worker.CanPromptRecommendation(p.URI), nil

	case "notebook/cellTextDiff":
		var p cellTextDiffParams
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		patch, err := s.worker.CellTextDiff(p.OriginalURI, p.ModifiedURI, p.Handle)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"patch": patch}, nil

	case "shutdown":
		s.shuttingDown = true
		return nil, nil

	default:
		return nil, &RPCError{Code: MethodNotFound, Message: fmt.Sprintf("Method not found: %s", method)}
	}
}

// decodeParams unmarshals request params, mapping failures to the
// InvalidParams fault.
func decodeParams(params json.RawMessage, into interface{}) error {
	if len(params) == 0 {
		return errors.Newf(errors.InvalidParams, "missing params")
	}
	if err := json.Unmarshal(params, into); err != nil {
		return errors.New(errors.InvalidParams, "malformed params", err)
	}
	return nil
}

// errorResponse maps worker faults onto JSON-RPC errors, preserving the
// stable worker error code in the error data.
func (s *Server) errorResponse(id interface{}, err error) *Message {
	if rpcErr, ok := err.(*RPCError); ok {
		return NewErrorMessage(id, rpcErr.Code, rpcErr.Message, rpcErr.Data)
	}

	code := InternalError
	workerCode := errors.CodeOf(err)
	if workerCode == errors.InvalidParams {
		code = InvalidParams
	}

	s.logger.Error("Request failed", map[string]interface{}{
		"code":  string(workerCode),
		"error": err.Error(),
	})

	return NewErrorMessage(id, code, err.Error(), map[string]interface{}{
		"code": workerCode,
	})
}

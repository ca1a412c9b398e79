package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Version is the only protocol version served on /rpc.
const Version = "2.0"

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// boundaryCodes maps the string codes of boundary errors onto JSON-RPC codes.
// Anything absent is an internal error.
var boundaryCodes = map[string]int{
	"METHOD_NOT_FOUND":  CodeMethodNotFound,
	"INVALID_PARAMS":    CodeInvalidParams,
	"INVALID_TIMEFRAME": CodeInvalidParams,
}

// Request is a single JSON-RPC call. Batches are not accepted.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	// ID is a json.Number, a string, or nil.
	ID any `json:"id,omitempty"`
}

// Response carries either Result or Error, echoing the request ID.
type Response struct {
	JSONRPC string `json:"jsonrpc"`
	Result  any    `json:"result,omitempty"`
	Error   *Error `json:"error,omitempty"`
	ID      any    `json:"id,omitempty"`
}

// Error is the JSON-RPC error object. It is also a Go error so parse
// failures and handler failures share one write path.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc %d: %s", e.Code, e.Message)
}

// ParseRequest decodes one request from body. Failures are *Error values
// coded CodeParseError (not JSON) or CodeInvalidRequest (JSON, wrong shape).
func ParseRequest(body io.Reader) (Request, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()

	var req Request
	if err := dec.Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return Request{}, &Error{Code: CodeInvalidRequest, Message: "request must be a single JSON object"}
		}
		return Request{}, &Error{Code: CodeParseError, Message: "parse error: " + err.Error()}
	}
	if dec.More() {
		return Request{}, &Error{Code: CodeParseError, Message: "parse error: trailing data after request"}
	}

	switch {
	case req.JSONRPC != Version:
		return Request{}, &Error{Code: CodeInvalidRequest, Message: fmt.Sprintf("unsupported jsonrpc version %q", req.JSONRPC)}
	case req.Method == "":
		return Request{}, &Error{Code: CodeInvalidRequest, Message: "method is required"}
	}
	switch req.ID.(type) {
	case nil, string, json.Number:
	default:
		return Request{}, &Error{Code: CodeInvalidRequest, Message: "id must be a string, number, or null"}
	}
	return req, nil
}

// errorFrom converts a handler error into a JSON-RPC error. Coded boundary
// errors keep their string code and details under data.
func errorFrom(err error) *Error {
	var rpcErr *Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}

	var coded codedError
	if !errors.As(err, &coded) {
		return &Error{Code: CodeInternalError, Message: err.Error()}
	}

	data := map[string]any{"code": coded.CodeValue()}
	if details := coded.DetailsValue(); details != nil {
		data["details"] = details
	}
	code, ok := boundaryCodes[coded.CodeValue()]
	if !ok {
		code = CodeInternalError
	}
	return &Error{Code: code, Message: coded.MessageValue(), Data: data}
}

// WriteResult writes a success response.
func WriteResult(w http.ResponseWriter, id any, result any) {
	writeResponse(w, Response{JSONRPC: Version, Result: result, ID: id})
}

// WriteError writes an error response. JSON-RPC errors still travel with
// HTTP 200.
func WriteError(w http.ResponseWriter, id any, rpcErr *Error) {
	writeResponse(w, Response{JSONRPC: Version, Error: rpcErr, ID: id})
}

func writeResponse(w http.ResponseWriter, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

package server

import (
	"github.com/ttpr0/ch-router/engine"
)

type ResultKind byte

const (
	RESULT_OK             ResultKind = 0
	RESULT_PARSE_ERROR    ResultKind = 1
	RESULT_ROUTING_ERROR  ResultKind = 2
	RESULT_INTERNAL_ERROR ResultKind = 3
)

func (self ResultKind) String() string {
	switch self {
	case RESULT_OK:
		return "ok"
	case RESULT_PARSE_ERROR:
		return "parse_error"
	case RESULT_ROUTING_ERROR:
		return "routing_error"
	case RESULT_INTERNAL_ERROR:
		return "internal_error"
	default:
		panic("unknown result kind")
	}
}

// QueryResult is the outcome of evaluating one request string. Offset is set
// for parse errors, Err for internal errors.
type QueryResult struct {
	Kind   ResultKind
	Status int
	Offset int
	Err    error
	Params *engine.RouteParameters
	Body   engine.Object
}

func OKResult(params *engine.RouteParameters, status int, body engine.Object) QueryResult {
	return QueryResult{Kind: RESULT_OK, Status: status, Params: params, Body: body}
}

func ParseErrorResult(offset int) QueryResult {
	return QueryResult{Kind: RESULT_PARSE_ERROR, Status: 400, Offset: offset}
}

func RoutingErrorResult(params *engine.RouteParameters, status int, body engine.Object) QueryResult {
	return QueryResult{Kind: RESULT_ROUTING_ERROR, Status: status, Params: params, Body: body}
}

func InternalErrorResult(err error) QueryResult {
	return QueryResult{Kind: RESULT_INTERNAL_ERROR, Status: 500, Err: err}
}

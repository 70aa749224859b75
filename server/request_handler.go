package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/ttpr0/ch-router/engine"
	"golang.org/x/exp/slog"
)

// RoutingMachine answers parsed queries, implemented by *engine.Engine.
type RoutingMachine interface {
	RunQuery(ctx context.Context, params *engine.RouteParameters) (int, engine.Object)
}

type Options struct {
	DisableAccessLogging bool
	// defaults to slog.Default()
	AccessLogger *slog.Logger
	Metrics      *Metrics
}

//*******************************************
// request and reply
//*******************************************

type Request struct {
	URI      string
	Referrer string
	Agent    string
	Endpoint string
}

type Header struct {
	Name  string
	Value string
}

type Reply struct {
	Status  int
	Headers []Header
	Content []byte
}

func (self *Reply) AddHeader(name, value string) {
	self.Headers = append(self.Headers, Header{Name: name, Value: value})
}

// GetHeader returns the first header with the given name.
func (self Reply) GetHeader(name string) string {
	for _, header := range self.Headers {
		if header.Name == name {
			return header.Value
		}
	}
	return ""
}

func StockReply(status int) Reply {
	text := strconv.Itoa(status) + " " + http.StatusText(status)
	content := []byte("<html><head><title>" + http.StatusText(status) + "</title></head><body><h1>" + text + "</h1></body></html>")
	reply := Reply{Status: status, Content: content}
	reply.AddHeader("Content-Length", strconv.Itoa(len(content)))
	reply.AddHeader("Content-Type", "text/html")
	return reply
}

//*******************************************
// request handler
//*******************************************

type RequestHandler struct {
	machine    RoutingMachine
	access_log *slog.Logger
	metrics    *Metrics
}

func NewRequestHandler(machine RoutingMachine, opts Options) (*RequestHandler, error) {
	if machine == nil {
		return nil, errors.New("request handler needs a routing machine")
	}
	handler := &RequestHandler{
		machine: machine,
		metrics: opts.Metrics,
	}
	if !opts.DisableAccessLogging && os.Getenv("DISABLE_ACCESS_LOGGING") == "" {
		handler.access_log = opts.AccessLogger
		if handler.access_log == nil {
			handler.access_log = slog.Default()
		}
	}
	return handler, nil
}

func (self *RequestHandler) HandleRequest(ctx context.Context, req Request) (reply Reply) {
	start := time.Now()
	request_string := req.URI
	defer func() {
		if r := recover(); r != nil {
			reply = self._InternalError(fmt.Errorf("%v", r), req.URI)
			elapsed := time.Since(start)
			self.metrics.Observe(RESULT_INTERNAL_ERROR, reply.Status, elapsed)
			self._LogAccess(request_string, elapsed, req.Referrer, reply.Status)
		}
	}()

	request_string = DecodeURI(req.URI)
	result := self.Evaluate(ctx, request_string)
	if result.Kind == RESULT_INTERNAL_ERROR {
		reply = self._InternalError(result.Err, req.URI)
	} else {
		var err error
		reply, err = BuildReply(result)
		if err != nil {
			result = InternalErrorResult(err)
			reply = self._InternalError(err, req.URI)
		}
	}
	elapsed := time.Since(start)
	self.metrics.Observe(result.Kind, reply.Status, elapsed)
	self._LogAccess(request_string, elapsed, req.Referrer, reply.Status)
	return reply
}

// Evaluate parses request_string and runs the query on the routing machine.
// Panics are turned into internal errors.
func (self *RequestHandler) Evaluate(ctx context.Context, request_string string) (result QueryResult) {
	defer func() {
		if r := recover(); r != nil {
			result = InternalErrorResult(fmt.Errorf("%v", r))
		}
	}()

	params, offset, ok := ParseQuery(request_string)
	if !ok {
		return ParseErrorResult(offset)
	}
	status, body := self.machine.RunQuery(ctx, params)
	if body == nil {
		body = engine.Object{}
	}
	body["status"] = status
	if status/100 == 4 {
		return RoutingErrorResult(params, status, body)
	}
	if status/100 != 2 {
		return InternalErrorResult(fmt.Errorf("unexpected routing status %d", status))
	}
	return OKResult(params, status, body)
}

func (self *RequestHandler) _InternalError(err error, uri string) Reply {
	slog.Warn(fmt.Sprintf("[server error] code: %v, uri: %v", err, uri))
	return StockReply(http.StatusInternalServerError)
}

func (self *RequestHandler) _LogAccess(request_string string, elapsed time.Duration, referrer string, status int) {
	if self.access_log == nil {
		return
	}
	self.access_log.Info(fmt.Sprintf("%v path=%q service=%vms fwd=%q status=%v",
		time.Now().Format("02-01-2006 15:04:05"), request_string, elapsed.Milliseconds(), referrer, status))
}

//*******************************************
// reply rendering
//*******************************************

// BuildReply renders result into headers and content. Internal errors are
// not handled here.
func BuildReply(result QueryResult) (Reply, error) {
	reply := Reply{Status: http.StatusOK}
	body := result.Body
	output_format := ""
	jsonp := ""
	switch result.Kind {
	case RESULT_OK:
		output_format = result.Params.OutputFormat
		jsonp = result.Params.JSONPParameter
	case RESULT_PARSE_ERROR:
		reply.Status = http.StatusBadRequest
		body = engine.Object{
			"status":         http.StatusBadRequest,
			"status_message": "Query string malformed close to position " + strconv.Itoa(result.Offset),
		}
	case RESULT_ROUTING_ERROR:
		reply.Status = http.StatusBadRequest
		jsonp = result.Params.JSONPParameter
		body = engine.Object{
			"status":         result.Status,
			"status_message": body["status_message"],
		}
	default:
		return reply, fmt.Errorf("cannot render result of kind %v", result.Kind)
	}

	reply.AddHeader("Access-Control-Allow-Origin", "*")
	reply.AddHeader("Access-Control-Allow-Methods", "GET")
	reply.AddHeader("Access-Control-Allow-Headers", "X-Requested-With, Content-Type")

	var content []byte
	var err error
	var content_type, disposition string
	switch {
	case output_format == "gpx":
		content, err = RenderGPX(body)
		content_type = "application/gpx+xml; charset=UTF-8"
		disposition = "attachment; filename=\"route.gpx\""
	case jsonp == "":
		content, err = RenderJSON(body)
		content_type = "application/json; charset=UTF-8"
		disposition = "inline; filename=\"response.json\""
	default:
		content, err = RenderJSONP(jsonp, body)
		content_type = "text/javascript; charset=UTF-8"
		disposition = "inline; filename=\"response.js\""
	}
	if err != nil {
		return reply, err
	}
	reply.Content = content
	reply.AddHeader("Content-Length", strconv.Itoa(len(content)))
	reply.AddHeader("Content-Type", content_type)
	reply.AddHeader("Content-Disposition", disposition)
	return reply, nil
}

//*******************************************
// net/http adapter
//*******************************************

func (self *RequestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	reply := self.HandleRequest(r.Context(), Request{
		URI:      r.URL.RequestURI(),
		Referrer: r.Referer(),
		Agent:    r.UserAgent(),
		Endpoint: r.RemoteAddr,
	})
	header := w.Header()
	for _, h := range reply.Headers {
		header.Add(h.Name, h.Value)
	}
	w.WriteHeader(reply.Status)
	w.Write(reply.Content)
}

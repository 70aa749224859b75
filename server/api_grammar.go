package server

import (
	"math"
	"strconv"

	"github.com/ttpr0/ch-router/engine"
)

//*******************************************
// query grammar
//*******************************************
//
//	query  = "/" service { "?" param { param } } [ uturns ]
//	param  = [ "&" ] key "=" value
//
// A param that does not parse as a whole is not consumed. Parsing stops at
// the first param that fails.

// ParseQuery parses a decoded request string. On failure it returns the
// offset of the first character that could not be consumed.
func ParseQuery(s string) (*engine.RouteParameters, int, bool) {
	parser := _QueryParser{input: s, params: engine.NewRouteParameters()}
	if !parser._Literal('/') {
		return nil, 0, false
	}
	service, ok := parser._Letters()
	if !ok {
		return nil, 0, false
	}
	parser.params.Service = service
	for parser._Query() {
	}
	parser._Backtrack(func() bool {
		return parser._Param(true)
	})
	if parser.pos != len(parser.input) {
		return nil, parser.pos, false
	}
	return parser.params, parser.pos, true
}

type _QueryParser struct {
	input  string
	pos    int
	params *engine.RouteParameters
}

// _Backtrack resets the position if rule fails.
func (self *_QueryParser) _Backtrack(rule func() bool) bool {
	start := self.pos
	if rule() {
		return true
	}
	self.pos = start
	return false
}

func (self *_QueryParser) _Query() bool {
	return self._Backtrack(func() bool {
		if !self._Literal('?') {
			return false
		}
		count := 0
		for self._Backtrack(func() bool { return self._Param(false) }) {
			count += 1
		}
		return count > 0
	})
}

// _Param parses a single key=value pair. Values are applied to the
// parameters only after the whole pair parsed.
func (self *_QueryParser) _Param(uturns_only bool) bool {
	self._Literal('&')
	start := self.pos
	for self.pos < len(self.input) && self.input[self.pos] != '=' && self.input[self.pos] != '&' && self.input[self.pos] != '?' {
		self.pos += 1
	}
	key := self.input[start:self.pos]
	if !self._Literal('=') {
		return false
	}
	if uturns_only {
		if key != "uturns" {
			return false
		}
		value, ok := self._Bool()
		if ok {
			self.params.SetAllUTurns(value)
		}
		return ok
	}

	params := self.params
	switch key {
	case "z", "zoom":
		value, ok := self._Short()
		if ok {
			params.ZoomLevel = value
		}
		return ok
	case "output":
		value, ok := self._Letters()
		if ok {
			params.OutputFormat = value
		}
		return ok
	case "jsonp":
		value, ok := self._Chars(_IsJSONPChar, true)
		if ok {
			params.JSONPParameter = value
		}
		return ok
	case "checksum":
		value, ok := self._Uint()
		if ok {
			params.Checksum = value
		}
		return ok
	case "instructions", "geometry", "compression", "alt", "u":
		value, ok := self._Bool()
		if !ok {
			return false
		}
		switch key {
		case "instructions":
			params.PrintInstructions = value
		case "geometry":
			params.Geometry = value
		case "compression":
			params.Compression = value
		case "alt":
			params.Alternate = value
		case "u":
			params.SetUTurn(value)
		}
		return true
	case "loc":
		lat, ok := self._Double()
		if !ok || !self._Literal(',') {
			return false
		}
		lon, ok := self._Double()
		if ok {
			params.AddCoordinate(lat, lon)
		}
		return ok
	case "hint":
		value, ok := self._Chars(_IsHintChar, false)
		if ok {
			params.AddHint(value)
		}
		return ok
	case "t":
		value, ok := self._Uint()
		if ok {
			params.AddTimestamp(value)
		}
		return ok
	case "hl":
		value, ok := self._Letters()
		if ok {
			params.Language = value
		}
		return ok
	case "geomformat":
		_, ok := self._Letters()
		if ok {
			params.Deprecated = true
		}
		return ok
	case "num_results":
		value, ok := self._Short()
		if ok {
			params.NumResults = value
		}
		return ok
	default:
		return false
	}
}

//*******************************************
// terminals
//*******************************************

func (self *_QueryParser) _Literal(c byte) bool {
	if self.pos < len(self.input) && self.input[self.pos] == c {
		self.pos += 1
		return true
	}
	return false
}

func (self *_QueryParser) _Span(accept func(byte) bool) string {
	start := self.pos
	for self.pos < len(self.input) && accept(self.input[self.pos]) {
		self.pos += 1
	}
	return self.input[start:self.pos]
}

func (self *_QueryParser) _Letters() (string, bool) {
	value := self._Span(_IsLetter)
	return value, value != ""
}

// _Chars reads a non-empty run of accepted characters, optionally allowing
// %XX escapes with digits and upper case letters.
func (self *_QueryParser) _Chars(accept func(byte) bool, percent bool) (string, bool) {
	start := self.pos
	for self.pos < len(self.input) {
		c := self.input[self.pos]
		if accept(c) {
			self.pos += 1
			continue
		}
		if percent && c == '%' && self.pos+2 < len(self.input) && _IsEscapeChar(self.input[self.pos+1]) && _IsEscapeChar(self.input[self.pos+2]) {
			self.pos += 3
			continue
		}
		break
	}
	return self.input[start:self.pos], self.pos > start
}

func (self *_QueryParser) _Bool() (bool, bool) {
	rest := self.input[self.pos:]
	switch {
	case len(rest) >= 4 && rest[:4] == "true":
		self.pos += 4
		return true, true
	case len(rest) >= 5 && rest[:5] == "false":
		self.pos += 5
		return false, true
	default:
		return false, false
	}
}

func (self *_QueryParser) _Integer(signed bool) (int64, bool) {
	start := self.pos
	if signed && self.pos < len(self.input) && (self.input[self.pos] == '-' || self.input[self.pos] == '+') {
		self.pos += 1
	}
	if self._Span(_IsDigit) == "" {
		self.pos = start
		return 0, false
	}
	value, err := strconv.ParseInt(self.input[start:self.pos], 10, 64)
	if err != nil {
		self.pos = start
		return 0, false
	}
	return value, true
}

func (self *_QueryParser) _Short() (int16, bool) {
	start := self.pos
	value, ok := self._Integer(true)
	if !ok || value < math.MinInt16 || value > math.MaxInt16 {
		self.pos = start
		return 0, false
	}
	return int16(value), true
}

func (self *_QueryParser) _Uint() (uint32, bool) {
	start := self.pos
	value, ok := self._Integer(false)
	if !ok || value > math.MaxUint32 {
		self.pos = start
		return 0, false
	}
	return uint32(value), true
}

// _Double reads [+-] digits [. digits] [e [+-] digits] with at least one
// mantissa digit.
func (self *_QueryParser) _Double() (float64, bool) {
	start := self.pos
	if self.pos < len(self.input) && (self.input[self.pos] == '-' || self.input[self.pos] == '+') {
		self.pos += 1
	}
	digits := len(self._Span(_IsDigit))
	if self._Literal('.') {
		digits += len(self._Span(_IsDigit))
	}
	if digits == 0 {
		self.pos = start
		return 0, false
	}
	exp := self.pos
	if self._Literal('e') || self._Literal('E') {
		if self.pos < len(self.input) && (self.input[self.pos] == '-' || self.input[self.pos] == '+') {
			self.pos += 1
		}
		if self._Span(_IsDigit) == "" {
			self.pos = exp
		}
	}
	value, err := strconv.ParseFloat(self.input[start:self.pos], 64)
	if err != nil {
		self.pos = start
		return 0, false
	}
	return value, true
}

func _IsLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func _IsDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func _IsHintChar(c byte) bool {
	return _IsLetter(c) || _IsDigit(c) || c == '_' || c == '.' || c == '-'
}

func _IsJSONPChar(c byte) bool {
	return _IsHintChar(c) || c == '[' || c == ']'
}

func _IsEscapeChar(c byte) bool {
	return _IsDigit(c) || (c >= 'A' && c <= 'Z')
}

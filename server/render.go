package server

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/ttpr0/ch-router/engine"
)

//*******************************************
// json
//*******************************************

func RenderJSON(body engine.Object) ([]byte, error) {
	buf := bytes.Buffer{}
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(body); err != nil {
		return nil, err
	}
	// Encode terminates with a newline
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

func RenderJSONP(callback string, body engine.Object) ([]byte, error) {
	data, err := RenderJSON(body)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, len(callback)+len(data)+2)
	buf = append(buf, callback...)
	buf = append(buf, '(')
	buf = append(buf, data...)
	buf = append(buf, ')')
	return buf, nil
}

//*******************************************
// gpx
//*******************************************

type _GPX struct {
	XMLName  xml.Name     `xml:"gpx"`
	Creator  string       `xml:"creator,attr"`
	Version  string       `xml:"version,attr"`
	Xmlns    string       `xml:"xmlns,attr"`
	Metadata _GPXMetadata `xml:"metadata"`
	Route    _GPXRoute    `xml:"rte"`
}

type _GPXMetadata struct {
	License string `xml:"copyright>license"`
}

type _GPXRoute struct {
	Points []_GPXPoint `xml:"rtept"`
}

type _GPXPoint struct {
	Lat float64 `xml:"lat,attr"`
	Lon float64 `xml:"lon,attr"`
}

// RenderGPX writes the route geometry of body as gpx route. A body without
// geometry gives an empty route.
func RenderGPX(body engine.Object) ([]byte, error) {
	doc := _GPX{
		Creator:  "ch-router",
		Version:  "1.1",
		Xmlns:    "http://www.topografix.com/GPX/1/1",
		Metadata: _GPXMetadata{License: "Data (c) OpenStreetMap contributors (ODbL)"},
	}
	switch line := body["route_geometry"].(type) {
	case nil:
	case orb.LineString:
		doc.Route.Points = make([]_GPXPoint, len(line))
		for i, point := range line {
			doc.Route.Points[i] = _GPXPoint{Lat: point.Lat(), Lon: point.Lon()}
		}
	default:
		return nil, fmt.Errorf("unexpected route geometry %T", line)
	}
	data, err := xml.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), data...), nil
}

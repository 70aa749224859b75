package engine

import (
	"context"
	"strconv"

	"github.com/ttpr0/ch-router/geo"
	"github.com/ttpr0/ch-router/graph"
	"github.com/ttpr0/ch-router/routing"
	"golang.org/x/sync/errgroup"
)

//*******************************************
// location mapping
//*******************************************

func (self *Engine) _MapLocations(coords []geo.Coord) ([]int32, bool) {
	index := self.graph.GetIndex()
	nodes := make([]int32, len(coords))
	for i, coord := range coords {
		node, ok := index.GetClosestNode(coord)
		if !ok {
			return nil, false
		}
		nodes[i] = node
	}
	return nodes, true
}

func _CheckCoordinates(coords []geo.Coord) bool {
	for _, coord := range coords {
		if !coord.IsValid() {
			return false
		}
	}
	return true
}

// [lat, lon] as used in every json result
func _LatLon(coord geo.Coord) [2]float32 {
	return [2]float32{coord.Lat(), coord.Lon()}
}

//*******************************************
// viaroute
//*******************************************

func (self *Engine) _RunViaRoute(ctx context.Context, params *RouteParameters) (int, Object) {
	coords := params.Coordinates
	if len(coords) < 2 {
		return _ErrorObject(STATUS_BAD_REQUEST, "Route needs at least two locations")
	}
	if len(coords) > self.options.MaxLocations {
		return _ErrorObject(STATUS_BAD_REQUEST, "Too many locations, maximum is "+strconv.Itoa(self.options.MaxLocations))
	}
	if !_CheckCoordinates(coords) {
		return _ErrorObject(STATUS_BAD_REQUEST, "Invalid coordinates")
	}
	nodes, ok := self._MapLocations(coords)
	if !ok {
		return _NoRoute()
	}

	qc, err := self._Acquire(ctx)
	if err != nil {
		return _ContextError(err)
	}
	defer self._Release(qc)

	distance := float32(0)
	duration := int64(0)
	geometry := geo.CoordArray{self.graph.GetNodeGeom(nodes[0])}
	via_indices := []int{0}
	for i := 1; i < len(nodes); i++ {
		path, ok := qc.query.CalcShortestPath(nodes[i-1], nodes[i])
		if !ok {
			return _NoRoute()
		}
		duration += int64(qc.unpacker.PathDuration(path))
		for _, ref := range path.Edges {
			qc.unpacker.UnpackEdges(ref, func(edge int32) {
				e := self.graph.GetEdge(edge)
				distance += e.Length
				geometry = append(geometry, self.graph.GetNodeGeom(e.NodeB))
			})
		}
		via_indices = append(via_indices, len(geometry)-1)
	}
	duration = min(duration, int64(routing.MAXIMAL_EDGE_DURATION))

	via_points := make([][2]float32, len(nodes))
	for i, node := range nodes {
		via_points[i] = _LatLon(self.graph.GetNodeGeom(node))
	}
	result := Object{
		"status":         STATUS_OK,
		"status_message": "Found route between points",
		"route_summary": Object{
			"total_distance": int(distance + 0.5),
			"total_time":     int(duration),
			"start_point":    _RoadName(self.graph, nodes[0]),
			"end_point":      _RoadName(self.graph, nodes[len(nodes)-1]),
		},
		"via_points":        via_points,
		"via_indices":       via_indices,
		"found_alternative": false,
		"hint_data": Object{
			"checksum":  self.checksum,
			"locations": params.Hints,
		},
	}
	if params.Geometry || params.OutputFormat == "gpx" {
		result["route_geometry"] = geometry.LineString()
	}
	return STATUS_OK, result
}

func _NoRoute() (int, Object) {
	return STATUS_NO_ROUTE, Object{
		"status":         STATUS_NO_ROUTE,
		"status_message": "Cannot find route between points",
		"route_summary": Object{
			"total_distance": 0,
			"total_time":     0,
		},
	}
}

// road type of the first edge leaving node, the graph carries no names
func _RoadName(g graph.ICHGraph, node int32) string {
	name := ""
	g.GetGraphExplorer().ForAdjacentEdges(node, graph.FORWARD, graph.ADJACENT_EDGES, func(ref graph.EdgeRef) {
		if name == "" {
			name = g.GetEdge(ref.EdgeID).Type.String()
		}
	})
	return name
}

//*******************************************
// table
//*******************************************

func (self *Engine) _RunTable(ctx context.Context, params *RouteParameters) (int, Object) {
	coords := params.Coordinates
	if len(coords) < 2 {
		return _ErrorObject(STATUS_BAD_REQUEST, "Table needs at least two locations")
	}
	if len(coords) > self.options.MaxTableSize {
		return _ErrorObject(STATUS_BAD_REQUEST, "Too many table coordinates, maximum is "+strconv.Itoa(self.options.MaxTableSize))
	}
	if !_CheckCoordinates(coords) {
		return _ErrorObject(STATUS_BAD_REQUEST, "Invalid coordinates")
	}
	index := self.graph.GetIndex()
	nodes := make([]int32, len(coords))
	mapped := make([]bool, len(coords))
	for i, coord := range coords {
		nodes[i], mapped[i] = index.GetClosestNode(coord)
	}

	table := make([][]int32, len(nodes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(self.options.Workers)
	for i := range nodes {
		row := make([]int32, len(nodes))
		table[i] = row
		g.Go(func() error {
			for j := range row {
				row[j] = routing.MAXIMAL_EDGE_DURATION
			}
			if !mapped[i] {
				return nil
			}
			qc, err := self._Acquire(gctx)
			if err != nil {
				return err
			}
			defer self._Release(qc)
			for j := range nodes {
				if !mapped[j] {
					continue
				}
				path, ok := qc.query.CalcShortestPath(nodes[i], nodes[j])
				if ok {
					row[j] = qc.unpacker.PathDuration(path)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return _ContextError(err)
	}

	locations := make([][2]float32, len(nodes))
	for i, node := range nodes {
		if mapped[i] {
			locations[i] = _LatLon(self.graph.GetNodeGeom(node))
		} else {
			locations[i] = _LatLon(coords[i])
		}
	}
	return STATUS_OK, Object{
		"status":                  STATUS_OK,
		"distance_table":          table,
		"destination_coordinates": locations,
		"source_coordinates":      locations,
	}
}

//*******************************************
// nearest and locate
//*******************************************

func (self *Engine) _RunNearest(ctx context.Context, params *RouteParameters, nearest bool) (int, Object) {
	coords := params.Coordinates
	if len(coords) == 0 {
		return _ErrorObject(STATUS_BAD_REQUEST, "Location needed")
	}
	if !_CheckCoordinates(coords[:1]) {
		return _ErrorObject(STATUS_BAD_REQUEST, "Invalid coordinates")
	}
	node, ok := self.graph.GetIndex().GetClosestNode(coords[0])
	if !ok {
		return _ErrorObject(STATUS_NO_ROUTE, "Could not find a matching segment for coordinate")
	}
	result := Object{
		"status":            STATUS_OK,
		"mapped_coordinate": _LatLon(self.graph.GetNodeGeom(node)),
	}
	if nearest {
		result["name"] = _RoadName(self.graph, node)
	}
	return STATUS_OK, result
}

//*******************************************
// timestamp
//*******************************************

func (self *Engine) _RunTimestamp(ctx context.Context, params *RouteParameters) (int, Object) {
	return STATUS_OK, Object{
		"status":    STATUS_OK,
		"timestamp": strconv.FormatUint(uint64(self.Generation()), 10),
	}
}

package algorithms

import (
	"github.com/compgraph/compgraph/graph"
	"github.com/compgraph/compgraph/ops"
)

// AverageRoadSpeed builds a graph joining a stream of travel-time records
// against a stream of edge lengths/coordinates, measuring average speed in
// km/h per (weekday, hour) bucket. Grounded on yandex_maps_graph.
func AverageRoadSpeed(inputStreamNameTime, inputStreamNameLength string, edgeIDColumn string) *graph.Graph {
	return averageRoadSpeedFrom(
		graph.FromNamedInput(inputStreamNameTime),
		graph.FromNamedInput(inputStreamNameLength),
		edgeIDColumn,
	)
}

// AverageRoadSpeedFromFiles is AverageRoadSpeed reading both inputs from
// files.
func AverageRoadSpeedFromFiles(timePath, lengthPath string, parse graph.LineParser, edgeIDColumn string) *graph.Graph {
	return averageRoadSpeedFrom(
		graph.FromFile(timePath, parse),
		graph.FromFile(lengthPath, parse),
		edgeIDColumn,
	)
}

func averageRoadSpeedFrom(graphTime, graphDist *graph.Graph, edgeIDColumn string) *graph.Graph {
	const (
		enterTimeColumn  = "enter_time"
		leaveTimeColumn  = "leave_time"
		startCoordColumn = "start"
		endCoordColumn   = "end"
		weekdayColumn    = "weekday"
		hourColumn       = "hour"
		speedColumn      = "speed"
	)

	date := graphTime.
		Map(ops.Date{EnterTimeCol: enterTimeColumn, WeekdayResult: weekdayColumn, HourResult: hourColumn})

	dist := graphDist.
		Map(ops.HaversineDistance{Start: startCoordColumn, End: endCoordColumn, Result: "haversine"})

	return date.
		Join(ops.InnerJoiner{}, dist, []string{edgeIDColumn}).
		Sort([]string{weekdayColumn, hourColumn}, false).
		Reduce(ops.AverageSpeed{
			DistanceCol:  "haversine",
			EnterTimeCol: enterTimeColumn,
			LeaveTimeCol: leaveTimeColumn,
			Result:       speedColumn,
		}, []string{weekdayColumn, hourColumn}).
		Sort([]string{weekdayColumn, hourColumn}, false)
}

package parser

import (
	"strconv"

	"github.com/ttpr0/ch-router/graph"
)

//*******************************************
// utility methods
//*******************************************

// _IsOneway returns whether the way is a oneway and whether it runs against
// the way direction.
func _IsOneway(oneway string, junction string, typ graph.RoadType) (bool, bool) {
	switch oneway {
	case "yes", "true", "1":
		return true, false
	case "-1", "reverse":
		return true, true
	case "no", "false", "0":
		return false, false
	}
	if typ == graph.MOTORWAY || typ == graph.MOTORWAY_LINK || typ == graph.TRUNK || typ == graph.TRUNK_LINK {
		return true, false
	}
	if junction == "roundabout" {
		return true, false
	}
	return false, false
}

func _GetORSTravelSpeed(streettype graph.RoadType, maxspeed string, tracktype string, surface string) int32 {
	var speed int32

	// check if maxspeed is set
	if maxspeed != "" {
		if maxspeed == "walk" {
			speed = 10
		} else if maxspeed == "none" {
			speed = 110
		} else {
			t, err := strconv.Atoi(maxspeed)
			if err != nil {
				speed = 20
			} else {
				speed = int32(t)
			}
		}
		speed = int32(0.9 * float32(speed))
	}

	// set defaults
	if maxspeed == "" {
		switch streettype {
		case graph.MOTORWAY:
			speed = 100
		case graph.TRUNK:
			speed = 85
		case graph.MOTORWAY_LINK, graph.TRUNK_LINK:
			speed = 60
		case graph.PRIMARY:
			speed = 65
		case graph.SECONDARY:
			speed = 60
		case graph.TERTIARY:
			speed = 50
		case graph.PRIMARY_LINK, graph.SECONDARY_LINK:
			speed = 50
		case graph.TERTIARY_LINK:
			speed = 40
		case graph.UNCLASSIFIED:
			speed = 30
		case graph.RESIDENTIAL:
			speed = 30
		case graph.LIVING_STREET:
			speed = 10
		case graph.ROAD:
			speed = 20
		case graph.TRACK:
			if tracktype == "" {
				speed = 15
			} else {
				switch tracktype {
				case "grade1":
					speed = 40
				case "grade2":
					speed = 30
				case "grade3":
					speed = 20
				case "grade4":
					speed = 15
				case "grade5":
					speed = 10
				default:
					speed = 15
				}
			}
		default:
			speed = 20
		}
	}

	// check if surface is set
	if surface != "" {
		switch surface {
		case "cement", "compacted":
			if speed > 80 {
				speed = 80
			}
		case "fine_gravel":
			if speed > 60 {
				speed = 60
			}
		case "paving_stones", "metal", "bricks":
			if speed > 40 {
				speed = 40
			}
		case "grass", "wood", "sett", "grass_paver", "gravel", "unpaved", "ground", "dirt", "pebblestone", "tartan":
			if speed > 30 {
				speed = 30
			}
		case "cobblestone", "clay":
			if speed > 20 {
				speed = 20
			}
		case "earth", "stone", "rocky", "sand":
			if speed > 15 {
				speed = 15
			}
		case "mud":
			if speed > 10 {
				speed = 10
			}
		}
	}

	if speed == 0 {
		speed = 10
	}
	return speed
}

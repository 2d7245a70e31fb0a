package core

import (
	"fmt"
	"regexp"
	"strings"
)

// markerPattern matches a station marker: a bracketed identifier span.
// Matches are found left-to-right and cannot overlap, so two stations
// can never claim the same cells on a line.
var markerPattern = regexp.MustCompile(`\[([^\[\]]*)\]`)

// DiscoverStations scans the source lines for station markers and
// builds the ordered list of stations plus the index of the entry
// station.
//
// Stations are ordered by line, then by column.  Each marker's
// identifier is resolved against ns; an unresolvable identifier is an
// IdentifierError.  A source with no stations, or with zero or more
// than one entry station, is a StructuralError.  No partial result is
// returned on failure.
func DiscoverStations(lines []string, ns Namespace) ([]*Station, int, error) {
	stations := make([]*Station, 0, 16)
	start := -1
	entries := 0

	for lineNo, line := range lines {
		for _, m := range markerPattern.FindAllStringSubmatchIndex(line, -1) {
			loc := SourceLocation{
				Line: lineNo,
				Col:  CharIndex(m[0], line),
				Len:  CharIndex(m[1], line) - CharIndex(m[0], line),
			}

			identifier, modifiers, err := parseMarker(line[m[2]:m[3]], loc)
			if err != nil {
				return nil, 0, err
			}

			station, err := NewStation(identifier, loc, modifiers, ns)
			if err != nil {
				return nil, 0, err
			}

			if station.Type.Entry {
				entries++
				if 1 < entries {
					return nil, 0, &StructuralError{
						Loc: loc,
						Msg: "program has more than one entry station",
					}
				}
				start = len(stations)
			}
			stations = append(stations, station)
		}
	}

	if len(stations) == 0 {
		return nil, 0, &StructuralError{
			Msg: "program has no stations",
		}
	}
	if entries == 0 {
		return nil, 0, &StructuralError{
			Msg: "program has no entry station",
		}
	}

	return stations, start, nil
}

// parseMarker splits a marker body into its identifier and placement
// modifiers.  A body like "add:~e" is the identifier "add" with
// reversed rotation starting east.
func parseMarker(body string, loc SourceLocation) (string, StationModifiers, error) {
	modifiers := DefaultModifiers()

	colon := strings.IndexByte(body, ':')
	if colon < 0 {
		return body, modifiers, nil
	}

	identifier := body[:colon]
	for _, c := range body[colon+1:] {
		switch c {
		case '~':
			modifiers = modifiers.Reversed()
		case 'n':
			modifiers = modifiers.WithPriority(North)
		case 'e':
			modifiers = modifiers.WithPriority(East)
		case 's':
			modifiers = modifiers.WithPriority(South)
		case 'w':
			modifiers = modifiers.WithPriority(West)
		default:
			return "", modifiers, &StructuralError{
				Loc: loc,
				Msg: fmt.Sprintf("unknown placement modifier %q", c),
			}
		}
	}

	return identifier, modifiers, nil
}

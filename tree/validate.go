package tree

import (
	"fmt"
	"regexp"
)

// Violation is one data-quality finding. Violations are collected and
// returned, never thrown: read paths log them as warnings while the write
// path refuses to save.
type Violation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

var (
	idPattern        = regexp.MustCompile(`^[a-z0-9_]+$`)
	dayDatePattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	monthDatePattern = regexp.MustCompile(`^\d{4}-\d{2}$`)
	yearDatePattern  = regexp.MustCompile(`^\d{4}$`)
	timeDatePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}$`)
)

// Validate checks one person record against the roster and returns every
// violation found, it never stops at the first one. The roster passed in is
// the snapshot as it would read after the save, candidate included, so an
// id counts as colliding only when it occurs on more than one record. The
// roster itself is never modified.
func Validate(p Person, roster []Person) []Violation {
	violations := []Violation{}

	byId := make(map[string]Person, len(roster))
	idCount := make(map[string]int, len(roster))
	for _, member := range roster {
		byId[member.Id] = member
		idCount[member.Id]++
	}

	violations = append(violations, validateId(p, idCount)...)
	violations = append(violations, validateNames(p)...)

	if !isMember(p.Gender, enumGenders) {
		violations = append(violations, Violation{"gender", fmt.Sprintf("%q is not a valid gender", p.Gender)})
	}
	if !isMember(p.VitalStatus, enumVitalStatus) {
		violations = append(violations, Violation{"vitalStatus", fmt.Sprintf("%q is not a valid vital status", p.VitalStatus)})
	}
	if p.SiblingOrder < 0 {
		violations = append(violations, Violation{"siblingOrder", "sibling order must be a positive integer"})
	}

	violations = append(violations, validateEvents(p)...)
	violations = append(violations, validateRelations(p, byId)...)
	violations = append(violations, detectAncestryCycle(p, byId)...)

	return violations
}

func validateId(p Person, idCount map[string]int) []Violation {
	violations := []Violation{}

	if p.Id == "" {
		violations = append(violations, Violation{"id", "identifier is required"})
		return violations
	}
	if !idPattern.MatchString(p.Id) {
		violations = append(violations, Violation{"id", "identifier may only contain lowercase letters, digits and underscores"})
	}
	if idCount[p.Id] > 1 {
		violations = append(violations, Violation{"id", fmt.Sprintf("identifier %q is already used by another record", p.Id)})
	}

	return violations
}

func validateNames(p Person) []Violation {
	violations := []Violation{}

	if len(p.Names) == 0 {
		violations = append(violations, Violation{"names", "at least one name is required"})
		return violations
	}

	currentCount := 0
	for i, name := range p.Names {
		if name.Current {
			currentCount++
		}
		if name.First == "" {
			violations = append(violations, Violation{fmt.Sprintf("names[%d].first", i), "first name cannot be empty"})
		}
		if name.Last == "" {
			violations = append(violations, Violation{fmt.Sprintf("names[%d].last", i), "last name cannot be empty"})
		}
		if !isMember(name.Type, enumNameTypes) {
			violations = append(violations, Violation{fmt.Sprintf("names[%d].type", i), fmt.Sprintf("%q is not a valid name type", name.Type)})
		}
	}
	if currentCount != 1 {
		violations = append(violations, Violation{"names", fmt.Sprintf("exactly one name must be flagged current, found %d", currentCount)})
	}

	return violations
}

func validateEvents(p Person) []Violation {
	violations := []Violation{}

	for i, event := range p.Events {
		field := func(name string) string { return fmt.Sprintf("events[%d].%s", i, name) }

		if !isMember(event.Type, enumEventTypes) {
			violations = append(violations, Violation{field("type"), fmt.Sprintf("%q is not a valid event type", event.Type)})
		}
		if event.Type == EventTypeMarriage {
			if event.UnionId == "" {
				violations = append(violations, Violation{field("unionId"), "marriage events must reference a union"})
			} else if _, ok := p.unionById(event.UnionId); !ok {
				violations = append(violations, Violation{field("unionId"), fmt.Sprintf("union %q does not exist on this record", event.UnionId)})
			}
		}
		if event.Qualifier != "" && !isMember(event.Qualifier, enumQualifiers) {
			violations = append(violations, Violation{field("qualifier"), fmt.Sprintf("%q is not a valid date qualifier", event.Qualifier)})
		}
		if event.Precision != "" && !isMember(event.Precision, enumPrecisions) {
			violations = append(violations, Violation{field("precision"), fmt.Sprintf("%q is not a valid date precision", event.Precision)})
		}
		violations = append(violations, validateEventDate(event, field("date"))...)

		if event.Latitude != nil && (*event.Latitude < -90 || *event.Latitude > 90) {
			violations = append(violations, Violation{field("latitude"), "latitude must be between -90 and 90"})
		}
		if event.Longitude != nil && (*event.Longitude < -180 || *event.Longitude > 180) {
			violations = append(violations, Violation{field("longitude"), "longitude must be between -180 and 180"})
		}
	}

	return violations
}

func validateEventDate(event Event, field string) []Violation {
	if event.Date == nil || *event.Date == "" {
		return nil
	}

	var pattern *regexp.Regexp
	switch event.Precision {
	case PrecisionDay:
		pattern = dayDatePattern
	case PrecisionMonth:
		pattern = monthDatePattern
	case PrecisionYear:
		pattern = yearDatePattern
	case PrecisionTime:
		pattern = timeDatePattern
	default:
		// decade and century precisions accept free text, as does an
		// event without a declared precision
		return nil
	}

	if !pattern.MatchString(*event.Date) {
		return []Violation{{field, fmt.Sprintf("%q does not match the %s precision format", *event.Date, event.Precision)}}
	}
	return nil
}

func validateRelations(p Person, byId map[string]Person) []Violation {
	violations := []Violation{}

	if p.FatherId != "" {
		if _, ok := byId[p.FatherId]; !ok {
			violations = append(violations, Violation{"fatherId", fmt.Sprintf("person %q does not exist", p.FatherId)})
		}
	}
	if p.MotherId != "" {
		if _, ok := byId[p.MotherId]; !ok {
			violations = append(violations, Violation{"motherId", fmt.Sprintf("person %q does not exist", p.MotherId)})
		}
	}

	for i, union := range p.Unions {
		field := func(name string) string { return fmt.Sprintf("unions[%d].%s", i, name) }

		if union.SpouseId == "" {
			violations = append(violations, Violation{field("spouseId"), "a union must reference a spouse"})
		} else if _, ok := byId[union.SpouseId]; !ok {
			violations = append(violations, Violation{field("spouseId"), fmt.Sprintf("person %q does not exist", union.SpouseId)})
		}
		if !isMember(union.Type, enumUnionTypes) {
			violations = append(violations, Violation{field("type"), fmt.Sprintf("%q is not a valid union type", union.Type)})
		}
		if !isMember(union.Status, enumUnionStatus) {
			violations = append(violations, Violation{field("status"), fmt.Sprintf("%q is not a valid union status", union.Status)})
		}
	}

	return violations
}

// detectAncestryCycle walks the ancestor chain starting from the candidate's
// parents. Finding the candidate's own id along the walk means the record
// would become its own ancestor. Visited ids are never re-entered, so the
// walk terminates even when the stored roster already contains a cycle.
func detectAncestryCycle(p Person, byId map[string]Person) []Violation {
	frontier := []string{}
	if p.FatherId != "" {
		frontier = append(frontier, p.FatherId)
	}
	if p.MotherId != "" {
		frontier = append(frontier, p.MotherId)
	}

	visited := map[string]bool{}
	for len(frontier) > 0 {
		id := frontier[0]
		frontier = frontier[1:]

		if id == p.Id {
			return []Violation{{"fatherId", "circular relationship: this person would become their own ancestor"}}
		}
		if visited[id] {
			continue
		}
		visited[id] = true

		ancestor, ok := byId[id]
		if !ok {
			continue
		}
		if ancestor.FatherId != "" {
			frontier = append(frontier, ancestor.FatherId)
		}
		if ancestor.MotherId != "" {
			frontier = append(frontier, ancestor.MotherId)
		}
	}

	return nil
}

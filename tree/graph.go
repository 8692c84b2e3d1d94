package tree

import "fmt"

// Node is one entry of the derived relationship graph, shaped exactly the
// way the chart-rendering engine expects it: an id, a bag of display
// attributes and the three edge lists. Nodes are rebuilt from the roster on
// every fetch and never persisted.
type Node struct {
	Id   string   `json:"id"`
	Data NodeData `json:"data"`
	Rels NodeRels `json:"rels"`
}

type NodeData struct {
	DisplayName string `json:"displayName"`
	Gender      string `json:"gender"`
	BirthDate   string `json:"birthDate"`
	BirthPlace  string `json:"birthPlace,omitempty"`
	DeathDate   string `json:"deathDate"`
	DeathPlace  string `json:"deathPlace,omitempty"`
}

type NodeRels struct {
	Parents  []string `json:"parents"`
	Spouses  []string `json:"spouses"`
	Children []string `json:"children"`
}

// Adapt converts a roster snapshot into the derived graph. The children
// edge list is implicit data: it is recomputed here by inverse-scanning the
// whole roster for father/mother back-references. The input roster is not
// modified.
func Adapt(roster []Person) []Node {
	// first pass: inverse index, parent id -> child ids in roster order
	childrenOf := make(map[string][]string, len(roster))
	for _, person := range roster {
		if person.FatherId != "" {
			childrenOf[person.FatherId] = append(childrenOf[person.FatherId], person.Id)
		}
		if person.MotherId != "" {
			childrenOf[person.MotherId] = append(childrenOf[person.MotherId], person.Id)
		}
	}

	// second pass: resolve each node's edges and display data
	nodes := make([]Node, 0, len(roster))
	for _, person := range roster {
		node := Node{
			Id:   person.Id,
			Data: resolveDisplayData(person),
			Rels: NodeRels{
				Parents:  []string{},
				Spouses:  []string{},
				Children: []string{},
			},
		}

		if person.FatherId != "" {
			node.Rels.Parents = append(node.Rels.Parents, person.FatherId)
		}
		if person.MotherId != "" {
			node.Rels.Parents = append(node.Rels.Parents, person.MotherId)
		}

		seen := map[string]bool{}
		for _, union := range person.Unions {
			if union.SpouseId == "" || seen[union.SpouseId] {
				continue
			}
			seen[union.SpouseId] = true
			node.Rels.Spouses = append(node.Rels.Spouses, union.SpouseId)
		}

		node.Rels.Children = append(node.Rels.Children, childrenOf[person.Id]...)

		nodes = append(nodes, node)
	}

	return nodes
}

func resolveDisplayData(person Person) NodeData {
	data := NodeData{Gender: person.Gender}

	if name, ok := person.CurrentName(); ok {
		data.DisplayName = joinName(name)
	} else {
		// records predating the multi-name schema carry a single flat
		// display name
		data.DisplayName = person.DisplayName
	}

	birthDate, birthPlace := resolveVital(person, EventTypeBirth, person.Birth)
	deathDate, deathPlace := resolveVital(person, EventTypeDeath, person.Death)
	data.BirthDate = FormatBirthDate(birthDate)
	data.BirthPlace = birthPlace
	data.DeathDate = FormatDeathDate(deathDate)
	data.DeathPlace = deathPlace

	return data
}

func resolveVital(person Person, eventType string, legacy *VitalRecord) (*string, string) {
	if len(person.Events) > 0 {
		if event, ok := person.EventOfType(eventType); ok {
			return event.Date, event.Place
		}
		return nil, ""
	}
	if legacy != nil {
		return legacy.Date, legacy.Place
	}
	return nil, ""
}

func joinName(name Name) string {
	joined := name.First
	if name.Middle != "" {
		joined = name.Middle + " " + joined
	}
	return name.Last + " " + joined
}

// ValidateGraph runs the second integrity pass, over the derived graph
// rather than the stored records. It catches dangling edges that no single
// record is individually responsible for, a deleted child a union still
// points at for example. Diagnostics only, adaptation never aborts.
func ValidateGraph(nodes []Node) []Violation {
	violations := []Violation{}

	present := make(map[string]bool, len(nodes))
	for _, node := range nodes {
		present[node.Id] = true
	}

	checkEdges := func(nodeId, edge string, ids []string) {
		for _, id := range ids {
			if !present[id] {
				violations = append(violations, Violation{
					Field:  fmt.Sprintf("%s.rels.%s", nodeId, edge),
					Reason: fmt.Sprintf("references %q which is not in the graph", id),
				})
			}
		}
	}

	for _, node := range nodes {
		checkEdges(node.Id, "parents", node.Rels.Parents)
		checkEdges(node.Id, "spouses", node.Rels.Spouses)
		checkEdges(node.Id, "children", node.Rels.Children)

		if !isMember(node.Data.Gender, enumGenders) {
			violations = append(violations, Violation{
				Field:  fmt.Sprintf("%s.data.gender", node.Id),
				Reason: fmt.Sprintf("%q is not a valid gender", node.Data.Gender),
			})
		}
	}

	return violations
}

package gherkin_parser

import (
	messages "github.com/cucumber/messages/go/v21"

	"github.com/denizgursoy/cacik-events/pkg/events"
)

// astNode is what the pickles need to know about a document node they
// refer to by id.
type astNode struct {
	location events.Location
	keyword  string
}

// ASTIndex resolves the ast node ids carried by pickles to document
// locations.
type ASTIndex struct {
	nodes map[string]astNode
}

// NewASTIndex indexes every scenario, step and example row of the documents.
func NewASTIndex(documents ...*messages.GherkinDocument) *ASTIndex {
	idx := &ASTIndex{nodes: make(map[string]astNode)}
	for _, doc := range documents {
		idx.Add(doc)
	}
	return idx
}

// Add indexes one more document.
func (idx *ASTIndex) Add(doc *messages.GherkinDocument) {
	if doc == nil || doc.Feature == nil {
		return
	}
	for _, child := range doc.Feature.Children {
		switch {
		case child.Background != nil:
			idx.addSteps(child.Background.Steps)
		case child.Scenario != nil:
			idx.addScenario(child.Scenario)
		case child.Rule != nil:
			for _, ruleChild := range child.Rule.Children {
				if ruleChild.Background != nil {
					idx.addSteps(ruleChild.Background.Steps)
				}
				if ruleChild.Scenario != nil {
					idx.addScenario(ruleChild.Scenario)
				}
			}
		}
	}
}

func (idx *ASTIndex) addScenario(scenario *messages.Scenario) {
	idx.nodes[scenario.Id] = astNode{location: location(scenario.Location), keyword: scenario.Keyword}
	idx.addSteps(scenario.Steps)
	for _, examples := range scenario.Examples {
		for _, row := range examples.TableBody {
			idx.nodes[row.Id] = astNode{location: location(row.Location)}
		}
	}
}

func (idx *ASTIndex) addSteps(steps []*messages.Step) {
	for _, step := range steps {
		idx.nodes[step.Id] = astNode{location: location(step.Location), keyword: step.Keyword}
	}
}

// Location returns the location of the node with the given id.
func (idx *ASTIndex) Location(id string) (events.Location, bool) {
	node, ok := idx.nodes[id]
	return node.location, ok
}

// Pickle converts a compiled pickle. Ids the index does not know are
// skipped. For outline rows the row location comes first, which is the
// line their test cases are reported under.
func (idx *ASTIndex) Pickle(p *messages.Pickle) *events.Pickle {
	locations := make([]events.Location, 0, len(p.AstNodeIds))
	for i := len(p.AstNodeIds) - 1; i >= 0; i-- {
		if loc, ok := idx.Location(p.AstNodeIds[i]); ok {
			locations = append(locations, loc)
		}
	}

	steps := make([]*events.PickleStep, len(p.Steps))
	for i, step := range p.Steps {
		steps[i] = idx.pickleStep(step)
	}

	tags := make([]string, len(p.Tags))
	for i, tag := range p.Tags {
		tags[i] = tag.Name
	}

	return &events.Pickle{
		ID:        p.Id,
		URI:       p.Uri,
		Name:      p.Name,
		Language:  p.Language,
		Tags:      tags,
		Locations: locations,
		Steps:     steps,
	}
}

func (idx *ASTIndex) pickleStep(step *messages.PickleStep) *events.PickleStep {
	converted := &events.PickleStep{
		ID:        step.Id,
		Text:      step.Text,
		Locations: make([]events.Location, 0, len(step.AstNodeIds)),
	}
	for i, id := range step.AstNodeIds {
		node, ok := idx.nodes[id]
		if !ok {
			continue
		}
		if i == 0 {
			converted.Keyword = node.keyword
		}
		converted.Locations = append(converted.Locations, node.location)
	}
	return converted
}

// ToDocument converts a parsed document into the correlator's AST.
func ToDocument(doc *messages.GherkinDocument) *events.Document {
	if doc == nil {
		return nil
	}
	converted := &events.Document{Comments: make([]*events.Comment, len(doc.Comments))}
	for i, comment := range doc.Comments {
		converted.Comments[i] = &events.Comment{Location: location(comment.Location), Text: comment.Text}
	}
	if doc.Feature == nil {
		return converted
	}

	feature := doc.Feature
	converted.Feature = &events.Feature{
		Tags:        tagNames(feature.Tags),
		Location:    location(feature.Location),
		Language:    feature.Language,
		Keyword:     feature.Keyword,
		Name:        feature.Name,
		Description: feature.Description,
		Children:    make([]*events.FeatureChild, 0, len(feature.Children)),
	}
	for _, child := range feature.Children {
		switch {
		case child.Background != nil:
			converted.Feature.Children = append(converted.Feature.Children, toBackground(child.Background))
		case child.Scenario != nil:
			converted.Feature.Children = append(converted.Feature.Children, toScenario(child.Scenario))
		case child.Rule != nil:
			converted.Feature.Children = append(converted.Feature.Children, toRule(child.Rule))
		}
	}
	return converted
}

func toRule(rule *messages.Rule) *events.FeatureChild {
	converted := &events.FeatureChild{
		Type:        events.NodeRule,
		Tags:        tagNames(rule.Tags),
		Location:    location(rule.Location),
		Keyword:     rule.Keyword,
		Name:        rule.Name,
		Description: rule.Description,
		Children:    make([]*events.FeatureChild, 0, len(rule.Children)),
	}
	for _, child := range rule.Children {
		if child.Background != nil {
			converted.Children = append(converted.Children, toBackground(child.Background))
		}
		if child.Scenario != nil {
			converted.Children = append(converted.Children, toScenario(child.Scenario))
		}
	}
	return converted
}

func toBackground(bg *messages.Background) *events.FeatureChild {
	return &events.FeatureChild{
		Type:        events.NodeBackground,
		Location:    location(bg.Location),
		Keyword:     bg.Keyword,
		Name:        bg.Name,
		Description: bg.Description,
		Steps:       toSteps(bg.Steps),
	}
}

func toScenario(scenario *messages.Scenario) *events.FeatureChild {
	converted := &events.FeatureChild{
		Type:        events.NodeScenario,
		Tags:        tagNames(scenario.Tags),
		Location:    location(scenario.Location),
		Keyword:     scenario.Keyword,
		Name:        scenario.Name,
		Description: scenario.Description,
		Steps:       toSteps(scenario.Steps),
	}
	if len(scenario.Examples) == 0 {
		return converted
	}

	converted.Type = events.NodeScenarioOutline
	converted.Examples = make([]*events.Examples, len(scenario.Examples))
	for i, examples := range scenario.Examples {
		converted.Examples[i] = &events.Examples{
			Tags:        tagNames(examples.Tags),
			Location:    location(examples.Location),
			Keyword:     examples.Keyword,
			Name:        examples.Name,
			TableHeader: toRow(examples.TableHeader),
			TableBody:   make([]*events.TableRow, len(examples.TableBody)),
		}
		for j, row := range examples.TableBody {
			converted.Examples[i].TableBody[j] = toRow(row)
		}
	}
	return converted
}

func toSteps(steps []*messages.Step) []*events.Step {
	converted := make([]*events.Step, len(steps))
	for i, step := range steps {
		converted[i] = &events.Step{
			Type:     events.NodeStep,
			Location: location(step.Location),
			Keyword:  step.Keyword,
			Text:     step.Text,
		}
	}
	return converted
}

func toRow(row *messages.TableRow) *events.TableRow {
	if row == nil {
		return nil
	}
	cells := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		cells[i] = cell.Value
	}
	return &events.TableRow{Location: location(row.Location), Cells: cells}
}

func tagNames(tags []*messages.Tag) []string {
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = tag.Name
	}
	return names
}

func location(loc *messages.Location) events.Location {
	if loc == nil {
		return events.Location{}
	}
	return events.Location{Line: loc.Line, Column: loc.Column}
}

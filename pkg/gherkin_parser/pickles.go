package gherkin_parser

import (
	"fmt"
	"strings"

	gherkin "github.com/cucumber/gherkin/go/v26"
	messages "github.com/cucumber/messages/go/v21"
	tagexpressions "github.com/cucumber/tag-expressions/go/v6"
)

// CompilePickles compiles the document into pickles, in document order.
func CompilePickles(document *messages.GherkinDocument, newId func() string) []*messages.Pickle {
	if document == nil {
		return []*messages.Pickle{}
	}
	if newId == nil {
		newId = (&messages.Incrementing{}).NewId
	}
	return gherkin.Pickles(*document, document.Uri, newId)
}

// ParseTagExpression parses expression. An empty expression matches
// everything and yields a nil evaluator.
func ParseTagExpression(expression string) (tagexpressions.Evaluatable, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, nil
	}
	evaluator, err := tagexpressions.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid tag expression %q: %w", expression, err)
	}
	return evaluator, nil
}

// FilterPickles keeps the pickles whose tags satisfy expression. Pickle
// tags already include the feature, rule and examples tags.
func FilterPickles(pickles []*messages.Pickle, expression string) ([]*messages.Pickle, error) {
	evaluator, err := ParseTagExpression(expression)
	if err != nil {
		return nil, err
	}
	if evaluator == nil {
		return pickles, nil
	}

	filtered := make([]*messages.Pickle, 0, len(pickles))
	for _, pickle := range pickles {
		if evaluator.Evaluate(PickleTagNames(pickle)) {
			filtered = append(filtered, pickle)
		}
	}
	return filtered, nil
}

// PickleTagNames returns the tag names of a pickle, with their @ prefix.
func PickleTagNames(pickle *messages.Pickle) []string {
	names := make([]string, len(pickle.Tags))
	for i, tag := range pickle.Tags {
		names[i] = tag.Name
	}
	return names
}

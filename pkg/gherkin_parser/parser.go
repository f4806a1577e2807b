package gherkin_parser

import (
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	gherkin "github.com/cucumber/gherkin/go/v26"
	messages "github.com/cucumber/messages/go/v21"
)

const (
	FeatureExtension = ".feature"
)

// SearchFeatureFilesIn returns every .feature file below the directories,
// in lexical order per directory.
func SearchFeatureFilesIn(directories []string) ([]string, error) {
	featureFiles := make([]string, 0)

	for _, directory := range directories {
		err := filepath.Walk(directory, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				log.Println(err)
				return err
			}
			if !info.IsDir() {
				if strings.HasSuffix(info.Name(), FeatureExtension) {
					featureFiles = append(featureFiles, path)
				}
			}
			return nil
		})

		if err != nil {
			log.Println(err)
			return nil, err
		}
	}
	return featureFiles, nil
}

// ParseGherkinFile parses a feature and stamps it with uri.
func ParseGherkinFile(uri string, reader io.Reader, newId func() string) (*messages.GherkinDocument, error) {
	if newId == nil {
		newId = (&messages.Incrementing{}).NewId
	}
	document, err := gherkin.ParseGherkinDocument(reader, newId)
	if err != nil {
		return nil, err
	}
	document.Uri = filepath.ToSlash(uri)
	return document, nil
}

// ReadGherkinFile reads and parses the feature file at path.
func ReadGherkinFile(path string, newId func() string) (*messages.GherkinDocument, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not read file %s, error=%w", path, err)
	}
	defer file.Close()

	document, err := ParseGherkinFile(path, file, newId)
	if err != nil {
		return nil, fmt.Errorf("gherkin parse error in file %s, error=%w", path, err)
	}
	return document, nil
}

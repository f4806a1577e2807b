package generator

import (
	"io"

	"github.com/dave/jennifer/jen"
)

const (
	correlatorPackage = "github.com/denizgursoy/cacik-events/pkg/correlator"
	reporterPackage   = "github.com/denizgursoy/cacik-events/pkg/reporter"
	runnerPackage     = "github.com/denizgursoy/cacik-events/pkg/runner"
)

type Output struct {
	PackageName        string   // Short package name (e.g., "myapp"); if empty, defaults to "main"
	FeatureDirectories []string // Directories the generated test runs, relative to the package
	Tags               string   // Tag expression; empty runs every scenario
	NoColor            bool
}

// Generate writes a test that runs the feature files through the runner,
// the correlator and the console reporter, and fails when a scenario does.
func (o *Output) Generate(writer io.Writer) error {
	pkgName := o.PackageName
	if pkgName == "" {
		pkgName = "main"
	}
	mainFile := jen.NewFile(pkgName)
	mainFile.HeaderComment("Code generated by cacik-events generate. DO NOT EDIT.")

	var statements []jen.Code

	statements = append(statements,
		jen.Id("collector").Op(":=").Qual(reporterPackage, "NewCollector").Call(),
		jen.Id("console").Op(":=").Qual(reporterPackage, "NewConsoleReporter").Call(
			jen.Qual("os", "Stdout"),
			jen.Lit(!o.NoColor),
		),
		jen.Id("events").Op(":=").Qual(correlatorPackage, "New").Call(
			jen.Qual(correlatorPackage, "Fanout").Values(jen.Id("console"), jen.Id("collector")),
		),
		jen.Line(),
	)

	options := make([]jen.Code, 0, 2)
	if len(o.FeatureDirectories) > 0 {
		directories := make([]jen.Code, 0, len(o.FeatureDirectories))
		for _, directory := range o.FeatureDirectories {
			directories = append(directories, jen.Lit(directory))
		}
		options = append(options, jen.Qual(runnerPackage, "WithFeatureDirectories").Call(directories...))
	}
	if o.Tags != "" {
		options = append(options, jen.Qual(runnerPackage, "WithTags").Call(jen.Lit(o.Tags)))
	}

	statements = append(statements,
		jen.Id("err").Op(":=").Qual(runnerPackage, "New").Call(options...).Dot("Run").Call(jen.Id("t").Dot("Context").Call(), jen.Id("events")),
		jen.If(jen.Id("err").Op("!=").Nil()).Block(
			jen.Id("t").Dot("Fatal").Call(jen.Id("err")),
		),
		jen.Line(),
		jen.Id("result").Op(":=").Id("collector").Dot("Result").Call(),
		jen.Id("console").Dot("PrintSummary").Call(jen.Id("result")),
		jen.If(jen.Op("!").Id("result").Dot("Success")).Block(
			jen.Id("t").Dot("Fail").Call(),
		),
	)

	mainFile.Func().Id("TestCacikEvents").Params(
		jen.Id("t").Op("*").Qual("testing", "T"),
	).Block(statements...)

	_, err := writer.Write([]byte(mainFile.GoString()))

	return err
}

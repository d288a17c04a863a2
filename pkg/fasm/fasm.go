// Package fasm parses FASM-style routed-design files: one dotted feature
// line per switch-matrix connection (X3Y4.A1.B2) with optional
// "# net: <name>" comment headers grouping the features that follow into
// a named net.
package fasm

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/OpenTraceLab/OpenTraceFabric/pkg/design"
	"github.com/OpenTraceLab/OpenTraceFabric/pkg/fabric"
)

// fasmLexer tokenizes feature lines. Net headers are kept as their own
// token so plain comments can be elided while net groupings survive.
var fasmLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "NetHeader", Pattern: `#[ \t]*net:[ \t]*[^\r\n]+`},
	{Name: "Comment", Pattern: `#[^\r\n]*`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_\[\]$]*`},
	{Name: "Dot", Pattern: `\.`},
})

// fasmFile is the parsed file: an ordered mix of net headers and features.
type fasmFile struct {
	Items []*fasmItem `parser:"@@*"`
}

type fasmItem struct {
	NetHeader string       `parser:"  @NetHeader"`
	Feature   *fasmFeature `parser:"| @@"`
}

// fasmFeature is one routed connection: location, then the two port names.
type fasmFeature struct {
	Location string `parser:"@Ident Dot"`
	PortA    string `parser:"@Ident Dot"`
	PortB    string `parser:"@Ident"`
}

// Parser parses FASM-style design files into design data.
type Parser struct {
	parser *participle.Parser[fasmFile]
}

// NewParser creates a new FASM parser instance
func NewParser() (*Parser, error) {
	parser, err := participle.Build[fasmFile](
		participle.Lexer(fasmLexer),
		participle.Elide("Comment", "Whitespace"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}
	return &Parser{parser: parser}, nil
}

// Parse parses a design from a reader. The design name is taken from the
// given label (usually the file name).
func (p *Parser) Parse(name string, r io.Reader) (*design.DesignData, error) {
	file, err := p.parser.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return toDesign(name, file)
}

// ParseString parses a design from a string
func (p *Parser) ParseString(name, input string) (*design.DesignData, error) {
	file, err := p.parser.ParseString(name, input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return toDesign(name, file)
}

// ParseFile parses a design from a file path
func (p *Parser) ParseFile(filename string) (*design.DesignData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(filename, file)
}

// toDesign converts the parsed file into design data. A net header names
// every feature until the next header; features before the first header
// belong to the unnamed net.
func toDesign(name string, file *fasmFile) (*design.DesignData, error) {
	d := design.NewDesignData(name)
	net := ""
	for _, item := range file.Items {
		if item.NetHeader != "" {
			net = netName(item.NetHeader)
			continue
		}
		loc, err := fabric.ParseLocation(item.Feature.Location)
		if err != nil {
			return nil, err
		}
		d.Add(loc, design.ConnectedPorts{
			PortA: item.Feature.PortA,
			PortB: item.Feature.PortB,
		}, net)
	}
	return d, nil
}

// netName extracts the net name from a "# net: <name>" header.
func netName(header string) string {
	s := strings.TrimPrefix(header, "#")
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "net:")
	return strings.TrimSpace(s)
}

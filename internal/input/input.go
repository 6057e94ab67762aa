package input

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/decide-lab/launch-interceptor/internal/cmv"
	"github.com/decide-lab/launch-interceptor/internal/decide"
	"github.com/decide-lab/launch-interceptor/internal/geometry"
	"github.com/decide-lab/launch-interceptor/internal/lcm"
	"github.com/decide-lab/launch-interceptor/internal/params"
)

// #region document
// Document is the on-disk and on-wire shape of one decision input.
// LCM cells are connector names.
type Document struct {
	Points     []Pair            `json:"points" yaml:"points"`
	Parameters params.Parameters `json:"parameters" yaml:"parameters"`
	LCM        [][]string        `json:"lcm" yaml:"lcm"`
	PUV        []bool            `json:"puv" yaml:"puv"`
}

// Pair is a point written either as [x, y] or as {x: .., y: ..}. It always
// encodes as [x, y].
type Pair geometry.Point

func (p *Pair) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var obj geometry.Point
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("point object: %w", err)
		}
		*p = Pair(obj)
		return nil
	}
	var xy []float64
	if err := json.Unmarshal(data, &xy); err != nil {
		return fmt.Errorf("point pair: %w", err)
	}
	return p.setPair(xy)
}

func (p Pair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

func (p *Pair) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		var obj geometry.Point
		if err := node.Decode(&obj); err != nil {
			return fmt.Errorf("point object: %w", err)
		}
		*p = Pair(obj)
		return nil
	case yaml.SequenceNode:
		var xy []float64
		if err := node.Decode(&xy); err != nil {
			return fmt.Errorf("point pair: %w", err)
		}
		return p.setPair(xy)
	default:
		return fmt.Errorf("point at line %d: expected [x, y] or {x, y}", node.Line)
	}
}

func (p Pair) MarshalYAML() (any, error) {
	return []float64{p.X, p.Y}, nil
}

func (p *Pair) setPair(xy []float64) error {
	if len(xy) != 2 {
		return fmt.Errorf("expected [x, y], got %d values", len(xy))
	}
	*p = Pair{X: xy[0], Y: xy[1]}
	return nil
}

// Format selects the document encoding.
type Format int

const (
	JSON Format = iota
	YAML
)

// FormatFor picks YAML for .yaml/.yml paths and JSON otherwise.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// #endregion document

// #region decode
// Load reads and converts a document file.
func Load(path string) (decide.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return decide.Input{}, fmt.Errorf("read input %s: %w", path, err)
	}
	in, err := Decode(data, FormatFor(path))
	if err != nil {
		return decide.Input{}, fmt.Errorf("input %s: %w", path, err)
	}
	return in, nil
}

// Decode parses data in the given format and converts it to an Input.
func Decode(data []byte, format Format) (decide.Input, error) {
	var doc Document
	switch format {
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return decide.Input{}, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return decide.Input{}, fmt.Errorf("parse json: %w", err)
		}
	}
	return doc.ToInput()
}

// ToInput checks the document's shape and converts it. Parameter bounds are
// left to params.Validate.
func (d Document) ToInput() (decide.Input, error) {
	in := decide.Input{Params: d.Parameters}

	in.Points = make([]geometry.Point, len(d.Points))
	for i, p := range d.Points {
		in.Points[i] = geometry.Point(p)
	}

	if len(d.LCM) != cmv.Count {
		return decide.Input{}, fmt.Errorf("lcm: expected %d rows, got %d", cmv.Count, len(d.LCM))
	}
	for i, row := range d.LCM {
		if len(row) != cmv.Count {
			return decide.Input{}, fmt.Errorf("lcm row %d: expected %d cells, got %d", i, cmv.Count, len(row))
		}
		for j, cell := range row {
			c, err := lcm.ParseConnector(cell)
			if err != nil {
				return decide.Input{}, fmt.Errorf("lcm[%d][%d]: %w", i, j, err)
			}
			in.LCM[i][j] = c
		}
	}

	if len(d.PUV) != cmv.Count {
		return decide.Input{}, fmt.Errorf("puv: expected %d entries, got %d", cmv.Count, len(d.PUV))
	}
	copy(in.PUV[:], d.PUV)

	return in, nil
}

// #endregion decode

// #region encode
// FromInput builds the document form of in.
func FromInput(in decide.Input) Document {
	doc := Document{
		Points:     make([]Pair, len(in.Points)),
		Parameters: in.Params,
		LCM:        make([][]string, cmv.Count),
		PUV:        make([]bool, cmv.Count),
	}
	for i, p := range in.Points {
		doc.Points[i] = Pair(p)
	}
	for i := range in.LCM {
		doc.LCM[i] = make([]string, cmv.Count)
		for j, c := range in.LCM[i] {
			doc.LCM[i][j] = c.String()
		}
	}
	copy(doc.PUV, in.PUV[:])
	return doc
}

// Encode renders in as an indented document in the given format.
func Encode(in decide.Input, format Format) ([]byte, error) {
	doc := FromInput(in)
	if format == YAML {
		out, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return out, nil
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return out, nil
}

// #endregion encode

// #region result
// ResultDocument is the wire shape of a decision.
type ResultDocument struct {
	Answer string   `json:"answer" yaml:"answer"`
	Launch bool     `json:"launch" yaml:"launch"`
	CMV    []bool   `json:"cmv" yaml:"cmv"`
	PUM    [][]bool `json:"pum" yaml:"pum"`
	FUV    []bool   `json:"fuv" yaml:"fuv"`
}

// FromResult builds the document form of r.
func FromResult(r decide.Result) ResultDocument {
	doc := ResultDocument{
		Answer: r.Answer(),
		Launch: r.Launch,
		CMV:    append([]bool(nil), r.CMV[:]...),
		PUM:    make([][]bool, cmv.Count),
		FUV:    append([]bool(nil), r.FUV[:]...),
	}
	for i := range r.PUM {
		doc.PUM[i] = append([]bool(nil), r.PUM[i][:]...)
	}
	return doc
}

// ToResult converts a result document back, checking its shape.
func (d ResultDocument) ToResult() (decide.Result, error) {
	var r decide.Result
	if len(d.CMV) != cmv.Count || len(d.FUV) != cmv.Count || len(d.PUM) != cmv.Count {
		return r, fmt.Errorf("result: expected %d-entry cmv, fuv and pum", cmv.Count)
	}
	copy(r.CMV[:], d.CMV)
	copy(r.FUV[:], d.FUV)
	for i, row := range d.PUM {
		if len(row) != cmv.Count {
			return r, fmt.Errorf("result pum row %d: expected %d cells, got %d", i, cmv.Count, len(row))
		}
		copy(r.PUM[i][:], row)
	}
	r.Launch = d.Launch
	return r, nil
}

// #endregion result

// Package report decodes the JSON analysis report and turns it into the component tree,
// the raw measures and the line and dependency data of one run.
package report

import (
	"bytes"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/gauge/core/newcode"
	"github.com/huangsam/gauge/core/tree"
	"github.com/huangsam/gauge/schema"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/zeebo/blake3"
)

//go:embed report.schema.json
var schemaJSON []byte

const schemaURL = "report.schema.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// Document is one analysis report.
type Document struct {
	ProjectKey   string       `json:"project_key"`
	Branch       string       `json:"branch,omitempty"`
	Version      string       `json:"version,omitempty"`
	AnalysisDate *time.Time   `json:"analysis_date,omitempty"`
	Components   []Component  `json:"components"`
	Measures     []Measure    `json:"measures,omitempty"`
	Dependencies []Dependency `json:"dependencies,omitempty"`
	Lines        []FileLines  `json:"lines,omitempty"`

	raw []byte
}

// Component is one node as declared by the report.
type Component struct {
	Ref      int                  `json:"ref"`
	Type     schema.ComponentType `json:"type"`
	Key      string               `json:"key,omitempty"`
	Name     string               `json:"name,omitempty"`
	Path     string               `json:"path,omitempty"`
	Language string               `json:"language,omitempty"`
	UnitTest bool                 `json:"unit_test,omitempty"`
	Children []int                `json:"children,omitempty"`
}

// Measure is one raw measure. Value is a JSON number, boolean or string.
type Measure struct {
	Ref              int    `json:"ref"`
	Metric           string `json:"metric"`
	Value            any    `json:"value,omitempty"`
	RuleID           int64  `json:"rule_id,omitempty"`
	CharacteristicID int64  `json:"characteristic_id,omitempty"`
	DeveloperID      string `json:"developer_id,omitempty"`
}

// Dependency is a file to file edge. A zero weight counts as 1.
type Dependency struct {
	From   int `json:"from"`
	To     int `json:"to"`
	Weight int `json:"weight,omitempty"`
}

// FileLines carries the per-line change dates and coverage of one file.
type FileLines struct {
	Ref      int    `json:"ref"`
	Coverage bool   `json:"coverage,omitempty"`
	Lines    []Line `json:"lines"`
}

// Line is one source line of a file.
type Line struct {
	ChangedAt *time.Time `json:"changed_at,omitempty"`
	Coverable bool       `json:"coverable,omitempty"`
	Covered   bool       `json:"covered,omitempty"`
}

func reportSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			compileErr = fmt.Errorf("failed to parse report schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("failed to register report schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// Decode reads a report, validates it against the embedded schema and unmarshals it.
// Validation failures are precondition errors.
func Decode(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	sch, err := reportSchema()
	if err != nil {
		return nil, err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, &schema.PreconditionError{Reason: fmt.Sprintf("report is not valid JSON: %v", err)}
	}
	if err := sch.Validate(inst); err != nil {
		return nil, &schema.PreconditionError{Reason: fmt.Sprintf("report does not match its schema: %v", err)}
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	doc.raw = data
	return &doc, nil
}

// Fingerprint is the blake3 digest of the raw report bytes, hex encoded.
func (d *Document) Fingerprint() string {
	data := d.raw
	if data == nil {
		data, _ = json.Marshal(d)
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// BuildTree builds the component tree. Components keep the uuid found in uuids under their
// key; the others get a fresh one and are returned so the caller can store them.
func (d *Document) BuildTree(uuids map[string]string) (*tree.Tree, []schema.ComponentUUID, error) {
	byRef := make(map[int]*Component, len(d.Components))
	parents := make(map[int]int)
	for i := range d.Components {
		c := &d.Components[i]
		byRef[c.Ref] = c
		for _, child := range c.Children {
			parents[child] = c.Ref
		}
	}

	b := tree.NewBuilder()
	var created []schema.ComponentUUID
	for i := range d.Components {
		c := &d.Components[i]
		key := d.componentKey(c, byRef, parents)
		id, ok := uuids[key]
		if !ok {
			id = uuid.NewString()
			created = append(created, schema.ComponentUUID{ProjectKey: d.ProjectKey, Key: key, UUID: id})
		}
		name := c.Name
		if name == "" {
			name = key
		}
		err := b.Add(tree.Component{
			Ref:        c.Ref,
			UUID:       id,
			Key:        key,
			Type:       c.Type,
			Name:       name,
			Path:       c.Path,
			Language:   c.Language,
			IsUnitTest: c.UnitTest,
		})
		if err != nil {
			return nil, nil, err
		}
		for _, child := range c.Children {
			b.Link(c.Ref, child)
		}
	}
	t, err := b.Build()
	if err != nil {
		return nil, nil, err
	}
	return t, created, nil
}

// componentKey derives the effective key: PROJECT and MODULE use their module key, DIRECTORY
// and FILE use the nearest module key plus their path, views use their declared key.
func (d *Document) componentKey(c *Component, byRef map[int]*Component, parents map[int]int) string {
	switch c.Type {
	case schema.ProjectComponent, schema.ModuleComponent:
		moduleKey := c.Key
		if moduleKey == "" && c.Type == schema.ProjectComponent {
			moduleKey = d.ProjectKey
		}
		return tree.ComponentKey(moduleKey, "", d.Branch)
	case schema.DirectoryComponent, schema.FileComponent:
		moduleKey := d.ProjectKey
		seen := map[int]bool{c.Ref: true}
		for ref, ok := parents[c.Ref]; ok && !seen[ref]; ref, ok = parents[ref] {
			seen[ref] = true
			p := byRef[ref]
			if p == nil {
				break
			}
			if p.Type == schema.ModuleComponent || p.Type == schema.ProjectComponent {
				if p.Key != "" {
					moduleKey = p.Key
				}
				break
			}
		}
		return tree.ComponentKey(moduleKey, c.Path, d.Branch)
	default:
		return c.Key
	}
}

// Edges returns the declared edges with their effective weight.
func (d *Document) Edges() []schema.Dependency {
	deps := make([]schema.Dependency, 0, len(d.Dependencies))
	for _, dep := range d.Dependencies {
		w := dep.Weight
		if w <= 0 {
			w = 1
		}
		deps = append(deps, schema.Dependency{From: dep.From, To: dep.To, Weight: w})
	}
	return deps
}

// FileLines returns the line data in the form the new code computation consumes.
func (d *Document) FileLines() []newcode.FileLines {
	out := make([]newcode.FileLines, 0, len(d.Lines))
	for _, fl := range d.Lines {
		lines := make([]newcode.Line, len(fl.Lines))
		for i, l := range fl.Lines {
			lines[i] = newcode.Line{Coverable: l.Coverable, Covered: l.Covered}
			if l.ChangedAt != nil {
				lines[i].ChangedAt = *l.ChangedAt
			}
		}
		out = append(out, newcode.FileLines{Ref: fl.Ref, HasCoverage: fl.Coverage, Lines: lines})
	}
	return out
}

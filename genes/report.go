package genes

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Stage names of the three gene sets written per range.
const (
	StageBase      = "base"
	StageInit      = "init"
	StageOptimized = "optimized"
)

// SpeciesGenes is the gene list of one species in a report.
type SpeciesGenes struct {
	Species string `yaml:"species"`
	Absent  bool   `yaml:"absent,omitempty"`
	Genes   []Gene `yaml:"genes"`
}

// Report is one YAML document: the genes of one stage of one gene range.
type Report struct {
	RunID   string         `yaml:"run_id"`
	Range   string         `yaml:"range"`
	Stage   string         `yaml:"stage"`
	Species []SpeciesGenes `yaml:"species"`
}

// NewReport groups genes (indexed like names) into a report. absent marks
// species without sequence in the range.
func NewReport(runID, rangeID, stage string, names []string, absent []bool, genes [][]Gene) Report {
	r := Report{RunID: runID, Range: rangeID, Stage: stage, Species: make([]SpeciesGenes, len(names))}
	for s, name := range names {
		sg := SpeciesGenes{Species: name, Genes: []Gene{}}
		if s < len(absent) {
			sg.Absent = absent[s]
		}
		if s < len(genes) && genes[s] != nil {
			sg.Genes = genes[s]
		}
		r.Species[s] = sg
	}
	return r
}

// Count returns the total number of genes in the report.
func (r Report) Count() int {
	n := 0
	for _, s := range r.Species {
		n += len(s.Genes)
	}
	return n
}

// Writer streams reports as YAML documents. Close must be called once all
// reports are written.
type Writer struct {
	enc    *yaml.Encoder
	n      int
	closed bool
}

// NewWriter returns a Writer on w.
func NewWriter(w io.Writer) *Writer {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	return &Writer{enc: enc}
}

// Write appends reports to the stream.
func (w *Writer) Write(reports ...Report) error {
	for _, r := range reports {
		if err := w.enc.Encode(r); err != nil {
			return fmt.Errorf("genes: encode %s/%s: %w", r.Range, r.Stage, err)
		}
		w.n++
	}
	return nil
}

// Documents returns the number of reports written.
func (w *Writer) Documents() int { return w.n }

// Close flushes the stream. Further calls do nothing, and an empty stream
// writes no output.
func (w *Writer) Close() error {
	if w.closed || w.n == 0 {
		w.closed = true
		return nil
	}
	w.closed = true
	return w.enc.Close()
}

// WriteYAML writes the reports as one YAML document stream.
func WriteYAML(w io.Writer, reports ...Report) error {
	yw := NewWriter(w)
	if err := yw.Write(reports...); err != nil {
		return err
	}
	return yw.Close()
}

// ReadYAML reads a document stream written by WriteYAML.
func ReadYAML(rd io.Reader) ([]Report, error) {
	dec := yaml.NewDecoder(rd)
	var out []Report
	for {
		var r Report
		err := dec.Decode(&r)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("genes: decode report %d: %w", len(out), err)
		}
		out = append(out, r)
	}
}

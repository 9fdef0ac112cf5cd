package input

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/compgene/genegraph"
	"github.com/katalvlaran/compgene/pipeline"
)

var (
	// ErrNoSpecies indicates a document without a species list.
	ErrNoSpecies = errors.New("input: no species declared")

	// ErrUndeclaredSpecies indicates a species not in the species list.
	ErrUndeclaredSpecies = errors.New("input: undeclared species")

	// ErrMissingID indicates a range without an id.
	ErrMissingID = errors.New("input: range without id")
)

// Document is the decoded form of one input file.
type Document struct {
	Species []string
	Ranges  []pipeline.RangeInput
}

type document struct {
	Species []string   `yaml:"species"`
	Ranges  []rangeDoc `yaml:"ranges"`
}

type rangeDoc struct {
	ID       string       `yaml:"id"`
	Species  []speciesDoc `yaml:"species"`
	Clusters []clusterDoc `yaml:"clusters"`
}

type speciesDoc struct {
	Name            string          `yaml:"name"`
	Start           int             `yaml:"start"`
	End             int             `yaml:"end"`
	Missing         bool            `yaml:"missing"`
	RetrievalFailed bool            `yaml:"retrieval_failed"`
	Transcripts     []transcriptDoc `yaml:"transcripts"`
	Candidates      []intervalDoc   `yaml:"candidates"`
}

type transcriptDoc struct {
	States []stateDoc `yaml:"states"`
}

type stateDoc struct {
	Kind  string  `yaml:"kind"`
	Start int     `yaml:"start"`
	End   int     `yaml:"end"`
	Score float64 `yaml:"score"`
}

type intervalDoc struct {
	Start int     `yaml:"start"`
	End   int     `yaml:"end"`
	Score float64 `yaml:"score"`
}

type clusterDoc struct {
	Plausibility float64     `yaml:"plausibility"`
	Omega        float64     `yaml:"omega"`
	Members      []memberDoc `yaml:"members"`
}

type memberDoc struct {
	Species string `yaml:"species"`
	Start   int    `yaml:"start"`
	End     int    `yaml:"end"`
}

// LoadFile reads the document at path.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes and checks one document.
func Load(r io.Reader) (*Document, error) {
	var raw document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("input: decode: %w", err)
	}
	return raw.convert()
}

func (d *document) convert() (*Document, error) {
	if len(d.Species) == 0 {
		return nil, ErrNoSpecies
	}
	declared := make(map[string]bool, len(d.Species))
	for _, s := range d.Species {
		declared[s] = true
	}

	out := &Document{Species: d.Species, Ranges: make([]pipeline.RangeInput, 0, len(d.Ranges))}
	for i, rd := range d.Ranges {
		if rd.ID == "" {
			return nil, fmt.Errorf("%w: range %d", ErrMissingID, i)
		}
		in := pipeline.RangeInput{ID: rd.ID}
		for _, sd := range rd.Species {
			if !declared[sd.Name] {
				return nil, fmt.Errorf("%w: %q in range %s", ErrUndeclaredSpecies, sd.Name, rd.ID)
			}
			in.Species = append(in.Species, sd.convert())
		}
		for _, cd := range rd.Clusters {
			c := pipeline.ClusterInput{Plausibility: cd.Plausibility, Omega: cd.Omega}
			for _, m := range cd.Members {
				if !declared[m.Species] {
					return nil, fmt.Errorf("%w: cluster member %q in range %s", ErrUndeclaredSpecies, m.Species, rd.ID)
				}
				c.Members = append(c.Members, pipeline.ClusterMember{
					Species:  m.Species,
					Interval: genegraph.Interval{Start: m.Start, End: m.End},
				})
			}
			in.Clusters = append(in.Clusters, c)
		}
		out.Ranges = append(out.Ranges, in)
	}
	return out, nil
}

// convert keeps malformed intervals and unknown state kinds; graph
// construction counts and skips them.
func (sd speciesDoc) convert() pipeline.SpeciesRange {
	sr := pipeline.SpeciesRange{
		Name:            sd.Name,
		Span:            genegraph.Interval{Start: sd.Start, End: sd.End},
		Missing:         sd.Missing,
		RetrievalFailed: sd.RetrievalFailed,
	}
	for _, td := range sd.Transcripts {
		tx := genegraph.Transcript{States: make([]genegraph.State, 0, len(td.States))}
		for _, st := range td.States {
			kind, _ := genegraph.ParseKind(st.Kind)
			tx.States = append(tx.States, genegraph.State{
				Kind:     kind,
				Interval: genegraph.Interval{Start: st.Start, End: st.End},
				Score:    st.Score,
			})
		}
		sr.Transcripts = append(sr.Transcripts, tx)
	}
	for _, c := range sd.Candidates {
		sr.Candidates = append(sr.Candidates, genegraph.ExonCandidate{
			Interval: genegraph.Interval{Start: c.Start, End: c.End},
			Score:    c.Score,
		})
	}
	return sr
}

package network

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the YAML layout of a network file
type File struct {
	Edges          []EdgeFile          `yaml:"edges"`
	StoppingPlaces []StoppingPlaceFile `yaml:"stoppingPlaces"`
}

// EdgeFile is one edge of a network file
type EdgeFile struct {
	ID    string     `yaml:"id"`
	Lanes []LaneFile `yaml:"lanes"`
}

// LaneFile is one lane of a network file
type LaneFile struct {
	Shape  string   `yaml:"shape"`
	Length float64  `yaml:"length,omitempty"`
	Allow  []string `yaml:"allow,omitempty"`
}

// StoppingPlaceFile is one bus stop of a network file
type StoppingPlaceFile struct {
	ID       string  `yaml:"id"`
	Lane     string  `yaml:"lane"`
	StartPos float64 `yaml:"startPos"`
	EndPos   float64 `yaml:"endPos"`
}

// Parse builds a network from YAML data
func Parse(data []byte) (*Network, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse network: %w", err)
	}
	return FromFile(f)
}

// Read builds a network from a YAML stream
func Read(r io.Reader) (*Network, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Load builds a network from a YAML file on disk
func Load(path string) (*Network, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Read(file)
}

// FromFile builds a network from its decoded file layout
func FromFile(f File) (*Network, error) {
	n := New()
	for _, e := range f.Edges {
		lanes := make([]LaneSpec, 0, len(e.Lanes))
		for i, l := range e.Lanes {
			shape, err := ParseShape(l.Shape)
			if err != nil {
				return nil, fmt.Errorf("edge '%s' lane %d: %w", e.ID, i, err)
			}
			lanes = append(lanes, LaneSpec{Shape: shape, Length: l.Length, Allow: l.Allow})
		}
		if _, err := n.AddEdge(e.ID, lanes...); err != nil {
			return nil, err
		}
	}
	for _, s := range f.StoppingPlaces {
		if _, err := n.AddStoppingPlace(s.ID, s.Lane, s.StartPos, s.EndPos); err != nil {
			return nil, err
		}
	}
	return n, nil
}

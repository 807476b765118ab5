package serialize

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/anggasct/netedit"
	"gopkg.in/yaml.v3"
)

// MarshalYAML renders every person and element of net as a YAML document
// with attributes in table order
func MarshalYAML(net *netedit.Net) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteYAML(&buf, net); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteYAML writes the YAML document of net to w
func WriteYAML(w io.Writer, net *netedit.Net) error {
	root := &yaml.Node{Kind: yaml.MappingNode}

	if persons := net.Persons(); len(persons) > 0 {
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, p := range persons {
			item := &yaml.Node{Kind: yaml.MappingNode}
			appendPair(item, "id", stringNode(p.ID))
			if p.Depart != "" {
				appendPair(item, "depart", stringNode(p.Depart))
			}
			seq.Content = append(seq.Content, item)
		}
		appendPair(root, SectionPersons, seq)
	}

	for _, tag := range ElementSections {
		records := Records(net, tag)
		if len(records) == 0 {
			continue
		}
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, r := range records {
			seq.Content = append(seq.Content, recordNode(r))
		}
		appendPair(root, string(tag), seq)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// ReadYAML decodes a YAML document and adds its persons and elements to net
func ReadYAML(r io.Reader, net *netedit.Net) error {
	var doc map[string]any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("decode yaml: %w", err)
	}
	return Load(net, doc)
}

func recordNode(r Record) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range r.Fields {
		appendPair(node, f.Key.String(), fieldNode(f))
	}
	if len(r.Parameters) > 0 {
		params := &yaml.Node{Kind: yaml.MappingNode}
		keys := make([]string, 0, len(r.Parameters))
		for k := range r.Parameters {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			appendPair(params, k, stringNode(r.Parameters[k]))
		}
		appendPair(node, netedit.AttrParameters.String(), params)
	}
	return node
}

func fieldNode(f Field) *yaml.Node {
	switch f.Kind {
	case netedit.KindFloat, netedit.KindTime, netedit.KindBool:
		// untagged plain scalars resolve to numbers and booleans
		return &yaml.Node{Kind: yaml.ScalarNode, Value: f.Value}
	case netedit.KindList:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, item := range strings.Fields(f.Value) {
			seq.Content = append(seq.Content, stringNode(item))
		}
		return seq
	}
	return stringNode(f.Value)
}

func stringNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func appendPair(mapping *yaml.Node, key string, value *yaml.Node) {
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		value,
	)
}

package serialize

import (
	"fmt"
	"io"

	"github.com/anggasct/netedit"
	"github.com/vmihailenco/msgpack/v5"
)

// Document returns the plain value tree of net, as written by every encoder
func Document(net *netedit.Net) map[string]any {
	doc := make(map[string]any)
	if persons := net.Persons(); len(persons) > 0 {
		list := make([]any, 0, len(persons))
		for _, p := range persons {
			list = append(list, map[string]any{"id": p.ID, "depart": p.Depart})
		}
		doc[SectionPersons] = list
	}
	for _, tag := range ElementSections {
		records := Records(net, tag)
		if len(records) == 0 {
			continue
		}
		list := make([]any, 0, len(records))
		for _, r := range records {
			list = append(list, r.Map())
		}
		doc[string(tag)] = list
	}
	return doc
}

// WriteMsgpack writes net as a msgpack map with sorted keys
func WriteMsgpack(w io.Writer, net *netedit.Net) error {
	enc := msgpack.NewEncoder(w)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(Document(net)); err != nil {
		return fmt.Errorf("encode msgpack: %w", err)
	}
	return nil
}

// ReadMsgpack decodes a msgpack document and adds its persons and elements to net
func ReadMsgpack(r io.Reader, net *netedit.Net) error {
	var doc map[string]any
	if err := msgpack.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("decode msgpack: %w", err)
	}
	return Load(net, doc)
}

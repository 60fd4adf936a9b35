package lookup

import (
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"gopkg.in/yaml.v3"
)

// Entry is the export form of one knowledge item.
type Entry struct {
	Item         string   `yaml:"item" json:"item"`
	Competencies []string `yaml:"competencies" json:"competencies"`
	Descriptors  []string `yaml:"descriptors" json:"descriptors"`
	Criteria     []string `yaml:"criteria" json:"criteria"`
}

// Entry returns the export form of a single item.
func (t *Tables) Entry(item string) Entry {
	return Entry{
		Item:         normalizeKey(item),
		Competencies: nonNil(t.Competencies.Get(item)),
		Descriptors:  nonNil(t.Descriptors.Get(item)),
		Criteria:     nonNil(t.Criteria.Get(item)),
	}
}

// Entries returns every item in sorted order.
func (t *Tables) Entries() []Entry {
	items := t.Items()
	out := make([]Entry, 0, len(items))
	for _, item := range items {
		out = append(out, t.Entry(item))
	}
	return out
}

// WriteYAML writes the tables as a YAML list of entries.
func (t *Tables) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t.Entries()); err != nil {
		return fmt.Errorf("encoding lookup tables: %w", err)
	}
	return enc.Close()
}

// Struct converts the tables to a protobuf Struct keyed by knowledge item.
func (t *Tables) Struct() *structpb.Struct {
	s := &structpb.Struct{Fields: make(map[string]*structpb.Value)}
	for _, e := range t.Entries() {
		fields := make(map[string]*structpb.Value, len(Fields))
		for name, vals := range map[string][]string{
			Competencies.String(): e.Competencies,
			Descriptors.String():  e.Descriptors,
			Criteria.String():     e.Criteria,
		} {
			list := make([]*structpb.Value, len(vals))
			for i, v := range vals {
				list[i] = structpb.NewStringValue(v)
			}
			fields[name] = structpb.NewListValue(&structpb.ListValue{Values: list})
		}
		s.Fields[e.Item] = structpb.NewStructValue(&structpb.Struct{Fields: fields})
	}
	return s
}

// WriteJSON writes the tables as a JSON object keyed by knowledge item.
func (t *Tables) WriteJSON(w io.Writer, pretty bool) error {
	opts := protojson.MarshalOptions{}
	if pretty {
		opts.Multiline = true
		opts.Indent = "  "
	}
	data, err := opts.Marshal(t.Struct())
	if err != nil {
		return fmt.Errorf("encoding lookup tables: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func nonNil(vals []string) []string {
	if vals == nil {
		return []string{}
	}
	return vals
}

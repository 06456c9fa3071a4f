package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dzjyyds666/tgmq/parse/tgm"
	"gopkg.in/yaml.v3"
)

// writeModel prints m (or the value at find) in the requested format.
func writeModel(w io.Writer, m *tgm.TireModel, format, find string) error {
	if find != "" {
		doc, err := tgm.ToUntyped(m)
		if err != nil {
			return err
		}
		v, ok := tgm.Get(doc, tgm.SplitPath(find)...)
		if !ok {
			return fmt.Errorf("path %q not found", find)
		}
		if format == "json" {
			return encodeJSON(w, v)
		}
		return encodeYAML(w, v)
	}

	switch format {
	case "json":
		return encodeJSON(w, m)
	case "summary":
		return writeSummary(w, m)
	default:
		return encodeYAML(w, m)
	}
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func writeSummary(w io.Writer, m *tgm.TireModel) error {
	var plies, materials int
	for _, n := range m.Nodes() {
		plies += len(n.Plies)
		materials += len(n.BulkMaterials) + len(n.TreadMaterials)
		for _, p := range n.Plies {
			materials += len(p.Materials)
		}
	}
	a := m.Analysis()
	l := m.Lookup()

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "nodes:\t%d\n", m.NumNodes())
	fmt.Fprintf(tw, "plies:\t%d\n", plies)
	fmt.Fprintf(tw, "materials:\t%d\n", materials)
	fmt.Fprintf(tw, "layers:\t%d\n", a.NumLayers)
	fmt.Fprintf(tw, "gauge pressures:\t%v\n", a.GaugePressures)
	fmt.Fprintf(tw, "carcass temperatures:\t%v\n", a.CarcassTemperatures)
	fmt.Fprintf(tw, "rotation squared:\t%v\n", a.RotationSquareds)
	fmt.Fprintf(tw, "lookup version:\t%s\n", l.Version)
	fmt.Fprintf(tw, "lookup bins:\t%d\n", len(l.Bins))
	fmt.Fprintf(tw, "checksum:\t%d\n", l.Checksum)
	return tw.Flush()
}

package tgm

// Package tgm decodes rFactor2 TGM tire definitions into a TireModel.
//
// A TGM file is INI-shaped: [QuasiStaticAnalysis], [Realtime] and
// [LookupData] are singletons, while [Node] repeats once per tire layer.
// Compound values use "(v1,v2,...)" literals.
//
// Unknown sections and keys are ignored so that newer files keep loading.
// Numeric and arity problems stop the parse and no model is returned.

import (
	"fmt"
	"io"
	"os"

	"github.com/dzjyyds666/tgmq/parse"
	"github.com/rs/zerolog"
)

// Options configures a parse call.
type Options struct {
	// Tokenizer is passed to the line tokenizer. Its OnMalformed hook is
	// chained after the decoder's own logging.
	Tokenizer parse.Options
	// Logger receives debug events for skipped input. Nil disables logging.
	Logger *zerolog.Logger
}

func (o Options) logger() zerolog.Logger {
	if o.Logger == nil {
		return zerolog.Nop()
	}
	return *o.Logger
}

// =========================
// Public API
// =========================

// Parse decodes every record from src and returns the finished model, or
// the first fatal error.
func Parse(src parse.LineSource, opts Options) (*TireModel, error) {
	d := newDecoder(opts.logger())

	var tk *parse.Tokenizer
	tkOpts := opts.Tokenizer
	hook := tkOpts.OnMalformed
	tkOpts.OnMalformed = func(line int, text string) {
		d.log.Debug().
			Int("line", line).
			Str("section", tk.Section()).
			Str("text", text).
			Msg("skipping malformed line")
		if hook != nil {
			hook(line, text)
		}
	}

	tk = parse.NewTokenizer(src, tkOpts)
	for tk.Next() {
		if err := d.decode(tk.Record()); err != nil {
			return nil, err
		}
	}
	if err := tk.Err(); err != nil {
		return nil, err
	}

	d.log.Debug().
		Int("nodes", len(d.model.nodes)).
		Int("records", d.records).
		Msg("tgm decoded")
	return d.model, nil
}

// ParseReader decodes a TGM document read from r.
func ParseReader(r io.Reader, opts Options) (*TireModel, error) {
	return Parse(parse.NewLineSource(r), opts)
}

// ParseFile opens path, decodes it and closes it again.
func ParseFile(path string, opts Options) (*TireModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tgm file: %w", err)
	}
	defer f.Close()

	m, err := ParseReader(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// =========================
// Decoder Implementation
// =========================

// nodeState tracks whether the previous record belonged to the node being
// built.
type nodeState uint8

const (
	noActiveNode nodeState = iota
	buildingNode
)

// sectionTag identifies one occurrence of a section header.
type sectionTag struct {
	name  string
	block int
}

type decoder struct {
	model   *TireModel
	state   nodeState
	prev    sectionTag
	node    *Node
	ply     *Ply // nil until the current node sees PlyParams
	records int
	log     zerolog.Logger
}

func newDecoder(log zerolog.Logger) *decoder {
	return &decoder{model: newTireModel(), log: log}
}

func (d *decoder) decode(rec parse.Record) error {
	d.records++
	d.transition(rec)

	action, ok := fieldTable[fieldKey{rec.Section, rec.Key}]
	if !ok {
		d.log.Debug().
			Int("line", rec.Line).
			Str("section", rec.Section).
			Str("key", rec.Key).
			Msg("ignoring unrecognized directive")
		return nil
	}

	if err := action.apply(d, rec.Value); err != nil {
		return &ParseError{
			Line:    rec.Line,
			Section: rec.Section,
			Key:     rec.Key,
			Value:   rec.Value,
			Cause:   err,
		}
	}
	return nil
}

// transition moves the node state machine for one record. A Node record
// opens a new node unless the previous record came from the same [Node]
// block; any other section closes the current node. Grouping follows header
// occurrences, so back-to-back [Node] headers give one node each.
func (d *decoder) transition(rec parse.Record) {
	tag := sectionTag{name: rec.Section, block: rec.Block}
	defer func() { d.prev = tag }()

	if rec.Section != SectionNode {
		d.state = noActiveNode
		d.node = nil
		d.ply = nil
		return
	}
	if d.state == buildingNode && d.prev == tag {
		return
	}

	d.node = &Node{}
	d.ply = nil
	d.model.nodes = append(d.model.nodes, d.node)
	d.state = buildingNode
}

func (d *decoder) startPly(raw string) error {
	params, err := parsePlyParam(raw)
	if err != nil {
		return err
	}
	d.node.Plies = append(d.node.Plies, Ply{Params: params})
	d.ply = &d.node.Plies[len(d.node.Plies)-1]
	return nil
}

func (d *decoder) attachPlyMaterial(raw string) error {
	if d.ply == nil {
		d.log.Debug().
			Int("node", len(d.model.nodes)-1).
			Msg("dropping PlyMaterial without PlyParams")
		return nil
	}
	m, err := parseMaterial(raw)
	if err != nil {
		return err
	}
	d.ply.Materials = append(d.ply.Materials, m)
	return nil
}

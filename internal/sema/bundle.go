package sema

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/you-not-fish/pinsc/internal/syntax"
	"github.com/you-not-fish/pinsc/internal/types"
)

// A Bundle is an annotated program: the tree handed over by the front end
// together with its declaration and type tables.
type Bundle struct {
	Program *syntax.Defs
	Info    *Info
}

type jsonBundle struct {
	Program json.RawMessage                   `json:"program"`
	Decls   map[syntax.NodeID]syntax.NodeID   `json:"decls"`
	Types   map[syntax.NodeID]json.RawMessage `json:"types"`
}

// MarshalJSON encodes the bundle. Declarations are stored as the ID of the
// defining node.
func (b *Bundle) MarshalJSON() ([]byte, error) {
	prog, err := syntax.MarshalJSONTree(b.Program)
	if err != nil {
		return nil, err
	}
	j := jsonBundle{
		Program: prog,
		Decls:   make(map[syntax.NodeID]syntax.NodeID, len(b.Info.Decls)),
		Types:   make(map[syntax.NodeID]json.RawMessage, len(b.Info.Types)),
	}
	for id, d := range b.Info.Decls {
		j.Decls[id] = d.ID()
	}
	for id, t := range b.Info.Types {
		data, err := types.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("sema: type of node #%d: %w", id, err)
		}
		j.Types[id] = data
	}
	return json.Marshal(j)
}

// UnmarshalJSON decodes a bundle written by MarshalJSON.
func (b *Bundle) UnmarshalJSON(data []byte) error {
	var j jsonBundle
	if err := json.Unmarshal(data, &j); err != nil {
		return fmt.Errorf("sema: decoding bundle: %w", err)
	}
	if len(j.Program) == 0 {
		return fmt.Errorf("sema: bundle has no program")
	}
	prog, err := syntax.UnmarshalJSONDefs(j.Program, nil)
	if err != nil {
		return err
	}

	nodes := make(map[syntax.NodeID]syntax.Node)
	syntax.Inspect(prog, func(n syntax.Node) bool {
		nodes[n.ID()] = n
		return true
	})

	info := NewInfo()
	for id, did := range j.Decls {
		if _, ok := nodes[id]; !ok {
			return fmt.Errorf("sema: declaration recorded for unknown node #%d", id)
		}
		d, ok := nodes[did].(syntax.Def)
		if !ok {
			return fmt.Errorf("sema: node #%d refers to #%d, which is not a definition", id, did)
		}
		info.Decls[id] = d
	}
	for id, raw := range j.Types {
		if _, ok := nodes[id]; !ok {
			return fmt.Errorf("sema: type recorded for unknown node #%d", id)
		}
		t, err := types.Unmarshal(raw)
		if err != nil {
			return fmt.Errorf("sema: type of node #%d: %w", id, err)
		}
		info.Types[id] = t
	}

	b.Program = prog
	b.Info = info
	return nil
}

// WriteBundle writes the indented JSON form of the bundle to w.
func WriteBundle(w io.Writer, b *Bundle) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// ReadBundle reads a bundle from r.
func ReadBundle(r io.Reader) (*Bundle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	b := new(Bundle)
	if err := b.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return b, nil
}

package types

import (
	"fmt"

	"github.com/goccy/go-json"
)

// jsonType is the serialized form of a Type.
type jsonType struct {
	Atom   string      `json:"atom,omitempty"`
	Len    *int        `json:"len,omitempty"`
	Elem   *jsonType   `json:"elem,omitempty"`
	Params []*jsonType `json:"params,omitempty"`
	Result *jsonType   `json:"result,omitempty"`
}

// Marshal returns the JSON form of t. Atoms encode as {"atom":"int"},
// arrays as {"len":N,"elem":...} and functions as {"params":[...],"result":...}.
func Marshal(t Type) ([]byte, error) {
	j, err := toJSON(t)
	if err != nil {
		return nil, err
	}
	return json.Marshal(j)
}

// Unmarshal decodes a type written by Marshal.
func Unmarshal(data []byte) (Type, error) {
	var j jsonType
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("types: %w", err)
	}
	return fromJSON(&j)
}

func toJSON(t Type) (*jsonType, error) {
	switch t := t.(type) {
	case *Atom:
		return &jsonType{Atom: t.name}, nil
	case *Array:
		elem, err := toJSON(t.elem)
		if err != nil {
			return nil, err
		}
		n := t.len
		return &jsonType{Len: &n, Elem: elem}, nil
	case *Func:
		j := &jsonType{Params: []*jsonType{}}
		for _, p := range t.params {
			pj, err := toJSON(p)
			if err != nil {
				return nil, err
			}
			j.Params = append(j.Params, pj)
		}
		res, err := toJSON(t.result)
		if err != nil {
			return nil, err
		}
		j.Result = res
		return j, nil
	}
	return nil, fmt.Errorf("types: cannot encode %T", t)
}

func fromJSON(j *jsonType) (Type, error) {
	switch {
	case j == nil:
		return nil, fmt.Errorf("types: missing type")
	case j.Atom != "":
		a, ok := AtomByName(j.Atom)
		if !ok {
			return nil, fmt.Errorf("types: unknown atom %q", j.Atom)
		}
		return a, nil
	case j.Len != nil:
		if *j.Len < 0 {
			return nil, fmt.Errorf("types: negative array length %d", *j.Len)
		}
		elem, err := fromJSON(j.Elem)
		if err != nil {
			return nil, err
		}
		return NewArray(*j.Len, elem), nil
	case j.Result != nil:
		params := make([]Type, 0, len(j.Params))
		for _, pj := range j.Params {
			p, err := fromJSON(pj)
			if err != nil {
				return nil, err
			}
			params = append(params, p)
		}
		res, err := fromJSON(j.Result)
		if err != nil {
			return nil, err
		}
		return NewFunc(params, res), nil
	}
	return nil, fmt.Errorf("types: empty type")
}

package tiler

import (
	"encoding/json"
)

// Properties is metadata recorded alongside a tile, typed so it survives a
// round trip through the index.
type Properties struct {
	ints    map[string]int
	strings map[string]string
	bools   map[string]bool
}

// NewProperties returns an empty properties
func NewProperties() *Properties {
	return &Properties{
		ints:    map[string]int{},
		strings: map[string]string{},
		bools:   map[string]bool{},
	}
}

// Merge properties `o` into this properties
func (p *Properties) Merge(o *Properties) *Properties {
	if o == nil {
		return p
	}
	for k, v := range o.ints {
		p.SetInt(k, v)
	}
	for k, v := range o.strings {
		p.SetString(k, v)
	}
	for k, v := range o.bools {
		p.SetBool(k, v)
	}
	return p
}

// String returns the string stored under `key`, if any.
func (p *Properties) String(key string) (string, bool) {
	v, ok := p.strings[key]
	return v, ok
}

// SetString stores a string, replacing a value of any other type under `key`.
func (p *Properties) SetString(key, value string) {
	p.clear(key)
	p.strings[key] = value
}

// Int returns the int stored under `key`, if any.
func (p *Properties) Int(key string) (int, bool) {
	v, ok := p.ints[key]
	return v, ok
}

// SetInt stores an int, replacing a value of any other type under `key`.
func (p *Properties) SetInt(key string, value int) {
	p.clear(key)
	p.ints[key] = value
}

// Bool returns the flag stored under `key`, if any.
func (p *Properties) Bool(key string) (bool, bool) {
	v, ok := p.bools[key]
	return v, ok
}

// SetBool stores a flag, replacing a value of any other type under `key`.
func (p *Properties) SetBool(key string, value bool) {
	p.clear(key)
	p.bools[key] = value
}

// a key holds one value of one type
func (p *Properties) clear(key string) {
	delete(p.ints, key)
	delete(p.strings, key)
	delete(p.bools, key)
}

// propsBlock is how properties are stored in the index
type propsBlock struct {
	I map[string]int    `json:",omitempty"`
	S map[string]string `json:",omitempty"`
	B map[string]bool   `json:",omitempty"`
}

func (p *Properties) encode() string {
	if p == nil {
		return "{}"
	}
	data, _ := json.Marshal(propsBlock{I: p.ints, S: p.strings, B: p.bools})
	return string(data)
}

func decodeProperties(data string) (*Properties, error) {
	p := NewProperties()
	if data == "" {
		return p, nil
	}

	block := propsBlock{}
	if err := json.Unmarshal([]byte(data), &block); err != nil {
		return nil, err
	}
	return p.Merge(&Properties{ints: block.I, strings: block.S, bools: block.B}), nil
}

// Package chunk implements the sub-chunk block model: decoding packed
// palette long-arrays from world storage and re-encoding a chunk into the
// wire chunk-data section format. Grounded on
// _examples/original_source/src/chunk.rs and src/block.rs.
package chunk

import (
	"encoding/json"
	"fmt"
)

// Block is a named block identifier plus its property map. Immutable once
// constructed, matching block.rs's Block.
type Block struct {
	Name       string
	Properties map[string]string
}

// NewBlock builds a Block from a name and property map.
func NewBlock(name string, properties map[string]string) Block {
	if properties == nil {
		properties = map[string]string{}
	}
	return Block{Name: name, Properties: properties}
}

// GetProperty looks up a property by name.
func (b Block) GetProperty(name string) (string, bool) {
	v, ok := b.Properties[name]
	return v, ok
}

// BlockState is one entry of a BlockType's states list: a global numeric id,
// the property values that must all match for this state to apply, and
// whether it is the type's fallback default.
type BlockState struct {
	ID         int32             `json:"id"`
	Properties map[string]string `json:"properties,omitempty"`
	Default    bool              `json:"default,omitempty"`
}

// BlockType is one entry of the static block-states table: the set of
// property names/values the block recognizes, and its concrete states.
type BlockType struct {
	Properties map[string][]string `json:"properties,omitempty"`
	States     []BlockState        `json:"states"`
}

// Table maps a block name (e.g. "minecraft:stone") to its BlockType. This is
// one of the out-of-scope static asset inputs (spec.md §6): loading it from
// disk happens at the process boundary; ParseTable only decodes the bytes
// once they have been read.
type Table map[string]BlockType

// ParseTable decodes the JSON block-states table.
func ParseTable(data []byte) (Table, error) {
	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("chunk: parse block table: %w", err)
	}
	return t, nil
}

// ResolveStateID implements the chunk-data encoder's state selection policy:
// scan the type's states; a state matches when every property it lists is
// present on the block and equal stringwise (with byte-tag booleans coerced
// 0→"true", 1→"false", anything else→"???"); the first match wins; if none
// matches, the entry marked default is used; if there is no default, 0.
func (t Table) ResolveStateID(name string, block Block) int32 {
	bt, ok := t[name]
	if !ok {
		return 0
	}
	var defaultID int32
	haveDefault := false
	for _, state := range bt.States {
		if state.Default {
			defaultID = state.ID
			haveDefault = true
		}
		if len(state.Properties) == 0 {
			continue
		}
		matched := true
		for propName, want := range state.Properties {
			got, ok := block.GetProperty(propName)
			if !ok || got != want {
				matched = false
				break
			}
		}
		if matched {
			return state.ID
		}
	}
	if haveDefault {
		return defaultID
	}
	return 0
}

// Package yml wraps yaml.Node with the traversal helpers the task set
// loader needs: ordered key/value iteration, sequence iteration and scalar
// materialisation into plain Go values.
package yml

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Node aliases yaml.Node so helpers can hang off it without copying.
type Node yaml.Node

// Lookup returns the value node for the given mapping key, nil when absent.
// The match is case-insensitive.
func (n *Node) Lookup(key string) *Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if strings.EqualFold(n.Content[i].Value, key) {
			return (*Node)(n.Content[i+1])
		}
	}
	return nil
}

// Pairs walks a mapping node in document order.
func (n *Node) Pairs(callback func(key string, value *Node) error) error {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if err := callback(n.Content[i].Value, (*Node)(n.Content[i+1])); err != nil {
			return err
		}
	}
	return nil
}

// Items walks a sequence node in document order.
func (n *Node) Items(callback func(index int, item *Node) error) error {
	for i, item := range n.Content {
		if err := callback(i, (*Node)(item)); err != nil {
			return err
		}
	}
	return nil
}

// Interface materialises the node into plain Go values: scalars by tag,
// mappings as map[string]interface{} and sequences as []interface{}.
func (n *Node) Interface() interface{} {
	switch n.Kind {
	case yaml.ScalarNode:
		return n.scalar()
	case yaml.MappingNode:
		result := make(map[string]interface{}, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			result[n.Content[i].Value] = (*Node)(n.Content[i+1]).Interface()
		}
		return result
	case yaml.SequenceNode:
		result := make([]interface{}, 0, len(n.Content))
		for _, item := range n.Content {
			result = append(result, (*Node)(item).Interface())
		}
		return result
	}
	return nil
}

func (n *Node) scalar() interface{} {
	switch n.Tag {
	case "!!bool":
		return strings.EqualFold(n.Value, "true")
	case "!!int":
		if value, err := strconv.Atoi(n.Value); err == nil {
			return value
		}
		return 0
	case "!!float":
		if value, err := strconv.ParseFloat(n.Value, 64); err == nil {
			return value
		}
		return 0.0
	case "!!null":
		return nil
	default:
		return n.Value
	}
}

package main

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

var outputFormats = []string{"json", "yaml"}

// print writes v to stdout in the selected output format.
func (a *app) print(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}

	if a.outputFormat != "yaml" {
		_, err = fmt.Fprintln(a.out, string(data))
		return err
	}

	// Going through JSON keeps the json field names and their order.
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("convert output to yaml: %w", err)
	}
	blockStyle(&doc)

	enc := yaml.NewEncoder(a.out)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return enc.Close()
}

// blockStyle clears the flow and quoting styles that JSON input leaves on
// every node.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

package main

import (
	"fmt"

	"github.com/alqudimi/deepdoc/yaml"
)

// Run executes the init command.
func (c *InitCmd) Run(deps *Dependencies) error {
	if err := yaml.WriteDefault(deps.ConfigPath, c.Force); err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "Wrote default configuration to %s\n", deps.ConfigPath)
	return nil
}

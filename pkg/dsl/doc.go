/*
Package dsl provides a Go DSL for programmatically constructing organization charts.

It allows developers to describe an organization with a fluent builder instead of a
YAML or JSON file. This is particularly useful for tests and for generating charts
from other systems.

Example usage:

	b := dsl.New(1) // the CEO

	b.Add(2).Under(1)
	b.Add(3).Under(1).Reports(4, 5)

	// The resulting loader can be used as a ports.ChartLoader
	loader, err := b.Build()
*/
package dsl

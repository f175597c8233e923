// Package viz renders quadrature results for the terminal.
//
//   - [Plot]: asciigraph chart of log10 error per rule with a threshold line
//   - [RenderComparison]: styled table of errors per interval count
//   - [RenderResults]: estimates and errors for a single request
//   - [RenderCatalog]: the available integrands and their closed forms
//
// Colors come from a [Theme]; three are built in.
package viz

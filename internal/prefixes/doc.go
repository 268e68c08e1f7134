// Package prefixes builds, loads, and samples prefix groups.
//
// A prefix group contains the /24 units covered by a single advertised
// route. The groups are the unit of budget accounting: [Sample] selects
// whole groups until a target number of units is exceeded.
package prefixes

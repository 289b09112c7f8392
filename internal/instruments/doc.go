// Package instruments provides the read-only tools of the lab.
//
// Each tool observes a concentration set and reports a single value:
//
//   - [PHMeter]: pH of the solution
//   - [PHPaper]: pH and the indicator colour it turns
//   - [Conductivity]: light bulb brightness in [0, 1]
//   - [Magnifier]: number of particles drawn per species
//
// [Graph] is not an [Instrument]; it lays out the log-scale bar graph.
package instruments

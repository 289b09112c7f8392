// Package viz provides the interactive terminal lab.
//
// The lab is a bubbletea program with two screens:
//
//   - a menu listing the solutions from [solution.Registry]
//   - a lab bench for the chosen solution, showing the concentration graph,
//     pH meter, pH paper, conductivity bulb and magnifier counts
//
// Inputs are adjusted on a log scale. The bench listens to the solution's
// change notifications and redraws whenever a new concentration set arrives.
package viz

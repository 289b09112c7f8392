// Package chem computes equilibrium concentrations for aqueous solutions.
//
// Every solution is described by a [Kind], a total solute concentration
// (mol/L) and, for weak solutes, a strength (Ka or Kb). The package turns
// those inputs into the concentration of each species present at
// equilibrium:
//
//   - [ComputeWater]: pure water, self-ionization only
//   - [ComputeStrongAcid], [ComputeStrongBase]: complete dissociation
//   - [ComputeWeakAcid], [ComputeWeakBase]: quadratic equilibrium
//   - [Compute]: dispatch on [Kind]
//
// # Example
//
//	c, err := chem.Compute(chem.WeakAcid, 0.01, 1e-7)
//	if err != nil {
//		return err
//	}
//	fmt.Printf("pH %.2f\n", chem.PH(c))
//
// All functions are pure. Concentrations are recomputed from inputs on every
// call and never cached, so they are safe to call from any goroutine.
package chem

/*
Package modeldef loads model definitions from .hcl files and lowers them
onto the algebra core: variable declarations become VarKeys (vector shapes
expand into components sharing a veckey, nested model blocks contribute
lineage) and expression blocks become canonical nomial maps.

The file format:

	model "Aircraft" {
	  model "Wing" {
	    variable "S" { units = "m^2"  label = "wing area" }
	  }
	}

	variable "rho" { units = "kg/m^3"  value = 1.225 }
	variable "w"   { units = "m"       shape = [3] }

	expression "drag" {
	  units = "N"
	  term {
	    coefficient = 0.5
	    exponents   = { rho = 1, V = 2, "S_Aircraft.Wing" = 1 }
	  }
	}

Exponent references resolve through the declared keys' alias index; a bare
name that matches variables from more than one sub-model must be qualified
with its lineage.
*/
package modeldef

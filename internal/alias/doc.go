// Package alias determines the development branch alias, such as 1.0-dev, of a project's primary branch.
//
// The alias comes from the composer.json extra.branch-alias map, then from the
// branch.<primary>.alias git configuration key, and finally from the user, whose
// answer is stored back into git configuration.
package alias

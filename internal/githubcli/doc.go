// Package githubcli reads repository metadata and pull requests through the gh executable.
//
// Calls go through execshell so tests can substitute a recording executor for the real binary.
package githubcli

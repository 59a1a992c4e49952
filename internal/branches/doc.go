// Package branches orders version branches and keeps local branches in sync with their remotes.
//
// SortVersionBranches and DecideSync are pure; Service runs the git commands around them.
package branches

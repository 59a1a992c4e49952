// Package gitrepo contains helpers for interrogating Git repositories.
//
// RepositoryManager answers questions about the working tree (clean state,
// current branch, remote URLs) and ParseRemoteURL turns a remote URL into the
// owner/repository pair used for GitHub API calls.
package gitrepo

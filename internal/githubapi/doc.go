// Package githubapi talks to the GitHub REST API for the operations gh cannot script cleanly:
// publishing releases, creating repositories and opening or merging pull requests.
package githubapi

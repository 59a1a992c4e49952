// Package githubauth locates the credential hubkit presents to the GitHub API.
package githubauth

import (
	"context"
	"errors"
	"os"
	"strings"
)

// Environment variable names consulted for GitHub tokens, in preference order.
const (
	EnvGitHubCLIToken = "GH_TOKEN"
	EnvGitHubToken    = "GITHUB_TOKEN"
	EnvGitHubAPIToken = "GITHUB_API_TOKEN"
)

const tokenNotFoundMessageConstant = "no GitHub token configured; set tools.github.token, export GH_TOKEN or run gh auth login"

// ErrTokenNotFound indicates that no configured, environment or gh CLI token exists.
var ErrTokenNotFound = errors.New(tokenNotFoundMessageConstant)

var tokenPreference = []string{
	EnvGitHubCLIToken,
	EnvGitHubToken,
	EnvGitHubAPIToken,
}

// TokenSource names where a Token was found.
type TokenSource string

// Token sources.
const (
	TokenSourceConfiguration TokenSource = "configuration"
	TokenSourceEnvironment   TokenSource = "environment"
	TokenSourceGitHubCLI     TokenSource = "gh"
)

// Token is a resolved credential and its origin.
type Token struct {
	Value  string
	Source TokenSource
}

// CLITokenReader reads the token the gh executable is logged in with.
type CLITokenReader interface {
	AuthToken(executionContext context.Context, hostname string) (string, error)
}

// Resolver walks configuration, environment and gh CLI in that order.
type Resolver struct {
	ConfiguredToken string
	Environment     map[string]string
	CLI             CLITokenReader
	Hostname        string
}

// Resolve returns the first available token or ErrTokenNotFound.
func (resolver Resolver) Resolve(executionContext context.Context) (Token, error) {
	if configuredToken := strings.TrimSpace(resolver.ConfiguredToken); len(configuredToken) > 0 {
		return Token{Value: configuredToken, Source: TokenSourceConfiguration}, nil
	}
	if environmentToken, found := ResolveToken(resolver.Environment); found {
		return Token{Value: environmentToken, Source: TokenSourceEnvironment}, nil
	}
	if resolver.CLI != nil {
		cliToken, cliError := resolver.CLI.AuthToken(executionContext, resolver.Hostname)
		if cliError == nil && len(strings.TrimSpace(cliToken)) > 0 {
			return Token{Value: strings.TrimSpace(cliToken), Source: TokenSourceGitHubCLI}, nil
		}
	}
	return Token{}, ErrTokenNotFound
}

// ResolveToken returns the first non-empty token from the provided map, then from the process environment.
func ResolveToken(environment map[string]string) (string, bool) {
	for _, variableName := range tokenPreference {
		if value, found := nonEmpty(environment[variableName]); found {
			return value, true
		}
	}
	for _, variableName := range tokenPreference {
		if value, found := nonEmpty(os.Getenv(variableName)); found {
			return value, true
		}
	}
	return "", false
}

func nonEmpty(value string) (string, bool) {
	trimmedValue := strings.TrimSpace(value)
	return trimmedValue, len(trimmedValue) > 0
}

package gitrepo

import (
	"fmt"
	"strings"
)

const (
	sshProtocolPrefixConstant           = "ssh://"
	httpsProtocolPrefixConstant         = "https://"
	httpProtocolPrefixConstant          = "http://"
	sshUserDelimiterConstant            = "@"
	scpPathDelimiterConstant            = ":"
	pathSeparatorConstant               = "/"
	gitSuffixConstant                   = ".git"
	remoteURLParseErrorTemplateConstant = "%s: %s"
	ownerRepositoryTemplateConstant     = "%s/%s"
	requiredValueMessageConstant        = "value required"
	invalidRemoteURLMessageConstant     = "invalid remote url"
)

// RemoteProtocol enumerates supported git remote protocols.
type RemoteProtocol string

// Supported remote protocols.
const (
	RemoteProtocolSSH   RemoteProtocol = RemoteProtocol("ssh")
	RemoteProtocolHTTPS RemoteProtocol = RemoteProtocol("https")
)

// RemoteURL represents a structured git remote URL.
type RemoteURL struct {
	Protocol   RemoteProtocol
	Host       string
	Owner      string
	Repository string
}

// OwnerRepository returns the "owner/repository" identifier used by GitHub.
func (remote RemoteURL) OwnerRepository() string {
	return fmt.Sprintf(ownerRepositoryTemplateConstant, remote.Owner, remote.Repository)
}

// RemoteURLParseError indicates a remote string could not be parsed.
type RemoteURLParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, parseError.Input, parseError.Message)
}

// ParseRemoteURL converts scp-like (git@host:owner/repo.git), ssh:// and http(s):// remotes into a RemoteURL.
func ParseRemoteURL(remote string) (RemoteURL, error) {
	trimmedRemote := strings.TrimSpace(remote)
	if len(trimmedRemote) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: requiredValueMessageConstant}
	}

	var protocol RemoteProtocol
	var host string
	var path string

	switch {
	case strings.HasPrefix(trimmedRemote, httpsProtocolPrefixConstant), strings.HasPrefix(trimmedRemote, httpProtocolPrefixConstant):
		protocol = RemoteProtocolHTTPS
		withoutScheme := trimmedRemote[strings.Index(trimmedRemote, "//")+2:]
		host, path, _ = strings.Cut(withoutScheme, pathSeparatorConstant)
	case strings.HasPrefix(trimmedRemote, sshProtocolPrefixConstant):
		protocol = RemoteProtocolSSH
		host, path, _ = strings.Cut(strings.TrimPrefix(trimmedRemote, sshProtocolPrefixConstant), pathSeparatorConstant)
	case strings.Contains(trimmedRemote, scpPathDelimiterConstant):
		protocol = RemoteProtocolSSH
		host, path, _ = strings.Cut(trimmedRemote, scpPathDelimiterConstant)
	default:
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}

	if userIndex := strings.LastIndex(host, sshUserDelimiterConstant); userIndex >= 0 {
		host = host[userIndex+1:]
	}
	if protocol == RemoteProtocolSSH {
		host, _, _ = strings.Cut(host, scpPathDelimiterConstant)
	}

	pathSegments := strings.Split(strings.Trim(path, pathSeparatorConstant), pathSeparatorConstant)
	if len(host) == 0 || len(pathSegments) != 2 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}

	owner := pathSegments[0]
	repository := strings.TrimSuffix(pathSegments[1], gitSuffixConstant)
	if len(owner) == 0 || len(repository) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}

	return RemoteURL{Protocol: protocol, Host: host, Owner: owner, Repository: repository}, nil
}

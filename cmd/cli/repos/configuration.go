package repos

import (
	"strings"

	"github.com/temirov/hubkit/internal/githubapi"
	"github.com/temirov/hubkit/internal/githubcli"
	"github.com/temirov/hubkit/internal/gitrepo"
	"github.com/temirov/hubkit/internal/repos/shared"
)

const (
	pullRequestConfigurationKeyConstant  = "pr"
	repositoryConfigurationKeyConstant   = "repo"
	configurationRemoteKeyConstant       = "remote"
	configurationBaseKeyConstant         = "base"
	configurationStateKeyConstant        = "state"
	configurationLimitKeyConstant        = "limit"
	configurationMergeMethodKeyConstant  = "merge_method"
	configurationDeleteBranchKeyConstant = "delete_branch"
	configurationPrivateKeyConstant      = "private"
	configurationProtocolKeyConstant     = "protocol"
	defaultPullRequestListLimitConstant  = 30
	configurationKeySeparatorConstant    = "."
)

// ToolsConfiguration captures the pr and repo-create configuration sections.
type ToolsConfiguration struct {
	PullRequests PullRequestConfiguration `mapstructure:"pr"`
	Repository   RepositoryConfiguration  `mapstructure:"repo"`
}

// PullRequestConfiguration describes configuration values for the pr commands.
// An empty BaseBranch means the GitHub default branch.
type PullRequestConfiguration struct {
	RemoteName   string `mapstructure:"remote"`
	BaseBranch   string `mapstructure:"base"`
	State        string `mapstructure:"state"`
	Limit        int    `mapstructure:"limit"`
	MergeMethod  string `mapstructure:"merge_method"`
	DeleteBranch bool   `mapstructure:"delete_branch"`
}

// RepositoryConfiguration describes configuration values for repo-create.
// A non-empty RemoteName adds the created repository as that remote of the current repository.
type RepositoryConfiguration struct {
	Private    bool   `mapstructure:"private"`
	RemoteName string `mapstructure:"remote"`
	Protocol   string `mapstructure:"protocol"`
}

// DefaultToolsConfiguration returns baseline configuration values for pr and repo-create.
func DefaultToolsConfiguration() ToolsConfiguration {
	return ToolsConfiguration{
		PullRequests: PullRequestConfiguration{
			RemoteName:   shared.OriginRemoteNameConstant,
			BaseBranch:   "",
			State:        string(githubcli.PullRequestStateOpen),
			Limit:        defaultPullRequestListLimitConstant,
			MergeMethod:  string(githubapi.MergeMethodMerge),
			DeleteBranch: false,
		},
		Repository: RepositoryConfiguration{
			Private:    true,
			RemoteName: "",
			Protocol:   string(gitrepo.RemoteProtocolSSH),
		},
	}
}

// DefaultConfigurationValues produces Viper defaults for pr and repo-create.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultToolsConfiguration()
	pullRequestKey := rootKey + configurationKeySeparatorConstant + pullRequestConfigurationKeyConstant + configurationKeySeparatorConstant
	repositoryKey := rootKey + configurationKeySeparatorConstant + repositoryConfigurationKeyConstant + configurationKeySeparatorConstant
	return map[string]any{
		pullRequestKey + configurationRemoteKeyConstant:       defaults.PullRequests.RemoteName,
		pullRequestKey + configurationBaseKeyConstant:         defaults.PullRequests.BaseBranch,
		pullRequestKey + configurationStateKeyConstant:        defaults.PullRequests.State,
		pullRequestKey + configurationLimitKeyConstant:        defaults.PullRequests.Limit,
		pullRequestKey + configurationMergeMethodKeyConstant:  defaults.PullRequests.MergeMethod,
		pullRequestKey + configurationDeleteBranchKeyConstant: defaults.PullRequests.DeleteBranch,
		repositoryKey + configurationPrivateKeyConstant:       defaults.Repository.Private,
		repositoryKey + configurationRemoteKeyConstant:        defaults.Repository.RemoteName,
		repositoryKey + configurationProtocolKeyConstant:      defaults.Repository.Protocol,
	}
}

// Sanitize trims pull request configuration values and restores defaults for empty required ones.
func (configuration PullRequestConfiguration) Sanitize() PullRequestConfiguration {
	defaults := DefaultToolsConfiguration().PullRequests
	sanitized := configuration
	sanitized.RemoteName = strings.TrimSpace(configuration.RemoteName)
	if len(sanitized.RemoteName) == 0 {
		sanitized.RemoteName = defaults.RemoteName
	}
	sanitized.BaseBranch = strings.TrimSpace(configuration.BaseBranch)
	sanitized.State = strings.ToLower(strings.TrimSpace(configuration.State))
	if len(sanitized.State) == 0 {
		sanitized.State = defaults.State
	}
	if sanitized.Limit <= 0 {
		sanitized.Limit = defaults.Limit
	}
	sanitized.MergeMethod = strings.ToLower(strings.TrimSpace(configuration.MergeMethod))
	if len(sanitized.MergeMethod) == 0 {
		sanitized.MergeMethod = defaults.MergeMethod
	}
	return sanitized
}

// Sanitize trims repository configuration values and restores the default protocol.
func (configuration RepositoryConfiguration) Sanitize() RepositoryConfiguration {
	sanitized := configuration
	sanitized.RemoteName = strings.TrimSpace(configuration.RemoteName)
	sanitized.Protocol = strings.ToLower(strings.TrimSpace(configuration.Protocol))
	if len(sanitized.Protocol) == 0 {
		sanitized.Protocol = string(gitrepo.RemoteProtocolSSH)
	}
	return sanitized
}

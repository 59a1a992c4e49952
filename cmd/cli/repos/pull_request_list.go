package repos

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/hubkit/internal/githubcli"
	"github.com/temirov/hubkit/internal/ui"
)

const (
	listUseConstant              = "list"
	listShortDescription         = "List pull requests of the repository"
	listLongDescription          = "list prints the pull requests of the GitHub repository behind the remote, one per line, using gh pr list."
	listExampleConstant          = "hubkit pr list --state merged --base 1.x --limit 10"
	remoteFlagNameConstant       = "remote"
	remoteFlagDescription        = "Remote whose GitHub repository is used"
	stateFlagNameConstant        = "state"
	stateFlagDescription         = "Pull request state: open, closed, merged or all"
	baseFlagNameConstant         = "base"
	listBaseFlagDescription      = "Only list pull requests targeting this branch"
	limitFlagNameConstant        = "limit"
	limitFlagDescription         = "Maximum number of pull requests to list"
	pullRequestLineTemplate      = "#%d %s (%s -> %s)%s %s"
	draftMarkerConstant          = " [draft]"
	noPullRequestsLabelConstant  = "NO PULL REQUESTS"
	noPullRequestsDetailTemplate = "%s (%s)"
	unsupportedStateTemplate     = "unsupported pull request state %q: expected open, closed, merged or all"
)

func (builder *CommandGroupBuilder) buildListCommand() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     listUseConstant,
		Short:   listShortDescription,
		Long:    listLongDescription,
		Example: listExampleConstant,
		Args:    cobra.NoArgs,
		RunE:    builder.runList,
	}

	command.Flags().String(remoteFlagNameConstant, "", remoteFlagDescription)
	command.Flags().String(stateFlagNameConstant, "", stateFlagDescription)
	command.Flags().String(baseFlagNameConstant, "", listBaseFlagDescription)
	command.Flags().Int(limitFlagNameConstant, 0, limitFlagDescription)

	return command, nil
}

func (builder *CommandGroupBuilder) runList(command *cobra.Command, _ []string) error {
	environment, environmentError := builder.prepare(command)
	if environmentError != nil {
		return environmentError
	}

	listOptions := githubcli.PullRequestListOptions{
		State:       githubcli.PullRequestState(environment.configuration.State),
		BaseBranch:  environment.configuration.BaseBranch,
		ResultLimit: environment.configuration.Limit,
	}
	if state, _ := command.Flags().GetString(stateFlagNameConstant); len(strings.TrimSpace(state)) > 0 {
		listOptions.State = githubcli.PullRequestState(strings.ToLower(strings.TrimSpace(state)))
	}
	if baseBranch, _ := command.Flags().GetString(baseFlagNameConstant); command.Flags().Changed(baseFlagNameConstant) {
		listOptions.BaseBranch = strings.TrimSpace(baseBranch)
	}
	if limit, _ := command.Flags().GetInt(limitFlagNameConstant); limit > 0 {
		listOptions.ResultLimit = limit
	}

	switch listOptions.State {
	case githubcli.PullRequestStateOpen, githubcli.PullRequestStateClosed, githubcli.PullRequestStateMerged, githubcli.PullRequestStateAll:
	default:
		return fmt.Errorf(unsupportedStateTemplate, listOptions.State)
	}

	lister := builder.Lister
	if lister == nil {
		cliClient, cliError := githubcli.NewClient(environment.gitExecutor)
		if cliError != nil {
			return cliError
		}
		lister = cliClient
	}

	pullRequests, listError := lister.ListPullRequests(command.Context(), environment.remoteRepository.OwnerRepository(), listOptions)
	if listError != nil {
		return listError
	}

	if len(pullRequests) == 0 {
		ui.NewStyles(command.ErrOrStderr()).Notice(noPullRequestsLabelConstant, fmt.Sprintf(noPullRequestsDetailTemplate, environment.remoteRepository.OwnerRepository(), listOptions.State))
		return nil
	}

	for _, pullRequest := range pullRequests {
		draftMarker := ""
		if pullRequest.IsDraft {
			draftMarker = draftMarkerConstant
		}
		fmt.Fprintln(command.OutOrStdout(), fmt.Sprintf(pullRequestLineTemplate, pullRequest.Number, pullRequest.Title, pullRequest.HeadRefName, pullRequest.BaseRefName, draftMarker, pullRequest.URL))
	}
	return nil
}

package githubapi

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v38/github"
)

// ReleaseRequest describes a GitHub release for an existing tag.
type ReleaseRequest struct {
	Owner      string
	Repository string
	TagName    string
	Name       string
	Body       string
	Draft      bool
	Prerelease bool
}

// Release is a published GitHub release.
type Release struct {
	ID      int64
	TagName string
	HTMLURL string
	Draft   bool
}

// RepositoryRequest describes a new repository. An empty Owner creates it for the authenticated user.
type RepositoryRequest struct {
	Owner       string
	Name        string
	Description string
	Private     bool
}

// Repository is a created GitHub repository.
type Repository struct {
	FullName string
	HTMLURL  string
	CloneURL string
	SSHURL   string
	Private  bool
}

// PullRequestRequest describes a pull request to open.
type PullRequestRequest struct {
	Owner      string
	Repository string
	Title      string
	Head       string
	Base       string
	Body       string
	Draft      bool
}

// PullRequest is an opened pull request.
type PullRequest struct {
	Number  int
	HTMLURL string
	Head    string
	Base    string
}

// MergeRequest describes a pull request merge.
type MergeRequest struct {
	Owner         string
	Repository    string
	Number        int
	Method        MergeMethod
	CommitTitle   string
	CommitMessage string
	DeleteBranch  bool
}

// MergeResult reports a completed merge.
type MergeResult struct {
	SHA           string
	HeadBranch    string
	BranchDeleted bool
}

// CreateRelease publishes a release for an existing tag.
func (client *Client) CreateRelease(executionContext context.Context, request ReleaseRequest) (Release, error) {
	if inputError := requireRepository(request.Owner, request.Repository); inputError != nil {
		return Release{}, inputError
	}
	if inputError := requireValue(tagFieldNameConstant, request.TagName); inputError != nil {
		return Release{}, inputError
	}

	releaseName := request.Name
	if len(strings.TrimSpace(releaseName)) == 0 {
		releaseName = request.TagName
	}

	createdRelease, response, createError := client.client.Repositories.CreateRelease(executionContext, request.Owner, request.Repository, &github.RepositoryRelease{
		TagName:    github.String(request.TagName),
		Name:       github.String(releaseName),
		Body:       github.String(request.Body),
		Draft:      github.Bool(request.Draft),
		Prerelease: github.Bool(request.Prerelease),
	})
	if createError != nil {
		return Release{}, wrapOperationError(createReleaseOperationNameConstant, response, createError)
	}

	return Release{
		ID:      createdRelease.GetID(),
		TagName: createdRelease.GetTagName(),
		HTMLURL: createdRelease.GetHTMLURL(),
		Draft:   createdRelease.GetDraft(),
	}, nil
}

// CreateRepository creates a repository for the authenticated user or, when Owner names someone else, for that organization.
func (client *Client) CreateRepository(executionContext context.Context, request RepositoryRequest) (Repository, error) {
	if inputError := requireValue(repositoryFieldNameConstant, request.Name); inputError != nil {
		return Repository{}, inputError
	}

	organization, organizationError := client.organizationFor(executionContext, request.Owner)
	if organizationError != nil {
		return Repository{}, organizationError
	}

	createdRepository, response, createError := client.client.Repositories.Create(executionContext, organization, &github.Repository{
		Name:        github.String(request.Name),
		Description: github.String(request.Description),
		Private:     github.Bool(request.Private),
	})
	if createError != nil {
		return Repository{}, wrapOperationError(createRepositoryOperationNameConstant, response, createError)
	}

	return Repository{
		FullName: createdRepository.GetFullName(),
		HTMLURL:  createdRepository.GetHTMLURL(),
		CloneURL: createdRepository.GetCloneURL(),
		SSHURL:   createdRepository.GetSSHURL(),
		Private:  createdRepository.GetPrivate(),
	}, nil
}

// CreatePullRequest opens a pull request from Head into Base.
func (client *Client) CreatePullRequest(executionContext context.Context, request PullRequestRequest) (PullRequest, error) {
	if inputError := requireRepository(request.Owner, request.Repository); inputError != nil {
		return PullRequest{}, inputError
	}
	requiredFields := [][2]string{
		{titleFieldNameConstant, request.Title},
		{headFieldNameConstant, request.Head},
		{baseFieldNameConstant, request.Base},
	}
	for _, requiredField := range requiredFields {
		if inputError := requireValue(requiredField[0], requiredField[1]); inputError != nil {
			return PullRequest{}, inputError
		}
	}

	createdPullRequest, response, createError := client.client.PullRequests.Create(executionContext, request.Owner, request.Repository, &github.NewPullRequest{
		Title: github.String(request.Title),
		Head:  github.String(request.Head),
		Base:  github.String(request.Base),
		Body:  github.String(request.Body),
		Draft: github.Bool(request.Draft),
	})
	if createError != nil {
		return PullRequest{}, wrapOperationError(createPullRequestOperationNameConstant, response, createError)
	}

	return PullRequest{
		Number:  createdPullRequest.GetNumber(),
		HTMLURL: createdPullRequest.GetHTMLURL(),
		Head:    createdPullRequest.GetHead().GetRef(),
		Base:    createdPullRequest.GetBase().GetRef(),
	}, nil
}

// MergePullRequest merges a pull request and optionally deletes its head branch when it lives in the same repository.
func (client *Client) MergePullRequest(executionContext context.Context, request MergeRequest) (MergeResult, error) {
	if inputError := requireRepository(request.Owner, request.Repository); inputError != nil {
		return MergeResult{}, inputError
	}
	if request.Number <= 0 {
		return MergeResult{}, InvalidInputError{FieldName: numberFieldNameConstant, Message: requiredValueMessageConstant}
	}

	mergeMethod := request.Method
	switch mergeMethod {
	case "":
		mergeMethod = MergeMethodMerge
	case MergeMethodMerge, MergeMethodSquash, MergeMethodRebase:
	default:
		return MergeResult{}, InvalidInputError{FieldName: mergeMethodFieldNameConstant, Message: unsupportedMergeMethodMessageConstant}
	}

	pullRequest, getResponse, getError := client.client.PullRequests.Get(executionContext, request.Owner, request.Repository, request.Number)
	if getError != nil {
		return MergeResult{}, wrapOperationError(getPullRequestOperationNameConstant, getResponse, getError)
	}

	mergeResult, mergeResponse, mergeError := client.client.PullRequests.Merge(executionContext, request.Owner, request.Repository, request.Number, request.CommitMessage, &github.PullRequestOptions{
		CommitTitle: request.CommitTitle,
		SHA:         pullRequest.GetHead().GetSHA(),
		MergeMethod: string(mergeMethod),
	})
	if mergeError != nil {
		return MergeResult{}, wrapOperationError(mergePullRequestOperationNameConstant, mergeResponse, mergeError)
	}
	if !mergeResult.GetMerged() {
		return MergeResult{}, OperationError{Operation: mergePullRequestOperationNameConstant, Cause: fmt.Errorf(pullRequestNotMergedTemplateConstant, request.Number, mergeResult.GetMessage())}
	}

	result := MergeResult{SHA: mergeResult.GetSHA(), HeadBranch: pullRequest.GetHead().GetRef()}
	sameRepository := pullRequest.GetHead().GetRepo().GetFullName() == pullRequest.GetBase().GetRepo().GetFullName()
	if request.DeleteBranch && sameRepository && len(result.HeadBranch) > 0 {
		deleteResponse, deleteError := client.client.Git.DeleteRef(executionContext, request.Owner, request.Repository, fmt.Sprintf(branchReferenceTemplateConstant, result.HeadBranch))
		if deleteError != nil {
			return result, wrapOperationError(deleteBranchOperationNameConstant, deleteResponse, deleteError)
		}
		result.BranchDeleted = true
	}
	return result, nil
}

func (client *Client) organizationFor(executionContext context.Context, owner string) (string, error) {
	trimmedOwner := strings.TrimSpace(owner)
	if len(trimmedOwner) == 0 {
		return "", nil
	}
	authenticatedUser, response, userError := client.client.Users.Get(executionContext, "")
	if userError != nil {
		return "", wrapOperationError(authenticatedUserOperationNameConstant, response, userError)
	}
	if strings.EqualFold(authenticatedUser.GetLogin(), trimmedOwner) {
		return "", nil
	}
	return trimmedOwner, nil
}

package githubapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v38/github"
	"golang.org/x/oauth2"
)

const (
	tokenRequiredMessageConstant           = "GitHub token must be provided"
	invalidInputErrorTemplateConstant      = "%s: %s"
	requiredValueMessageConstant           = "value required"
	operationErrorTemplateConstant         = "%s operation failed: %s"
	operationStatusErrorTemplateConstant   = "%s operation failed with HTTP %d: %s"
	enterpriseClientErrorTemplateConstant  = "failed to configure GitHub API base URL %q: %w"
	ownerFieldNameConstant                 = "owner"
	repositoryFieldNameConstant            = "repository"
	tagFieldNameConstant                   = "tag"
	titleFieldNameConstant                 = "title"
	headFieldNameConstant                  = "head"
	baseFieldNameConstant                  = "base"
	numberFieldNameConstant                = "number"
	mergeMethodFieldNameConstant           = "merge_method"
	branchReferenceTemplateConstant        = "heads/%s"
	createReleaseOperationNameConstant     = OperationName("CreateRelease")
	createRepositoryOperationNameConstant  = OperationName("CreateRepository")
	createPullRequestOperationNameConstant = OperationName("CreatePullRequest")
	mergePullRequestOperationNameConstant  = OperationName("MergePullRequest")
	getPullRequestOperationNameConstant    = OperationName("GetPullRequest")
	deleteBranchOperationNameConstant      = OperationName("DeleteBranch")
	authenticatedUserOperationNameConstant = OperationName("AuthenticatedUser")
	unsupportedMergeMethodMessageConstant  = "must be merge, squash or rebase"
	pullRequestNotMergedTemplateConstant   = "pull request #%d was not merged: %s"
)

// ErrTokenRequired indicates the client was constructed without a token.
var ErrTokenRequired = errors.New(tokenRequiredMessageConstant)

// OperationName identifies a GitHub API workflow.
type OperationName string

// MergeMethod selects how a pull request is merged.
type MergeMethod string

// Merge methods accepted by GitHub.
const (
	MergeMethodMerge  MergeMethod = "merge"
	MergeMethodSquash MergeMethod = "squash"
	MergeMethodRebase MergeMethod = "rebase"
)

// InvalidInputError surfaces validation issues for operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// OperationError wraps a failed API call. StatusCode is zero when no HTTP response was received.
type OperationError struct {
	Operation  OperationName
	StatusCode int
	Cause      error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	if operationError.StatusCode != 0 {
		return fmt.Sprintf(operationStatusErrorTemplateConstant, operationError.Operation, operationError.StatusCode, operationError.Cause)
	}
	return fmt.Sprintf(operationErrorTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// ClientOptions configure NewClient. An empty BaseURL targets github.com; HTTPClient overrides the transport under the OAuth2 layer.
type ClientOptions struct {
	Token      string
	BaseURL    string
	HTTPClient *http.Client
}

// Client wraps go-github with hubkit's inputs and errors.
type Client struct {
	client *github.Client
}

// NewClient constructs an authenticated Client.
func NewClient(executionContext context.Context, options ClientOptions) (*Client, error) {
	token := strings.TrimSpace(options.Token)
	if len(token) == 0 {
		return nil, ErrTokenRequired
	}
	if executionContext == nil {
		executionContext = context.Background()
	}
	if options.HTTPClient != nil {
		executionContext = context.WithValue(executionContext, oauth2.HTTPClient, options.HTTPClient)
	}

	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	authenticatedHTTPClient := oauth2.NewClient(executionContext, tokenSource)

	baseURL := strings.TrimSpace(options.BaseURL)
	if len(baseURL) == 0 {
		return &Client{client: github.NewClient(authenticatedHTTPClient)}, nil
	}

	enterpriseClient, enterpriseError := github.NewEnterpriseClient(baseURL, baseURL, authenticatedHTTPClient)
	if enterpriseError != nil {
		return nil, fmt.Errorf(enterpriseClientErrorTemplateConstant, baseURL, enterpriseError)
	}
	return &Client{client: enterpriseClient}, nil
}

func wrapOperationError(operation OperationName, response *github.Response, cause error) error {
	operationError := OperationError{Operation: operation, Cause: cause}
	if response != nil && response.Response != nil {
		operationError.StatusCode = response.StatusCode
	}
	return operationError
}

func requireValue(fieldName string, value string) error {
	if len(strings.TrimSpace(value)) == 0 {
		return InvalidInputError{FieldName: fieldName, Message: requiredValueMessageConstant}
	}
	return nil
}

func requireRepository(owner string, repository string) error {
	if ownerError := requireValue(ownerFieldNameConstant, owner); ownerError != nil {
		return ownerError
	}
	return requireValue(repositoryFieldNameConstant, repository)
}

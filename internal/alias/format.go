package alias

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	aliasTemplateConstant                 = "%s.%s-dev"
	invalidAliasFormatTemplateConstant    = "invalid branch alias %q: expected <major>.<minor>, for example 1.0"
	promptInputPatternConstant            = `^v?(\d+)\.(\d+)$`
	manifestDevSuffixPatternConstant      = `^(\d+)\.(\d+)-dev$`
	manifestWildcardSuffixPatternConstant = `^(\d+)\.(\d+)\.x-dev$`
	manifestDevPrefixPatternConstant      = `^dev-(\d+)\.(\d+)$`
)

var (
	promptInputPattern = regexp.MustCompile(promptInputPatternConstant)
	manifestPatterns   = []*regexp.Regexp{
		regexp.MustCompile(manifestDevSuffixPatternConstant),
		regexp.MustCompile(manifestWildcardSuffixPatternConstant),
		regexp.MustCompile(manifestDevPrefixPatternConstant),
	}
)

// InvalidAliasFormatError reports a value that is not a <major>.<minor> alias.
type InvalidAliasFormatError struct {
	Value string
}

// Error describes the expected format.
func (formatError InvalidAliasFormatError) Error() string {
	return fmt.Sprintf(invalidAliasFormatTemplateConstant, formatError.Value)
}

// ParseAliasInput turns user input such as 1.0 or v1.0 into 1.0-dev.
func ParseAliasInput(value string) (string, error) {
	trimmedValue := strings.TrimSpace(value)
	matches := promptInputPattern.FindStringSubmatch(trimmedValue)
	if matches == nil {
		return "", InvalidAliasFormatError{Value: trimmedValue}
	}
	return fmt.Sprintf(aliasTemplateConstant, matches[1], matches[2]), nil
}

// NormalizeManifestAlias accepts 1.0-dev, 1.0.x-dev and dev-1.0 and returns 1.0-dev.
func NormalizeManifestAlias(value string) (string, error) {
	trimmedValue := strings.TrimSpace(value)
	for _, pattern := range manifestPatterns {
		if matches := pattern.FindStringSubmatch(trimmedValue); matches != nil {
			return fmt.Sprintf(aliasTemplateConstant, matches[1], matches[2]), nil
		}
	}
	return "", InvalidAliasFormatError{Value: trimmedValue}
}

// NormalizeAlias accepts user input and manifest forms alike.
func NormalizeAlias(value string) (string, error) {
	if normalized, inputError := ParseAliasInput(value); inputError == nil {
		return normalized, nil
	}
	return NormalizeManifestAlias(value)
}

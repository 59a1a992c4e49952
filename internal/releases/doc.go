// Package releases tags a validated semantic version on a compatible, synchronized branch and publishes it on GitHub.
package releases

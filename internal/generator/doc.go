// Package generator renders the environment-definition file (a Dockerfile)
// written by "forage-wt init".
//
// The generated file declares the build arguments and secrets that
// provisioning supplies:
//
//	ARG USERNAME       unprivileged user that sessions attach as
//	ARG GIT_CONFIG     contents of the host git config
//	secret gh_token    auth token, readable only during RUN steps that mount it
//
// Example:
//
//	text, err := generator.RenderDockerfile(generator.FromConfig("ubuntu:24.04", cfg))
package generator

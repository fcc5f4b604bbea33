package internal

import (
	"fmt"
	"runtime"
	"strings"
)

// Name of the tool, used for log prefixes, path segments, and the
// environment variable namespace.
const Name = "debvet"

const (

	// Placeholder for build variables the linker did not fill in.
	undefined = "(undefined)"

	// Version string reported by builds made outside the pipeline.
	localBuild = "(local)"
)

// Filled in through -ldflags by pipeline builds; all empty in local ones.
var (
	version   = ""
	stage     = ""
	gitCommit = ""
)

// Reports the version number, lowercased and with any leading "v" removed.
// Falls back to "(undefined)" when the build did not set one.
func Version() string {
	v := strings.ToLower(strings.TrimSpace(version))
	if v == "" {
		return undefined
	}
	return strings.TrimPrefix(v, "v")
}

// Reports the build stage, which matches the git branch the pipeline built
// from. Lowercased; "(undefined)" when unset.
func Stage() string {
	s := strings.TrimSpace(stage)
	if s == "" {
		return undefined
	}
	return strings.ToLower(s)
}

// Reports the git commit hash baked into the build, or "(undefined)" when
// unset.
func GitCommit() string {
	if c := strings.TrimSpace(gitCommit); c != "" {
		return c
	}
	return undefined
}

// Reports the architecture this binary was compiled for.
func Arch() string {
	return runtime.GOARCH
}

// Reports whether this binary was built outside the release pipeline. A
// single empty build variable marks the build as local; the pipeline always
// sets all three.
func IsLocal() bool {
	for _, v := range []string{version, gitCommit, stage} {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

// Renders the full version line, "<version>[+<stage>] <commit> [<arch>]".
// Builds from the main branch omit the stage suffix; local builds collapse
// to "(local)".
func VersionString() string {
	if IsLocal() {
		return localBuild
	}

	suffix := ""
	if s := Stage(); s != "main" {
		suffix = "+" + s
	}

	return fmt.Sprintf("%s%s %s [%s]", Version(), suffix, GitCommit(), Arch())
}

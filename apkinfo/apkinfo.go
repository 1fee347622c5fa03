package apkinfo

import (
	"fmt"
	"regexp"

	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
)

var packageNamePattern = regexp.MustCompile(`(?m)^package: name='([^']+)'`)

// ApkInfo describes a test APK and the jar holding its compiled test classes.
type ApkInfo struct {
	ApkPath     string
	JarPath     string
	PackageName string
}

// Provider ...
type Provider interface {
	New(apkPath, jarPath string) (ApkInfo, error)
}

type provider struct {
	logger         log.Logger
	commandFactory command.Factory
	pathChecker    pathutil.PathChecker
}

// NewProvider ...
func NewProvider(logger log.Logger, commandFactory command.Factory, pathChecker pathutil.PathChecker) Provider {
	return &provider{
		logger:         logger,
		commandFactory: commandFactory,
		pathChecker:    pathChecker,
	}
}

// New reads the package name of the APK with aapt.
func (p provider) New(apkPath, jarPath string) (ApkInfo, error) {
	exists, err := p.pathChecker.IsPathExists(apkPath)
	if err != nil {
		return ApkInfo{}, fmt.Errorf("failed to check if test APK exists: %w", err)
	}
	if !exists {
		return ApkInfo{}, fmt.Errorf("test APK not found: %s", apkPath)
	}

	if jarExists, err := p.pathChecker.IsPathExists(jarPath); err != nil || !jarExists {
		p.logger.Debugf("Test jar not found at %s", jarPath)
	}

	cmd := p.commandFactory.Create("aapt", []string{"dump", "badging", apkPath}, nil)
	p.logger.Debugf("$ %s", cmd.PrintableCommandArgs())

	out, err := cmd.RunAndReturnTrimmedCombinedOutput()
	if err != nil {
		return ApkInfo{}, fmt.Errorf("failed to dump APK badging: %w, output: %s", err, out)
	}

	packageName, err := parsePackageName(out)
	if err != nil {
		return ApkInfo{}, fmt.Errorf("%s: %w", apkPath, err)
	}

	return ApkInfo{
		ApkPath:     apkPath,
		JarPath:     jarPath,
		PackageName: packageName,
	}, nil
}

func parsePackageName(badging string) (string, error) {
	match := packageNamePattern.FindStringSubmatch(badging)
	if len(match) != 2 {
		return "", fmt.Errorf("no package name in aapt output")
	}
	return match[1], nil
}

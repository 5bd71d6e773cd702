// Package catalog builds an Assets.car file out of a structured icon
// design directory (a .icon bundle) by shelling out to actool, and reads
// the application icon name back with assetutil.
//
// The compiler is an optional packaging path: a missing, unversioned or
// outdated actool results in ErrUnavailable, which callers holding a flat
// image fallback should report as a warning only.
package catalog

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"golang.org/x/mod/semver"
)

// ArtifactName is the file name of the compiled asset catalog.
const ArtifactName = "Assets.car"

// DefaultMinVersion is the oldest actool release able to compile .icon bundles.
const DefaultMinVersion = "26.0"

const versionPrefix = "short-bundle-version:"

var (
	// ErrUnavailable is returned when actool is missing, its version
	// cannot be determined or is older than the required one.
	ErrUnavailable = errors.New("asset catalog compiler unavailable")
	// ErrNoCatalog is returned when no .icon directory or .car file is given.
	ErrNoCatalog = errors.New("no icon catalog provided")
	// ErrNotDirectory is returned when a .icon source is a plain file.
	ErrNotDirectory = errors.New("icon catalog must be a directory")
	// ErrCompileFailed is returned when actool exits with an error.
	ErrCompileFailed = errors.New("asset catalog compilation failed")
	// ErrArtifactMissing is returned when actool succeeds without producing Assets.car.
	ErrArtifactMissing = errors.New("actool did not generate " + ArtifactName)
)

// Compiler compiles the first usable catalog source into Assets.car.
type Compiler struct {
	// Paths lists icon sources; only .icon directories and .car files are considered.
	Paths []string
	// Actool and Assetutil override the tool executables.
	Actool    string
	Assetutil string
	// MinVersion is the minimum accepted actool short bundle version.
	MinVersion string
}

func (c *Compiler) actool() string {
	if c.Actool != "" {
		return c.Actool
	}
	return "actool"
}

func (c *Compiler) assetutil() string {
	if c.Assetutil != "" {
		return c.Assetutil
	}
	return "assetutil"
}

func (c *Compiler) minVersion() string {
	if c.MinVersion != "" {
		return c.MinVersion
	}
	return DefaultMinVersion
}

// Bundle writes Assets.car into outDir. A precompiled .car source is
// copied as it is, otherwise the last .icon directory is compiled.
func (c *Compiler) Bundle(ctx context.Context, outDir string) (string, error) {
	var iconDir string
	for _, p := range c.Paths {
		switch strings.ToLower(filepath.Ext(p)) {
		case ".car":
			return copyFile(p, filepath.Join(outDir, ArtifactName))
		case ".icon":
			iconDir = p
		}
	}
	if iconDir == "" {
		return "", ErrNoCatalog
	}

	if err := c.CheckVersion(ctx); err != nil {
		return "", err
	}
	return c.Compile(ctx, iconDir, outDir)
}

// CheckVersion fails with ErrUnavailable unless actool is installed in at
// least the minimum version.
func (c *Compiler) CheckVersion(ctx context.Context) error {
	out, err := run(ctx, c.actool(), "--version", "--output-format=human-readable-text")
	if err != nil {
		return errors.Wrapf(ErrUnavailable, "failed to get actool version: %v", err)
	}
	version, ok := ParseVersion(string(out))
	if !ok {
		return errors.Wrap(ErrUnavailable, "failed to parse actool version")
	}
	if !AtLeast(version, c.minVersion()) {
		return errors.Wrapf(ErrUnavailable, "actool version %s is older than %s, please update Xcode", version, c.minVersion())
	}
	return nil
}

// Compile runs actool on a copy of the .icon directory and copies the
// generated Assets.car into outDir.
func (c *Compiler) Compile(ctx context.Context, iconDir, outDir string) (string, error) {
	fi, err := os.Stat(iconDir)
	if err != nil {
		return "", err
	}
	if !fi.IsDir() {
		return "", errors.Wrap(ErrNotDirectory, iconDir)
	}

	tmp, err := os.MkdirTemp("", "icnspack-actool")
	if err != nil {
		return "", errors.Wrap(err, "failed to create temp dir")
	}
	defer os.RemoveAll(tmp)

	src := filepath.Join(tmp, "Icon.icon")
	if err := os.CopyFS(src, os.DirFS(iconDir)); err != nil {
		return "", errors.Wrapf(err, "copying %s", iconDir)
	}
	out := filepath.Join(tmp, "out")
	if err := os.MkdirAll(out, 0755); err != nil {
		return "", err
	}

	if _, err := run(ctx, c.actool(), compileArgs(src, out)...); err != nil {
		return "", errors.Wrap(ErrCompileFailed, err.Error())
	}

	car := filepath.Join(out, ArtifactName)
	if _, err := os.Stat(car); err != nil {
		return "", ErrArtifactMissing
	}
	return copyFile(car, filepath.Join(outDir, ArtifactName))
}

func compileArgs(src, out string) []string {
	return []string{
		src,
		"--compile", out,
		"--output-format", "human-readable-text",
		"--notices",
		"--warnings",
		"--output-partial-info-plist", filepath.Join(out, "assetcatalog_generated_info.plist"),
		"--app-icon", "Icon",
		"--include-all-app-icons",
		"--accent-color", "AccentColor",
		"--enable-on-demand-resources", "NO",
		"--development-region", "en",
		"--target-device", "mac",
		"--minimum-deployment-target", "26.0",
		"--platform", "macosx",
	}
}

// AppIconName returns the name of the application icon stored in an
// Assets.car file, as reported by assetutil.
func (c *Compiler) AppIconName(ctx context.Context, carPath string) (string, error) {
	out, err := run(ctx, c.assetutil(), "--info", carPath)
	if err != nil {
		return "", errors.Wrap(err, "failed to get app icon name from "+ArtifactName)
	}
	return IconNameFromInfo(out)
}

// IconNameFromInfo extracts the name of the first "Icon Image" asset
// from the JSON printed by assetutil --info.
func IconNameFromInfo(info []byte) (string, error) {
	if !gjson.ValidBytes(info) {
		return "", errors.New("failed to parse " + ArtifactName + " info")
	}
	name := gjson.GetBytes(info, `#(AssetType=="Icon Image").Name`)
	if !name.Exists() {
		return "", errors.New("no app icon found in " + ArtifactName)
	}
	return name.String(), nil
}

// ParseVersion finds the short bundle version in the output of
// actool --version, for example "26.1".
func ParseVersion(output string) (string, bool) {
	sc := bufio.NewScanner(strings.NewReader(output))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if v, ok := strings.CutPrefix(line, versionPrefix); ok {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

// AtLeast reports whether version is equal to or newer than min. Versions
// which are not of the form major[.minor[.patch]] never qualify.
func AtLeast(version, min string) bool {
	v, m := "v"+version, "v"+min
	if !semver.IsValid(v) || !semver.IsValid(m) {
		return false
	}
	return semver.Compare(v, m) >= 0
}

// run executes a tool and returns its standard output. The error carries
// the standard error output of the tool.
func run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, errors.Errorf("%s: %v: %s", filepath.Base(name), err, msg)
		}
		return nil, errors.Errorf("%s: %v", filepath.Base(name), err)
	}
	return stdout.Bytes(), nil
}

func copyFile(src, dst string) (string, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return "", err
	}
	return dst, nil
}

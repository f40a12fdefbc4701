// Package repository locates a scan target's project root and, when it
// lives inside a git checkout, its remote origin, branch, and commit --
// independent of and prior to any language-specific analysis. Adapted from
// the project/repository detector used elsewhere in this lineage, extended
// here with direct .git/HEAD parsing for the snapshot's git context fields.
package repository

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/viant/afs"
	"golang.org/x/mod/modfile"
)

// Project describes the innermost language-specific project containing a
// scanned file.
type Project struct {
	Name         string
	Type         string
	RootPath     string
	RelativePath string
}

// Repository describes the version-control (or, failing that, project)
// root containing a scanned file.
type Repository struct {
	Kind   string
	Root   string
	Origin string
	Branch string
	Commit string
	Info   *Project
}

// Detector identifies project root folders and provides project metadata.
type Detector struct {
	markers []string
}

// New creates a detector using the conventional marker file set.
func New() *Detector {
	return &Detector{
		markers: []string{
			"go.mod", "pom.xml", "build.gradle", "package.json",
			"composer.json", "Cargo.toml", "pyproject.toml",
			"requirements.txt", "Gemfile", ".git",
		},
	}
}

// DetectProject identifies the innermost project root for filePath.
func (d *Detector) DetectProject(filePath string, baseURL ...string) (*Project, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, err
	}

	startDir := absPath
	fileInfo, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if !fileInfo.IsDir() {
		startDir = filepath.Dir(absPath)
	}

	rootPath, projectType := d.findProjectRoot(startDir)

	info := &Project{Type: "unknown", RootPath: absPath}
	if rootPath == "" && len(baseURL) > 0 && baseURL[0] != "" {
		info.RootPath = baseURL[0]
	} else if rootPath != "" {
		info.RootPath = rootPath
		info.Type = projectType
	}

	relPath, err := filepath.Rel(info.RootPath, absPath)
	if err != nil {
		relPath = filepath.Base(absPath)
	}
	info.RelativePath = filepath.ToSlash(relPath)

	if projectType != "" {
		info.Name = d.extractProjectName(rootPath, projectType)
	}
	return info, nil
}

// DetectRepository identifies the repository (git or otherwise) containing
// filePath, populating git context when a .git directory is found.
func (d *Detector) DetectRepository(filePath string) (*Repository, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, err
	}

	startDir := absPath
	fileInfo, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if !fileInfo.IsDir() {
		startDir = filepath.Dir(absPath)
	}

	if gitRoot := d.findGitRoot(startDir); gitRoot != "" {
		repo := &Repository{Kind: "git", Root: gitRoot}
		repo.Origin = d.extractGitOrigin(gitRoot)
		repo.Branch, repo.Commit = readGitHead(gitRoot)
		if info, err := d.DetectProject(filePath); err == nil {
			repo.Info = info
		}
		return repo, nil
	}

	info, err := d.DetectProject(filePath)
	if err != nil {
		return nil, err
	}
	return &Repository{Kind: info.Type, Root: info.RootPath, Info: info}, nil
}

func (d *Detector) findProjectRoot(startDir string) (string, string) {
	dir := startDir
	for {
		for _, marker := range d.markers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, determineProjectType(marker)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", ""
}

func (d *Detector) findGitRoot(startDir string) string {
	dir := startDir
	homeDir := os.Getenv("HOME")
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		if homeDir == parent {
			return ""
		}
		dir = parent
	}
	return ""
}

func (d *Detector) extractGitOrigin(gitRoot string) string {
	configPath := filepath.Join(gitRoot, ".git", "config")
	file, err := os.Open(configPath)
	if err != nil {
		return ""
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	foundRemote := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.Contains(line, `[remote "origin"]`) {
			foundRemote = true
			continue
		}
		if foundRemote && strings.HasPrefix(line, "url = ") {
			return strings.TrimPrefix(line, "url = ")
		}
	}
	return ""
}

// readGitHead reads .git/HEAD and, if it points at a branch ref, the
// corresponding packed or loose ref file, without shelling out to git.
func readGitHead(gitRoot string) (branch, commit string) {
	headPath := filepath.Join(gitRoot, ".git", "HEAD")
	data, err := os.ReadFile(headPath)
	if err != nil {
		return "", ""
	}
	head := strings.TrimSpace(string(data))

	const refPrefix = "ref: "
	if !strings.HasPrefix(head, refPrefix) {
		// Detached HEAD: the file itself holds the commit sha.
		return "", head
	}
	ref := strings.TrimPrefix(head, refPrefix)
	branch = strings.TrimPrefix(ref, "refs/heads/")

	if data, err := os.ReadFile(filepath.Join(gitRoot, ".git", ref)); err == nil {
		return branch, strings.TrimSpace(string(data))
	}

	packed, err := os.ReadFile(filepath.Join(gitRoot, ".git", "packed-refs"))
	if err != nil {
		return branch, ""
	}
	for _, line := range strings.Split(string(packed), "\n") {
		if strings.HasSuffix(line, " "+ref) {
			return branch, strings.TrimSpace(strings.Fields(line)[0])
		}
	}
	return branch, ""
}

func (d *Detector) extractProjectName(rootPath, projectType string) string {
	switch projectType {
	case "go":
		return extractGoModuleName(filepath.Join(rootPath, "go.mod"))
	case "javascript":
		return extractJSPackageName(filepath.Join(rootPath, "package.json"))
	case "java":
		if name := extractMavenProjectName(filepath.Join(rootPath, "pom.xml")); name != "" {
			return name
		}
		return extractGradleProjectName(filepath.Join(rootPath, "build.gradle"))
	case "python":
		if name := extractPyProjectName(filepath.Join(rootPath, "pyproject.toml")); name != "" {
			return name
		}
		return extractPythonPackageName(rootPath)
	case "rust":
		return extractCargoProjectName(filepath.Join(rootPath, "Cargo.toml"))
	case "git":
		return extractGitProjectName(rootPath)
	default:
		return filepath.Base(rootPath)
	}
}

func extractGoModuleName(goModPath string) string {
	fs := afs.New()
	if content, _ := fs.DownloadWithURL(context.Background(), goModPath); len(content) > 0 {
		if mod, _ := modfile.Parse(goModPath, content, nil); mod != nil {
			return mod.Module.Mod.Path
		}
	}
	data, err := os.ReadFile(goModPath)
	if err != nil {
		return filepath.Base(filepath.Dir(goModPath))
	}
	matches := regexp.MustCompile(`module\s+([^\s]+)`).FindSubmatch(data)
	if len(matches) < 2 {
		return filepath.Base(filepath.Dir(goModPath))
	}
	return string(matches[1])
}

func extractJSPackageName(packageJSONPath string) string {
	data, err := os.ReadFile(packageJSONPath)
	if err != nil {
		return filepath.Base(filepath.Dir(packageJSONPath))
	}
	matches := regexp.MustCompile(`"name"\s*:\s*"([^"]+)"`).FindSubmatch(data)
	if len(matches) < 2 {
		return filepath.Base(filepath.Dir(packageJSONPath))
	}
	return string(matches[1])
}

func extractMavenProjectName(pomPath string) string {
	data, err := os.ReadFile(pomPath)
	if err != nil {
		return ""
	}
	matches := regexp.MustCompile(`<artifactId>([^<]+)</artifactId>`).FindSubmatch(data)
	if len(matches) < 2 {
		return ""
	}
	return string(matches[1])
}

func extractGradleProjectName(gradlePath string) string {
	data, err := os.ReadFile(gradlePath)
	if err != nil {
		return filepath.Base(filepath.Dir(gradlePath))
	}
	matches := regexp.MustCompile(`(?:rootProject|project)\.name\s*=\s*['"]([^'"]+)['"]`).FindSubmatch(data)
	if len(matches) < 2 {
		return filepath.Base(filepath.Dir(gradlePath))
	}
	return string(matches[1])
}

func extractPyProjectName(pyprojectPath string) string {
	data, err := os.ReadFile(pyprojectPath)
	if err != nil {
		return ""
	}
	matches := regexp.MustCompile(`(?:tool\.poetry|project)\.name\s*=\s*["']([^"']+)["']`).FindSubmatch(data)
	if len(matches) < 2 {
		return ""
	}
	return string(matches[1])
}

func extractPythonPackageName(rootPath string) string {
	setupPath := filepath.Join(rootPath, "setup.py")
	if data, err := os.ReadFile(setupPath); err == nil {
		matches := regexp.MustCompile(`name\s*=\s*["']([^"']+)["']`).FindSubmatch(data)
		if len(matches) >= 2 {
			return string(matches[1])
		}
	}
	return filepath.Base(rootPath)
}

func extractCargoProjectName(cargoPath string) string {
	data, err := os.ReadFile(cargoPath)
	if err != nil {
		return filepath.Base(filepath.Dir(cargoPath))
	}
	matches := regexp.MustCompile(`\[package\](?:.|\n)*?name\s*=\s*["']([^"']+)["']`).FindSubmatch(data)
	if len(matches) < 2 {
		return filepath.Base(filepath.Dir(cargoPath))
	}
	return string(matches[1])
}

func extractGitProjectName(gitRoot string) string {
	configPath := filepath.Join(gitRoot, ".git", "config")
	if file, err := os.Open(configPath); err == nil {
		defer file.Close()
		scanner := bufio.NewScanner(file)
		foundRemote := false
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if strings.Contains(line, `[remote "origin"]`) {
				foundRemote = true
				continue
			}
			if foundRemote && strings.HasPrefix(line, "url = ") {
				url := strings.TrimSuffix(strings.TrimPrefix(line, "url = "), ".git")
				parts := strings.Split(url, "/")
				if len(parts) > 0 {
					return parts[len(parts)-1]
				}
				break
			}
		}
	}
	return filepath.Base(gitRoot)
}

func determineProjectType(marker string) string {
	switch marker {
	case "go.mod":
		return "go"
	case "pom.xml", "build.gradle":
		return "java"
	case "package.json":
		return "javascript"
	case "Cargo.toml":
		return "rust"
	case "pyproject.toml", "requirements.txt":
		return "python"
	case "Gemfile":
		return "ruby"
	case "composer.json":
		return "php"
	case ".git":
		return "git"
	default:
		return "unknown"
	}
}

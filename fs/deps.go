package fs

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alqudimi/deepdoc"
	"github.com/beevik/etree"
	"github.com/joho/godotenv"
	"golang.org/x/mod/modfile"
)

// manifestParsers are tried in order against files in the project root.
var manifestParsers = []struct {
	file      string
	ecosystem string
	parse     func(data []byte) ([]deepdoc.Dependency, error)
}{
	{"go.mod", "go", ParseGoMod},
	{"package.json", "npm", ParsePackageJSON},
	{"requirements.txt", "pip", ParseRequirements},
	{"pom.xml", "maven", ParsePOM},
}

// envFiles are checked in order; the first one present is used.
var envFiles = []string{".env.example", ".env.sample", ".env"}

// ParseDependencies reads the dependency manifests and the environment file
// in the root of a project. Manifests that fail to parse are skipped and
// reported in the joined error; the returned info is nil only if nothing was
// found.
func ParseDependencies(root string) (*deepdoc.DependencyInfo, error) {
	info := &deepdoc.DependencyInfo{}
	var errs []error

	for _, p := range manifestParsers {
		data, err := os.ReadFile(filepath.Join(root, p.file))
		if errors.Is(err, os.ErrNotExist) {
			continue
		} else if err != nil {
			errs = append(errs, fmt.Errorf("read %s: %w", p.file, err))
			continue
		}
		deps, err := p.parse(data)
		if err != nil {
			errs = append(errs, fmt.Errorf("parse %s: %w", p.file, err))
			continue
		}
		info.Manifests = append(info.Manifests, deepdoc.Manifest{
			Path:         p.file,
			Ecosystem:    p.ecosystem,
			Dependencies: deps,
		})
	}

	for _, name := range envFiles {
		data, err := os.ReadFile(filepath.Join(root, name))
		if err != nil {
			continue
		}
		names, err := ParseEnvNames(data)
		if err != nil {
			errs = append(errs, fmt.Errorf("parse %s: %w", name, err))
			break
		}
		info.EnvVars = names
		info.EnvVarsFile = name
		break
	}

	if info.Empty() {
		return nil, errors.Join(errs...)
	}
	return info, errors.Join(errs...)
}

// ParseGoMod returns the direct requirements of a go.mod file.
func ParseGoMod(data []byte) ([]deepdoc.Dependency, error) {
	f, err := modfile.Parse("go.mod", data, nil)
	if err != nil {
		return nil, err
	}
	deps := make([]deepdoc.Dependency, 0, len(f.Require))
	for _, r := range f.Require {
		if r.Indirect {
			continue
		}
		deps = append(deps, deepdoc.Dependency{Name: r.Mod.Path, Version: r.Mod.Version})
	}
	return deps, nil
}

// ParsePackageJSON returns the runtime and development dependencies of a
// package.json file, each group sorted by name.
func ParsePackageJSON(data []byte) ([]deepdoc.Dependency, error) {
	var pkg struct {
		Dependencies         map[string]string `json:"dependencies"`
		DevDependencies      map[string]string `json:"devDependencies"`
		PeerDependencies     map[string]string `json:"peerDependencies"`
		OptionalDependencies map[string]string `json:"optionalDependencies"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, err
	}

	var deps []deepdoc.Dependency
	add := func(m map[string]string, dev bool) {
		names := make([]string, 0, len(m))
		for name := range m {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			deps = append(deps, deepdoc.Dependency{Name: name, Version: m[name], Dev: dev})
		}
	}
	add(pkg.Dependencies, false)
	add(pkg.PeerDependencies, false)
	add(pkg.OptionalDependencies, false)
	add(pkg.DevDependencies, true)
	return deps, nil
}

// ParseRequirements returns the packages listed in a pip requirements file.
// Options, includes and comments are ignored.
func ParseRequirements(data []byte) ([]deepdoc.Dependency, error) {
	var deps []deepdoc.Dependency
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := sc.Text()
		if i := strings.Index(line, " #"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		if i := strings.IndexByte(line, ';'); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}

		name, version := line, ""
		if i := strings.IndexAny(line, "=<>!~"); i >= 0 {
			name, version = strings.TrimSpace(line[:i]), strings.TrimSpace(line[i:])
		}
		if i := strings.IndexByte(name, '['); i >= 0 {
			name = name[:i]
		}
		if name == "" {
			continue
		}
		deps = append(deps, deepdoc.Dependency{Name: name, Version: version})
	}
	return deps, sc.Err()
}

// ParsePOM returns the dependencies declared directly under the project
// element of a Maven pom.xml. Test scoped dependencies are marked Dev.
func ParsePOM(data []byte) ([]deepdoc.Dependency, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	project := doc.SelectElement("project")
	if project == nil {
		return nil, deepdoc.Errorf(deepdoc.EINVALID, "pom.xml has no project element")
	}

	var deps []deepdoc.Dependency
	for _, dep := range project.FindElements("./dependencies/dependency") {
		group, artifact := childText(dep, "groupId"), childText(dep, "artifactId")
		if artifact == "" {
			continue
		}
		name := artifact
		if group != "" {
			name = group + ":" + artifact
		}
		deps = append(deps, deepdoc.Dependency{
			Name:    name,
			Version: childText(dep, "version"),
			Dev:     childText(dep, "scope") == "test",
		})
	}
	return deps, nil
}

func childText(e *etree.Element, tag string) string {
	if c := e.SelectElement(tag); c != nil {
		return strings.TrimSpace(c.Text())
	}
	return ""
}

// ParseEnvNames returns the sorted variable names declared in a dotenv
// file. Values are never returned.
func ParseEnvNames(data []byte) ([]string, error) {
	env, err := godotenv.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(env))
	for name := range env {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

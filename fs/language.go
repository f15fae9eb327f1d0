package fs

import (
	"path"
	"sort"
	"strings"

	"github.com/alqudimi/deepdoc"
)

var languageExtensions = []struct {
	language   string
	extensions []string
}{
	{"Python", []string{".py", ".pyw"}},
	{"JavaScript", []string{".js", ".mjs", ".cjs", ".jsx"}},
	{"TypeScript", []string{".ts", ".tsx"}},
	{"Java", []string{".java"}},
	{"C++", []string{".cpp", ".cc", ".cxx", ".hpp"}},
	{"C", []string{".c", ".h"}},
	{"C#", []string{".cs"}},
	{"Go", []string{".go"}},
	{"Rust", []string{".rs"}},
	{"Ruby", []string{".rb"}},
	{"PHP", []string{".php"}},
	{"Swift", []string{".swift"}},
	{"Kotlin", []string{".kt", ".kts"}},
	{"Scala", []string{".scala"}},
	{"Shell", []string{".sh", ".bash", ".zsh"}},
	{"SQL", []string{".sql"}},
	{"HTML", []string{".html", ".htm"}},
	{"CSS", []string{".css", ".scss", ".sass", ".less"}},
	{"YAML", []string{".yaml", ".yml"}},
	{"JSON", []string{".json"}},
	{"Markdown", []string{".md", ".markdown"}},
	{"XML", []string{".xml"}},
}

var languages = func() map[string]string {
	m := make(map[string]string)
	for _, l := range languageExtensions {
		for _, ext := range l.extensions {
			m[ext] = l.language
		}
	}
	return m
}()

// LanguageFor returns the language of the file at p, or "" if the extension
// is not recognized.
func LanguageFor(p string) string {
	return languages[strings.ToLower(path.Ext(p))]
}

type indicator struct {
	framework string
	names     []string
}

// fileIndicators name project files that only one framework uses.
var fileIndicators = []indicator{
	{"Django", []string{"manage.py"}},
	{"Vue", []string{"vue.config.js", "nuxt.config.js"}},
	{"Angular", []string{"angular.json"}},
	{"Next.js", []string{"next.config.js", "next.config.mjs", "next.config.ts"}},
	{"Spring", []string{"build.gradle", "build.gradle.kts"}},
	{"Rails", []string{"config/application.rb"}},
}

// dependencyIndicators name declared dependencies that imply a framework.
var dependencyIndicators = []indicator{
	{"React", []string{"react"}},
	{"Express", []string{"express"}},
	{"Vue", []string{"vue", "nuxt"}},
	{"Angular", []string{"@angular/core"}},
	{"Next.js", []string{"next"}},
	{"Django", []string{"django", "Django"}},
	{"Flask", []string{"flask", "Flask"}},
	{"FastAPI", []string{"fastapi"}},
	{"Gin", []string{"github.com/gin-gonic/gin"}},
	{"Echo", []string{"github.com/labstack/echo/v4"}},
	{"Spring", []string{"org.springframework.boot:spring-boot-starter", "org.springframework.boot:spring-boot-starter-web"}},
	{"Rails", []string{"rails"}},
}

// DetectFrameworks returns the sorted frameworks indicated by the scanned
// paths and the declared dependencies.
func DetectFrameworks(paths map[string]bool, deps *deepdoc.DependencyInfo) []string {
	found := make(map[string]bool)
	for _, ind := range fileIndicators {
		for _, f := range ind.names {
			if paths[f] {
				found[ind.framework] = true
			}
		}
	}

	declared := make(map[string]bool)
	if deps != nil {
		for _, m := range deps.Manifests {
			for _, d := range m.Dependencies {
				declared[d.Name] = true
			}
		}
	}
	for _, ind := range dependencyIndicators {
		for _, n := range ind.names {
			if declared[n] {
				found[ind.framework] = true
			}
		}
	}

	out := make([]string, 0, len(found))
	for f := range found {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

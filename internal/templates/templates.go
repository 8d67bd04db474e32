// Package templates holds named exclusion presets.
package templates

import (
	"sort"

	"github.com/temirov/sanity/internal/utils"
)

const (
	AndroidTemplateName = "Android"
	WebTemplateName     = "Web"
	PythonTemplateName  = "Python"
)

// Template is a named pair of exclusion lists.
type Template struct {
	Name         string
	ExcludeDirs  []string
	ExcludeFiles []string
}

// BuiltIn returns fresh copies of the presets shipped with the binary, in display order.
func BuiltIn() []Template {
	return []Template{
		{
			Name:         AndroidTemplateName,
			ExcludeDirs:  []string{"build", "gradle", ".gradle", ".idea", "captures"},
			ExcludeFiles: []string{".DS_Store", ".gitignore", ".pro", "*.iml", "gradlew", "gradlew.bat"},
		},
		{
			Name:         WebTemplateName,
			ExcludeDirs:  []string{"node_modules", "dist", ".cache", "build"},
			ExcludeFiles: []string{".DS_Store", "package-lock.json"},
		},
		{
			Name:         PythonTemplateName,
			ExcludeDirs:  []string{"__pycache__", ".pytest_cache", "venv", "env"},
			ExcludeFiles: []string{".DS_Store", "*.pyc"},
		},
	}
}

// Registry resolves template names. A user template named like a built-in replaces it.
type Registry struct {
	byName map[string]Template
	order  []string
}

// NewRegistry combines the built-ins with userDefined. User-only names follow the
// built-ins in lexical order.
func NewRegistry(userDefined []Template) *Registry {
	registry := &Registry{byName: map[string]Template{}}
	for _, template := range BuiltIn() {
		registry.byName[template.Name] = template
		registry.order = append(registry.order, template.Name)
	}

	var additional []string
	for _, template := range userDefined {
		if template.Name == "" {
			continue
		}
		if _, exists := registry.byName[template.Name]; !exists && !utils.ContainsString(additional, template.Name) {
			additional = append(additional, template.Name)
		}
		registry.byName[template.Name] = cloneTemplate(template)
	}
	sort.Strings(additional)
	registry.order = append(registry.order, additional...)
	return registry
}

// Lookup returns the template registered under name. Names are case sensitive.
func (registry *Registry) Lookup(name string) (Template, bool) {
	template, found := registry.byName[name]
	if !found {
		return Template{}, false
	}
	return cloneTemplate(template), true
}

func (registry *Registry) Names() []string {
	return append([]string(nil), registry.order...)
}

// Templates returns every template in display order.
func (registry *Registry) Templates() []Template {
	result := make([]Template, 0, len(registry.order))
	for _, name := range registry.order {
		result = append(result, cloneTemplate(registry.byName[name]))
	}
	return result
}

// Merge appends user exclusions to the template's and removes duplicates, keeping the
// first occurrence of each pattern.
func Merge(template Template, extraDirs []string, extraFiles []string) ([]string, []string) {
	directories := append(append([]string{}, template.ExcludeDirs...), extraDirs...)
	files := append(append([]string{}, template.ExcludeFiles...), extraFiles...)
	return utils.DeduplicatePatterns(directories), utils.DeduplicatePatterns(files)
}

func cloneTemplate(template Template) Template {
	return Template{
		Name:         template.Name,
		ExcludeDirs:  append([]string{}, template.ExcludeDirs...),
		ExcludeFiles: append([]string{}, template.ExcludeFiles...),
	}
}

// Package i18n resolves translation keys against per-namespace resource
// bundles. A bundle is assembled from the resources of several classes, so a
// subclass inherits the translations of its ancestors and may override them.
package i18n

import (
	"regexp"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// Translator is the translation capability controllers consume.
type Translator interface {
	// Language returns the active language
	Language() string

	// HasBundle reports whether a bundle was built for namespace
	HasBundle(namespace string) bool

	// Resources returns the translations declared by a class
	Resources(class string) (map[string]string, bool)

	// AddBundle merges entries into the bundle of namespace, overriding
	// existing keys
	AddBundle(namespace string, entries map[string]string)

	// T translates key within namespace, interpolating "{{name}}" with vars.
	// An unknown key translates to itself.
	T(namespace, key string, vars map[string]any) string
}

// placeholder matches "{{name}}" in resource texts. Texts are rewritten to
// the "{{.name}}" form go-i18n templates expect.
var placeholder = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// catalog holds the bundle of one language.
type catalog struct {
	bundle     *i18n.Bundle
	localizer  *i18n.Localizer
	namespaces map[string]bool
	// variables lists the placeholders of each message
	variables map[string][]string
}

// Memory is an in-memory Translator backed by go-i18n bundles, one per
// language.
type Memory struct {
	mu        sync.RWMutex
	language  string
	resources map[string]map[string]map[string]string
	catalogs  map[string]*catalog
}

// NewMemory creates a translator for language
func NewMemory(lang string) *Memory {
	return &Memory{
		language:  lang,
		resources: make(map[string]map[string]map[string]string),
		catalogs:  make(map[string]*catalog),
	}
}

// Language returns the active language
func (m *Memory) Language() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.language
}

// SetLanguage switches the active language
func (m *Memory) SetLanguage(lang string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.language = lang
}

// AddResources declares the translations of class in language.
func (m *Memory) AddResources(lang, class string, entries map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byClass, ok := m.resources[lang]
	if !ok {
		byClass = make(map[string]map[string]string)
		m.resources[lang] = byClass
	}
	if byClass[class] == nil {
		byClass[class] = make(map[string]string, len(entries))
	}
	for k, v := range entries {
		byClass[class][k] = v
	}
}

// Resources returns the translations declared by class in the active
// language.
func (m *Memory) Resources(class string) (map[string]string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries, ok := m.resources[m.language][class]
	return entries, ok
}

// HasBundle reports whether a bundle exists for namespace in the active
// language.
func (m *Memory) HasBundle(namespace string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.catalogs[m.language]
	return ok && c.namespaces[namespace]
}

// AddBundle merges entries into the bundle of namespace.
func (m *Memory) AddBundle(namespace string, entries map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.catalog(m.language)
	c.namespaces[namespace] = true
	tag := language.Make(m.language)
	for key, text := range entries {
		id := messageID(namespace, key)
		var names []string
		for _, match := range placeholder.FindAllStringSubmatch(text, -1) {
			names = append(names, match[1])
		}
		c.variables[id] = names
		// AddMessages only fails on an invalid message, and every message
		// here carries an id and a text.
		_ = c.bundle.AddMessages(tag, &i18n.Message{
			ID:    id,
			Other: placeholder.ReplaceAllString(text, "{{.$1}}"),
		})
	}
}

// T translates key within namespace. Placeholders without a value render
// empty.
func (m *Memory) T(namespace, key string, vars map[string]any) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.catalogs[m.language]
	if !ok {
		return key
	}

	id := messageID(namespace, key)
	data := make(map[string]any, len(vars))
	for _, name := range c.variables[id] {
		data[name] = ""
	}
	for k, v := range vars {
		data[k] = v
	}
	text, err := c.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil && text == "" {
		return key
	}
	return text
}

func (m *Memory) catalog(lang string) *catalog {
	c, ok := m.catalogs[lang]
	if !ok {
		bundle := i18n.NewBundle(language.Make(lang))
		c = &catalog{
			bundle:     bundle,
			localizer:  i18n.NewLocalizer(bundle, lang),
			namespaces: make(map[string]bool),
			variables:  make(map[string][]string),
		}
		m.catalogs[lang] = c
	}
	return c
}

func messageID(namespace, key string) string {
	return namespace + ":" + key
}

package service

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/language"

	"leoga-storefront/models"
)

// LocaleService resolves dotted keys like "facets.color.title" against per-language JSON files
type LocaleService struct {
	fallback     language.Tag
	tags         []language.Tag
	matcher      language.Matcher
	translations map[language.Tag]map[string]any
}

// NewLocaleService loads every <lang>.json file in dir.
// fallback is used when a request matches no loaded language.
func NewLocaleService(dir string, fallback string) (*LocaleService, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list locales: %w", err)
	}

	bundles := make(map[string]map[string]any)
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read locale %s: %w", file, err)
		}
		var tree map[string]any
		if err := json.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("failed to parse locale %s: %w", file, err)
		}
		bundles[strings.TrimSuffix(filepath.Base(file), ".json")] = tree
	}

	svc, err := NewLocaleServiceFromMaps(bundles, fallback)
	if err != nil {
		return nil, err
	}
	log.Printf("✓ Loaded %d locales from %s", len(bundles), dir)
	return svc, nil
}

// NewLocaleServiceFromMaps builds a LocaleService from decoded translation trees keyed by language
func NewLocaleServiceFromMaps(bundles map[string]map[string]any, fallback string) (*LocaleService, error) {
	fallbackTag, err := language.Parse(fallback)
	if err != nil {
		return nil, fmt.Errorf("invalid fallback language %q: %w", fallback, err)
	}

	names := make([]string, 0, len(bundles))
	for name := range bundles {
		names = append(names, name)
	}
	sort.Strings(names)

	// the fallback goes first so the matcher prefers it on a miss
	tags := []language.Tag{fallbackTag}
	translations := make(map[language.Tag]map[string]any)
	for _, name := range names {
		tag, err := language.Parse(name)
		if err != nil {
			log.Printf("⚠️  Skipping locale %s: %v", name, err)
			continue
		}
		translations[tag] = bundles[name]
		if tag != fallbackTag {
			tags = append(tags, tag)
		}
	}

	return &LocaleService{
		fallback:     fallbackTag,
		tags:         tags,
		matcher:      language.NewMatcher(tags),
		translations: translations,
	}, nil
}

// Match picks the best loaded language for an explicit lang parameter or an Accept-Language header
func (s *LocaleService) Match(lang, acceptLanguage string) language.Tag {
	var desired []language.Tag
	if lang != "" {
		if tag, err := language.Parse(lang); err == nil {
			desired = append(desired, tag)
		}
	}
	if acceptLanguage != "" {
		if tags, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil {
			desired = append(desired, tags...)
		}
	}
	if len(desired) == 0 {
		return s.fallback
	}
	_, index, confidence := s.matcher.Match(desired...)
	if confidence == language.No {
		return s.fallback
	}
	return s.tags[index]
}

// T returns the translation of a dotted key, or the key itself when missing
func (s *LocaleService) T(tag language.Tag, key string) string {
	var node any = s.translations[tag]
	for _, part := range strings.Split(key, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return key
		}
		node = m[part]
	}
	if str, ok := node.(string); ok && str != "" {
		return str
	}
	return key
}

// LabelFacets attaches localized labels to a facet schema
func (s *LocaleService) LabelFacets(tag language.Tag, facets []models.Facet) []models.FacetLabel {
	labels := make([]models.FacetLabel, 0, len(facets))
	for _, facet := range facets {
		label := models.FacetLabel{
			Name:   facet.Name,
			Label:  s.T(tag, "facets."+facet.Name+".title"),
			Values: make([]models.ValueLabel, 0, len(facet.Values)),
		}
		for _, value := range facet.Values {
			label.Values = append(label.Values, models.ValueLabel{
				Value: value,
				Label: s.T(tag, "facets."+facet.Name+"."+value),
			})
		}
		labels = append(labels, label)
	}
	return labels
}

package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"leoga-storefront/models"
)

func setupLocales(t *testing.T) *LocaleService {
	t.Helper()
	svc, err := NewLocaleService(filepath.Join("..", "locales"), "zh")
	require.NoError(t, err)
	return svc
}

func TestLocaleServiceMatch(t *testing.T) {
	svc := setupLocales(t)

	assert.Equal(t, language.English, svc.Match("en", ""))
	assert.Equal(t, language.English, svc.Match("", "en-GB,en;q=0.8"))
	assert.Equal(t, language.Chinese, svc.Match("", "zh-CN"))
	assert.Equal(t, language.Chinese, svc.Match("", ""))
	assert.Equal(t, language.English, svc.Match("en", "zh-CN"), "explicit lang wins")
}

func TestLocaleServiceT(t *testing.T) {
	svc := setupLocales(t)

	assert.Equal(t, "Houndstooth", svc.T(language.English, "facets.pattern.houndstooth"))
	assert.Equal(t, "千鸟格", svc.T(language.Chinese, "facets.pattern.houndstooth"))
	assert.Equal(t, "facets.pattern.paisley", svc.T(language.English, "facets.pattern.paisley"))
	assert.Equal(t, "facets.pattern", svc.T(language.English, "facets.pattern"), "non-leaf keys fall back")
}

func TestLocaleServiceLabelFacets(t *testing.T) {
	svc := setupLocales(t)

	labels := svc.LabelFacets(language.English, []models.Facet{{Name: "color", Values: []string{"blue", "teal"}}})
	require.Len(t, labels, 1)
	assert.Equal(t, "Color", labels[0].Label)
	assert.Equal(t, []models.ValueLabel{{Value: "blue", Label: "Blue"}, {Value: "teal", Label: "facets.color.teal"}}, labels[0].Values)
}

func TestLocaleServiceBadFallback(t *testing.T) {
	_, err := NewLocaleServiceFromMaps(map[string]map[string]any{}, "not a tag!")
	assert.Error(t, err)
}

package pages

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"avqa/internal/catalog"
)

func TestIsFareSelectionText(t *testing.T) {
	matches := []string{
		"Seleccionar tarifa",
		"Seleccionar de tarifa",
		"Choose fare",
		"Select fare",
		"Choisir le tarif",
		"Selecionar tarifa",
		"CHOOSE FARE",
	}
	for _, text := range matches {
		assert.True(t, IsFareSelectionText(text), "text %q", text)
	}

	misses := []string{"", "Continuar", "desde COP 123.456", "Ver detalles"}
	for _, text := range misses {
		assert.False(t, IsFareSelectionText(text), "text %q", text)
	}
}

func TestExpectedTarget(t *testing.T) {
	opt := &catalog.Option{
		Key:                 "equipaje",
		ExpectedURLContains: []string{"equipaje", "baggage", "bagages", "bagagem"},
		LanguageExceptions:  map[string]string{"Français": "info-y-ayuda"},
	}
	assert.Equal(t, []string{"equipaje", "baggage", "bagages", "bagagem"}, ExpectedTarget(opt, "Español"))
	assert.Equal(t, []string{"equipaje", "baggage", "bagages", "bagagem"}, ExpectedTarget(opt, ""))
	assert.Equal(t, []string{"info-y-ayuda"}, ExpectedTarget(opt, "Français"))
}

func TestContainsAny(t *testing.T) {
	fragments := []string{"equipaje", "baggage", "bagages", "bagagem"}
	assert.True(t, ContainsAny("https://nuxqa4.avtest.ink/en/travel-info/baggage/", fragments))
	assert.True(t, ContainsAny("https://nuxqa4.avtest.ink/es/informacion-y-ayuda/equipaje/", fragments))
	assert.False(t, ContainsAny("https://nuxqa4.avtest.ink/es/ofertas-destinos/", fragments))
	assert.False(t, ContainsAny("https://nuxqa4.avtest.ink/", nil))
}

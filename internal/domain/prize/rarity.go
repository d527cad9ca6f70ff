package prize

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jhoicas/gacha-api/internal/domain"
)

// Tier un nivel de rareza: aplica a probabilidades <= MaxProbability.
type Tier struct {
	Name           string
	MaxProbability float64
}

// RarityClassifier asigna un nivel de rareza a una probabilidad (0–100).
// Los umbrales vienen de configuración; el clasificador no guarda estado y es total:
// cualquier probabilidad por encima del último umbral cae en el nivel más común.
type RarityClassifier struct {
	tiers []Tier // ascendente por MaxProbability (más raro primero)
}

// NewRarityClassifier valida y ordena la tabla de umbrales.
func NewRarityClassifier(tiers []Tier) (*RarityClassifier, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("rareza: tabla de umbrales vacía: %w", domain.ErrInvalidInput)
	}
	sorted := make([]Tier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].MaxProbability < sorted[j].MaxProbability })
	seen := make(map[string]bool, len(sorted))
	for i, t := range sorted {
		if t.Name == "" {
			return nil, fmt.Errorf("rareza: nivel sin nombre: %w", domain.ErrInvalidInput)
		}
		if seen[t.Name] {
			return nil, fmt.Errorf("rareza: nivel %q duplicado: %w", t.Name, domain.ErrInvalidInput)
		}
		seen[t.Name] = true
		if i > 0 && t.MaxProbability == sorted[i-1].MaxProbability {
			return nil, fmt.Errorf("rareza: umbral %v repetido: %w", t.MaxProbability, domain.ErrInvalidInput)
		}
	}
	return &RarityClassifier{tiers: sorted}, nil
}

// Classify devuelve el nombre del nivel para p.
func (c *RarityClassifier) Classify(p float64) string {
	for _, t := range c.tiers {
		if p <= t.MaxProbability {
			return t.Name
		}
	}
	return c.tiers[len(c.tiers)-1].Name
}

// Tiers copia de la tabla, del más raro al más común.
func (c *RarityClassifier) Tiers() []Tier {
	out := make([]Tier, len(c.tiers))
	copy(out, c.tiers)
	return out
}

// ParseTiers interpreta "SSR:1,SR:5,R:15,N:100".
func ParseTiers(s string) ([]Tier, error) {
	var tiers []Tier
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, raw, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("rareza: %q sin ':': %w", part, domain.ErrInvalidInput)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("rareza: umbral inválido en %q: %w", part, domain.ErrInvalidInput)
		}
		tiers = append(tiers, Tier{Name: strings.TrimSpace(name), MaxProbability: v})
	}
	return tiers, nil
}

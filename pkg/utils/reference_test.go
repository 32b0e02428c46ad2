package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateEstimateReference(t *testing.T) {
	tests := []struct {
		name       string
		commodity  string
		vesselName string
		pattern    string
	}{
		{"commodity and vessel", "Soybeans", "OCEAN PIONEER", `^SOYBEANS-OCEAN-PIONEER-[0-9a-f]{8}$`},
		{"punctuation collapses", "Iron Ore", "m/v  Cape  Horizon", `^IRON-ORE-M-V-CAPE-HORIZON-[0-9a-f]{8}$`},
		{"missing vessel", "Corn", "", `^CORN-[0-9a-f]{8}$`},
		{"nothing known", " ", "", `^[0-9a-f]{8}$`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := GenerateEstimateReference(tt.commodity, tt.vesselName)
			assert.Regexp(t, regexp.MustCompile(tt.pattern), ref)
		})
	}
}

func TestGenerateEstimateReference_Unique(t *testing.T) {
	assert.NotEqual(t,
		GenerateEstimateReference("Soybeans", "OCEAN PIONEER"),
		GenerateEstimateReference("Soybeans", "OCEAN PIONEER"))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "", slugify(""))
	assert.Equal(t, "SÃO-PAULO", slugify("são paulo"))
	assert.Equal(t, "A-1", slugify("--a 1--"))
}

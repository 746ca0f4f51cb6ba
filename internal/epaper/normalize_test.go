package epaper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"epaperhub/pkg/models"
)

func validRawPage() models.RawPage {
	return models.RawPage{
		PageNo:          "1",
		HighResolution:  `epaper\2024\06\21\page1.jpg`,
		XHighResolution: `epaper\2024\06\21\page1_x.jpg`,
		EditionDate:     "21/06/2024",
		EditionName:     "Khammam",
		EditionID:       "5",
		PageID:          "5001",
	}
}

func TestNormalizeEntry(t *testing.T) {
	got, err := NormalizeEntry(validRawPage(), "vaartha")
	require.NoError(t, err)

	assert.Equal(t, models.Edition{
		Path:           "epaper/2024/06/21/page1.jpg",
		EditionDate:    "21/06/2024",
		EditionName:    "vaartha Khammam",
		MobEditionName: "Khammam",
		EditionID:      5,
		PageID:         "5001",
		Date:           "21-06-2024",
		Source:         "vaartha",
	}, got)
}

func TestNormalizeEntry_IsPure(t *testing.T) {
	p := validRawPage()
	first, err := NormalizeEntry(p, "vaartha")
	require.NoError(t, err)
	second, err := NormalizeEntry(p, "vaartha")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, validRawPage(), p, "input must not be mutated")
}

func TestNormalizeEntry_NumericEditionIDOnWire(t *testing.T) {
	p := validRawPage()
	p.EditionID = "42" // arrives as a bare number from some publishers
	got, err := NormalizeEntry(p, "andhrajyothy")
	require.NoError(t, err)
	assert.Equal(t, 42, got.EditionID)
}

func TestNormalizeEntry_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.RawPage)
	}{
		{"no HighResolution", func(p *models.RawPage) { p.HighResolution = "" }},
		{"no EditionDate", func(p *models.RawPage) { p.EditionDate = "" }},
		{"no EditionName", func(p *models.RawPage) { p.EditionName = "" }},
		{"no PageId", func(p *models.RawPage) { p.PageID = "" }},
		{"non-numeric EditionID", func(p *models.RawPage) { p.EditionID = "five" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validRawPage()
			tt.mutate(&p)
			_, err := NormalizeEntry(p, "vaartha")
			assert.Error(t, err)
		})
	}
}

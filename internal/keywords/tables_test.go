package keywords

import (
	"os"
	"path/filepath"
	"testing"

	"stylelens/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTables(t *testing.T) {
	tables, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8, tables.ItemWeight)
	assert.NotEmpty(t, tables.Signals)
	require.Len(t, tables.Categories, 6)
	assert.Equal(t, model.CategoryEthnicWear, tables.Categories[0].Name)
	assert.Equal(t, model.CategoryPartyWear, tables.Categories[5].Name)

	assert.True(t, tables.IsNeutral(model.CategoryFootwear))
	assert.True(t, tables.IsNeutral(model.CategoryAccessories))
	assert.False(t, tables.IsNeutral(model.CategoryEthnicWear))

	label, ok := tables.Label(model.PolarityFemale)
	require.True(t, ok)
	assert.Equal(t, "Women's", label.Prefix)
	_, ok = tables.Label(model.PolarityUnisex)
	assert.False(t, ok)
}

func TestDefaultItemListsAreDisjoint(t *testing.T) {
	tables := Default()
	for _, w := range tables.Items(model.PolarityMale).Words() {
		assert.False(t, tables.Items(model.PolarityFemale).Contains(w), w)
	}
}

func TestCategoryOf(t *testing.T) {
	tables := Default()

	tests := []struct {
		text string
		want model.Category
	}{
		{"formal shirts", model.CategoryFormalWear},
		{"silk saree with blouse", model.CategoryEthnicWear},
		{"red silk party dress for a wedding", model.CategoryPartyWear},
		{"trendy sneakers", model.CategoryFootwear},
		{"something nice", model.CategoryFashion},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, _ := tables.CategoryOf(tt.text)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategoryTieGoesToEarlierTable(t *testing.T) {
	tables, err := New(Spec{
		Categories: []CategorySpec{
			{Name: model.CategoryEthnicWear, Keywords: []string{"kurta"}},
			{Name: model.CategoryWesternWear, Keywords: []string{"jeans"}},
		},
	})
	require.NoError(t, err)

	got, hits := tables.CategoryOf("kurta with jeans")
	assert.Equal(t, model.CategoryEthnicWear, got)
	assert.Equal(t, 1, hits)
}

func TestNewRejectsInvalidTables(t *testing.T) {
	categories := []CategorySpec{{Name: model.CategoryFootwear, Keywords: []string{"shoe"}}}

	tests := []struct {
		name    string
		spec    Spec
		wantErr error
	}{
		{
			name:    "no categories",
			spec:    Spec{},
			wantErr: ErrInvalidTables,
		},
		{
			name: "overlapping items",
			spec: Spec{
				Categories: categories,
				Items:      PolarityWords{Male: []string{"Kurta"}, Female: []string{"kurta "}},
			},
			wantErr: ErrOverlappingItems,
		},
		{
			name: "zero weight",
			spec: Spec{
				Categories: categories,
				Signals:    []model.GenderSignal{{Term: "men", Weight: 0, Polarity: model.PolarityMale}},
			},
			wantErr: ErrInvalidTables,
		},
		{
			name: "unknown polarity",
			spec: Spec{
				Categories: categories,
				Signals:    []model.GenderSignal{{Term: "men", Weight: 5, Polarity: "other"}},
			},
			wantErr: ErrInvalidTables,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.spec)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	data := []byte(`
categories:
  - name: footwear
    keywords: [shoe]
signals:
  - {term: "for him", weight: 15, polarity: male}
marketplaces: [Example.COM]
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	tables, err := Load(path)
	require.NoError(t, err)
	require.Len(t, tables.Signals, 1)
	assert.Equal(t, model.PolarityMale, tables.Signals[0].Polarity)
	assert.True(t, tables.IsMarketplace("https://www.example.com/p/1"))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

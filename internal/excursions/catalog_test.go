package excursions

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleCatalog = `
excursions:
  - id: "101"
    category: Горы
    name: Роза Хутор
    description: Канатная дорога и смотровые площадки
    price: 3500
    photo: https://example.com/roza.jpg
    popular: true
    available: true
  - id: "102"
    category: Водопады
    name: 33 водопада
    description: Прогулка по ущелью Джегош
    price: 2200
    available: false
  - id: "103"
    category: Горы
    name: Гора Ахун
    description: Башня и Орлиные скалы
    price: 1800
    available: true
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)

	require.Equal(t, []string{"Водопады", "Горы"}, c.Categories())

	mountains := c.ByCategory("Горы")
	require.Len(t, mountains, 2)
	require.Equal(t, "Роза Хутор", mountains[0].Name)
	require.Equal(t, "Гора Ахун", mountains[1].Name)

	e, err := c.ByID("102")
	require.NoError(t, err)
	require.Equal(t, "33 водопада", e.Name)
	require.False(t, e.Available)
	require.Empty(t, e.Photo)

	_, err = c.ByID("999")
	require.ErrorIs(t, err, ErrNotFound)

	require.Empty(t, c.ByCategory("Море"))
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("excursions:\n  - id: \"1\"\n    name: x\n"))
	require.Error(t, err)

	_, err = Parse([]byte("excursions:\n  - {id: \"1\", category: a, name: x}\n  - {id: \"1\", category: b, name: y}\n"))
	require.ErrorContains(t, err, "duplicate id")

	_, err = Parse([]byte("excursions: [oops"))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "excursions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o644))

	c, err := Load(path, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, c.Categories(), 2)
}

func TestLoad_MissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), zap.NewNop())
	require.NoError(t, err)
	require.Empty(t, c.Categories())
}

func TestLoad_BundledCatalog(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "data", "excursions.yaml"), zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, []string{"Горы", "Море", "Природа"}, c.Categories())

	ritsa, err := c.ByID("2")
	require.NoError(t, err)
	require.Equal(t, "Озеро Рица", ritsa.Name)
	require.False(t, must(c.ByID("5")).Available)
}

func must(e Excursion, err error) Excursion {
	if err != nil {
		panic(err)
	}
	return e
}

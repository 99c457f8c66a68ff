package otquery

import (
	"errors"
	"math"
	"testing"

	"github.com/npillmayer/fontsys/internal/fonttest"
	"github.com/npillmayer/fontsys/ot"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/sfnt"
)

func variableFont(avar ...[][2]float64) fonttest.Builder {
	b := fonttest.Regular("Variable Sans")
	b.Axes = []fonttest.Axis{
		{Tag: "wght", Min: 100, Default: 400, Max: 900, Name: "Weight"},
		{Tag: "wdth", Min: 50, Default: 100, Max: 200, Name: "Width", Hidden: true},
	}
	b.Instances = []fonttest.Instance{
		{Name: "Light", Coords: []float64{300, 100}},
		{Name: "Bold Condensed", Coords: []float64{700, 75}},
	}
	b.AvarMaps = avar
	return b
}

func readVariations(t *testing.T, b fonttest.Builder) Variations {
	t.Helper()
	v, err := ReadVariations(parseFont(t, b.SFNT()))
	require.NoError(t, err)
	return v
}

func TestVariationAxes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.otquery")
	defer teardown()
	//
	v := readVariations(t, variableFont())
	require.True(t, v.IsVariable())
	require.Len(t, v.Axes, 2)
	wght, ok := v.Axis(ot.T("wght"))
	require.True(t, ok)
	assert.Equal(t, 100.0, wght.Min)
	assert.Equal(t, 400.0, wght.Default)
	assert.Equal(t, 900.0, wght.Max)
	assert.Equal(t, sfnt.NameID(256), wght.NameID)
	assert.Equal(t, "Weight", wght.Name)
	assert.False(t, wght.Hidden)
	wdth, ok := v.Axis(ot.T("wdth"))
	require.True(t, ok)
	assert.True(t, wdth.Hidden)
	_, ok = v.Axis(ot.T("opsz"))
	assert.False(t, ok)
	//
	require.Len(t, v.Instances, 2)
	assert.Equal(t, "Bold Condensed", v.Instances[1].Name)
	assert.Equal(t, []float64{700, 75}, v.Instances[1].Coords)
	assert.Equal(t, sfnt.NameID(0xffff), v.Instances[1].PostScriptNameID)
	//
	static := readVariations(t, fonttest.Regular("Static"))
	assert.False(t, static.IsVariable())
}

func TestNormalize(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.otquery")
	defer teardown()
	//
	v := readVariations(t, variableFont())
	for value, expected := range map[float64]float64{
		400: 0, 900: 1, 100: -1, 650: 0.5, 250: -0.5,
	} {
		n, err := v.Normalize(ot.T("wght"), value)
		require.NoError(t, err)
		assert.InDelta(t, expected, n, 1e-9, "wght=%g", value)
	}
	n, err := v.Normalize(ot.T("wdth"), 150)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, n, 1e-9)
}

func TestNormalizeOutOfRange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.otquery")
	defer teardown()
	//
	v := readVariations(t, variableFont())
	_, err := v.Normalize(ot.T("wght"), 950)
	require.Error(t, err)
	assert.ErrorIs(t, err, ot.AxisOutOfRange)
	var perr *ot.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, ot.T("wght"), perr.Axis)
	assert.Equal(t, 950.0, perr.Value)
	assert.Equal(t, 900.0, perr.Bound)
	assert.Contains(t, err.Error(), "wght")
	//
	_, err = v.Normalize(ot.T("wght"), 50)
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 100.0, perr.Bound)
	//
	_, err = v.Normalize(ot.T("opsz"), 12)
	assert.ErrorIs(t, err, ot.AxisOutOfRange)
	//
	n, err := v.Normalize(ot.T("wght"), math.NaN())
	require.Error(t, err)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, ot.AxisOutOfRange)
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, ot.T("wght"), perr.Axis)
	assert.Contains(t, err.Error(), "wght")
}

func TestNormalizeWithAvar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.otquery")
	defer teardown()
	//
	b := variableFont(
		[][2]float64{{-1, -1}, {0, 0}, {0.5, 0.8}, {1, 1}},
		[][2]float64{{-1, -1}, {0, 0}, {1, 1}},
	)
	v := readVariations(t, b)
	for value, expected := range map[float64]float64{
		400: 0, 650: 0.8, 900: 1, 775: 0.9, 250: -0.5,
	} {
		n, err := v.Normalize(ot.T("wght"), value)
		require.NoError(t, err)
		assert.InDelta(t, expected, n, 1e-3, "wght=%g", value)
	}
}

func TestAvarClampsOutsideMappedRange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.otquery")
	defer teardown()
	//
	b := variableFont(
		[][2]float64{{0, 0}, {0.5, 0.75}},
		[][2]float64{},
	)
	v := readVariations(t, b)
	n, err := v.Normalize(ot.T("wght"), 900)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, n, 1e-3)
	n, err = v.Normalize(ot.T("wght"), 100)
	require.NoError(t, err)
	assert.InDelta(t, 0, n, 1e-3)
	// empty segment map is the identity
	n, err = v.Normalize(ot.T("wdth"), 200)
	require.NoError(t, err)
	assert.InDelta(t, 1, n, 1e-9)
}

func TestNormalizeAll(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.otquery")
	defer teardown()
	//
	v := readVariations(t, variableFont())
	coords, err := v.NormalizeAll(map[ot.Tag]float64{ot.T("wght"): 900})
	require.NoError(t, err)
	assert.Equal(t, map[ot.Tag]float64{ot.T("wght"): 1, ot.T("wdth"): 0}, coords)
	_, err = v.NormalizeAll(map[ot.Tag]float64{ot.T("wdth"): 300})
	assert.ErrorIs(t, err, ot.AxisOutOfRange)
	_, err = v.NormalizeAll(map[ot.Tag]float64{ot.T("opsz"): 12})
	assert.ErrorIs(t, err, ot.AxisOutOfRange)
	_, err = v.NormalizeAll(map[ot.Tag]float64{ot.T("wdth"): math.NaN()})
	assert.ErrorIs(t, err, ot.AxisOutOfRange)
}

func TestMalformedVariationTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsys.otquery")
	defer teardown()
	//
	// avar with an axis count not matching fvar is ignored
	b := variableFont([][2]float64{{-1, -1}, {0, 0}, {1, 1}})
	v, err := ReadVariations(parseFont(t, b.SFNT()))
	assert.Error(t, err)
	assert.True(t, v.IsVariable())
	n, err := v.Normalize(ot.T("wght"), 650)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, n, 1e-9)
	//
	// inconsistent axis range makes the font non-variable
	b = variableFont()
	b.Axes[0].Min = 500
	v, err = ReadVariations(parseFont(t, b.SFNT()))
	assert.Error(t, err)
	assert.False(t, v.IsVariable())
	//
	info, err := Describe(parseFont(t, b.SFNT()))
	require.NoError(t, err)
	assert.False(t, info.Variations.IsVariable())
	assert.Len(t, info.Issues, 1)
}

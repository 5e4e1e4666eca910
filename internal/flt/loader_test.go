package flt

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertwitch/fltload/internal/configuration"
	"github.com/desertwitch/fltload/internal/filesystem"
	"github.com/desertwitch/fltload/internal/format"
	"github.com/desertwitch/fltload/internal/image"
	"github.com/desertwitch/fltload/internal/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandlers() (*filesystem.Handler, *configuration.Handler) {
	return filesystem.NewHandler(&filesystem.OS{}, &filesystem.Unix{}),
		configuration.NewHandler(&configuration.GodotenvProvider{}, &configuration.OSReader{})
}

func writeVolume(t *testing.T, info string, slices map[string][]byte) string {
	t.Helper()

	dir := t.TempDir()
	if info != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "info.flt"), []byte(info), 0o600))
	}
	for name, data := range slices {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o600))
	}

	return dir
}

func fill(n int, v byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = v + byte(i)
	}

	return b
}

func newTestLoader(path string) *Loader {
	fsHandler, configHandler := newHandlers()

	return NewLoader(path, fsHandler, configHandler)
}

// TestLoader_EndToEnd verifies the shape and row origin of a loaded volume.
func TestLoader_EndToEnd(t *testing.T) {
	t.Parallel()

	s0 := fill(12, 0)
	s1 := fill(12, 100)
	dir := writeVolume(t, "[main]\nwidth=4\nheight=3\nformat=uchar\n", map[string][]byte{
		"s0.flt": s0,
		"s1.flt": s1,
	})
	path := filepath.Join(dir, "s0.flt")

	l := newTestLoader(path)
	defer l.Close()

	h, err := l.Header()
	require.NoError(t, err)
	assert.Equal(t, StateHeaderReady, l.State())

	assert.Equal(t, 4, h.Width)
	assert.Equal(t, 6, h.Height)
	assert.Equal(t, 1, h.Bands)
	assert.Equal(t, format.Uchar, h.Format)
	assert.Equal(t, image.DemandThinStrip, h.Demand)

	pageHeight, ok := h.Meta.GetInt(image.MetaPageHeight)
	require.True(t, ok)
	assert.Equal(t, 3, pageHeight)

	img, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, StateLoaded, l.State())

	volume, ok := img.(*Volume)
	require.True(t, ok)
	assert.Equal(t, path, volume.Header().Filename)
	assert.Equal(t, Descriptor{Width: 4, Height: 3, Format: format.Uchar}, volume.Descriptor())
	assert.Equal(t, []string{filepath.Join(dir, "s0.flt"), filepath.Join(dir, "s1.flt")}, volume.Slices())

	for y := range 6 {
		row, err := volume.Row(y)
		require.NoError(t, err)

		want := s0[y*4 : y*4+4]
		if y >= 3 {
			want = s1[(y-3)*4 : (y-3)*4+4]
		}
		assert.Equal(t, want, row, "row %d", y)
	}

	_, err = volume.Row(6)
	require.ErrorIs(t, err, image.ErrRowOutOfRange)

	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	_, err = volume.Row(0)
	require.ErrorIs(t, err, ErrVolumeClosed)
}

// TestLoader_DepthOrder verifies that slices are stacked in folded name order.
func TestLoader_DepthOrder(t *testing.T) {
	t.Parallel()

	dir := writeVolume(t, "[main]\nwidth=2\nheight=1\nformat=uchar\n", map[string][]byte{
		"B.flt": {2, 2},
		"a.flt": {1, 1},
		"C.flt": {3, 3},
	})

	l := newTestLoader(filepath.Join(dir, "info.flt"))
	defer l.Close()

	img, err := l.Load()
	require.NoError(t, err)

	volume := img.(*Volume) //nolint:forcetypeassert
	assert.Equal(t, []string{
		filepath.Join(dir, "a.flt"),
		filepath.Join(dir, "B.flt"),
		filepath.Join(dir, "C.flt"),
	}, volume.Slices())

	for y, want := range []byte{1, 2, 3} {
		row, err := img.Row(y)
		require.NoError(t, err)
		assert.Equal(t, []byte{want, want}, row)
	}
}

// TestLoader_MultiByteFormat verifies relabelling of samples wider than a
// byte, and that trailing bytes of a slice are ignored.
func TestLoader_MultiByteFormat(t *testing.T) {
	t.Parallel()

	order := binary.NativeEndian

	var s0 []byte
	for _, v := range []float32{0.5, 1.5, -2, 4} {
		s0 = order.AppendUint32(s0, math.Float32bits(v))
	}
	s0 = append(s0, 0xDE, 0xAD)

	dir := writeVolume(t, "[main]\nwidth=2\nheight=2\nformat=float\n", map[string][]byte{"s0.flt": s0})

	l := newTestLoader(filepath.Join(dir, "s0.flt"))
	defer l.Close()

	img, err := l.Load()
	require.NoError(t, err)

	h := img.Header()
	assert.Equal(t, 2, h.Width)
	assert.Equal(t, 2, h.Height)
	assert.Equal(t, 1, h.Bands)
	assert.Equal(t, format.Float, h.Format)

	row, err := img.Row(1)
	require.NoError(t, err)
	require.Len(t, row, 8)

	v, err := format.Float.Value(row, 0)
	require.NoError(t, err)
	assert.InDelta(t, -2.0, v, 0)

	v, err = format.Float.Value(row, 1)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, v, 0)
}

// TestLoader_HeaderErrors verifies that discovery failures abort the header
// phase and leave the loader failed.
func TestLoader_HeaderErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		info   string
		slices map[string][]byte
		want   error
	}{
		{"no slices", "[main]\nwidth=4\nheight=3\nformat=uchar\n", nil, ErrEmptyVolume},
		{"no metadata", "", map[string][]byte{"s0.flt": fill(12, 0)}, ErrMissingMetadata},
		{"bogus format", "[main]\nwidth=4\nheight=3\nformat=bogus\n", map[string][]byte{"s0.flt": fill(12, 0)}, ErrUnknownFormat},
		{"missing width", "[main]\nheight=3\nformat=uchar\n", map[string][]byte{"s0.flt": fill(12, 0)}, ErrConfig},
		{
			"wrapping slice size",
			"[main]\nwidth=274177\nheight=67280421310721\nformat=uchar\n",
			map[string][]byte{"s0.flt": fill(1, 0)},
			ErrConfig,
		},
		{
			"wrapping stacked height",
			"[main]\nwidth=1\nheight=4611686018427387904\nformat=uchar\n",
			map[string][]byte{"s0.flt": fill(1, 0), "s1.flt": fill(1, 0), "s2.flt": fill(1, 0), "s3.flt": fill(1, 0)},
			ErrConfig,
		},
		{
			"wrapping stacked size",
			"[main]\nwidth=2147483648\nheight=2147483648\nformat=uchar\n",
			map[string][]byte{"s0.flt": fill(1, 0), "s1.flt": fill(1, 0)},
			ErrConfig,
		},
	}

	for _, tt := range tests {
		dir := writeVolume(t, tt.info, tt.slices)

		l := newTestLoader(filepath.Join(dir, "x.flt"))

		_, err := l.Header()
		require.ErrorIs(t, err, tt.want, tt.name)
		assert.Equal(t, StateFailed, l.State(), tt.name)

		_, err = l.Load()
		require.ErrorIs(t, err, tt.want, tt.name)

		_, err = l.Header()
		require.ErrorIs(t, err, tt.want, tt.name)
	}
}

// TestLoader_MissingDirectory verifies that unlistable directories fail.
func TestLoader_MissingDirectory(t *testing.T) {
	t.Parallel()

	l := newTestLoader(filepath.Join(t.TempDir(), "missing", "s0.flt"))

	_, err := l.Load()
	require.ErrorIs(t, err, ErrDiscovery)
	assert.Equal(t, StateFailed, l.State())
}

// TestLoader_ShortSlice verifies that a short slice fails the load without
// producing an image.
func TestLoader_ShortSlice(t *testing.T) {
	t.Parallel()

	dir := writeVolume(t, "[main]\nwidth=4\nheight=3\nformat=uchar\n", map[string][]byte{
		"s0.flt": fill(12, 0),
		"s1.flt": fill(11, 0),
	})

	l := newTestLoader(filepath.Join(dir, "s0.flt"))

	_, err := l.Header()
	require.NoError(t, err)

	img, err := l.Load()
	require.ErrorIs(t, err, ErrSliceOpen)
	require.ErrorIs(t, err, filesystem.ErrShortFile)
	assert.Nil(t, img)
	assert.Equal(t, StateFailed, l.State())
	require.NoError(t, l.Close())
}

// TestLoader_LoadTwice verifies that a loader performs exactly one load.
func TestLoader_LoadTwice(t *testing.T) {
	t.Parallel()

	dir := writeVolume(t, "[main]\nwidth=1\nheight=1\nformat=uchar\n", map[string][]byte{"s0.flt": {7}})

	l := newTestLoader(filepath.Join(dir, "s0.flt"))
	defer l.Close()

	_, err := l.Load()
	require.NoError(t, err)

	_, err = l.Load()
	require.ErrorIs(t, err, ErrLoaderState)
	assert.Equal(t, StateLoaded, l.State())

	h, err := l.Header()
	require.NoError(t, err)
	assert.Equal(t, 1, h.Height)
}

// TestLoader_Idempotent verifies that loading a volume twice yields
// structurally identical images.
func TestLoader_Idempotent(t *testing.T) {
	t.Parallel()

	dir := writeVolume(t, "[main]\nwidth=3\nheight=2\nformat=short\n", map[string][]byte{
		"s0.flt": fill(12, 0),
		"s1.flt": fill(12, 50),
		"s2.flt": fill(12, 90),
	})

	headers := make([]*image.Header, 0, 2)
	for range 2 {
		l := newTestLoader(filepath.Join(dir, "s1.flt"))

		img, err := l.Load()
		require.NoError(t, err)
		headers = append(headers, img.Header())

		require.NoError(t, l.Close())
	}

	a, b := headers[0], headers[1]
	assert.Equal(t, a.Width, b.Width)
	assert.Equal(t, a.Height, b.Height)
	assert.Equal(t, a.Bands, b.Bands)
	assert.Equal(t, a.Format, b.Format)
	assert.Equal(t, 6, a.Height)

	pa, _ := a.Meta.GetInt(image.MetaPageHeight)
	pb, _ := b.Meta.GetInt(image.MetaPageHeight)
	assert.Equal(t, 2, pa)
	assert.Equal(t, pa, pb)
}

// TestLoader_HeaderCopies verifies that changes to a returned header do not
// reach the loader or the loaded volume.
func TestLoader_HeaderCopies(t *testing.T) {
	t.Parallel()

	dir := writeVolume(t, "[main]\nwidth=4\nheight=3\nformat=uchar\n", map[string][]byte{
		"s0.flt": fill(12, 0),
	})

	l := newTestLoader(filepath.Join(dir, "s0.flt"))
	defer l.Close()

	h, err := l.Header()
	require.NoError(t, err)

	h.Height = 1
	h.Format = format.Double
	h.Meta.SetInt(image.MetaPageHeight, 1)

	again, err := l.Header()
	require.NoError(t, err)
	assert.Equal(t, 3, again.Height)
	assert.Equal(t, format.Uchar, again.Format)

	img, err := l.Load()
	require.NoError(t, err)

	vh := img.Header()
	vh.Width = 99
	vh.Meta.SetInt(image.MetaPageHeight, 99)

	assert.Equal(t, 4, img.Header().Width)
	pageHeight, ok := img.Header().Meta.GetInt(image.MetaPageHeight)
	require.True(t, ok)
	assert.Equal(t, 3, pageHeight)

	row, err := img.Row(2)
	require.NoError(t, err)
	assert.Len(t, row, 4)
}

// TestLoader_MapFailReleases verifies that slices mapped before a failing
// slice are released again.
func TestLoader_MapFailReleases(t *testing.T) {
	t.Parallel()

	dir := writeVolume(t, "", map[string][]byte{"s0.flt": {1, 2}})
	realFs, _ := newHandlers()

	first, err := realFs.MapFile(filepath.Join(dir, "s0.flt"), 2)
	require.NoError(t, err)

	kf := configuration.KeyFile{GroupMain: {KeyWidth: "2", KeyHeight: "1", KeyFormat: "uchar"}}

	fsMock := newMockFsProvider(t)
	fsMock.On("ReadDir", "/vol").Return(entries("info.flt", "s0.flt", "s1.flt"), nil)
	fsMock.On("MapFile", filepath.Join("/vol", "s0.flt"), int64(2)).Return(first, nil)
	fsMock.On("MapFile", filepath.Join("/vol", "s1.flt"), int64(2)).Return(nil, os.ErrNotExist)

	configMock := newMockConfigProvider(t)
	configMock.On("ReadKeyFile", filepath.Join("/vol", "info.flt")).Return(kf, nil)
	configMock.On("KeyToInt", kf, GroupMain, KeyWidth).Return(2, nil)
	configMock.On("KeyToInt", kf, GroupMain, KeyHeight).Return(1, nil)
	configMock.On("KeyToString", kf, GroupMain, KeyFormat).Return("uchar", nil)

	l := NewLoader("/vol/s0.flt", fsMock, configMock)

	_, err = l.Load()
	require.ErrorIs(t, err, ErrSliceOpen)
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = first.Bytes()
	require.ErrorIs(t, err, filesystem.ErrMappingClosed)
	assert.Zero(t, realFs.MappedBytes())
}

// TestFormat_Probe verifies probing and registry integration.
func TestFormat_Probe(t *testing.T) {
	t.Parallel()

	fsMock := newMockFsProvider(t)
	fsMock.On("IsRegularFile", "/vol/S0.FLT").Return(true)
	fsMock.On("IsRegularFile", "/vol/dir.flt").Return(false)

	f := NewFormat(fsMock, newMockConfigProvider(t))

	assert.Equal(t, FormatName, f.Name())
	assert.True(t, f.Probe("/vol/S0.FLT"))
	assert.False(t, f.Probe("/vol/dir.flt"))
	assert.False(t, f.Probe("/vol/s0.tif"))
	fsMock.AssertNotCalled(t, "IsRegularFile", "/vol/s0.tif")

	registry := loader.NewRegistry()
	require.NoError(t, registry.Register(f))

	l, err := registry.Open("/vol/S0.FLT")
	require.NoError(t, err)
	assert.IsType(t, &Loader{}, l)

	_, err = registry.Open("/vol/s0.tif")
	require.ErrorIs(t, err, loader.ErrNoLoader)
}

// TestState_String verifies state names.
func TestState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "unopened", StateUnopened.String())
	assert.Equal(t, "header-ready", StateHeaderReady.String())
	assert.Equal(t, "loaded", StateLoaded.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "State(9)", State(9).String())
}

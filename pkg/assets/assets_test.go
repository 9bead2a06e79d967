package assets_test

import (
	"testing"
	"testing/fstest"

	"github.com/aretw0/autotutor/pkg/assets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"images/img-ball.svg":    {Data: []byte("<svg/>")},
		"images/img-balcony.png": {Data: []byte("png")},
		"secret.txt":             {Data: []byte("nope")},
	}
}

func TestFS_Resolve(t *testing.T) {
	r := assets.New(testFS(), "images")

	tests := []struct {
		name     string
		wantPath string
		wantOK   bool
	}{
		{"img-ball.svg", "images/img-ball.svg", true},
		{"img-ball", "images/img-ball.svg", true},
		{"img-balcony", "images/img-balcony.png", true},
		{"img-missing", "", false},
		{"../secret.txt", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, ok := r.Resolve(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantPath, a.Path)
		})
	}
}

func TestFS_Read(t *testing.T) {
	r := assets.New(testFS(), "images")

	a, data, err := r.Read("img-ball")
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(data))
	assert.Equal(t, "image/svg+xml", a.ContentType)

	_, _, err = r.Read("img-missing")
	assert.ErrorIs(t, err, assets.ErrNotFound)
}

func TestFS_List(t *testing.T) {
	names, err := assets.New(testFS(), "images").List()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"img-ball.svg", "img-balcony.png"}, names)
}

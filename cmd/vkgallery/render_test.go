package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"vkgallery/internal/batch"
	"vkgallery/pkg/gallery"
	"vkgallery/pkg/logger"
	"vkgallery/pkg/vk"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	photos []vk.Photo
}

func (s stubFetcher) FetchAlbumPhotos(ctx context.Context, req vk.PhotosRequest) (*vk.PhotosResponse, error) {
	return &vk.PhotosResponse{Photos: s.photos}, nil
}

func TestRenderStream(t *testing.T) {
	renderer := batch.NewRenderer(stubFetcher{photos: []vk.Photo{{SrcBig: "a.jpg"}}}, gallery.Overrides{}, logger.NewTestLogger())

	var out bytes.Buffer
	err := renderStream(context.Background(), renderer, "stdin", strings.NewReader("<div>https://vk.com/album-500_12</div>"), &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), `rel="lightbox-album-500_12"`)
}

func TestRenderStreamPassesThroughWithoutAlbum(t *testing.T) {
	renderer := batch.NewRenderer(stubFetcher{}, gallery.Overrides{}, logger.NewTestLogger())

	var out bytes.Buffer
	err := renderStream(context.Background(), renderer, "stdin", strings.NewReader("<div>plain</div>"), &out)
	require.NoError(t, err)
	assert.Equal(t, "<div>plain</div>", out.String())
}

func TestRenderFlagsOnlyChanged(t *testing.T) {
	require.NoError(t, renderCmd.Flags().Set("link-type", "number"))
	require.NoError(t, renderCmd.Flags().Set("order", "1"))
	t.Cleanup(func() {
		renderCmd.Flags().Lookup("link-type").Changed = false
		renderCmd.Flags().Lookup("order").Changed = false
	})

	flags := renderFlags(renderCmd)

	assert.Equal(t, "number", flags["link-type"])
	assert.Equal(t, 1, flags["order"])
	assert.NotContains(t, flags, "loop")
	assert.NotContains(t, flags, "timeout")
}

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vkgallery/pkg/gallery"
	"vkgallery/pkg/logger"
	"vkgallery/pkg/vk"
)

var albumFetch bool

var albumCmd = &cobra.Command{
	Use:   "album <url-or-text>",
	Short: "Show the album a link points at",
	Long: `Resolve the owner and album ids from a VK album link and print the
photos.get request that would be made for it. With --fetch the request is
made and the gallery fragment printed.`,
	Example: `  vkgallery album https://vk.com/album-500_12
  vkgallery album "see http://vk.com/album42_7" --fetch`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAlbum,
}

func init() {
	rootCmd.AddCommand(albumCmd)
	albumCmd.Flags().BoolVar(&albumFetch, "fetch", false, "fetch the album and print the gallery fragment")
}

func runAlbum(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(map[string]interface{}{})
	if err != nil {
		return err
	}

	text := strings.Join(args, " ")
	album, ok := gallery.ParseAlbum(text)
	if !ok {
		return fmt.Errorf("no album link found in %q", text)
	}

	opts := gallery.DefaultOptions().Merge(gallery.OverridesFromConfig(cfg.Gallery))
	requestURL, err := vk.PhotosURL(cfg.VK.APIURL, vk.PhotosRequest{
		OwnerID: album.OwnerID,
		AlbumID: album.AlbumID,
		Rev:     int(opts.Order),
		Version: cfg.VK.APIVersion,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "owner_id: %d\n", album.OwnerID)
	fmt.Fprintf(out, "album_id: %d\n", album.AlbumID)
	fmt.Fprintf(out, "url:      %s\n", album.URL())
	fmt.Fprintf(out, "rel:      %s\n", album.Rel())
	fmt.Fprintf(out, "request:  %s\n", requestURL)

	if !albumFetch {
		return nil
	}

	client := vk.NewClientFromConfig(&cfg.VK, logger.GetLogger())
	g := gallery.New(client, gallery.OverridesFromConfig(cfg.Gallery), logger.GetLogger())
	result := g.Generate(context.Background(), text)
	if !result.OK() {
		return fmt.Errorf("%s: %w", result.Outcome, result.Err)
	}

	fmt.Fprintf(out, "images:   %d (%d dropped)\n\n%s\n", result.Fragment.Rendered, result.Fragment.Dropped, result.Fragment.HTML)
	return nil
}

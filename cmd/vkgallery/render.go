package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"vkgallery/internal/batch"
	"vkgallery/pkg/config"
	"vkgallery/pkg/gallery"
	"vkgallery/pkg/logger"
	"vkgallery/pkg/page"
	"vkgallery/pkg/storage"
	"vkgallery/pkg/ui"
	"vkgallery/pkg/vk"
)

var renderOpts struct {
	output       string
	format       string
	linkType     string
	minSize      string
	maxSize      string
	selector     string
	order        int
	loop         bool
	fragmentOnly bool
	overwrite    bool
	concurrency  int
	apiURL       string
	apiVersion   string
	timeout      time.Duration
}

var renderCmd = &cobra.Command{
	Use:   "render [files...]",
	Short: "Replace album links in documents with galleries",
	Long: `Render each input document, replacing the first VK album link inside the
container (default: the first div) with gallery markup.

With no files, or "-", the document is read from stdin and written to stdout.
A single file without --output is also written to stdout. Several files need
--output and are rendered concurrently.`,
	Example: `  # Render a page to stdout
  vkgallery render index.html

  # Numbered links, newest photos first
  vkgallery render post.md --link-type number --order 1

  # Render a folder of Markdown posts into public/
  vkgallery render posts/*.md --output public --concurrency 4

  # Print only the gallery fragment
  echo "https://vk.com/album-500_12" | vkgallery render --fragment-only`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	f := renderCmd.Flags()
	f.StringVarP(&renderOpts.output, "output", "o", "", "output directory")
	f.StringVar(&renderOpts.format, "format", "", "input format (auto, html, markdown)")
	f.StringVar(&renderOpts.linkType, "link-type", "", "link presentation (number, image, div)")
	f.StringVar(&renderOpts.minSize, "min-size", "", "smallest size tier to use (src_small, src, src_big, src_xbig, src_xxbig)")
	f.StringVar(&renderOpts.maxSize, "max-size", "", "largest size tier to use")
	f.StringVar(&renderOpts.selector, "selector", "", "CSS selector of the container holding the album link")
	f.IntVar(&renderOpts.order, "order", 0, "0 for oldest photos first, 1 for newest first")
	f.BoolVar(&renderOpts.loop, "loop", true, "let the lightbox loop through the album")
	f.BoolVar(&renderOpts.fragmentOnly, "fragment-only", false, "output only the gallery markup")
	f.BoolVar(&renderOpts.overwrite, "overwrite", false, "replace existing output files")
	f.IntVar(&renderOpts.concurrency, "concurrency", 3, "documents rendered at once")
	f.StringVar(&renderOpts.apiURL, "api-url", "", "photos.get endpoint")
	f.StringVar(&renderOpts.apiVersion, "api-version", "", "API version sent as v")
	f.DurationVar(&renderOpts.timeout, "timeout", 30*time.Second, "request timeout")
}

// renderFlags collects only the flags the user set
func renderFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	changed := cmd.Flags().Changed

	if changed("output") {
		flags["output"] = renderOpts.output
	}
	if changed("format") {
		flags["format"] = renderOpts.format
	}
	if changed("link-type") {
		flags["link-type"] = renderOpts.linkType
	}
	if changed("min-size") {
		flags["min-size"] = renderOpts.minSize
	}
	if changed("max-size") {
		flags["max-size"] = renderOpts.maxSize
	}
	if changed("selector") {
		flags["selector"] = renderOpts.selector
	}
	if changed("order") {
		flags["order"] = renderOpts.order
	}
	if changed("loop") {
		flags["loop"] = renderOpts.loop
	}
	if changed("fragment-only") {
		flags["fragment-only"] = renderOpts.fragmentOnly
	}
	if changed("overwrite") {
		flags["overwrite"] = renderOpts.overwrite
	}
	if changed("concurrency") {
		flags["concurrency"] = renderOpts.concurrency
	}
	if changed("api-url") {
		flags["api-url"] = renderOpts.apiURL
	}
	if changed("api-version") {
		flags["api-version"] = renderOpts.apiVersion
	}
	if changed("timeout") {
		flags["timeout"] = renderOpts.timeout
	}
	return flags
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(renderFlags(cmd))
	if err != nil {
		return err
	}
	log := logger.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := vk.NewClientFromConfig(&cfg.VK, log)
	renderer := batch.NewRenderer(client, gallery.OverridesFromConfig(cfg.Gallery), log,
		batch.WithFormat(page.Format(cfg.Input.Format)),
		batch.WithFragmentOnly(cfg.Output.FragmentOnly),
	)

	switch {
	case len(args) == 0 || (len(args) == 1 && args[0] == "-"):
		return renderStream(ctx, renderer, "stdin", os.Stdin, cmd.OutOrStdout())
	case len(args) == 1 && cfg.Output.Directory == "":
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		return renderStream(ctx, renderer, args[0], f, cmd.OutOrStdout())
	case cfg.Output.Directory == "":
		return fmt.Errorf("--output is required when rendering more than one file")
	}

	return renderFiles(ctx, cfg, renderer, args)
}

func renderStream(ctx context.Context, renderer *batch.Renderer, name string, r io.Reader, w io.Writer) error {
	src, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}

	out, result, err := renderer.Render(ctx, name, src)
	if err != nil {
		return err
	}

	switch result.Outcome {
	case gallery.OutcomeRendered:
		ui.PrintInfo("Album", result.Album.URL())
		ui.PrintSuccess(fmt.Sprintf("Rendered %d images (%d without a usable size)",
			result.Fragment.Rendered, result.Fragment.Dropped))
		_, err = io.WriteString(w, out)
		return err
	case gallery.OutcomeNoAlbum:
		ui.PrintWarning("No album link found", name)
		if renderer.FragmentOnly() {
			return nil
		}
		_, err = w.Write(src)
		return err
	default:
		return fmt.Errorf("%s: %w", result.Outcome, result.Err)
	}
}

func renderFiles(ctx context.Context, cfg *config.Config, renderer *batch.Renderer, inputs []string) error {
	store, err := storage.NewManager(cfg.Output.Directory, cfg.Output.Extension, cfg.Output.OverwriteExisting)
	if err != nil {
		return err
	}
	renderer.SetStore(store)

	ui.PrintInfo("Documents", fmt.Sprintf("%d", len(inputs)))
	ui.PrintInfo("Output", store.OutputDir())

	start := time.Now()
	pool := batch.NewWorkerPool(ctx, cfg.Batch.Concurrency, renderer, logger.GetLogger())
	pool.Start()

	summary := ui.Summary{Total: len(inputs)}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for result := range pool.Results() {
			switch {
			case result.Error != nil:
				summary.Failed++
				ui.PrintError(result.Job.Input, result.Error)
			case result.Skipped:
				summary.Skipped++
				ui.PrintWarning(result.Job.Input, result.Reason)
			default:
				summary.Rendered++
				summary.Images += result.Rendered
				summary.Dropped += result.Dropped
				ui.PrintSuccess(fmt.Sprintf("%s -> %s", result.Job.Input, result.Output))
			}
		}
	}()

	for _, input := range inputs {
		if err := pool.Submit(batch.Job{Input: strings.TrimSpace(input)}); err != nil {
			ui.PrintError("Failed to queue", err)
			break
		}
	}
	pool.Stop()
	<-done

	summary.Duration = time.Since(start)
	ui.PrintSummary(summary)

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d documents failed", summary.Failed, summary.Total)
	}
	return nil
}

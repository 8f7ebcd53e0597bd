package commandline

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"xb.dev/xb/crawler"
)

func newFetchCommand() *cobra.Command {
	var (
		outDir       string
		manifestPath string
		failFast     bool
		timeout      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "fetch <root-url>",
		Short: "Crawl a schema's imports/includes over HTTP and mirror them locally",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runFetch(args[0], outDir, manifestPath, failFast, timeout)
		},
	}

	cmd.Flags().StringVarP(&outDir, "output-dir", "o", ".", "directory to mirror fetched schemas into")
	cmd.Flags().StringVar(&manifestPath, "manifest", "manifest.json", "path to write the fetch manifest to")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "abort the crawl on the first fetch failure instead of skipping it")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "per-request HTTP timeout")

	return cmd
}

func runFetch(root, outDir, manifestPath string, failFast bool, timeout time.Duration) error {
	client := &http.Client{Timeout: timeout}
	transport := func(url string) (string, error) {
		resp, err := client.Get(url)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return "", &httpStatusError{url: url, status: resp.Status}
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", err
		}
		return string(body), nil
	}

	cfg := crawler.NewConfig(
		crawler.WithTransport(transport),
		crawler.FailFast(failFast),
	)

	fetched, err := crawler.Crawl(context.Background(), root, cfg)
	if err != nil {
		return IOErrorf("fetch %s: %v", root, err)
	}
	if len(fetched) == 0 {
		return IOErrorf("fetch %s: no document could be fetched", root)
	}

	manifest := crawler.BuildManifest(root, fetched, fetchTime())
	for i, entry := range manifest.Schemas {
		path := filepath.Join(outDir, entry.LocalPath)
		if err := os.MkdirAll(filepath.Dir(path), 0o777); err != nil {
			return IOErrorf("create output directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(fetched[i].Content), 0o666); err != nil {
			return IOErrorf("write %s: %v", path, err)
		}
	}

	mf, err := os.Create(manifestPath)
	if err != nil {
		return IOErrorf("create manifest %s: %v", manifestPath, err)
	}
	defer mf.Close()
	if err := crawler.WriteManifest(mf, manifest); err != nil {
		return IOErrorf("write manifest %s: %v", manifestPath, err)
	}
	return nil
}

type httpStatusError struct {
	url    string
	status string
}

func (e *httpStatusError) Error() string { return e.url + ": " + e.status }

// fetchTime is the one place Run's fetch path reads the wall clock,
// kept separate so tests can stub it if the manifest's timestamp ever
// needs to be deterministic.
func fetchTime() time.Time { return time.Now() }

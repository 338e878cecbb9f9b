// Package audio downloads synthesized segments and merges them into a single
// episode file with ffmpeg.
package audio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/falacast/falacast/internal/objstore"
	"github.com/falacast/falacast/podcast"
)

//go:generate moq -out mocks/runner.go -pkg mocks -skip-ensure -fmt goimports . Runner
//go:generate moq -out mocks/http_client.go -pkg mocks -skip-ensure -fmt goimports . HTTPClient

// Runner executes external commands. Indirection exists so tests can observe
// ffmpeg invocations without a real binary.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// HTTPClient defines the interface for HTTP client operations
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Uploader stores a merged artifact and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, bucket, name string, data []byte, contentType string) (string, error)
}

// DefaultRunner runs commands with exec.CommandContext.
type DefaultRunner struct{}

// Run executes the named command and waits for it to finish.
func (DefaultRunner) Run(ctx context.Context, name string, args ...string) error {
	// #nosec G204 -- Arguments are constructed internally, not from external input
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Assembler turns per-chunk audio segments into one merged episode.
type Assembler struct {
	httpClient HTTPClient
	runner     Runner
	uploader   Uploader
}

// NewAssembler creates an assembler. A nil httpClient gets a default with a
// download-sized timeout; a nil runner gets the real command runner.
func NewAssembler(httpClient HTTPClient, runner Runner, uploader Uploader) *Assembler {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	if runner == nil {
		runner = DefaultRunner{}
	}
	return &Assembler{httpClient: httpClient, runner: runner, uploader: uploader}
}

type downloaded struct {
	path     string
	url      string
	size     int64
	duration float64
}

// Merge downloads the segments in index order, concatenates them with ffmpeg
// and uploads the result. A single segment is returned as-is without any
// download. Segments that fail to download are skipped; if merging or
// uploading fails the longest downloaded segment stands in for the episode.
// The reported duration is the rounded sum of the segment estimates and the
// reported size is the sum of the downloaded bytes.
func (a *Assembler) Merge(ctx context.Context, segments []podcast.Segment, podcastID int64) (podcast.MergedAudio, error) {
	if len(segments) == 0 {
		return podcast.MergedAudio{}, fmt.Errorf("no segments to merge")
	}

	sorted := make([]podcast.Segment, len(segments))
	copy(sorted, segments)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	totalDuration := 0.0
	for _, s := range sorted {
		totalDuration += s.Duration
	}
	roundedDuration := int(math.Round(totalDuration))

	if len(sorted) == 1 {
		s := sorted[0]
		return podcast.MergedAudio{URL: s.URL, Duration: roundedDuration, Size: s.Size, TotalChunks: 1}, nil
	}

	tempDir, err := os.MkdirTemp("", "podcast-merge-")
	if err != nil {
		return podcast.MergedAudio{}, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	var files []downloaded
	var totalSize int64
	for i, s := range sorted {
		path := filepath.Join(tempDir, fmt.Sprintf("chunk-%d.mp3", i))
		size, err := a.download(ctx, s.URL, path)
		if err != nil {
			slog.Warn("skipping segment that failed to download", "index", s.Index, "url", s.URL, "error", err)
			continue
		}
		files = append(files, downloaded{path: path, url: s.URL, size: size, duration: s.Duration})
		totalSize += size
	}

	if len(files) == 0 {
		return podcast.MergedAudio{}, fmt.Errorf("failed to download any audio segments")
	}

	mergedURL, err := a.concatAndUpload(ctx, tempDir, files, podcastID)
	if err != nil {
		longest := files[0]
		for _, f := range files[1:] {
			if f.duration > longest.duration {
				longest = f
			}
		}
		slog.Warn("merge failed, falling back to longest segment", "url", longest.url, "error", err)
		return podcast.MergedAudio{URL: longest.url, Duration: roundedDuration, Size: totalSize, TotalChunks: len(files)}, nil
	}

	return podcast.MergedAudio{URL: mergedURL, Duration: roundedDuration, Size: totalSize, TotalChunks: len(files)}, nil
}

func (a *Assembler) concatAndUpload(ctx context.Context, tempDir string, files []downloaded, podcastID int64) (string, error) {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.path
	}
	manifest, err := writeConcatManifest(tempDir, paths)
	if err != nil {
		return "", err
	}

	mergedPath := filepath.Join(tempDir, "merged.mp3")
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-f", "concat",
		"-safe", "0",
		"-i", manifest,
		"-ar", "44100",
		"-ac", "2",
		"-b:a", "192k",
		mergedPath,
	}
	if err := a.runner.Run(ctx, "ffmpeg", args...); err != nil {
		return "", fmt.Errorf("failed to concatenate audio files: %w", err)
	}

	merged, err := os.ReadFile(mergedPath)
	if err != nil {
		return "", fmt.Errorf("failed to read merged file: %w", err)
	}

	name := fmt.Sprintf("merged-podcast-%d-%s.mp3", podcastID, uuid.New().String())
	url, err := a.uploader.Upload(ctx, objstore.BucketMerged, name, merged, "audio/mpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload merged audio: %w", err)
	}
	return url, nil
}

func (a *Assembler) download(ctx context.Context, url, path string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("failed to create download request: %w", err)
	}
	req.Header.Set("Accept", "audio/mpeg,audio/*;q=0.9,*/*;q=0.8")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	out, err := os.Create(path) // #nosec G304 -- Path is inside our own temp dir
	if err != nil {
		return 0, fmt.Errorf("failed to create segment file: %w", err)
	}
	defer out.Close()

	size, err := io.Copy(out, resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to write segment file: %w", err)
	}
	return size, nil
}

// writeConcatManifest creates the file list ffmpeg's concat demuxer reads.
func writeConcatManifest(tempDir string, audioFiles []string) (string, error) {
	manifest := filepath.Join(tempDir, "filelist.txt")
	var sb strings.Builder
	for _, file := range audioFiles {
		// escape single quotes in filenames for ffmpeg concat format
		safeFile := strings.ReplaceAll(file, "'", "'\\''")
		sb.WriteString(fmt.Sprintf("file '%s'\n", safeFile))
	}
	if err := os.WriteFile(manifest, []byte(sb.String()), 0o600); err != nil {
		return "", fmt.Errorf("failed to write concat file: %w", err)
	}
	return manifest, nil
}

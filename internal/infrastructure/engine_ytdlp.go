package infrastructure

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/OleksandrShtyka/parser/internal/domain"
)

// progressToken prefixes every machine-readable progress line so they can
// be told apart from the engine's other stdout output.
const progressToken = "PROGRESS"

// userAgent mirrors a mobile browser; some extractors throttle default
// client identifiers.
const userAgent = "Mozilla/5.0 (Linux; Android 13; Pixel 6 Pro) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Mobile Safari/537.36"

// outputTemplate truncates titles so generated filenames stay within
// filesystem limits.
const outputTemplate = "%(title).70s.%(ext)s"

var acceleratorArgs = strings.Join([]string{
	"--max-connection-per-server=16",
	"--split=16",
	"--min-split-size=1M",
	"--file-allocation=none",
	"--continue=true",
}, " ")

// YTDLPEngine implements domain.Engine by shelling out to the yt-dlp
// binary. All extraction, format negotiation and muxing happens inside
// yt-dlp; this wrapper only builds the command line and parses its output.
type YTDLPEngine struct {
	config *domain.EngineConfig
	logger *zap.Logger
}

// NewYTDLPEngine creates the yt-dlp engine wrapper
func NewYTDLPEngine(config *domain.EngineConfig, logger *zap.Logger) *YTDLPEngine {
	return &YTDLPEngine{config: config, logger: logger}
}

// Probe resolves metadata and formats without downloading
func (e *YTDLPEngine) Probe(ctx context.Context, url string) (*domain.MediaInfo, error) {
	args := []string{
		"--dump-json",
		"--skip-download",
		"--no-playlist",
	}
	args = e.appendCommonArgs(args)
	args = append(args, url)

	e.logger.Debug("Probing media",
		zap.String("cmd", ShellEscapeCommand(e.config.Binary, args...)))

	cmd := exec.CommandContext(ctx, e.config.Binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("yt-dlp probe failed: %w: %s", err, stderrTail(&stderr))
	}

	return mapProbeOutput(stdout.Bytes())
}

// Fetch downloads the media into opts.OutputDir, relaying progress lines
// to opts.Progress as they arrive.
func (e *YTDLPEngine) Fetch(ctx context.Context, url string, opts domain.FetchOptions) (*domain.FetchResult, error) {
	args := []string{
		"--no-playlist",
		"--newline",
		"--merge-output-format", "mp4",
		"-o", outputTemplate,
		"-P", opts.OutputDir,
		"--progress-template", "download:" + progressToken + "|%(progress.status)s|%(progress.downloaded_bytes)s|%(progress.total_bytes)s|%(progress.total_bytes_estimate)s|%(progress._percent_str)s|%(progress._speed_str)s",
		"--progress-template", "postprocess:" + progressToken + "|postprocessing|||||",
		"--print", "after_move:filepath",
	}
	args = e.appendCommonArgs(args)

	if opts.FormatID != "" {
		args = append(args, "-f", opts.FormatID)
	}
	if opts.ConcurrentFragments > 0 {
		args = append(args, "--concurrent-fragments", strconv.Itoa(opts.ConcurrentFragments))
	}
	if opts.UseAccelerator {
		args = append(args,
			"--downloader", "aria2c",
			"--downloader-args", "aria2c:"+acceleratorArgs)
	}
	args = append(args, url)

	e.logger.Debug("Fetching media",
		zap.String("cmd", ShellEscapeCommand(e.config.Binary, args...)))

	cmd := exec.CommandContext(ctx, e.config.Binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("yt-dlp stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("yt-dlp start: %w", err)
	}

	var outputPath string
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if raw, ok := parseProgressLine(line); ok {
			if opts.Progress != nil {
				opts.Progress(raw)
			}
			continue
		}
		// Non-progress stdout is the --print output: the final filepath
		outputPath = line
	}

	if err := cmd.Wait(); err != nil {
		return nil, fmt.Errorf("yt-dlp failed: %w: %s", err, stderrTail(&stderr))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("yt-dlp output read: %w", err)
	}

	return &domain.FetchResult{OutputPath: outputPath}, nil
}

// appendCommonArgs adds the options shared by probe and fetch: cookies,
// extractor client selection and a browser user agent.
func (e *YTDLPEngine) appendCommonArgs(args []string) []string {
	args = append(args, "--user-agent", userAgent)
	if len(e.config.YoutubeClients) > 0 {
		args = append(args,
			"--extractor-args", "youtube:player_client="+strings.Join(e.config.YoutubeClients, ","))
	}
	if e.config.CookieFile != "" {
		if _, err := os.Stat(e.config.CookieFile); err == nil {
			args = append(args, "--cookies", e.config.CookieFile)
		}
	}
	return args
}

// parseProgressLine decodes one pipe-separated progress line. Returns
// false for lines that are not progress output.
func parseProgressLine(line string) (domain.RawProgress, bool) {
	if !strings.HasPrefix(line, progressToken+"|") {
		return domain.RawProgress{}, false
	}

	// PROGRESS|status|downloaded|total|total_estimate|percent|speed
	parts := strings.SplitN(line, "|", 7)
	if len(parts) < 7 {
		return domain.RawProgress{}, false
	}

	raw := domain.RawProgress{
		Status:          strings.TrimSpace(parts[1]),
		DownloadedBytes: parseByteField(parts[2]),
		TotalBytes:      parseByteField(parts[3]),
		PercentStr:      cleanTemplateField(parts[5]),
		SpeedStr:        cleanTemplateField(parts[6]),
	}
	if raw.TotalBytes == 0 {
		raw.TotalBytes = parseByteField(parts[4])
	}
	return raw, true
}

// parseByteField parses a numeric template field; yt-dlp prints "NA" for
// unknown values and may render counters as floats.
func parseByteField(field string) int64 {
	field = cleanTemplateField(field)
	if field == "" {
		return 0
	}
	value, err := strconv.ParseFloat(field, 64)
	if err != nil || value < 0 {
		return 0
	}
	return int64(value)
}

// cleanTemplateField normalizes a template field, mapping "NA" to empty
func cleanTemplateField(field string) string {
	field = strings.TrimSpace(field)
	if field == "NA" || strings.HasPrefix(field, "NA%") {
		return ""
	}
	return field
}

// probeOutput mirrors the subset of yt-dlp's info JSON we expose
type probeOutput struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Duration   float64       `json:"duration"`
	Thumbnail  string        `json:"thumbnail"`
	Uploader   string        `json:"uploader"`
	WebpageURL string        `json:"webpage_url"`
	Formats    []probeFormat `json:"formats"`
}

type probeFormat struct {
	FormatID       string  `json:"format_id"`
	Ext            string  `json:"ext"`
	Resolution     string  `json:"resolution"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	ABR            float64 `json:"abr"`
	VCodec         string  `json:"vcodec"`
	ACodec         string  `json:"acodec"`
	Filesize       int64   `json:"filesize"`
	FilesizeApprox int64   `json:"filesize_approx"`
	FormatNote     string  `json:"format_note"`
}

// mapProbeOutput converts yt-dlp's info JSON into the domain model
func mapProbeOutput(data []byte) (*domain.MediaInfo, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse yt-dlp info json: %w", err)
	}

	info := &domain.MediaInfo{
		ID:         out.ID,
		Title:      out.Title,
		Duration:   out.Duration,
		Thumbnail:  out.Thumbnail,
		Uploader:   out.Uploader,
		WebpageURL: out.WebpageURL,
		Formats:    make([]domain.Format, 0, len(out.Formats)),
	}

	for _, f := range out.Formats {
		resolution := f.Resolution
		if resolution == "" && f.Width > 0 && f.Height > 0 {
			resolution = fmt.Sprintf("%dx%d", f.Width, f.Height)
		}
		size := f.Filesize
		if size == 0 {
			size = f.FilesizeApprox
		}
		info.Formats = append(info.Formats, domain.Format{
			FormatID:   f.FormatID,
			Ext:        f.Ext,
			Resolution: resolution,
			ABR:        f.ABR,
			VCodec:     f.VCodec,
			ACodec:     f.ACodec,
			Filesize:   size,
			FormatNote: f.FormatNote,
		})
	}

	return info, nil
}

// stderrTail returns the last portion of captured stderr for error messages
func stderrTail(buf *bytes.Buffer) string {
	const limit = 512
	s := strings.TrimSpace(buf.String())
	if len(s) > limit {
		s = "..." + s[len(s)-limit:]
	}
	return s
}

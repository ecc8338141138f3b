package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	serverURL   string
	noAutoStart bool
	rootCmd     = &cobra.Command{
		Use:   "parser",
		Short: "Parser CLI - Video download client",
		Long:  `A command-line client for the Parser download server.`,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8000", "Server URL")
	rootCmd.PersistentFlags().BoolVar(&noAutoStart, "no-auto-start", false, "Don't auto-start server if not running")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(fetchCmd)
}

// ensureServer checks if server is running and starts it if needed (unless --no-auto-start)
func ensureServer() {
	if noAutoStart {
		return
	}
	if err := ensureServerRunning(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check server health",
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := http.Get(serverURL + "/api/health")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			fmt.Fprintf(os.Stderr, "Server unhealthy (status %d)\n", resp.StatusCode)
			os.Exit(1)
		}
		fmt.Println("Server is healthy")
	},
}

var infoCmd = &cobra.Command{
	Use:   "info [url]",
	Short: "Show media metadata and available formats",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()

		payload, _ := json.Marshal(map[string]string{"url": args[0]})
		resp, err := http.Post(serverURL+"/api/info", "application/json", bytes.NewBuffer(payload))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusOK {
			fmt.Fprintf(os.Stderr, "Error: %s\n", string(body))
			os.Exit(1)
		}

		var info struct {
			ID       string  `json:"id"`
			Title    string  `json:"title"`
			Duration float64 `json:"duration"`
			Uploader string  `json:"uploader"`
			Formats  []struct {
				FormatID   string  `json:"format_id"`
				Ext        string  `json:"ext"`
				Resolution string  `json:"resolution"`
				ABR        float64 `json:"abr"`
				Filesize   int64   `json:"filesize"`
				FormatNote string  `json:"format_note"`
			} `json:"formats"`
		}
		if err := json.Unmarshal(body, &info); err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid response: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Title:    %s\n", info.Title)
		fmt.Printf("Uploader: %s\n", info.Uploader)
		fmt.Printf("Duration: %.0fs\n", info.Duration)
		fmt.Println()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "FORMAT\tEXT\tRESOLUTION\tABR\tSIZE\tNOTE")
		for _, f := range info.Formats {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\t%s\t%s\n",
				f.FormatID, f.Ext, f.Resolution, f.ABR, formatSize(f.Filesize), f.FormatNote)
		}
		w.Flush()
	},
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [url]",
	Short: "Download media through the server",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()

		formatID, _ := cmd.Flags().GetString("format")
		outputDir, _ := cmd.Flags().GetString("output")

		query := url.Values{}
		query.Set("url", args[0])
		if formatID != "" {
			query.Set("format_id", formatID)
		}

		resp, err := http.Get(serverURL + "/api/download?" + query.Encode())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			fmt.Fprintf(os.Stderr, "Error: %s\n", string(body))
			os.Exit(1)
		}

		filename := filenameFromResponse(resp)
		target := filepath.Join(outputDir, filename)

		out, err := os.Create(target)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer out.Close()

		written, err := io.Copy(out, resp.Body)
		if err != nil {
			os.Remove(target)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Saved %s (%s)\n", target, formatSize(written))
	},
}

func init() {
	fetchCmd.Flags().StringP("format", "f", "", "Format ID to download")
	fetchCmd.Flags().StringP("output", "o", ".", "Output directory")
}

// filenameFromResponse extracts the attachment name, falling back to a
// fixed default when the header is absent or unparseable
func filenameFromResponse(resp *http.Response) string {
	_, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition"))
	if err == nil {
		if name := params["filename"]; name != "" {
			return filepath.Base(name)
		}
	}
	return "download"
}

func formatSize(size int64) string {
	switch {
	case size <= 0:
		return "?"
	case size < 1<<20:
		return fmt.Sprintf("%d KB", size/(1<<10))
	default:
		return fmt.Sprintf("%.1f MB", float64(size)/(1<<20))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Package platform hands review photos to the desktop: the browser, or the
// clipboard when no browser can be launched.
package platform

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/glabrego/reviews-feed/internal/enrich"
)

var ErrNoClipboard = errors.New("no clipboard command available")

// PhotoURL picks what "open" shows for a review: its first usable photo,
// otherwise its avatar.
func PhotoURL(avatar string, photos []string) (string, error) {
	for _, raw := range photos {
		if u, ok := enrich.ValidURL(raw); ok {
			return u, nil
		}
	}
	if u, ok := enrich.ValidURL(avatar); ok {
		return u, nil
	}
	if strings.TrimSpace(avatar) == "" && len(photos) == 0 {
		return "", fmt.Errorf("review has no images")
	}
	return "", fmt.Errorf("review has no valid image URL")
}

func OpenInBrowser(url string) error {
	name, args := browserCommand(runtime.GOOS, url)
	return exec.Command(name, args...).Start()
}

func CopyToClipboard(url string) error {
	argv, err := selectClipboardCommand(exec.LookPath)
	if err != nil {
		return err
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = bytes.NewBufferString(url)
	return cmd.Run()
}

func browserCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}

func selectClipboardCommand(lookup func(string) (string, error)) ([]string, error) {
	candidates := [][]string{
		{"pbcopy"},
		{"wl-copy"},
		{"xclip", "-selection", "clipboard"},
	}
	for _, c := range candidates {
		if _, err := lookup(c[0]); err == nil {
			return c, nil
		}
	}
	return nil, ErrNoClipboard
}

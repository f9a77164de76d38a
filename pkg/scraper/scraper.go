// Package scraper provides functionality to download the roster database
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultRosterURL is the nflverse players release asset
const DefaultRosterURL = "https://github.com/nflverse/nflverse-data/releases/download/players/players.csv"

// DefaultTimeout bounds a single download
const DefaultTimeout = 30 * time.Second

var log = logrus.WithField("pkg", "scraper")

// DownloadFile downloads url to localPath. The body is written to a temporary file next to
// localPath and renamed into place, so a failed download never leaves a partial file.
func DownloadFile(ctx context.Context, url, localPath string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	log.Infof("Downloading %s to %s", url, localPath)

	// Create HTTP client with timeout
	client := &http.Client{
		Timeout: timeout,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("error building request: %w", err)
	}
	req.Header.Set("User-Agent", "nfl-gamebook-scraper/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	// Check the response status code
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("non-200 status code: %d %s", resp.StatusCode, resp.Status)
	}

	dir := filepath.Dir(localPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(localPath)+".*.part")
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, resp.Body)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("error saving download to file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error saving download to file: %w", err)
	}
	if err := os.Rename(tmp.Name(), localPath); err != nil {
		return fmt.Errorf("error moving download into place: %w", err)
	}

	log.Infof("Successfully downloaded %d bytes to %s", n, localPath)
	return nil
}

// EnsureRoster makes sure a roster CSV exists at localPath, downloading it when missing or
// when refresh is set. A failed refresh keeps the existing copy and is only logged.
func EnsureRoster(ctx context.Context, localPath, url string, refresh bool, timeout time.Duration) error {
	_, statErr := os.Stat(localPath)
	exists := statErr == nil
	if statErr != nil && !errors.Is(statErr, os.ErrNotExist) {
		return fmt.Errorf("error checking roster %s: %w", localPath, statErr)
	}

	if exists && !refresh {
		log.Infof("Players database already exists at %s", localPath)
		return nil
	}

	if err := DownloadFile(ctx, url, localPath, timeout); err != nil {
		if exists {
			log.Warnf("Could not refresh players database, using existing copy: %v", err)
			return nil
		}
		return fmt.Errorf("players database unavailable: %w", err)
	}
	return nil
}

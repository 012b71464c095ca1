// Package video is a client for the video host library API and signed playback URLs
package video

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/coursecraft/lms/internal/models"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Config holds the video host settings
type Config struct {
	APIURL    string
	LibraryID string
	APIKey    string
	CDNHost   string
	TokenKey  string
	TokenTTL  time.Duration
}

// Client reads video metadata and signs playback URLs
type Client struct {
	http   *resty.Client
	cfg    Config
	logger *zap.Logger
}

// NewClient creates a video host client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(cfg.APIURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("AccessKey", cfg.APIKey).
		SetTimeout(10 * time.Second)
	return &Client{http: c, cfg: cfg, logger: logger}
}

// GetVideo retrieves the metadata of a video in the library
func (c *Client) GetVideo(ctx context.Context, videoID string) (*models.VideoInfo, error) {
	var info models.VideoInfo
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"libraryId": c.cfg.LibraryID,
			"videoId":   videoID,
		}).
		SetResult(&info).
		Get("/library/{libraryId}/videos/{videoId}")
	if err != nil {
		c.logger.Error("video host request failed", zap.String("videoId", videoID), zap.Error(err))
		return nil, fmt.Errorf("video host unavailable")
	}

	switch status := resp.StatusCode(); {
	case status == http.StatusNotFound:
		return nil, fmt.Errorf("video not found")
	case status >= http.StatusInternalServerError:
		return nil, fmt.Errorf("video host unavailable")
	case status >= http.StatusBadRequest:
		return nil, fmt.Errorf("failed to get video: status %d", status)
	}
	return &info, nil
}

// SignedPlaybackURL returns the HLS playlist URL of a video with a token valid for the configured TTL.
// token = hex(sha256(tokenKey + "/" + videoID + "/" + expires)).
func (c *Client) SignedPlaybackURL(videoID string, now time.Time) (string, time.Time) {
	expiresAt := now.Add(c.cfg.TokenTTL).Truncate(time.Second)
	expires := strconv.FormatInt(expiresAt.Unix(), 10)

	sum := sha256.Sum256([]byte(c.cfg.TokenKey + "/" + videoID + "/" + expires))

	q := url.Values{}
	q.Set("token", hex.EncodeToString(sum[:]))
	q.Set("expires", expires)

	u := url.URL{
		Scheme:   "https",
		Host:     c.cfg.CDNHost,
		Path:     "/" + videoID + "/playlist.m3u8",
		RawQuery: q.Encode(),
	}
	return u.String(), expiresAt
}

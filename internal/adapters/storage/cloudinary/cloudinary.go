// Package cloudinary implements ports.StorageProvider against the Cloudinary
// video API. The RemoteID is the Cloudinary public ID; logical folders map to
// subfolders of a fixed base namespace.
package cloudinary

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"quotereel/internal/media"
	"quotereel/internal/ports"
)

type Client struct {
	cld        *cloudinary.Cloudinary
	baseFolder string
	httpClient *http.Client
}

func NewClient(cloudName, apiKey, apiSecret, baseFolder string) (*Client, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init failed: %w", err)
	}
	return &Client{
		cld:        cld,
		baseFolder: baseFolder,
		httpClient: http.DefaultClient,
	}, nil
}

func (c *Client) Provider() string { return "cloudinary" }

func (c *Client) Upload(ctx context.Context, localPath, folder string) (ports.UploadResult, error) {
	resp, err := c.cld.Upload.Upload(ctx, localPath, uploader.UploadParams{
		Folder:         c.baseFolder + "/" + folder,
		ResourceType:   "video",
		UseFilename:    api.Bool(true),
		UniqueFilename: api.Bool(true),
		Overwrite:      api.Bool(false),
	})
	if err != nil {
		return ports.UploadResult{}, fmt.Errorf("cloudinary upload failed: %w", err)
	}
	if resp.Error.Message != "" {
		return ports.UploadResult{}, fmt.Errorf("cloudinary upload failed: %s", resp.Error.Message)
	}

	res := ports.UploadResult{
		RemoteURL: resp.SecureURL,
		RemoteID:  resp.PublicID,
		Format:    resp.Format,
		SizeBytes: int64(resp.Bytes),
	}
	// Duration comes from a local probe; the upload response does not carry it.
	if info, err := media.Probe(localPath); err == nil {
		res.DurationSeconds = info.Duration
	}
	return res, nil
}

func (c *Client) List(ctx context.Context, folder string) ([]ports.RemoteAssetMeta, error) {
	resp, err := c.cld.Admin.Assets(ctx, admin.AssetsParams{
		AssetType:  api.Video,
		Prefix:     c.baseFolder + "/" + folder + "/",
		MaxResults: 500,
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary list failed: %w", err)
	}

	out := make([]ports.RemoteAssetMeta, 0, len(resp.Assets))
	for _, a := range resp.Assets {
		name := filepath.Base(a.PublicID)
		if a.Format != "" {
			name += "." + a.Format
		}
		out = append(out, ports.RemoteAssetMeta{
			RemoteID:  a.PublicID,
			Name:      name,
			SizeBytes: int64(a.Bytes),
		})
	}
	return out, nil
}

func (c *Client) Fetch(ctx context.Context, remoteID, localPath string) error {
	asset, err := c.cld.Admin.Asset(ctx, admin.AssetParams{
		PublicID:  remoteID,
		AssetType: api.Video,
	})
	if err != nil {
		return fmt.Errorf("cloudinary asset lookup failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, asset.SecureURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("cloudinary download failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cloudinary download failed: http %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return err
	}
	dst, err := os.Create(localPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, resp.Body)
	return err
}

func (c *Client) Delete(ctx context.Context, remoteID string) error {
	resp, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     remoteID,
		ResourceType: "video",
	})
	if err != nil {
		return fmt.Errorf("cloudinary delete failed: %w", err)
	}
	if resp.Result != "ok" && resp.Result != "not found" {
		return fmt.Errorf("cloudinary delete failed: %s", resp.Result)
	}
	return nil
}

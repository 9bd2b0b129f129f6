// Package gdrive implements ports.StorageProvider backed by Google Drive.
// The RemoteID is the Drive fileId; folders are Drive folders created on
// demand under a configured parent.
package gdrive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"quotereel/internal/media"
	"quotereel/internal/ports"
)

type Client struct {
	srv      *drive.Service
	parentID string

	mu      sync.Mutex
	folders map[string]string // folder name -> Drive folderId
}

func NewClient(srv *drive.Service, parentID string) *Client {
	return &Client{srv: srv, parentID: parentID, folders: make(map[string]string)}
}

func (c *Client) Provider() string { return "gdrive" }

func (c *Client) Upload(ctx context.Context, localPath, folder string) (ports.UploadResult, error) {
	folderID, err := c.folderID(ctx, folder)
	if err != nil {
		return ports.UploadResult{}, err
	}

	f, err := os.Open(localPath)
	if err != nil {
		return ports.UploadResult{}, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return ports.UploadResult{}, err
	}

	name := filepath.Base(localPath)
	file := &drive.File{Name: name, Parents: []string{folderID}}

	created, err := c.srv.Files.Create(file).
		Media(f, googleapi.ContentType("video/mp4")).
		Fields("id", "webViewLink", "fileExtension").
		Context(ctx).
		Do()
	if err != nil {
		return ports.UploadResult{}, fmt.Errorf("gdrive upload failed: %w", err)
	}

	res := ports.UploadResult{
		RemoteURL: created.WebViewLink,
		RemoteID:  created.Id,
		Format:    created.FileExtension,
		SizeBytes: st.Size(),
	}
	if res.Format == "" {
		res.Format = strings.TrimPrefix(filepath.Ext(name), ".")
	}
	if info, err := media.Probe(localPath); err == nil {
		res.DurationSeconds = info.Duration
	}
	return res, nil
}

func (c *Client) List(ctx context.Context, folder string) ([]ports.RemoteAssetMeta, error) {
	folderID, err := c.folderID(ctx, folder)
	if err != nil {
		return nil, err
	}

	var out []ports.RemoteAssetMeta
	pageToken := ""
	for {
		call := c.srv.Files.List().
			Q(fmt.Sprintf("'%s' in parents and trashed=false", folderID)).
			Fields("nextPageToken", "files(id, name, size)").
			PageSize(100).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		page, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("gdrive list failed: %w", err)
		}
		for _, f := range page.Files {
			out = append(out, ports.RemoteAssetMeta{
				RemoteID:  f.Id,
				Name:      f.Name,
				SizeBytes: f.Size,
			})
		}
		if page.NextPageToken == "" {
			return out, nil
		}
		pageToken = page.NextPageToken
	}
}

func (c *Client) Fetch(ctx context.Context, remoteID, localPath string) error {
	resp, err := c.srv.Files.Get(remoteID).
		SupportsAllDrives(true).
		Context(ctx).
		Download()
	if err != nil {
		return fmt.Errorf("gdrive download failed: %w", err)
	}
	defer resp.Body.Close()

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
	return c.srv.Files.Delete(remoteID).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
}

// folderID resolves (or creates) the Drive folder for a logical folder name,
// caching ids for the process lifetime.
func (c *Client) folderID(ctx context.Context, folder string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id, ok := c.folders[folder]; ok {
		return id, nil
	}

	q := fmt.Sprintf("name='%s' and mimeType='application/vnd.google-apps.folder' and trashed=false", folder)
	if c.parentID != "" {
		q += fmt.Sprintf(" and '%s' in parents", c.parentID)
	}

	list, err := c.srv.Files.List().Q(q).Fields("files(id)").PageSize(1).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("gdrive folder lookup failed: %w", err)
	}
	if len(list.Files) > 0 {
		c.folders[folder] = list.Files[0].Id
		return list.Files[0].Id, nil
	}

	meta := &drive.File{Name: folder, MimeType: "application/vnd.google-apps.folder"}
	if c.parentID != "" {
		meta.Parents = []string{c.parentID}
	}
	created, err := c.srv.Files.Create(meta).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("gdrive folder create failed: %w", err)
	}
	c.folders[folder] = created.Id
	return created.Id, nil
}

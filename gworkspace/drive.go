package gworkspace

import (
	"bytes"
	"context"
	"fmt"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"github.com/jfc974-droid/order-management-system/orders"
)

const fileFields = "id, name, mimeType, webViewLink"

func toFile(f *drive.File) orders.File {
	return orders.File{ID: f.Id, Name: f.Name, MimeType: f.MimeType, WebViewLink: f.WebViewLink}
}

func (d *Drive) Find(ctx context.Context, name, mimeType, parentID string) (orders.File, bool, error) {
	q := fmt.Sprintf("name='%s' and mimeType='%s' and trashed=false", escapeQuery(name), mimeType)
	if parentID != "" {
		q += fmt.Sprintf(" and '%s' in parents", escapeQuery(parentID))
	}
	res, err := d.drive.Files.List().Q(q).Fields(googleapi.Field("files(" + fileFields + ")")).
		Context(ctx).Do()
	if err != nil {
		return orders.File{}, false, fmt.Errorf("find %q: %w", name, err)
	}
	if len(res.Files) == 0 {
		return orders.File{}, false, nil
	}
	return toFile(res.Files[0]), true, nil
}

func (d *Drive) CreateFolder(ctx context.Context, name, parentID string) (orders.File, error) {
	meta := &drive.File{Name: name, MimeType: orders.MimeFolder}
	if parentID != "" {
		meta.Parents = []string{parentID}
	}
	f, err := d.drive.Files.Create(meta).Fields(fileFields).Context(ctx).Do()
	if err != nil {
		return orders.File{}, fmt.Errorf("create folder %q: %w", name, err)
	}
	return toFile(f), nil
}

// List returns every non-trashed file directly under parentID, all pages.
func (d *Drive) List(ctx context.Context, parentID string) ([]orders.File, error) {
	q := "trashed=false"
	if parentID != "" {
		q = fmt.Sprintf("'%s' in parents and trashed=false", escapeQuery(parentID))
	}
	var out []orders.File
	err := d.drive.Files.List().Q(q).Fields(googleapi.Field("nextPageToken, files("+fileFields+")")).
		Pages(ctx, func(page *drive.FileList) error {
			for _, f := range page.Files {
				out = append(out, toFile(f))
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("list folder %s: %w", parentID, err)
	}
	return out, nil
}

func (d *Drive) Upload(ctx context.Context, name, parentID, mimeType string, data []byte) (orders.File, error) {
	meta := &drive.File{Name: name}
	if parentID != "" {
		meta.Parents = []string{parentID}
	}
	f, err := d.drive.Files.Create(meta).
		Media(bytes.NewReader(data), googleapi.ContentType(mimeType)).
		Fields(fileFields).Context(ctx).Do()
	if err != nil {
		return orders.File{}, fmt.Errorf("upload %q: %w", name, err)
	}
	return toFile(f), nil
}

// Move adds parentID; the file keeps its current parents.
func (d *Drive) Move(ctx context.Context, fileID, parentID string) error {
	_, err := d.drive.Files.Update(fileID, &drive.File{}).AddParents(parentID).
		Fields("id, parents").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("move %s: %w", fileID, err)
	}
	return nil
}

func (d *Drive) Delete(ctx context.Context, fileID string) error {
	if err := d.drive.Files.Delete(fileID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete %s: %w", fileID, err)
	}
	return nil
}

var (
	_ orders.Documents = (*Drive)(nil)
	_ orders.Files     = (*Drive)(nil)
	_ orders.Workbook  = (*Workbook)(nil)
)

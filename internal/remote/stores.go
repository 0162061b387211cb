package remote

import (
	"context"

	"github.com/nobatyar/nobat/internal/models"
)

// Categories returns every category, newest first.
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := c.List(ctx, models.TableCategory, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Doctors returns every doctor with the category relation embedded,
// newest first.
func (c *Client) Doctors(ctx context.Context) ([]models.Doctor, error) {
	var out []models.Doctor
	if err := c.ListSelect(ctx, models.TableDoctor, "*,category(*)", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Requests returns every appointment request, newest first.
func (c *Client) Requests(ctx context.Context) ([]models.Request, error) {
	var out []models.Request
	if err := c.List(ctx, models.TableRequest, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TableStore binds the generic row operations to one table. It is the
// store collaborator the editor state machine works against.
type TableStore struct {
	Client *Client
	Table  string
}

// FetchOne returns the row with the given id, or nil when absent.
func (s TableStore) FetchOne(ctx context.Context, id string) (map[string]any, error) {
	return s.Client.FetchOne(ctx, s.Table, id)
}

// Create inserts a row.
func (s TableStore) Create(ctx context.Context, fields map[string]any) error {
	_, err := s.Client.CreateRow(ctx, s.Table, fields)
	return err
}

// Update patches the row with the given id.
func (s TableStore) Update(ctx context.Context, id string, fields map[string]any) error {
	_, err := s.Client.UpdateRow(ctx, s.Table, id, fields)
	return err
}

// Delete removes the row with the given id.
func (s TableStore) Delete(ctx context.Context, id string) error {
	return s.Client.DeleteRow(ctx, s.Table, id)
}

package editor

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Store is the remote collaborator a Driver runs machine requests
// against (see remote.TableStore).
type Store interface {
	FetchOne(ctx context.Context, id string) (map[string]any, error)
	Create(ctx context.Context, fields map[string]any) error
	Update(ctx context.Context, id string, fields map[string]any) error
}

// Driver runs a machine synchronously against a store. It is the
// headless counterpart of the dashboard's command loop, used by the
// scripted CLI paths — same machine, same guards, no event loop.
type Driver struct {
	Machine *Machine
	Store   Store
}

// Create opens a create session, applies fields and submits.
func (d *Driver) Create(ctx context.Context, fields map[string]string) error {
	d.Machine.OpenCreate()
	return d.fillAndSubmit(ctx, fields)
}

// Update opens an edit session for id, fetches the record, applies the
// changed fields over it and submits.
func (d *Driver) Update(ctx context.Context, id string, fields map[string]string) error {
	req, ok := d.Machine.OpenEdit(id)
	if !ok {
		return fmt.Errorf("record id is required")
	}

	record, err := d.Store.FetchOne(ctx, req.ID)
	d.Machine.ResolveFetch(req.Seq, record, err)
	if d.Machine.State() != StateEditing {
		if err != nil {
			d.Machine.Close()
			return err
		}
		return fmt.Errorf("%s", d.Machine.Config().Messages.NotFound)
	}

	return d.fillAndSubmit(ctx, fields)
}

func (d *Driver) fillAndSubmit(ctx context.Context, fields map[string]string) error {
	// Apply in stable order so slug derivation sees the name before any
	// explicit slug override.
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		d.Machine.SetField(k, fields[k])
	}

	req, ok := d.Machine.Submit()
	if !ok {
		errs := d.Machine.Errors()
		if len(errs) == 0 {
			return fmt.Errorf("submit rejected")
		}
		parts := make([]string, 0, len(errs))
		for _, f := range d.Machine.Config().Fields {
			if msg, found := errs[f.Key]; found {
				parts = append(parts, f.Key+": "+msg)
			}
		}
		return fmt.Errorf("validation failed:\n  %s", strings.Join(parts, "\n  "))
	}

	var err error
	if req.Mode == ModeEdit {
		err = d.Store.Update(ctx, req.ID, req.Payload)
	} else {
		err = d.Store.Create(ctx, req.Payload)
	}
	d.Machine.ResolveSubmit(req.Seq, err)
	return err
}
